package coursedesk

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/n2code/coursedesk/internal/alias"
	"github.com/n2code/coursedesk/internal/console"
	"github.com/n2code/coursedesk/internal/courses"
	"github.com/n2code/coursedesk/internal/fsnode"
	"github.com/n2code/coursedesk/internal/output"
	"github.com/n2code/coursedesk/internal/parsers"
)

func (d *desk) AddCourse(name string, semesterName string, skipConfirmation bool) (err error) {
	defer d.conclude("adding course", &err)
	var confirm fsnode.Confirmer
	if !skipConfirmation {
		confirm = d.Console
	}
	var created bool
	var path string
	semester, err := d.semester(semesterName)
	switch {
	case err == nil:
		d.warnIfAlias(name, semester)
		path = filepath.Join(semester.FullPath(), name)
		created, err = d.Courses.AddCourse(name, semester, confirm)
	case errors.Is(err, courses.ErrSemesterNotFound):
		if semesterName, err = d.newSemester(semesterName, err); err != nil {
			return
		}
		path = filepath.Join(d.Courses.MainDir().FullPath(), semesterName, name)
		created, err = d.Courses.AddCourseToNewSemester(name, semesterName, confirm)
	}
	if err != nil {
		return
	}
	if !created {
		if occupied, _ := afero.Exists(d.Fs, path); occupied {
			return newCommandError(fmt.Sprintf("cannot add course %s", name), fmt.Errorf("%s is not a directory", d.displayPath(path)))
		}
		d.Console.Warn("Course %s was not created.", name)
		return nil
	}
	d.Knowledge.AddEntry(name)
	d.Console.Info("Course %s is ready: %s", name, d.displayPath(path))
	return nil
}

// newSemester decides which configured semester directory to create. If none was requested and no
// semester exists at all the user picks one.
func (d *desk) newSemester(requested string, notFound error) (string, error) {
	if requested != "" {
		if !d.Courses.IsSemesterName(requested) {
			return "", notFound
		}
		return requested, nil
	}
	configured, err := d.Config.SemesterDirectories()
	if err != nil {
		return "", err
	}
	identity := func(name string) string { return name }
	return console.Choose(d.Console, configured, identity, console.ChoiceOptions{Message: "No semester exists yet. Which one do you start?"})
}

func (d *desk) warnIfAlias(name string, semester *fsnode.Node) {
	existing, err := d.Courses.Courses(semester)
	if err != nil {
		return
	}
	names := make([]string, 0, len(existing))
	for _, course := range existing {
		names = append(names, course.Name())
	}
	if known, found := d.Knowledge.Resolve(name, names); found && known != name {
		d.Console.Warn("%s is known as another name of course %s.", name, known)
	}
}

func (d *desk) OpenSite(query string, semesterName string) (err error) {
	defer d.conclude("opening course site", &err)
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	links, err := d.Courses.CourseURLs(course)
	if err != nil {
		return
	}
	display := func(link parsers.Link) string {
		return fmt.Sprintf("%-12s (%s)", link.Label, link.URL)
	}
	resolution, err := console.ResolveAmbiguity(d.Console, links, display, console.ChoiceOptions{Message: "URLs for " + course.Name()})
	if err != nil {
		return
	}
	if resolution.State == console.Unresolved {
		d.Console.Warn("The %s file in %s is empty.", d.Config.CourseURLsFile(), course.Name())
		return nil
	}
	if err = resolution.Err(); err != nil {
		return
	}
	d.Console.Verbose("Opening %s", resolution.Choice.URL)
	return d.Opener.Open(resolution.Choice.URL)
}

func (d *desk) AddSite(query string, semesterName string, address string, label string) (err error) {
	defer d.conclude("adding course site", &err)
	address = strings.TrimSpace(address)
	if address == "" || strings.ContainsAny(address, " \t\n") {
		return newCommandError(fmt.Sprintf("invalid URL %q", address), nil)
	}
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	link := parsers.Link{URL: address, Label: strings.TrimSpace(label)}
	if err = d.Courses.AddCourseURL(course, link); err != nil {
		return
	}
	d.Console.Info("Added %s to the links of %s", address, course.Name())
	return nil
}

func (d *desk) ShowSchedule(semesterName string) (err error) {
	defer d.conclude("showing schedule", &err)
	semester, err := d.semester(semesterName)
	if err != nil {
		return
	}
	schedule, found, err := d.Courses.ScheduleFile(semester)
	if err != nil {
		return
	}
	if !found {
		return newCommandError(fmt.Sprintf("no schedule %s in semester %s", d.Config.ScheduleFile(), semester.Name()), nil)
	}
	if info, statErr := d.Fs.Stat(schedule.FullPath()); statErr == nil {
		d.Console.Verbose("Showing %s, %s", d.displayPath(schedule.FullPath()), output.Filesize(info.Size()))
	}
	return d.Opener.ShowImage(schedule.FullPath())
}

func (d *desk) LinkMoodle(query string, semesterName string, moodleID string) (err error) {
	defer d.conclude("linking course with moodle", &err)
	moodleID = strings.TrimSpace(moodleID)
	if moodleID == "" || strings.ContainsAny(moodleID, " \t\n") {
		return newCommandError(fmt.Sprintf("invalid moodle id %q", moodleID), nil)
	}
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	if previous, err := d.Courses.MoodleIDForCourse(course); err == nil && previous != moodleID {
		d.Console.Info("Replacing previous moodle id %s", previous)
	}
	if err = d.Courses.LinkCourseWithMoodle(course, moodleID); err != nil {
		return
	}
	d.Console.Info("Course %s linked with moodle course %s", course.Name(), moodleID)
	return nil
}

func (d *desk) OpenMoodle(query string, semesterName string) (err error) {
	defer d.conclude("opening moodle", &err)
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	url, err := d.Courses.MoodleCourseURL(course)
	if err != nil {
		return
	}
	d.Console.Verbose("Opening %s", url)
	return d.Opener.Open(url)
}

func (d *desk) AddAlias(aliasName string, query string, semesterName string) (err error) {
	defer d.conclude("adding alias", &err)
	aliasName = strings.TrimSpace(aliasName)
	if aliasName == "" {
		return newCommandError("alias must not be empty", nil)
	}
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	if err = d.Knowledge.AddAlias(aliasName, course.Name()); err != nil {
		return
	}
	d.Courses.ClearCache()
	d.Console.Info("%s is now known as %s", course.Name(), aliasName)
	return nil
}

func (d *desk) RemoveAlias(aliasName string) (err error) {
	defer d.conclude("removing alias", &err)
	semesters, err := d.Courses.Semesters()
	if err != nil {
		return
	}
	for _, semester := range semesters {
		aliases, err := d.Courses.CourseAliases(semester)
		if err != nil {
			return err
		}
		if aliases.IsRoot(aliasName) {
			return newCommandError(fmt.Sprintf("cannot remove %s", aliasName),
				fmt.Errorf("%s is the name of a course directory in %s: %w", aliasName, semester.Name(), alias.ErrRootAlias))
		}
	}
	if !d.Knowledge.Forget(aliasName) {
		return newCommandError(fmt.Sprintf("cannot remove %s", aliasName), alias.ErrUnknownLabel)
	}
	d.Courses.ClearCache()
	d.Console.Info("Forgot %s", aliasName)
	return nil
}

func (d *desk) Close() (err error) {
	defer d.conclude("saving knowledge base", &err)
	return d.Knowledge.Close()
}
