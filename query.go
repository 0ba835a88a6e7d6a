package coursedesk

import (
	"fmt"
	"strings"

	"github.com/n2code/coursedesk/internal/console"
	"github.com/n2code/coursedesk/internal/fsnode"
	"github.com/n2code/coursedesk/internal/output"
)

func (d *desk) semester(name string) (*fsnode.Node, error) {
	if name == "" {
		return d.Courses.LatestSemester()
	}
	return d.Courses.SemesterByName(name)
}

// course resolves a user query to exactly one course of the semester, asking the user if necessary.
func (d *desk) course(query string, semesterName string) (*fsnode.Node, error) {
	semester, err := d.semester(semesterName)
	if err != nil {
		return nil, err
	}
	if course, found, err := d.Courses.CourseByAlias(query, semester); err != nil {
		return nil, err
	} else if found {
		return course, nil
	}

	candidates, err := d.Courses.FindCourses(query, semester)
	if err != nil {
		return nil, err
	}
	resolution, err := console.ResolveAmbiguity(d.Console, candidates, (*fsnode.Node).Name, console.ChoiceOptions{Message: "What course do you want?"})
	if err != nil {
		return nil, err
	}
	if resolution.State == console.Unresolved {
		return nil, fmt.Errorf("no course of %s matches %q: %w", semester.Name(), query, resolution.Err())
	}
	if err := resolution.Err(); err != nil {
		return nil, err
	}
	return resolution.Choice, nil
}

func (d *desk) ListCourses(semesterName string) (err error) {
	defer d.conclude("listing courses", &err)
	semester, err := d.semester(semesterName)
	if err != nil {
		return
	}
	courses, err := d.Courses.Courses(semester)
	if err != nil {
		return
	}
	d.Console.Print("All courses for semester %s:", semester.Name())
	for _, course := range courses {
		line := "- " + course.Name()
		if id, err := d.Courses.MoodleIDForCourse(course); err == nil {
			line += d.Console.Dim(" [moodle " + id + "]")
		}
		d.Console.Print("%s", line)
	}
	if len(courses) == 0 {
		d.Console.Info("(none yet, see the add command)")
	}
	return nil
}

func (d *desk) ListSemesters() (err error) {
	defer d.conclude("listing semesters", &err)
	semesters, err := d.Courses.SortedSemesters()
	if err != nil {
		return
	}
	if len(semesters) == 0 {
		d.Console.Warn("No semester directories found in %s", d.displayPath(d.Courses.MainDir().FullPath()))
		return nil
	}
	for i, semester := range semesters {
		courses, err := d.Courses.Courses(semester)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("- %s (%s)", semester.Name(), output.Count(len(courses), "course", "courses"))
		if i == len(semesters)-1 {
			line += " (latest)"
		}
		d.Console.Print("%s", line)
	}
	return nil
}

func (d *desk) PrintTree(semesterName string) (err error) {
	defer d.conclude("printing tree", &err)
	var semesters []*fsnode.Node
	if semesterName == "" {
		if semesters, err = d.Courses.SortedSemesters(); err != nil {
			return
		}
	} else {
		semester, err := d.Courses.SemesterByName(semesterName)
		if err != nil {
			return err
		}
		semesters = []*fsnode.Node{semester}
	}
	latest, _ := d.Courses.LatestSemester() //nil if there are no semesters at all

	tree := output.NewVisualTree(d.displayPath(d.Courses.MainDir().FullPath()))
	for _, semester := range semesters {
		label := semester.Name()
		if semester.Equal(latest) {
			label += d.Console.Dim(" (latest)")
		}
		tree.InsertBranch(semester.Name(), label)
		courses, err := d.Courses.Courses(semester)
		if err != nil {
			return err
		}
		for _, course := range courses {
			marker := ""
			if d.Courses.IsLinkedWithMoodle(course) {
				marker = "● "
			}
			tree.InsertPath(semester.Name()+"/"+course.Name(), marker)
		}
	}
	d.Console.Print("%s", strings.TrimRight(tree.Render(), "\n"))
	return nil
}

func (d *desk) PrintCourseDir(query string, semesterName string) (err error) {
	defer d.conclude("locating course", &err)
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	d.Console.Print("%s", course.FullPath())
	return nil
}

func (d *desk) ShowMoodle(query string, semesterName string) (err error) {
	defer d.conclude("showing moodle link", &err)
	course, err := d.course(query, semesterName)
	if err != nil {
		return
	}
	id, err := d.Courses.MoodleIDForCourse(course)
	if err != nil {
		return
	}
	url, err := d.Courses.MoodleCourseURL(course)
	if err != nil {
		return
	}
	d.Console.Print("%s: moodle course %s", course.Name(), id)
	d.Console.Print("%s", url)
	return nil
}

func (d *desk) ShowAliases(name string) (err error) {
	defer d.conclude("showing aliases", &err)
	if name == "" {
		groups := d.Knowledge.Groups()
		for _, group := range groups {
			d.Console.Print("%s", strings.Join(group, " = "))
		}
		if len(groups) == 0 {
			d.Console.Info("The knowledge base is empty.")
		}
		return nil
	}
	var others []string
	for _, known := range d.Knowledge.Aliases(name) {
		if known != name {
			others = append(others, known)
		}
	}
	if len(others) == 0 {
		d.Console.Info("No aliases known for %s", name)
		return nil
	}
	d.Console.Print("%s of %s:", output.Plural(len(others), "Alias", "Aliases"), name)
	d.Console.Print("%s", output.Indent(2, strings.Join(others, "\n")))
	return nil
}

func (d *desk) ShowConfig() (err error) {
	defer d.conclude("showing configuration", &err)
	dump, err := d.Config.Dump()
	if err != nil {
		return
	}
	if file := d.Config.FileUsed(); file != "" {
		d.Console.Info("# read from %s", d.displayPath(file))
	} else {
		d.Console.Info("# no configuration file, defaults apply")
	}
	d.Console.Print("%s", strings.TrimRight(dump, "\n"))
	return nil
}
