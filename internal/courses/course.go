package courses

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/n2code/coursedesk/internal/fsnode"
	"github.com/n2code/coursedesk/internal/parsers"
)

var ErrCourseURLsFileNotFound = errors.New("course URLs file not found")
var ErrMoodleConfigNotFound = errors.New("moodle config file not found")
var ErrCourseNotLinkedWithMoodle = errors.New("course not linked with moodle")

// CourseURLs parses the link list of the course.
func (h *Handler) CourseURLs(course *fsnode.Node) ([]parsers.Link, error) {
	filename := h.layout.CourseURLsFile()
	content, _, err := course.ReadFile(filename, true)
	if err != nil {
		if errors.Is(err, fsnode.ErrFileNotFound) {
			return nil, fmt.Errorf("%s in %s: %w", filename, course.Name(), ErrCourseURLsFileNotFound)
		}
		return nil, err
	}
	return parsers.ParseLinks(content, h.log), nil
}

// AddCourseURL appends a link to the link list of the course, creating the file if needed.
func (h *Handler) AddCourseURL(course *fsnode.Node, link parsers.Link) error {
	links, err := h.CourseURLs(course)
	if err != nil && !errors.Is(err, ErrCourseURLsFileNotFound) {
		return err
	}
	links = append(links, link)
	return h.writeCourseFile(course, h.layout.CourseURLsFile(), parsers.FormatLinks(links))
}

func (h *Handler) moodleFilename(course *fsnode.Node) string {
	return h.layout.MoodleConfigFile(course.Name())
}

// ReadMoodleConfig parses the per-course moodle settings.
func (h *Handler) ReadMoodleConfig(course *fsnode.Node) (parsers.CourseConfig, error) {
	filename := h.moodleFilename(course)
	content, found, err := course.ReadFile(filename, false)
	if err != nil {
		return parsers.CourseConfig{}, err
	}
	if !found {
		return parsers.CourseConfig{}, fmt.Errorf("%s in %s: %w", filename, course.Name(), ErrMoodleConfigNotFound)
	}
	config, err := parsers.ParseCourseConfig(content)
	if err != nil {
		return parsers.CourseConfig{}, fmt.Errorf("%s in %s: %w", filename, course.Name(), err)
	}
	return config, nil
}

// MoodleIDForCourse returns the moodle id the course is linked with.
func (h *Handler) MoodleIDForCourse(course *fsnode.Node) (string, error) {
	config, err := h.ReadMoodleConfig(course)
	if errors.Is(err, ErrMoodleConfigNotFound) {
		return "", fmt.Errorf("%s: %w", course.Name(), ErrCourseNotLinkedWithMoodle)
	}
	if err != nil {
		return "", err
	}
	if config.Course.MoodleID == "" {
		return "", fmt.Errorf("%s has no moodle id: %w", course.Name(), ErrCourseNotLinkedWithMoodle)
	}
	return config.Course.MoodleID, nil
}

func (h *Handler) IsLinkedWithMoodle(course *fsnode.Node) bool {
	_, err := h.MoodleIDForCourse(course)
	return err == nil
}

// LinkCourseWithMoodle records the moodle id of the course, keeping other settings of an existing file.
func (h *Handler) LinkCourseWithMoodle(course *fsnode.Node, moodleID string) error {
	config, err := h.ReadMoodleConfig(course)
	if err != nil && !errors.Is(err, ErrMoodleConfigNotFound) {
		return err
	}
	if config.Course.Name == "" {
		config.Course.Name = course.Name()
	}
	config.Course.MoodleID = moodleID
	content, err := parsers.FormatCourseConfig(config)
	if err != nil {
		return err
	}
	h.log.Info().Str("course", course.Name()).Str("moodle_id", moodleID).Msg("linking course with moodle")
	return h.writeCourseFile(course, h.moodleFilename(course), content)
}

// MoodleCourseURL is the address of the moodle page of a linked course.
func (h *Handler) MoodleCourseURL(course *fsnode.Node) (string, error) {
	id, err := h.MoodleIDForCourse(course)
	if err != nil {
		return "", err
	}
	return h.layout.MoodleCourseURL(id), nil
}

func (h *Handler) writeCourseFile(course *fsnode.Node, filename string, content string) error {
	path := filepath.Join(course.FullPath(), filename)
	if err := afero.WriteFile(h.fs.Fs(), path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s failed: %w", path, err)
	}
	course.ClearCache()
	return nil
}

// ScheduleFile locates the schedule image of the semester (latest if nil).
func (h *Handler) ScheduleFile(semester *fsnode.Node) (file *fsnode.Node, found bool, err error) {
	semester, err = h.resolveSemester(semester)
	if err != nil {
		return nil, false, err
	}
	return semester.GetFile(h.layout.ScheduleFile())
}
