package parsers

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"
)

const (
	courseSection = "course"
	courseNameKey = "course_name"
	moodleIDKey   = "moodle_id"
)

// CourseConfig is the per-course settings file, INI style:
//
//	[course]
//	course_name = Algorithms
//	moodle_id = 100
type CourseConfig struct {
	Course CourseSection
}

type CourseSection struct {
	Name     string
	MoodleID string //empty if the course is not linked
}

// ParseCourseConfig reads the [course] section. Other sections are ignored and surrounding quotes
// of values are dropped, so "100" and 100 are the same moodle id.
func ParseCourseConfig(content string) (CourseConfig, error) {
	file, err := ini.Load([]byte(content))
	if err != nil {
		return CourseConfig{}, fmt.Errorf("course config malformed: %w", err)
	}
	section, err := file.GetSection(courseSection)
	if err != nil {
		return CourseConfig{}, nil //no [course] section, nothing configured
	}
	return CourseConfig{Course: CourseSection{
		Name:     section.Key(courseNameKey).String(),
		MoodleID: section.Key(moodleIDKey).String(),
	}}, nil
}

// FormatCourseConfig renders the config with plain unquoted values wherever possible.
func FormatCourseConfig(config CourseConfig) (string, error) {
	file := ini.Empty()
	section, err := file.NewSection(courseSection)
	if err != nil {
		return "", err
	}
	if config.Course.Name != "" {
		if _, err := section.NewKey(courseNameKey, config.Course.Name); err != nil {
			return "", err
		}
	}
	if config.Course.MoodleID != "" {
		if _, err := section.NewKey(moodleIDKey, config.Course.MoodleID); err != nil {
			return "", err
		}
	}
	var rendered bytes.Buffer
	if _, err := file.WriteTo(&rendered); err != nil {
		return "", err
	}
	return rendered.String(), nil
}
