// Package config reads the user configuration of coursedesk.
//
// Values come from a TOML file, environment variables prefixed with COURSEDESK_
// (dots replaced by underscores, e.g. COURSEDESK_DIRECTORIES_MAIN_DIR) and built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var ErrInvalidConversion = errors.New("invalid conversion")

const EnvPrefix = "COURSEDESK"

const (
	KeyMainDir             = "directories.main_dir"
	KeySemesterDirectories = "directories.semester_directories"
	KeyCourseURLsFile      = "directories.course_urls_file"
	KeyMoodleConfigFile    = "directories.moodle_config_file"
	KeyScheduleFile        = "directories.schedule_file"
	KeyKnowledgeFile       = "knowledge.file"
	KeyMoodleMainURL       = "moodle.main_url"
	KeyMoodleCourseURL     = "moodle.course_url"
	KeyOpenCommand         = "system.open_command"
	KeyImageCommand        = "system.image_command"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
)

const (
	courseNamePlaceholder = "{course_name}"
	courseIDPlaceholder   = "{course_id}"
	mainURLPlaceholder    = "{main_url}"
)

var DefaultSemesters = []string{"BA1", "BA2", "BA3", "BA4", "BA5", "BA6", "MA1", "MA2", "MA3", "MA4"}

// Environment describes the surroundings the defaults depend on.
type Environment struct {
	Home string
	OS   string //as in runtime.GOOS
}

type Config struct {
	v    *viper.Viper
	home string
}

// SearchPaths lists the configuration files tried in order if none is given explicitly.
func SearchPaths(home string) []string {
	return []string{
		filepath.Join(home, ".config", "coursedesk", "config.toml"),
		filepath.Join(home, ".coursedesk.toml"),
	}
}

// Load reads the configuration file at explicitFile, or the first existing file of SearchPaths.
// Without any file the defaults apply. An explicitly given file must exist.
func Load(fs afero.Fs, explicitFile string, env Environment) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v, env)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := explicitFile
	if file == "" {
		for _, candidate := range SearchPaths(env.Home) {
			if exists, _ := afero.Exists(fs, candidate); exists {
				file = candidate
				break
			}
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s failed: %w", file, err)
		}
	}

	return &Config{v: v, home: env.Home}, nil
}

func setDefaults(v *viper.Viper, env Environment) {
	v.SetDefault(KeyMainDir, "~/Documents/Studies")
	v.SetDefault(KeySemesterDirectories, DefaultSemesters)
	v.SetDefault(KeyCourseURLsFile, "site.url")
	v.SetDefault(KeyMoodleConfigFile, ".moodle."+courseNamePlaceholder)
	v.SetDefault(KeyScheduleFile, "schedule.png")
	v.SetDefault(KeyKnowledgeFile, "~/.config/coursedesk/knowledge.db")
	v.SetDefault(KeyMoodleMainURL, "https://moodle.epfl.ch")
	v.SetDefault(KeyMoodleCourseURL, mainURLPlaceholder+"/course/view.php?id="+courseIDPlaceholder)
	if env.OS == "darwin" {
		v.SetDefault(KeyOpenCommand, "open")
	} else {
		v.SetDefault(KeyOpenCommand, "xdg-open")
	}
	v.SetDefault(KeyImageCommand, "imgcat")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
}

// FileUsed names the configuration file that was read, empty if only defaults apply.
func (c *Config) FileUsed() string {
	return c.v.ConfigFileUsed()
}

// Set overrides a value, taking precedence over file and environment.
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

func (c *Config) String(key string) string {
	return c.v.GetString(key)
}

// Path returns the value of key with a leading "~" expanded to the home directory.
func (c *Config) Path(key string) string {
	return c.expandHome(c.v.GetString(key))
}

func (c *Config) expandHome(path string) string {
	if path == "~" {
		return c.home
	}
	if strings.HasPrefix(path, "~"+string(os.PathSeparator)) || strings.HasPrefix(path, "~/") {
		return filepath.Join(c.home, path[2:])
	}
	return path
}

// List returns a list-valued key. Besides native lists a string holding a JSON array is accepted,
// anything else fails with ErrInvalidConversion.
func (c *Config) List(key string) ([]string, error) {
	switch value := c.v.Get(key).(type) {
	case nil:
		return nil, nil
	case []string:
		return value, nil
	case []interface{}:
		list := make([]string, 0, len(value))
		for _, element := range value {
			list = append(list, fmt.Sprint(element))
		}
		return list, nil
	case string:
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			return nil, fmt.Errorf("%s: %q cannot be converted to a list: %w", key, value, ErrInvalidConversion)
		}
		elements, isList := decoded.([]interface{})
		if !isList {
			return nil, fmt.Errorf("%s: %q cannot be converted to a list: %w", key, value, ErrInvalidConversion)
		}
		list := make([]string, 0, len(elements))
		for _, element := range elements {
			list = append(list, fmt.Sprint(element))
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%s: %v cannot be converted to a list: %w", key, value, ErrInvalidConversion)
	}
}

func (c *Config) MainDir() string {
	return c.Path(KeyMainDir)
}

// SemesterDirectories is the ordered vocabulary of semester names, the last one being the most recent.
func (c *Config) SemesterDirectories() ([]string, error) {
	return c.List(KeySemesterDirectories)
}

// CourseSettings are the names of the files coursedesk looks for inside semester and course directories.
type CourseSettings struct {
	URLsFile           string
	MoodleFileTemplate string //contains {course_name}
	ScheduleFile       string
}

func (c *Config) CourseSettings() CourseSettings {
	return CourseSettings{
		URLsFile:           c.String(KeyCourseURLsFile),
		MoodleFileTemplate: c.String(KeyMoodleConfigFile),
		ScheduleFile:       c.String(KeyScheduleFile),
	}
}

// MoodleFile is the name of the per-course settings file for the given course.
func (s CourseSettings) MoodleFile(courseName string) string {
	return strings.ReplaceAll(s.MoodleFileTemplate, courseNamePlaceholder, courseName)
}

func (c *Config) CourseURLsFile() string {
	return c.CourseSettings().URLsFile
}

func (c *Config) MoodleConfigFile(courseName string) string {
	return c.CourseSettings().MoodleFile(courseName)
}

func (c *Config) ScheduleFile() string {
	return c.CourseSettings().ScheduleFile
}

func (c *Config) KnowledgeFile() string {
	return c.Path(KeyKnowledgeFile)
}

// MoodleMainURL is the address of the moodle instance, without trailing slash.
func (c *Config) MoodleMainURL() string {
	return strings.TrimRight(c.String(KeyMoodleMainURL), "/")
}

// MoodleCourseURL expands the course page template for the given course id.
// The template may refer to the main address as {main_url}.
func (c *Config) MoodleCourseURL(courseID string) string {
	template := strings.ReplaceAll(c.String(KeyMoodleCourseURL), mainURLPlaceholder, c.MoodleMainURL())
	return strings.ReplaceAll(template, courseIDPlaceholder, courseID)
}

func (c *Config) OpenCommand() string {
	return c.String(KeyOpenCommand)
}

func (c *Config) ImageCommand() string {
	return c.String(KeyImageCommand)
}

func (c *Config) LogLevel() string {
	return c.String(KeyLogLevel)
}

func (c *Config) LogFile() string {
	return c.Path(KeyLogFile)
}

// Dump renders the effective configuration, i.e. file, environment and defaults combined, as TOML.
func (c *Config) Dump() (string, error) {
	rendered, err := toml.Marshal(c.v.AllSettings())
	if err != nil {
		return "", fmt.Errorf("rendering configuration failed: %w", err)
	}
	return string(rendered), nil
}
