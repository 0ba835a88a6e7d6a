// Package courses interprets the directory tree below the main directory as semesters containing courses.
package courses

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/n2code/coursedesk/internal/alias"
	"github.com/n2code/coursedesk/internal/fsnode"
)

var ErrSemesterNotFound = errors.New("semester not found")
var ErrCourseNotFound = errors.New("course not found")
var ErrInvalidCourseName = errors.New("invalid course name")

const (
	semestersCacheKey = "semesters"
	coursesCacheKey   = "courses"
	aliasesCacheKey   = "aliases"
)

var reservedCoursePrefixes = []string{"_", "."}

// Layout provides the configured names of the directory tree.
type Layout interface {
	MainDir() string
	SemesterDirectories() ([]string, error)
	CourseURLsFile() string
	MoodleConfigFile(courseName string) string
	ScheduleFile() string
	MoodleCourseURL(courseID string) string
}

// AliasResolver knows equivalent names of a course, the name itself included.
type AliasResolver interface {
	Aliases(name string) []string
}

type Handler struct {
	fs            *fsnode.Filesystem
	layout        Layout
	aliases       AliasResolver //optional
	semesterOrder map[string]int
	mainDir       *fsnode.Node
	log           zerolog.Logger
}

// NewHandler creates a handler for the configured main directory. aliases may be nil.
func NewHandler(fs *fsnode.Filesystem, layout Layout, aliases AliasResolver, log zerolog.Logger) (*Handler, error) {
	semesters, err := layout.SemesterDirectories()
	if err != nil {
		return nil, fmt.Errorf("semester directories not configured properly: %w", err)
	}
	order := make(map[string]int, len(semesters))
	for i, name := range semesters {
		order[name] = i
	}
	return &Handler{
		fs:            fs,
		layout:        layout,
		aliases:       aliases,
		semesterOrder: order,
		mainDir:       fs.Open(layout.MainDir(), fsnode.Directory),
		log:           log,
	}, nil
}

func (h *Handler) MainDir() *fsnode.Node {
	return h.mainDir
}

func (h *Handler) Layout() Layout {
	return h.layout
}

// IsCourseName decides by name only whether a directory may hold a course.
func IsCourseName(name string) bool {
	if name == "" {
		return false
	}
	for _, prefix := range reservedCoursePrefixes {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// IsSemesterName decides by name only whether a directory is a semester.
func (h *Handler) IsSemesterName(name string) bool {
	_, valid := h.semesterOrder[name]
	return valid
}

// Semesters lists all existing semester directories. A missing main directory holds no semesters.
func (h *Handler) Semesters() ([]*fsnode.Node, error) {
	return fsnode.Memoize(h.mainDir, semestersCacheKey, func() ([]*fsnode.Node, error) {
		if !h.mainDir.IsDir() {
			h.log.Warn().Str("path", h.mainDir.FullPath()).Msg("main directory does not exist")
			return []*fsnode.Node{}, nil
		}
		dirs, err := h.mainDir.Subdirectories(false)
		if err != nil {
			return nil, err
		}
		var semesters []*fsnode.Node
		for _, dir := range dirs {
			if h.IsSemesterName(dir.Name()) {
				semesters = append(semesters, dir.As(fsnode.Semester))
			}
		}
		return semesters, nil
	})
}

func (h *Handler) SemesterByName(name string) (*fsnode.Node, error) {
	semesters, err := h.Semesters()
	if err != nil {
		return nil, err
	}
	for _, semester := range semesters {
		if semester.Name() == name {
			return semester, nil
		}
	}
	return nil, fmt.Errorf("no semester named %s found: %w", name, ErrSemesterNotFound)
}

// SortedSemesters orders the semesters as configured, which is not necessarily lexical order.
func (h *Handler) SortedSemesters() ([]*fsnode.Node, error) {
	semesters, err := h.Semesters()
	if err != nil {
		return nil, err
	}
	sorted := append([]*fsnode.Node(nil), semesters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return h.semesterOrder[sorted[i].Name()] < h.semesterOrder[sorted[j].Name()]
	})
	return sorted, nil
}

// LatestSemester is the last existing semester in configured order.
func (h *Handler) LatestSemester() (*fsnode.Node, error) {
	sorted, err := h.SortedSemesters()
	if err != nil {
		return nil, err
	}
	if len(sorted) == 0 {
		return nil, fmt.Errorf("no semester directory in %s: %w", h.mainDir.FullPath(), ErrSemesterNotFound)
	}
	return sorted[len(sorted)-1], nil
}

func (h *Handler) resolveSemester(semester *fsnode.Node) (*fsnode.Node, error) {
	if semester != nil {
		return semester, nil
	}
	return h.LatestSemester()
}

// SemesterCourses lists the course directories of a semester node, memoized on that node.
func SemesterCourses(semester *fsnode.Node) ([]*fsnode.Node, error) {
	return fsnode.Memoize(semester, coursesCacheKey, func() ([]*fsnode.Node, error) {
		dirs, err := semester.Subdirectories(false)
		if err != nil {
			return nil, err
		}
		var courses []*fsnode.Node
		for _, dir := range dirs {
			if IsCourseName(dir.Name()) {
				courses = append(courses, dir.As(fsnode.Course))
			}
		}
		return courses, nil
	})
}

// Courses lists the courses of the given semester, or of the latest semester if semester is nil.
func (h *Handler) Courses(semester *fsnode.Node) ([]*fsnode.Node, error) {
	semester, err := h.resolveSemester(semester)
	if err != nil {
		return nil, err
	}
	return SemesterCourses(semester)
}

// FilterCourses keeps the courses of the semester (latest if nil) accepted by keep.
func (h *Handler) FilterCourses(semester *fsnode.Node, keep func(course *fsnode.Node) bool) ([]*fsnode.Node, error) {
	courses, err := h.Courses(semester)
	if err != nil {
		return nil, err
	}
	var kept []*fsnode.Node
	for _, course := range courses {
		if keep(course) {
			kept = append(kept, course)
		}
	}
	return kept, nil
}

// GetCourse looks up a course by its exact name.
func (h *Handler) GetCourse(name string, semester *fsnode.Node) (*fsnode.Node, error) {
	semester, err := h.resolveSemester(semester)
	if err != nil {
		return nil, err
	}
	courses, err := SemesterCourses(semester)
	if err != nil {
		return nil, err
	}
	for _, course := range courses {
		if course.Name() == name {
			return course, nil
		}
	}
	return nil, fmt.Errorf("no course named %s in semester %s: %w", name, semester.Name(), ErrCourseNotFound)
}

// FuzzyMatch reports whether label starts with query. Not so fuzzy for the moment.
func FuzzyMatch(query string, label string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.HasPrefix(strings.ToLower(label), strings.ToLower(query))
	}
	return strings.HasPrefix(label, query)
}

// CourseAliases maps the known aliases of the semester's courses (latest if nil) to the course names,
// every course name being a root. Memoized on the semester node.
func (h *Handler) CourseAliases(semester *fsnode.Node) (*alias.Map, error) {
	semester, err := h.resolveSemester(semester)
	if err != nil {
		return nil, err
	}
	return fsnode.Memoize(semester, aliasesCacheKey, func() (*alias.Map, error) {
		courses, err := SemesterCourses(semester)
		if err != nil {
			return nil, err
		}
		m := alias.NewMap()
		for _, course := range courses {
			m.AddRoot(course.Name())
		}
		if h.aliases == nil {
			return m, nil
		}
		for _, course := range courses {
			for _, name := range h.aliases.Aliases(course.Name()) {
				if err := m.AddAlias(name, course.Name()); err != nil {
					return nil, err
				}
			}
		}
		return m, nil
	})
}

// FindCourses returns the courses whose name, or any known alias of it, fuzzy matches query.
func (h *Handler) FindCourses(query string, semester *fsnode.Node) ([]*fsnode.Node, error) {
	aliases, err := h.CourseAliases(semester)
	if err != nil {
		return nil, err
	}
	return h.FilterCourses(semester, func(course *fsnode.Node) bool {
		if FuzzyMatch(query, course.Name(), true) {
			return true
		}
		for _, name := range aliases.Aliases(course.Name()) {
			if FuzzyMatch(query, name, true) {
				return true
			}
		}
		return false
	})
}

// CourseByAlias looks up the course that label is the exact name or a known alias of.
func (h *Handler) CourseByAlias(label string, semester *fsnode.Node) (*fsnode.Node, bool, error) {
	aliases, err := h.CourseAliases(semester)
	if err != nil {
		return nil, false, err
	}
	name, found := aliases.GetRoot(label)
	if !found {
		return nil, false, nil
	}
	course, err := h.GetCourse(name, semester)
	if err != nil {
		return nil, false, err
	}
	return course, true, nil
}

// AddCourse creates the course directory in the semester (latest if nil) and reports whether the
// directory exists afterwards, an already existing course counting as success. confirm may be nil.
// The course listing of the semester is refreshed after creation.
func (h *Handler) AddCourse(name string, semester *fsnode.Node, confirm fsnode.Confirmer) (bool, error) {
	if err := validateCourseName(name); err != nil {
		return false, err
	}
	semester, err := h.resolveSemester(semester)
	if err != nil {
		return false, err
	}
	path := filepath.Join(semester.FullPath(), name)
	exists, err := h.fs.EnsureDirectoryExists(path, confirm)
	if err != nil {
		return false, err
	}
	if exists {
		h.invalidate(semester)
	}
	return exists, nil
}

// AddCourseToNewSemester creates the course directory together with the directory of a configured
// semester that does not exist yet, asking confirm (if non-nil) for each of them.
func (h *Handler) AddCourseToNewSemester(name string, semesterName string, confirm fsnode.Confirmer) (bool, error) {
	if err := validateCourseName(name); err != nil {
		return false, err
	}
	if !h.IsSemesterName(semesterName) {
		return false, fmt.Errorf("%s is not a configured semester directory: %w", semesterName, ErrSemesterNotFound)
	}
	path := filepath.Join(h.mainDir.FullPath(), semesterName, name)
	exists, err := h.fs.EnsureDirectoriesExist(path, confirm, confirm, true)
	if err != nil {
		return false, err
	}
	if exists {
		h.ClearCache()
	}
	return exists, nil
}

func validateCourseName(name string) error {
	if !IsCourseName(name) || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%q: %w", name, ErrInvalidCourseName)
	}
	return nil
}

func (h *Handler) invalidate(semester *fsnode.Node) {
	semester.ClearCache()
	if cached, err := h.Semesters(); err == nil {
		for _, s := range cached {
			if s.Equal(semester) {
				s.ClearCache()
			}
		}
	}
}

// ClearCache forgets all listings so that out-of-band changes become visible.
func (h *Handler) ClearCache() {
	h.mainDir.ClearCache()
}
