package courses

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n2code/coursedesk/internal/config"
	"github.com/n2code/coursedesk/internal/fsnode"
	"github.com/n2code/coursedesk/internal/parsers"
)

const mainDir = "/EPFL"

type fixture struct {
	fs      afero.Fs
	config  *config.Config
	handler *Handler
}

type staticAliases map[string][]string

func (a staticAliases) Aliases(name string) []string {
	return a[name]
}

type fixedAnswer bool

func (a fixedAnswer) Confirm(string, bool) (bool, error) {
	return bool(a), nil
}

func newFixture(t *testing.T, aliases AliasResolver) *fixture {
	fs := afero.NewMemMapFs()
	c, err := config.Load(fs, "", config.Environment{Home: "/home/student", OS: "linux"})
	require.NoError(t, err)
	c.Set(config.KeyMainDir, mainDir)
	handler, err := NewHandler(fsnode.NewFilesystem(fs, zerolog.Nop()), c, aliases, zerolog.Nop())
	require.NoError(t, err)
	return &fixture{fs: fs, config: c, handler: handler}
}

func coursesFor(semester string, n int) []string {
	var names []string
	for i := 1; i <= n; i++ {
		names = append(names, fmt.Sprintf("%sCourse%d", semester, i))
	}
	return names
}

func (f *fixture) write(t *testing.T, path string, content string) {
	require.NoError(t, afero.WriteFile(f.fs, path, []byte(content), 0o644))
}

func (f *fixture) createCourse(t *testing.T, semester string, course string, withMoodle bool, withSiteURL bool) {
	dir := filepath.Join(mainDir, semester, course)
	require.NoError(t, f.fs.MkdirAll(filepath.Join(dir, "Dir"+course), 0o755))
	f.write(t, filepath.Join(dir, "File"+course), "")
	if withSiteURL {
		f.write(t, filepath.Join(dir, "site.url"), fmt.Sprintf("http://google.com/?course_name=%s Google\n http://example.com example", course))
	}
	if withMoodle {
		f.write(t, filepath.Join(dir, ".moodle."+course), fmt.Sprintf("[course]\ncourse_name = %s\nmoodle_id = %d", course, 100))
	}
}

// createHierarchy builds the following tree for every semester:
//
//	EPFL
//	 ├─ BA3
//	 │   ├─ schedule.png
//	 │   ├─ BA3Course1
//	 │   │   ├─ site.url
//	 │   │   ├─ .moodle.BA3Course1
//	 │   │   ├─ FileBA3Course1
//	 │   │   └─ DirBA3Course1
//	 │   └─ ...
//	 └─ ...
func (f *fixture) createHierarchy(t *testing.T, semesters []string, coursesPerSemester int) {
	for _, semester := range semesters {
		require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, semester), 0o755))
		f.write(t, filepath.Join(mainDir, semester, "schedule.png"), "PNG")
		for _, course := range coursesFor(semester, coursesPerSemester) {
			f.createCourse(t, semester, course, true, true)
		}
	}
}

func names(nodes []*fsnode.Node) []string {
	var result []string
	for _, node := range nodes {
		result = append(result, node.Name())
	}
	return result
}

func TestSemestersListsOnlyExistingSemesters(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA2", "BA5", "MA1", "MA3"}, 2)
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "Misc"), 0o755))

	semesters, err := f.handler.Semesters()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"BA2", "BA5", "MA1", "MA3"}, names(semesters))
	for _, semester := range semesters {
		assert.Equal(t, fsnode.Semester, semester.Kind())
	}
}

func TestSemestersEmptyIfNothingExists(t *testing.T) {
	f := newFixture(t, nil)

	semesters, err := f.handler.Semesters()
	require.NoError(t, err)
	assert.Empty(t, semesters)

	require.NoError(t, f.fs.MkdirAll(mainDir, 0o755))
	f.handler.ClearCache()
	semesters, err = f.handler.Semesters()
	require.NoError(t, err)
	assert.Empty(t, semesters)
}

func TestIsSemesterName(t *testing.T) {
	f := newFixture(t, nil)
	for _, s := range config.DefaultSemesters {
		assert.True(t, f.handler.IsSemesterName(s))
	}
	assert.False(t, f.handler.IsSemesterName("BA7"))
}

func TestIsCourseName(t *testing.T) {
	assert.True(t, IsCourseName("Algorithms"))
	assert.True(t, IsCourseName("schedule.png"))
	assert.False(t, IsCourseName("_archive"))
	assert.False(t, IsCourseName(".git"))
	assert.False(t, IsCourseName(""))
}

func TestSortedSemestersFollowConfiguredOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"MA1", "BA4", "BA3"}, 1) //creation order differs on purpose

	sorted, err := f.handler.SortedSemesters()
	require.NoError(t, err)
	assert.Equal(t, []string{"BA3", "BA4", "MA1"}, names(sorted))

	latest, err := f.handler.LatestSemester()
	require.NoError(t, err)
	assert.Equal(t, "MA1", latest.Name())
}

func TestLatestSemesterIsNotLexical(t *testing.T) {
	f := newFixture(t, nil)
	f.config.Set(config.KeySemesterDirectories, []string{"Spring", "Autumn"})
	handler, err := NewHandler(fsnode.NewFilesystem(f.fs, zerolog.Nop()), f.config, nil, zerolog.Nop())
	require.NoError(t, err)
	f.createHierarchy(t, []string{"Autumn", "Spring"}, 1)

	latest, err := handler.LatestSemester()
	require.NoError(t, err)
	assert.Equal(t, "Autumn", latest.Name())
}

func TestLatestSemesterFailsWithoutSemesters(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.handler.LatestSemester()
	assert.ErrorIs(t, err, ErrSemesterNotFound)

	_, err = f.handler.Courses(nil)
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestSemesterByName(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA1"}, 1)

	semester, err := f.handler.SemesterByName("BA1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mainDir, "BA1"), semester.FullPath())

	_, err = f.handler.SemesterByName("NONEXISTING")
	assert.ErrorIs(t, err, ErrSemesterNotFound)
}

func TestCoursesDefaultToLatestSemester(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA3", "BA4", "MA1"}, 3)

	latest, err := f.handler.LatestSemester()
	require.NoError(t, err)
	expected, err := f.handler.Courses(latest)
	require.NoError(t, err)
	courses, err := f.handler.Courses(nil)
	require.NoError(t, err)

	assert.Equal(t, names(expected), names(courses))
	assert.Equal(t, coursesFor("MA1", 3), names(courses))
	for _, course := range courses {
		assert.Equal(t, fsnode.Course, course.Kind())
	}
}

func TestCoursesSkipReservedNames(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA1"}, 2)
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", "_old"), 0o755))
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", ".trash"), 0o755))

	courses, err := f.handler.Courses(nil)
	require.NoError(t, err)
	assert.Equal(t, coursesFor("BA1", 2), names(courses))
}

func TestCoursesPerSemester(t *testing.T) {
	f := newFixture(t, nil)
	counts := map[string]int{"BA1": 1, "BA2": 4, "MA2": 2}
	for semester, n := range counts {
		f.createHierarchy(t, []string{semester}, n)
	}

	sorted, err := f.handler.SortedSemesters()
	require.NoError(t, err)
	for _, semester := range sorted {
		courses, err := f.handler.Courses(semester)
		require.NoError(t, err)
		assert.Equal(t, coursesFor(semester.Name(), counts[semester.Name()]), names(courses))
		for _, name := range coursesFor(semester.Name(), counts[semester.Name()]) {
			course, err := f.handler.GetCourse(name, semester)
			require.NoError(t, err)
			assert.Equal(t, name, course.Name())
		}
	}
}

func TestGetCourseFailsForUnknownCourse(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA3"}, 2)

	_, err := f.handler.GetCourse("NONEXISTING", nil)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCourseListingIsCachedUntilCleared(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA3"}, 1)
	_, err := f.handler.Courses(nil)
	require.NoError(t, err)

	require.NoError(t, f.fs.Mkdir(filepath.Join(mainDir, "BA3", "OutOfBand"), 0o755))
	_, err = f.handler.GetCourse("OutOfBand", nil)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	f.handler.ClearCache()
	_, err = f.handler.GetCourse("OutOfBand", nil)
	assert.NoError(t, err)
}

func TestAddCourseWithoutSemesterUsesLatest(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, config.DefaultSemesters, 1)
	_, err := f.handler.Courses(nil) //fill the cache
	require.NoError(t, err)

	created, err := f.handler.AddCourse("NEWCOURSE1", nil, nil)
	require.NoError(t, err)
	assert.True(t, created)

	course, err := f.handler.GetCourse("NEWCOURSE1", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mainDir, "MA4", "NEWCOURSE1"), course.FullPath())
}

func TestAddCourseInGivenSemester(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, config.DefaultSemesters, 1)
	semester, err := f.handler.SemesterByName("BA2")
	require.NoError(t, err)

	for attempt := 0; attempt < 2; attempt++ {
		created, err := f.handler.AddCourse("NewCourse1", semester, nil)
		require.NoError(t, err)
		assert.True(t, created, "existing course counts as success")
		isDir, err := afero.DirExists(f.fs, filepath.Join(mainDir, "BA2", "NewCourse1"))
		require.NoError(t, err)
		assert.True(t, isDir)
	}
}

func TestAddCourseFailsIfFileHasSameName(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA5"}, 1)
	semester, err := f.handler.SemesterByName("BA5")
	require.NoError(t, err)

	created, err := f.handler.AddCourse("schedule.png", semester, nil)
	require.NoError(t, err)
	assert.False(t, created)
	isDir, _ := afero.DirExists(f.fs, filepath.Join(mainDir, "BA5", "schedule.png"))
	assert.False(t, isDir)
}

func TestAddCourseDeclined(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA5"}, 1)

	created, err := f.handler.AddCourse("Maybe", nil, fixedAnswer(false))
	require.NoError(t, err)
	assert.False(t, created)
	exists, _ := afero.Exists(f.fs, filepath.Join(mainDir, "BA5", "Maybe"))
	assert.False(t, exists)
}

func TestAddCourseRejectsInvalidNames(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA5"}, 1)

	for _, name := range []string{"_private", ".hidden", "", "a/b"} {
		_, err := f.handler.AddCourse(name, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidCourseName, name)
	}
}

func TestAddCourseToNewSemester(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA1"}, 1)
	_, err := f.handler.Semesters() //fill the cache
	require.NoError(t, err)

	created, err := f.handler.AddCourseToNewSemester("Topology", "BA2", nil)
	require.NoError(t, err)
	assert.True(t, created)

	latest, err := f.handler.LatestSemester()
	require.NoError(t, err)
	assert.Equal(t, "BA2", latest.Name())
	course, err := f.handler.GetCourse("Topology", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(mainDir, "BA2", "Topology"), course.FullPath())
}

func TestAddCourseToNewSemesterCreatesMainDirectory(t *testing.T) {
	f := newFixture(t, nil)

	created, err := f.handler.AddCourseToNewSemester("Topology", "MA1", fixedAnswer(true))
	require.NoError(t, err)
	assert.True(t, created)
	isDir, _ := afero.DirExists(f.fs, filepath.Join(mainDir, "MA1", "Topology"))
	assert.True(t, isDir)
}

func TestAddCourseToNewSemesterDeclined(t *testing.T) {
	f := newFixture(t, nil)

	created, err := f.handler.AddCourseToNewSemester("Topology", "MA1", fixedAnswer(false))
	require.NoError(t, err)
	assert.False(t, created)
	exists, _ := afero.Exists(f.fs, mainDir)
	assert.False(t, exists)
}

func TestAddCourseToNewSemesterRejectsUnconfiguredSemesters(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.handler.AddCourseToNewSemester("Topology", "Misc", nil)
	assert.ErrorIs(t, err, ErrSemesterNotFound)
	_, err = f.handler.AddCourseToNewSemester("_private", "MA1", nil)
	assert.ErrorIs(t, err, ErrInvalidCourseName)
	exists, _ := afero.Exists(f.fs, mainDir)
	assert.False(t, exists)
}

func TestFuzzyMatch(t *testing.T) {
	assert.True(t, FuzzyMatch("al", "Algorithms", true))
	assert.True(t, FuzzyMatch("al", "algorithms", true))
	assert.False(t, FuzzyMatch("lg", "Algorithms", true))
	assert.False(t, FuzzyMatch("al", "Algorithms", false))
	assert.True(t, FuzzyMatch("Al", "Algorithms", false))
	assert.True(t, FuzzyMatch("", "anything", true))
}

func TestFindCourses(t *testing.T) {
	f := newFixture(t, staticAliases{"Analysis": {"AnI", "Analysis", "Calculus"}})
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", "Analysis"), 0o755))
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", "Algebra"), 0o755))
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", "Physics"), 0o755))

	found, err := f.handler.FindCourses("a", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Algebra", "Analysis"}, names(found))

	found, err = f.handler.FindCourses("calc", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analysis"}, names(found))

	found, err = f.handler.FindCourses("chem", nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMoodleIDDependsOnFileExistence(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA4"}, 1)
	f.createCourse(t, "BA4", "NewCourse1", true, true)
	f.createCourse(t, "BA4", "NewCourse2", false, true)

	linked, err := f.handler.GetCourse("NewCourse1", nil)
	require.NoError(t, err)
	id, err := f.handler.MoodleIDForCourse(linked)
	require.NoError(t, err)
	assert.Equal(t, "100", id)
	assert.True(t, f.handler.IsLinkedWithMoodle(linked))

	unlinked, err := f.handler.GetCourse("NewCourse2", nil)
	require.NoError(t, err)
	_, err = f.handler.MoodleIDForCourse(unlinked)
	assert.ErrorIs(t, err, ErrCourseNotLinkedWithMoodle)
	assert.False(t, f.handler.IsLinkedWithMoodle(unlinked))

	_, err = f.handler.ReadMoodleConfig(unlinked)
	assert.ErrorIs(t, err, ErrMoodleConfigNotFound)
}

func TestLinkCourseWithMoodle(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA4"}, 1)
	f.createCourse(t, "BA4", "NewCourse1", true, true)
	f.createCourse(t, "BA4", "NewCourse2", false, true)

	course1, err := f.handler.GetCourse("NewCourse1", nil)
	require.NoError(t, err)
	oldID, err := f.handler.MoodleIDForCourse(course1)
	require.NoError(t, err)
	require.NoError(t, f.handler.LinkCourseWithMoodle(course1, oldID+"1"))
	newID, err := f.handler.MoodleIDForCourse(course1)
	require.NoError(t, err)
	assert.Equal(t, "1001", newID)

	course2, err := f.handler.GetCourse("NewCourse2", nil)
	require.NoError(t, err)
	require.NoError(t, f.handler.LinkCourseWithMoodle(course2, "1000"))
	id, err := f.handler.MoodleIDForCourse(course2)
	require.NoError(t, err)
	assert.Equal(t, "1000", id)
	written, err := afero.ReadFile(f.fs, filepath.Join(mainDir, "BA4", "NewCourse2", ".moodle.NewCourse2"))
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^moodle_id\s*=\s*1000$`, string(written))
	assert.NotContains(t, string(written), "'", "plain INI values")

	url, err := f.handler.MoodleCourseURL(course2)
	require.NoError(t, err)
	assert.Equal(t, "https://moodle.epfl.ch/course/view.php?id=1000", url)
}

func TestCourseURLs(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"MA1"}, 1)
	f.createCourse(t, "MA1", "NoLinks", true, false)

	course, err := f.handler.GetCourse("MA1Course1", nil)
	require.NoError(t, err)
	links, err := f.handler.CourseURLs(course)
	require.NoError(t, err)
	assert.Equal(t, []parsers.Link{
		{URL: "http://google.com/?course_name=MA1Course1", Label: "Google"},
		{URL: "http://example.com", Label: "example"},
	}, links)

	empty, err := f.handler.GetCourse("NoLinks", nil)
	require.NoError(t, err)
	_, err = f.handler.CourseURLs(empty)
	assert.ErrorIs(t, err, ErrCourseURLsFileNotFound)

	require.NoError(t, f.handler.AddCourseURL(empty, parsers.Link{URL: "https://exam.example.org", Label: "Exams"}))
	links, err = f.handler.CourseURLs(empty)
	require.NoError(t, err)
	assert.Equal(t, []parsers.Link{{URL: "https://exam.example.org", Label: "Exams"}}, links)
}

func TestScheduleFile(t *testing.T) {
	f := newFixture(t, nil)
	f.createHierarchy(t, []string{"BA3", "BA4"}, 1)

	schedule, found, err := f.handler.ScheduleFile(nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, filepath.Join(mainDir, "BA4", "schedule.png"), schedule.FullPath())

	require.NoError(t, f.fs.Remove(filepath.Join(mainDir, "BA4", "schedule.png")))
	f.handler.ClearCache()
	_, found, err = f.handler.ScheduleFile(nil)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCourseByAlias(t *testing.T) {
	f := newFixture(t, staticAliases{"Analysis": {"AnI", "Analysis"}})
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", "Analysis"), 0o755))
	require.NoError(t, f.fs.MkdirAll(filepath.Join(mainDir, "BA1", "Physics"), 0o755))

	course, found, err := f.handler.CourseByAlias("AnI", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Analysis", course.Name())

	course, found, err = f.handler.CourseByAlias("Physics", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Physics", course.Name())

	_, found, err = f.handler.CourseByAlias("ani", nil)
	require.NoError(t, err)
	assert.False(t, found, "exact lookup only")

	aliases, err := f.handler.CourseAliases(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Analysis", "Physics"}, aliases.Roots())
	assert.True(t, aliases.AreAliases("AnI", "Analysis"))
}
