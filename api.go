package coursedesk

// Desk lets you work with the semester and course directories configured in the components it was created from (see New).
// Every method taking a semester name resolves the empty name to the latest semester.
// Course queries are resolved by exact name or known alias first, then by case-insensitive prefix; if several
// courses match the user is asked to choose. Quitting such a choice makes the command a silent no-op.
type Desk interface {

	// ListCourses prints all courses of the semester, marking those linked with moodle.
	ListCourses(semester string) error

	// ListSemesters prints all existing semesters in configured order along with their number of courses.
	ListSemesters() error

	// PrintTree renders the semesters and their courses as a tree.
	// If a semester is given only that semester is shown.
	PrintTree(semester string) error

	// PrintCourseDir prints the absolute path of the course directory, suitable for shell substitution.
	PrintCourseDir(query string, semester string) error

	// AddCourse creates the directory of a new course after confirmation by the user (unless skipped).
	// Adding an existing course is not an error. The name is recorded in the knowledge base.
	// A configured semester without directory is created along with the course; if no semester exists at all
	// and none is given, the user picks one.
	AddCourse(name string, semester string, skipConfirmation bool) error

	// OpenSite lets the user choose a link of the course's link list and opens it.
	OpenSite(query string, semester string) error

	// AddSite appends a link to the course's link list, creating the list if necessary. The label is optional.
	AddSite(query string, semester string, url string, label string) error

	// ShowSchedule displays the schedule image of the semester.
	ShowSchedule(semester string) error

	// LinkMoodle records the moodle id of the course in the course's settings file.
	LinkMoodle(query string, semester string, moodleID string) error

	// ShowMoodle prints the moodle id and page of a linked course.
	ShowMoodle(query string, semester string) error

	// OpenMoodle opens the moodle page of a linked course.
	OpenMoodle(query string, semester string) error

	// AddAlias makes alias another name of the course. Aliases are persisted in the knowledge base on Close.
	AddAlias(alias string, query string, semester string) error

	// RemoveAlias forgets a single name. Other names of the same course stay related.
	// Names of existing course directories cannot be removed.
	RemoveAlias(alias string) error

	// ShowAliases prints all names known for the given name, or all alias groups if name is empty.
	ShowAliases(name string) error

	// ShowConfig prints the effective configuration and where it was read from.
	ShowConfig() error

	// Close persists pending changes of the knowledge base.
	Close() error
}
