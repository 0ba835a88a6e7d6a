package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/n2code/coursedesk"
	"github.com/n2code/coursedesk/cmd/coursedesk/flags"
)

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "coursedesk",
		Short: "Personal assistant for semester and course directories",
		Long: `coursedesk keeps track of the semester and course directories below the main
directory (see directories.main_dir in the configuration) and gets you to the
course material quickly.

COURSE arguments are prefixes of course names or of known aliases, matched
case-insensitively. If several courses match you are asked to choose one.
Without --semester the latest existing semester is used.

Examples:
  coursedesk courses            List the courses of the latest semester
  coursedesk dir algo           Print the directory of the course "Algorithms"
  coursedesk site algo -s BA3   Open a link of the course in semester BA3
  coursedesk alias add DS dist  Make "DS" an alias of "Distributed Systems"`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().BoolVarP(&a.verbose, flags.Verbose, flags.VerboseShort, false, "output more details on what is done (verbose mode)")
	root.PersistentFlags().BoolVarP(&a.quiet, flags.Quiet, flags.QuietShort, false, "output as little as possible, i.e. only requested information (quiet mode)")
	root.PersistentFlags().StringVar(&a.configFile, flags.Config, "", "config file (default is ~/.config/coursedesk/config.toml)")

	root.AddCommand(
		newCoursesCommand(a),
		newSemestersCommand(a),
		newTreeCommand(a),
		newAddCommand(a),
		newSiteCommand(a),
		newDirCommand(a),
		newScheduleCommand(a),
		newMoodleCommand(a),
		newAliasCommand(a),
		newConfigCommand(a),
	)
	return root
}

// action assembles the desk before running do.
func (a *app) action(do func(desk coursedesk.Desk, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(); err != nil {
			return err
		}
		return do(a.desk, args)
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}
	return nil
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func maximumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// query joins the words of a course argument, so quoting "Distributed Systems" is optional.
func query(words []string) string {
	return strings.Join(words, " ")
}

func semesterFlag(cmd *cobra.Command, semester *string) {
	cmd.Flags().StringVarP(semester, flags.Semester, flags.SemesterShort, "", "semester directory to use instead of the latest one")
}

func newCoursesCommand(a *app) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List the courses of a semester",
		Args:  noArgs,
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.ListCourses(semester)
		}),
	}
	semesterFlag(cmd, &semester)
	return cmd
}

func newSemestersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "semesters",
		Short: "List the semesters in configured order",
		Args:  noArgs,
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.ListSemesters()
		}),
	}
}

func newTreeCommand(a *app) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Display semesters and their courses as a tree",
		Long: `Display semesters and their courses as a tree.

Courses linked with moodle are marked with a dot.`,
		Args: noArgs,
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.PrintTree(semester)
		}),
	}
	semesterFlag(cmd, &semester)
	return cmd
}

func newAddCommand(a *app) *cobra.Command {
	var semester string
	var skipConfirmation bool
	cmd := &cobra.Command{
		Use:   "add COURSE",
		Short: "Create the directory of a new course",
		Long: `Create the directory of a new course in the semester.

COURSE is taken literally here, i.e. it becomes the directory name.
Adding a course that exists already is not an error.`,
		Args: minimumArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.AddCourse(query(args), semester, skipConfirmation)
		}),
	}
	semesterFlag(cmd, &semester)
	cmd.Flags().BoolVarP(&skipConfirmation, flags.AddWithoutConfirmation, flags.AddWithoutConfirmationShort, false, "do not ask before creating the directory")
	return cmd
}

func newSiteCommand(a *app) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "site COURSE",
		Short: "Open a link of the course",
		Long: `Open a link from the link list of the course (site.url by default).

Every line of the list holds a URL optionally followed by a label:
  https://example.org/algorithms Course page
If the list holds several links you are asked which one to open.`,
		Args: minimumArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.OpenSite(query(args), semester)
		}),
	}
	cmd.PersistentFlags().StringVarP(&semester, flags.Semester, flags.SemesterShort, "", "semester directory to use instead of the latest one")

	cmd.AddCommand(&cobra.Command{
		Use:   "add COURSE URL [LABEL]",
		Short: "Add a link to the course",
		Long: `Append a link to the link list of the course, creating the list if necessary.

Quote COURSE if it consists of several words, all words after URL form the label.`,
		Args: minimumArgs(2),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.AddSite(args[0], semester, args[1], query(args[2:]))
		}),
	})
	return cmd
}

func newDirCommand(a *app) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "dir COURSE",
		Short: "Print the directory of the course",
		Long: `Print the absolute path of the course directory, e.g. for
  cd "$(coursedesk dir algo)"`,
		Args: minimumArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.PrintCourseDir(query(args), semester)
		}),
	}
	semesterFlag(cmd, &semester)
	return cmd
}

func newScheduleCommand(a *app) *cobra.Command {
	var semester string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Display the schedule image of the semester",
		Args:  noArgs,
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.ShowSchedule(semester)
		}),
	}
	semesterFlag(cmd, &semester)
	return cmd
}

func newMoodleCommand(a *app) *cobra.Command {
	var semester string
	moodleCmd := &cobra.Command{
		Use:   "moodle",
		Short: "Manage the link between courses and moodle",
	}
	moodleCmd.PersistentFlags().StringVarP(&semester, flags.Semester, flags.SemesterShort, "", "semester directory to use instead of the latest one")

	moodleCmd.AddCommand(&cobra.Command{
		Use:   "link COURSE ID",
		Short: "Link the course with a moodle course",
		Long: `Link the course with the moodle course ID, as found in its address:
  https://moodle.epfl.ch/course/view.php?id=ID`,
		Args: minimumArgs(2),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.LinkMoodle(query(args[:len(args)-1]), semester, args[len(args)-1])
		}),
	})
	moodleCmd.AddCommand(&cobra.Command{
		Use:   "show COURSE",
		Short: "Print the moodle address of the course",
		Args:  minimumArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.ShowMoodle(query(args), semester)
		}),
	})
	moodleCmd.AddCommand(&cobra.Command{
		Use:   "open COURSE",
		Short: "Open the moodle page of the course",
		Args:  minimumArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.OpenMoodle(query(args), semester)
		}),
	})
	return moodleCmd
}

func newAliasCommand(a *app) *cobra.Command {
	var semester string
	aliasCmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage alternative names of courses",
		Long: `Manage alternative names of courses.

Aliases are stored in the knowledge base and can be used wherever a COURSE
is expected, both literally and as a prefix.`,
	}

	addCmd := &cobra.Command{
		Use:   "add ALIAS COURSE",
		Short: "Make ALIAS an alternative name of the course",
		Args:  minimumArgs(2),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.AddAlias(args[0], query(args[1:]), semester)
		}),
	}
	semesterFlag(addCmd, &semester)
	aliasCmd.AddCommand(addCmd)

	aliasCmd.AddCommand(&cobra.Command{
		Use:   "rm ALIAS",
		Short: "Forget an alias",
		Args:  exactArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.RemoveAlias(args[0])
		}),
	})
	aliasCmd.AddCommand(&cobra.Command{
		Use:   "show [NAME]",
		Short: "List the aliases of a name, or all known aliases",
		Args:  maximumArgs(1),
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return desk.ShowAliases(name)
		}),
	})
	return aliasCmd
}

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration in TOML, combining the configuration file,
environment variables (COURSEDESK_ prefix) and built-in defaults.`,
		Args: noArgs,
		RunE: a.action(func(desk coursedesk.Desk, args []string) error {
			return desk.ShowConfig()
		}),
	}
}
