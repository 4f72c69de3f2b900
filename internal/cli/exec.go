package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command line>",
		Short: "Run one console command and exit",
		Long: "Run a single console command, e.g.\n\n" +
			"  hbnb exec create State\n" +
			"  hbnb exec -- 'User.update(\"1234\", {\"first_name\": \"Betty\"})'\n\n" +
			"Arguments are joined with spaces into one command line.",
		Args: cobra.MinimumNArgs(1),
		RunE: runExec,
	}
}

func runExec(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	sess.console(cmd.OutOrStdout()).Exec(strings.Join(args, " "))
	return sess.close()
}
