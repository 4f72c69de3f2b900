package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hbnb/internal/console"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Long: "Read commands from standard input until quit or end of input.\n" +
			"The prompt is shown only when standard input is a terminal.",
		Args: cobra.NoArgs,
		RunE: runConsole,
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	var opts []console.Option
	if isTerminal(in) {
		opts = append(opts, console.WithPrompt(sess.settings.prompt))
	}

	runErr := sess.console(cmd.OutOrStdout(), opts...).Run(in)
	if err := sess.close(); err != nil {
		return err
	}
	if runErr != nil {
		return sysError(runErr)
	}
	return nil
}
