package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{settings: defaultSettings()}

	cmd := &cobra.Command{
		Use:   "taskctl",
		Short: "Manage your tasks from the terminal",
		Long: `taskctl talks to the task-manager API.

Log in once, then list, add, complete, edit, reorder and delete tasks
and categories. The session token is kept in ~/.taskctl/session.yaml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.settings.apiURL, "api-url", a.settings.apiURL, "API base URL (TASKCTL_API_URL)")
	flags.StringVar(&a.settings.tokenFile, "token-file", a.settings.tokenFile, "session file (TASKCTL_TOKEN_FILE)")
	flags.StringVar(&a.settings.logFile, "log-file", a.settings.logFile, "log file (TASKCTL_LOG_FILE)")
	flags.StringVar(&a.settings.logLevel, "log-level", a.settings.logLevel, "log level")

	cmd.AddCommand(
		newSignupCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newToggleCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newMoveCmd(a),
		newCategoriesCmd(a),
	)

	return cmd
}
