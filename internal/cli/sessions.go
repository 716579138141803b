package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxrental/client/internal/session"
)

func newSessionsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List sessions for the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sessions, err := a.tracker.FetchSessions(cmd.Context())
			if err != nil {
				if errors.Is(err, session.ErrNotAuthenticated) {
					return errors.New("not signed in; run: fxrental login")
				}
				return err
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions recorded.")
				return nil
			}
			for _, s := range sessions {
				fmt.Printf("%s  %s  %s  last active %s\n",
					s.ID, s.IP, s.UserAgent, s.LastActivity.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
