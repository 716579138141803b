package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWhoamiCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sess, ok, err := a.handshake.Session()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Not signed in.")
				return nil
			}

			role := "client"
			if sess.Profile.IsSuperuser {
				role = "admin"
			}
			fmt.Printf("%s <%s> (%s)\n", sess.Profile.DisplayName(), sess.Profile.Email, role)
			return nil
		},
	}
}
