package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxrental/client/internal/auth"
)

func newLoginCommand(configPath *string) *cobra.Command {
	var email, password, googleToken string
	var useGoogle bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and establish a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			if useGoogle && googleToken == "" {
				googleToken, err = a.googleConsent(cmd)
				if err != nil {
					return err
				}
			}
			if email == "" && googleToken == "" {
				email = a.prompt("Email: ")
			}
			if password == "" && googleToken == "" {
				password = a.prompt("Password: ")
			}

			var target auth.LandingTarget
			if googleToken != "" {
				_, target, err = a.handshake.LoginWithGoogle(cmd.Context(), googleToken)
			} else {
				_, target, err = a.handshake.Login(cmd.Context(), email, password)
			}
			if err != nil {
				var rateErr *auth.RateLimitedError
				switch {
				case errors.Is(err, auth.ErrOffline):
					return errors.New("you appear to be offline; check your connection and try again")
				case errors.As(err, &rateErr):
					return fmt.Errorf("account temporarily locked: %s", rateErr.Error())
				default:
					return err
				}
			}

			a.tracker.RecordActivity()

			switch target {
			case auth.TargetAdmin:
				fmt.Println("Signed in. Opening the admin dashboard.")
			default:
				fmt.Println("Signed in. Opening your dashboard.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&useGoogle, "google", false, "sign in with Google")
	cmd.Flags().StringVar(&googleToken, "google-token", "", "Google identity token (skips the consent flow)")
	return cmd
}

// googleConsent walks the auth-code flow in the terminal and returns the
// identity token for the backend's google-login endpoint.
func (a *app) googleConsent(cmd *cobra.Command) (string, error) {
	if a.cfg.Google.ClientID == "" {
		return "", errors.New("google sign-in is not configured; set google.client_id in the config file")
	}

	provider := &auth.GoogleProvider{
		ClientID:     a.cfg.Google.ClientID,
		ClientSecret: a.cfg.Google.ClientSecret,
		RedirectURL:  a.cfg.Google.RedirectURL,
	}

	fmt.Println("Open this URL in your browser and approve access:")
	fmt.Println("  " + provider.AuthCodeURL("fxrental-cli"))
	code := a.prompt("Paste the code shown after approval: ")
	if code == "" {
		return "", errors.New("no authorization code provided")
	}
	return provider.ExchangeCode(cmd.Context(), code)
}
