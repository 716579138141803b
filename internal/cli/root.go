// Package cli implements the fxrental command line front end over the
// client core.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fxrental/client/internal/api"
	"github.com/fxrental/client/internal/auth"
	"github.com/fxrental/client/internal/config"
	"github.com/fxrental/client/internal/register"
	"github.com/fxrental/client/internal/session"
	"github.com/fxrental/client/internal/store"
)

// app holds the wired client core shared by all commands.
type app struct {
	cfg       *config.Config
	store     *store.SQLite
	api       *api.Client
	handshake *auth.Handshake
	tracker   *session.Tracker
	stdin     *bufio.Reader
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// newApp loads configuration and opens the local state store.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	st, err := store.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	client := api.New(cfg.API.BaseURL)
	return &app{
		cfg:       cfg,
		store:     st,
		api:       client,
		handshake: auth.NewHandshake(client, st),
		tracker:   session.NewTracker(client, st),
		stdin:     bufio.NewReader(os.Stdin),
	}, nil
}

// prompt reads one trimmed line from stdin.
func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, _ := a.stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question.
func (a *app) confirm(question string) bool {
	answer := strings.ToLower(a.prompt(question + " [y/N] "))
	return answer == "y" || answer == "yes"
}

// ConfirmPayment implements register.PaymentConfirmer over the terminal.
func (a *app) ConfirmPayment(prompt string) bool {
	return a.confirm(prompt)
}

// NavigateToLogin implements register.Navigator; for a CLI, navigation is a
// hint to the user.
func (a *app) NavigateToLogin() {
	fmt.Println("You can now sign in with: fxrental login")
}

var _ register.PaymentConfirmer = (*app)(nil)
var _ register.Navigator = (*app)(nil)

// Execute runs the CLI.
func Execute() {
	var configPath string

	root := &cobra.Command{
		Use:          "fxrental",
		Short:        "fxrental client for the currency rental platform",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(
		newLoginCommand(&configPath),
		newRegisterCommand(&configPath),
		newKYCCommand(&configPath),
		newSessionsCommand(&configPath),
		newWhoamiCommand(&configPath),
		newLogoutCommand(&configPath),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
