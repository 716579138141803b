package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProvider obtains the Google identity token the backend's
// google-login endpoint expects. The CLI drives the auth-code flow; a web
// host would hand the token over directly.
type GoogleProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	config *oauth2.Config
}

func (p *GoogleProvider) ensureConfig() {
	if p.config == nil {
		p.config = &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}
}

// AuthCodeURL returns the consent page URL for the given state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	p.ensureConfig()
	return p.config.AuthCodeURL(state)
}

// ExchangeCode trades the consent code for the identity token to submit to
// the backend.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	p.ensureConfig()
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange google auth code: %w", err)
	}
	if id, ok := token.Extra("id_token").(string); ok && id != "" {
		return id, nil
	}
	return token.AccessToken, nil
}
