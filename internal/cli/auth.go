package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/models"
)

// getSimpleText and getPassword are indirections for testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials, authenticates, and rehydrates the active
// collection from the backend listing.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	ident, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.identity = ident
	fmt.Printf("Logged in as %s (%s).\n", ident.Username, ident.Role)

	if n, err := a.sync.Rehydrate(ctx, ident.Username, a.activeCol); err == nil {
		fmt.Printf("%d document(s) available.\n", n)
	}
	return nil
}

// Signup registers a new account. Per backend contract it does not log the
// user in; an explicit login follows.
func (a *App) Signup(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Full name (optional)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	_, err = a.auth.Signup(ctx, api.SignupRequest{
		Username: username,
		Password: password,
		FullName: fullName,
		Role:     models.RoleReader,
	})
	if err != nil {
		return err
	}
	printlnFn("Account created. Use 'login' to sign in.")
	return nil
}

// Logout drops the identity from memory and disk. It always succeeds
// locally, backend reachable or not.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	a.identity = nil
	a.chat.Reset()
	printlnFn("Logged out.")
	return nil
}
