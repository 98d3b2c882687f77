package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/reveriehq/reverie/internal/client/api"
	"github.com/reveriehq/reverie/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, username and password and creates an
// account on the backend. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	username, err := getSimpleText(a.reader, "Pick a username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	fmt.Print("Repeat ")
	confirm, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(confirm)

	if string(password) != string(confirm) {
		fmt.Println("Passwords do not match.")
		return nil
	}

	if err := a.client.Register(ctx, email, string(password), username); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			fmt.Println("Registration failed:", apiErr.Message)
			return nil
		}
		return err
	}
	fmt.Println("Account created.")

	// Fresh accounts go straight through onboarding.
	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		fmt.Println("Could not sign in automatically; use 'login'.")
		return nil
	}
	if err := a.session.Login(ctx, email, resp.Token, services.LoginOptions{RequireProfileSetup: true}, resp.User); err != nil {
		return err
	}

	a.journal.Load(ctx)
	fmt.Println("Signed in. Run 'profile' to set up your profile.")
	return nil
}

// Login authenticates against the backend, installs the session and switches
// the journal to the signed-in partition. Guest entries stay under the guest
// partition; they are not migrated.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		switch {
		case errors.Is(err, api.ErrUnavailable):
			fmt.Println("Server unavailable; your local journal stays accessible as guest.")
		case errors.Is(err, api.ErrUnauthorized):
			fmt.Println("Wrong email or password.")
		default:
			a.log.Error(ctx, "login failed", "error", err)
			fmt.Println("Login failed.")
		}
		return nil
	}

	if err := a.session.Login(ctx, email, resp.Token, services.LoginOptions{}, resp.User); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fmt.Println("Wrong email or password.")
			return nil
		}
		return err
	}

	a.journal.Load(ctx)
	go a.journal.Sync(ctx)

	fmt.Println("Welcome back,", email)
	if !a.session.Current().HasProfile {
		fmt.Println("Your profile is incomplete. Run 'profile' to finish onboarding.")
	}
	return nil
}

// Logout drops the session and reloads the journal from the guest partition.
func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.journal.Load(ctx)
	fmt.Println("Logged out.")
}
