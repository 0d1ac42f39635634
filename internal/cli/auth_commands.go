package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/liftledger/liftledger/internal/cliconfig"
	"github.com/liftledger/liftledger/remote"
)

func (a *App) runSignUp(ctx context.Context, args []string) error {
	return a.authenticate(ctx, "signup", args, func(ctx context.Context, client *remote.Client, email, password string) (remote.Identity, error) {
		return client.SignUp(ctx, email, password)
	})
}

func (a *App) runSignIn(ctx context.Context, args []string) error {
	return a.authenticate(ctx, "signin", args, func(ctx context.Context, client *remote.Client, email, password string) (remote.Identity, error) {
		return client.SignIn(ctx, email, password)
	})
}

func (a *App) authenticate(ctx context.Context, name string, args []string, auth func(context.Context, *remote.Client, string, string) (remote.Identity, error)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Err)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (or set LIFTLEDGER_PASSWORD)")
	server := fs.String("server", "", "server URL (remembered for later commands)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*email) == "" {
		return errors.New("-email is required")
	}
	pass := *password
	if pass == "" {
		pass = os.Getenv("LIFTLEDGER_PASSWORD")
	}
	if pass == "" {
		return errors.New("-password is required (or set LIFTLEDGER_PASSWORD)")
	}

	cfg, err := cliconfig.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(*server) != "" {
		cfg.ServerURL = strings.TrimSpace(*server)
	}

	client, err := remote.NewClient(cfg.ServerURL, remote.Options{Logger: a.Logger})
	if err != nil {
		return err
	}

	id, err := auth(ctx, client, strings.TrimSpace(*email), pass)
	if err != nil {
		return err
	}

	cfg.AccessToken, cfg.RefreshToken = client.Tokens()
	cfg.Identity = id
	if err := cliconfig.Save(a.ConfigPath, cfg); err != nil {
		return err
	}

	// A different account may have used this machine before.
	a.resetCache()

	fmt.Fprintf(a.Out, "Signed in as %s\n", id.Email)
	return nil
}

func (a *App) runSignOut(ctx context.Context) error {
	cfg, err := cliconfig.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if !cfg.SignedIn() {
		fmt.Fprintln(a.Out, "Not signed in")
		return nil
	}

	client, err := remote.NewClient(cfg.ServerURL, remote.Options{Logger: a.Logger})
	if err != nil {
		return err
	}
	client.Restore(cfg.Identity, cfg.AccessToken, cfg.RefreshToken)

	// Local state goes regardless; the server revocation is best effort.
	if err := client.SignOut(ctx); err != nil {
		a.Logger.Warn("server sign-out failed", "error", err)
	}

	cfg.ClearCredentials()
	if err := cliconfig.Save(a.ConfigPath, cfg); err != nil {
		return err
	}
	a.resetCache()

	fmt.Fprintln(a.Out, "Signed out")
	return nil
}
