// Package cli implements the liftledger terminal client. Commands run
// against a remote server through the same session layer the mobile apps
// use, with credentials and the local cache kept under ~/.config/liftledger.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/liftledger/liftledger/cache"
	"github.com/liftledger/liftledger/internal/cliconfig"
	"github.com/liftledger/liftledger/remote"
	"github.com/liftledger/liftledger/session"
)

type App struct {
	ConfigPath string
	Out        io.Writer
	Err        io.Writer
	Logger     *slog.Logger
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errors.New("no command given")
	}

	switch cmd := args[0]; cmd {
	case "signup":
		return a.runSignUp(ctx, args[1:])
	case "signin":
		return a.runSignIn(ctx, args[1:])
	case "signout":
		return a.runSignOut(ctx)
	case "profile":
		return a.runProfile(ctx, args[1:])
	case "exercises":
		return a.runExercises(ctx)
	case "add-exercise":
		return a.runAddExercise(ctx, args[1:])
	case "rm-exercise":
		return a.runRemoveExercise(ctx, args[1:])
	case "log":
		return a.runLog(ctx, args[1:])
	case "rm-set":
		return a.runRemoveSet(ctx, args[1:])
	case "today":
		return a.runToday(ctx)
	case "sync":
		return a.runSync(ctx)
	case "history":
		return a.runHistory(ctx, args[1:])
	case "export":
		return a.runExport(ctx, args[1:])
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.Err, `Usage: liftledger [flags] <command> [command flags]

Account:
  signup        create an account and sign in
  signin        sign in to an existing account
  signout       sign out and clear local state
  profile       show or update the display name

Training:
  exercises     list active exercises
  add-exercise  create an exercise
  rm-exercise   archive an exercise (history keeps its name)
  log           record a set for today
  rm-set        delete one of today's sets
  today         show today's workout and totals
  sync          refresh local state from the server

Reports:
  history       list workouts in a date range, newest first
  export        write training history as CSV

Run 'liftledger <command> -h' for command flags.
`)
}

// withSession dials the remote store with stored credentials, attaches the
// on-disk cache and hands a live session to fn. Rotated tokens are persisted
// afterwards even when fn fails.
func (a *App) withSession(ctx context.Context, fn func(context.Context, *session.Session) error) error {
	cfg, err := cliconfig.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if !cfg.SignedIn() {
		return errors.New("not signed in (run 'liftledger signin' first)")
	}

	client, err := remote.NewClient(cfg.ServerURL, remote.Options{Logger: a.Logger})
	if err != nil {
		return err
	}
	client.Restore(cfg.Identity, cfg.AccessToken, cfg.RefreshToken)

	var kv cache.Store
	cachePath, err := cliconfig.CachePath(a.ConfigPath)
	if err == nil {
		if db, openErr := cache.Open(cachePath); openErr != nil {
			a.Logger.Warn("local cache unavailable", "path", cachePath, "error", openErr)
		} else {
			kv = db
			defer db.Close()
		}
	}

	sess := session.New(client, kv, session.Options{Logger: a.Logger})
	defer sess.Close()

	runErr := fn(ctx, sess)

	if access, refresh := client.Tokens(); access != cfg.AccessToken || refresh != cfg.RefreshToken {
		cfg.AccessToken, cfg.RefreshToken = access, refresh
		if saveErr := cliconfig.Save(a.ConfigPath, cfg); saveErr != nil {
			a.Logger.Warn("failed to persist rotated tokens", "error", saveErr)
		}
	}
	return runErr
}

// resetCache removes the cache database. Auth transitions must not leak one
// account's cached exercises into another's session.
func (a *App) resetCache() {
	cachePath, err := cliconfig.CachePath(a.ConfigPath)
	if err != nil {
		return
	}
	if err := os.Remove(cachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		a.Logger.Warn("failed to remove cache", "path", cachePath, "error", err)
	}
}
