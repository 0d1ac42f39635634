package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/liftledger/liftledger/export"
	"github.com/liftledger/liftledger/session"
	"github.com/liftledger/liftledger/workout"
)

func (a *App) runProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	name := fs.String("name", "", "set a new display name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		var (
			profile *workout.Profile
			err     error
		)
		if strings.TrimSpace(*name) != "" {
			profile, err = sess.UpdateProfile(ctx, *name)
		} else {
			profile, err = sess.Profile(ctx)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "%s\n", profile.DisplayName)
		return nil
	})
}

func (a *App) runExercises(ctx context.Context) error {
	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Initialize(ctx)
		snap := sess.Snapshot()
		a.reportSyncTrouble(snap)

		if len(snap.Exercises) == 0 {
			fmt.Fprintln(a.Out, "No exercises yet (add one with 'liftledger add-exercise')")
			return nil
		}

		tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCATEGORY\tNOTES")
		for _, ex := range snap.Exercises {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", ex.Name, ex.Category, ex.Notes)
		}
		return tw.Flush()
	})
}

func (a *App) runAddExercise(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-exercise", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	name := fs.String("name", "", "exercise name")
	category := fs.String("category", "", "category label (optional)")
	notes := fs.String("notes", "", "free-form notes (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Initialize(ctx)

		created, err := sess.CreateExercise(ctx, session.ExerciseInput{
			Name:     *name,
			Category: *category,
			Notes:    *notes,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Added %s\n", created.Name)
		return nil
	})
}

func (a *App) runRemoveExercise(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm-exercise", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	name := fs.String("name", "", "exercise name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return errors.New("-name is required")
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Initialize(ctx)

		ex, ok := findExercise(sess.Snapshot().Exercises, *name)
		if !ok {
			return fmt.Errorf("no exercise named %q", *name)
		}
		if err := sess.DeleteExercise(ctx, ex.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Archived %s (past workouts keep it)\n", ex.Name)
		return nil
	})
}

func (a *App) runLog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	name := fs.String("exercise", "", "exercise name")
	reps := fs.Int("reps", 0, "repetitions in the set")
	weightStr := fs.String("weight", "", "weight used (empty for bodyweight)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*name) == "" {
		return errors.New("-exercise is required")
	}

	var weight *float64
	if strings.TrimSpace(*weightStr) != "" {
		w, err := strconv.ParseFloat(strings.TrimSpace(*weightStr), 64)
		if err != nil {
			return fmt.Errorf("invalid -weight %q", *weightStr)
		}
		weight = &w
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Initialize(ctx)

		ex, ok := findExercise(sess.Snapshot().Exercises, *name)
		if !ok {
			return fmt.Errorf("no exercise named %q (add it with 'liftledger add-exercise')", *name)
		}

		entry, err := sess.AddSet(ctx, ex.ID, *reps, weight)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Logged set %d: %s\n", entry.OrderIndex+1, describeSet(*entry))
		return nil
	})
}

func (a *App) runRemoveSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm-set", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	position := fs.Int("n", 0, "set position from 'liftledger today' (1-based)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Initialize(ctx)

		sets := sess.Snapshot().TodaySets
		if len(sets) == 0 {
			return errors.New("nothing logged today")
		}
		if *position < 1 || *position > len(sets) {
			return fmt.Errorf("-n must be between 1 and %d", len(sets))
		}

		target := sets[*position-1]
		if err := sess.DeleteSet(ctx, target.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.Out, "Deleted set %d (%s)\n", *position, describeSet(target))
		return nil
	})
}

func (a *App) runToday(ctx context.Context) error {
	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Initialize(ctx)
		snap := sess.Snapshot()
		a.reportSyncTrouble(snap)

		if snap.TodayWorkout == nil {
			fmt.Fprintln(a.Out, "Nothing logged today")
			return nil
		}

		header := snap.TodayWorkout.Date
		if snap.TodayWorkout.Note != "" {
			header += " - " + snap.TodayWorkout.Note
		}
		fmt.Fprintln(a.Out, header)
		for i, entry := range snap.TodaySets {
			fmt.Fprintf(a.Out, "  %d. %s\n", i+1, describeSet(entry))
		}

		totals := sess.TodayStats()
		fmt.Fprintf(a.Out, "Totals: %d sets, %d exercises, %d reps\n",
			totals.TotalSets, totals.ExerciseCount, totals.TotalReps)
		return nil
	})
}

func (a *App) runSync(ctx context.Context) error {
	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.Synchronize(ctx)
		snap := sess.Snapshot()
		if snap.LastError != nil {
			return snap.LastError
		}
		fmt.Fprintf(a.Out, "Synced %d exercises at %s\n",
			len(snap.Exercises), snap.LastSynced.Format(time.Kitchen))
		return nil
	})
}

func (a *App) runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	now := time.Now()
	start := fs.String("start", workout.DateOf(now.AddDate(0, 0, -30)), "range start (YYYY-MM-DD)")
	end := fs.String("end", workout.DateOf(now), "range end (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		history, err := sess.WorkoutHistory(ctx, *start, *end)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Fprintf(a.Out, "No workouts between %s and %s\n", *start, *end)
			return nil
		}

		for _, detail := range history {
			header := detail.Date
			if detail.Note != "" {
				header += " - " + detail.Note
			}
			fmt.Fprintln(a.Out, header)
			for i, entry := range detail.Sets {
				fmt.Fprintf(a.Out, "  %d. %s\n", i+1, describeSet(entry))
			}
		}
		return nil
	})
}

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	outPath := fs.String("o", "", "output file ('-' for stdout; defaults to a dated name)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return a.withSession(ctx, func(ctx context.Context, sess *session.Session) error {
		csv, err := sess.ExportData(ctx)
		if err != nil {
			return err
		}

		if *outPath == "-" {
			_, err := fmt.Fprint(a.Out, csv)
			return err
		}

		path := *outPath
		if path == "" {
			path = export.Filename(time.Now())
		}
		if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(a.Out, "Wrote %s\n", path)
		return nil
	})
}

// reportSyncTrouble tells the user when they are looking at last-known data.
func (a *App) reportSyncTrouble(snap session.Snapshot) {
	if snap.LastError != nil {
		fmt.Fprintf(a.Err, "warning: showing last-known data, refresh failed: %v\n", snap.LastError)
	}
}

// findExercise matches by display name, ignoring case.
func findExercise(exercises []workout.Exercise, name string) (workout.Exercise, bool) {
	want := strings.TrimSpace(name)
	for _, ex := range exercises {
		if strings.EqualFold(ex.Name, want) {
			return ex, true
		}
	}
	return workout.Exercise{}, false
}

func describeSet(entry workout.SetEntry) string {
	name := entry.ExerciseName
	if name == "" {
		name = "Unknown"
	}
	if entry.Weight == nil {
		return fmt.Sprintf("%s, %d reps", name, entry.Reps)
	}
	return fmt.Sprintf("%s, %d reps @ %s", name, entry.Reps,
		strconv.FormatFloat(*entry.Weight, 'f', -1, 64))
}
