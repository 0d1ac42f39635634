// Package export renders a full workout history as CSV for sharing and
// backup. The layout is one row per set with the set's 1-based position
// within its exercise for that day, so a spreadsheet shows "Push-ups set 2 of
// 3" without any formulas.
package export

import (
	"encoding/csv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liftledger/liftledger/workout"
)

var header = []string{"Date", "Exercise", "Set", "Reps", "Weight"}

// Format renders the given workouts as CSV, newest workout first. Sets keep
// their stored order inside each workout. A set whose exercise is unknown
// (for example archived and purged) is labeled "Unknown"; a bodyweight set
// renders an empty Weight column.
func Format(details []workout.Detail) string {
	sorted := make([]workout.Detail, len(details))
	copy(sorted, details)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(header)
	for _, d := range sorted {
		position := make(map[uuid.UUID]int, len(d.Sets))
		for _, s := range d.Sets {
			position[s.ExerciseID]++
			name := s.ExerciseName
			if name == "" {
				name = "Unknown"
			}
			weight := ""
			if s.Weight != nil {
				weight = strconv.FormatFloat(*s.Weight, 'f', -1, 64)
			}
			_ = w.Write([]string{
				d.Date,
				name,
				strconv.Itoa(position[s.ExerciseID]),
				strconv.Itoa(s.Reps),
				weight,
			})
		}
	}
	w.Flush()
	return b.String()
}

// Filename suggests a dated name for an export file.
func Filename(now time.Time) string {
	return "liftledger_export_" + now.Format(workout.DateLayout) + ".csv"
}
