package query

import (
	"sort"
	"strings"
	"time"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

// Apply runs the due-only restriction, the filters and the sort. tasks is not modified.
func Apply(tasks []model.Task, p model.QueryParams, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if p.DueOnly && t.Due == "" {
			continue
		}
		out = append(out, t)
	}
	out = Filter(out, p.Status, p.Priority, p.Quick, now)
	Sort(out, p.SortBy)
	return out
}

// Filter keeps the tasks matching all three filters.
func Filter(tasks []model.Task, status, priority string, quick model.QuickFilter, now time.Time) []model.Task {
	today := model.Day(now.In(time.Local))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if status != "" && status != model.FilterAll && string(t.Status) != status {
			continue
		}
		if priority != "" && priority != model.FilterAll && string(t.Priority) != priority {
			continue
		}
		if !matchQuick(t, quick, today) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchQuick(t model.Task, quick model.QuickFilter, today time.Time) bool {
	if quick == "" || quick == model.QuickAll {
		return true
	}
	due, ok := model.ParseDate(t.Due)
	if !ok {
		return false
	}
	switch quick {
	case model.QuickToday:
		return due.Equal(today)
	case model.QuickWeek:
		return !due.Before(today) && due.Before(today.AddDate(0, 0, 7))
	case model.QuickOverdue:
		return due.Before(today)
	default:
		return true
	}
}

// Sort orders tasks in place by key, then document id, then line number.
func Sort(tasks []model.Task, key model.SortKey) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Compare(tasks[i], tasks[j], key) < 0
	})
}

// Compare is the total order used by Sort.
func Compare(a, b model.Task, key model.SortKey) int {
	var c int
	switch key {
	case model.SortCreated:
		c = compareDates(a.Created, b.Created)
	case model.SortDue:
		c = compareDates(a.Due, b.Due)
	case model.SortPriority:
		c = PriorityRank(a.Priority) - PriorityRank(b.Priority)
	case model.SortStatus:
		c = StatusRank(a.Status) - StatusRank(b.Status)
	}
	if c != 0 {
		return c
	}
	if c = strings.Compare(a.DocumentID, b.DocumentID); c != 0 {
		return c
	}
	return a.LineNumber - b.LineNumber
}

// compareDates puts missing and unparseable dates after every real date.
func compareDates(a, b string) int {
	ta, okA := model.ParseDate(a)
	tb, okB := model.ParseDate(b)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return ta.Compare(tb)
}

func PriorityRank(p model.Priority) int {
	switch strings.ToLower(string(p)) {
	case "high":
		return 0
	case "medium":
		return 1
	case "low":
		return 2
	default:
		return 3
	}
}

func StatusRank(s model.Status) int {
	switch strings.ToLower(string(s)) {
	case "open":
		return 0
	case "in progress":
		return 1
	case "complete":
		return 2
	case "canceled", "cancelled":
		return 3
	default:
		return 4
	}
}
