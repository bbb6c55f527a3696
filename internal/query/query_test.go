package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

var today = time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)

func task(doc string, line int, mods ...func(*model.Task)) model.Task {
	t := model.Task{
		DocumentID: doc,
		LineNumber: line,
		Status:     model.StatusOpen,
		Priority:   model.PriorityMedium,
		People:     []string{},
	}
	for _, m := range mods {
		m(&t)
	}
	return t
}

func due(d string) func(*model.Task)          { return func(t *model.Task) { t.Due = d } }
func created(d string) func(*model.Task)      { return func(t *model.Task) { t.Created = d } }
func prio(p model.Priority) func(*model.Task) { return func(t *model.Task) { t.Priority = p } }
func status(s model.Status) func(*model.Task) { return func(t *model.Task) { t.Status = s } }

func dues(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Due
	}
	return out
}

func TestFilter_QuickWeek(t *testing.T) {
	tasks := []model.Task{
		task("a.md", 1, due("2024-01-10")),
		task("a.md", 2, due("2024-01-16")),
		task("a.md", 3, due("2024-01-17")),
		task("a.md", 4, due("2024-01-09")),
		task("a.md", 5),
	}

	got := Filter(tasks, model.FilterAll, model.FilterAll, model.QuickWeek, today)

	assert.Equal(t, []string{"2024-01-10", "2024-01-16"}, dues(got))
}

func TestFilter_QuickFilters(t *testing.T) {
	tasks := []model.Task{
		task("a.md", 1, due("2024-01-10")),
		task("a.md", 2, due("01-10-2024")),
		task("a.md", 3, due("2024-01-09")),
		task("a.md", 4, due("2024-02-01")),
		task("a.md", 5, due("tomorrow")),
		task("a.md", 6),
	}

	tests := []struct {
		quick model.QuickFilter
		want  []int
	}{
		{model.QuickAll, []int{1, 2, 3, 4, 5, 6}},
		{"", []int{1, 2, 3, 4, 5, 6}},
		{model.QuickToday, []int{1, 2}},
		{model.QuickOverdue, []int{3}},
		{model.QuickWeek, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.quick), func(t *testing.T) {
			got := Filter(tasks, model.FilterAll, model.FilterAll, tt.quick, today)
			lines := make([]int, len(got))
			for i, task := range got {
				lines[i] = task.LineNumber
			}
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestFilter_StatusAndPriority(t *testing.T) {
	tasks := []model.Task{
		task("a.md", 1, status(model.StatusOpen), prio(model.PriorityHigh)),
		task("a.md", 2, status(model.StatusOpen), prio(model.PriorityLow)),
		task("a.md", 3, status(model.StatusComplete), prio(model.PriorityHigh)),
	}

	got := Filter(tasks, "Open", "High", model.QuickAll, today)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].LineNumber)

	assert.Len(t, Filter(tasks, model.FilterAll, "High", model.QuickAll, today), 2)
	assert.Len(t, Filter(tasks, "Complete", model.FilterAll, model.QuickAll, today), 1)
	assert.Empty(t, Filter(tasks, "Canceled", model.FilterAll, model.QuickAll, today))
}

func TestSort_Priority(t *testing.T) {
	tasks := []model.Task{
		task("same.md", 1, prio(model.PriorityLow)),
		task("same.md", 2, prio(model.PriorityHigh)),
		task("same.md", 3, prio(model.PriorityMedium)),
		task("same.md", 4, prio(model.PriorityHigh)),
	}

	Sort(tasks, model.SortPriority)

	got := make([]model.Priority, len(tasks))
	for i, t := range tasks {
		got[i] = t.Priority
	}
	assert.Equal(t, []model.Priority{model.PriorityHigh, model.PriorityHigh, model.PriorityMedium, model.PriorityLow}, got)
}

func TestSort_PriorityTieBreaksOnDocument(t *testing.T) {
	tasks := []model.Task{
		task("b.md", 1, prio(model.PriorityHigh)),
		task("c.md", 1, prio(model.PriorityLow)),
		task("a.md", 1, prio(model.PriorityHigh)),
	}

	Sort(tasks, model.SortPriority)

	assert.Equal(t, "a.md", tasks[0].DocumentID)
	assert.Equal(t, "b.md", tasks[1].DocumentID)
	assert.Equal(t, "c.md", tasks[2].DocumentID)
}

func TestSort_DatesMissingLast(t *testing.T) {
	tasks := []model.Task{
		task("a.md", 1),
		task("a.md", 2, due("2024-03-01")),
		task("a.md", 3, due("garbage")),
		task("a.md", 4, due("02-01-2024")),
		task("a.md", 5, due("2024-01-15")),
	}

	Sort(tasks, model.SortDue)

	assert.Equal(t, []string{"2024-01-15", "02-01-2024", "2024-03-01", "", "garbage"}, dues(tasks))
}

func TestSort_Created(t *testing.T) {
	tasks := []model.Task{
		task("b.md", 1, created("2024-01-02")),
		task("a.md", 1),
		task("c.md", 1, created("2024-01-01")),
	}

	Sort(tasks, model.SortCreated)

	assert.Equal(t, "c.md", tasks[0].DocumentID)
	assert.Equal(t, "b.md", tasks[1].DocumentID)
	assert.Equal(t, "a.md", tasks[2].DocumentID)
}

func TestSort_Status(t *testing.T) {
	tasks := []model.Task{
		task("a.md", 1, status("Someday")),
		task("a.md", 2, status("Cancelled")),
		task("a.md", 3, status(model.StatusComplete)),
		task("a.md", 4, status(model.StatusInProgress)),
		task("a.md", 5, status(model.StatusOpen)),
	}

	Sort(tasks, model.SortStatus)

	got := make([]int, len(tasks))
	for i, t := range tasks {
		got[i] = t.LineNumber
	}
	assert.Equal(t, []int{5, 4, 3, 2, 1}, got)
}

func TestCompare_TotalOrder(t *testing.T) {
	tasks := []model.Task{
		task("a.md", 1, due("2024-01-01"), prio(model.PriorityHigh)),
		task("a.md", 2, due("bad"), prio("urgent")),
		task("b.md", 1, prio(model.PriorityLow)),
		task("b.md", 2, due("2024-01-01")),
	}

	for _, key := range []model.SortKey{model.SortCreated, model.SortDue, model.SortPriority, model.SortStatus, "unknown"} {
		for _, a := range tasks {
			assert.Zero(t, Compare(a, a, key))
			for _, b := range tasks {
				ab, ba := Compare(a, b, key), Compare(b, a, key)
				assert.Equal(t, ab < 0, ba > 0, "key %s: %s:%d vs %s:%d", key, a.DocumentID, a.LineNumber, b.DocumentID, b.LineNumber)
			}
		}
	}
}

func TestRanks(t *testing.T) {
	assert.Equal(t, 0, PriorityRank("high"))
	assert.Equal(t, 1, PriorityRank(model.PriorityMedium))
	assert.Equal(t, 2, PriorityRank(model.PriorityLow))
	assert.Equal(t, 3, PriorityRank(""))

	assert.Equal(t, 0, StatusRank(model.StatusOpen))
	assert.Equal(t, 1, StatusRank("in progress"))
	assert.Equal(t, 2, StatusRank(model.StatusComplete))
	assert.Equal(t, 3, StatusRank(model.StatusCanceled))
	assert.Equal(t, 3, StatusRank("Cancelled"))
	assert.Equal(t, 4, StatusRank("blocked"))
}

func TestApply(t *testing.T) {
	tasks := []model.Task{
		task("b.md", 1, due("2024-01-12"), prio(model.PriorityLow)),
		task("a.md", 1, prio(model.PriorityHigh)),
		task("a.md", 2, due("2024-01-11"), prio(model.PriorityHigh)),
	}
	before := append([]model.Task(nil), tasks...)

	params := model.DefaultQueryParams()
	params.SortBy = model.SortPriority
	got := Apply(tasks, params, today)
	require.Len(t, got, 3)
	assert.Equal(t, "a.md", got[0].DocumentID)
	assert.Equal(t, 1, got[0].LineNumber)
	assert.Equal(t, before, tasks, "input must not be reordered")

	params.DueOnly = true
	got = Apply(tasks, params, today)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-11", got[0].Due)

	params.DueOnly = false
	params.Priority = "High"
	params.Quick = model.QuickWeek
	got = Apply(tasks, params, today)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-11", got[0].Due)
}
