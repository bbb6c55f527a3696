package model

import "strings"

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
	StatusCanceled   Status = "Canceled"
)

// IsClosed reports whether the status renders as a checked box. Any spelling
// ParseStatus accepts counts, so "complete" and "Cancelled" are closed too.
func (s Status) IsClosed() bool {
	c, ok := ParseStatus(string(s))
	return ok && (c == StatusComplete || c == StatusCanceled)
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Token is an annotation the codec does not interpret, kept so it can be written back.
type Token struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LineShape is the checklist structure of the line a task was read from.
type LineShape struct {
	Indent  string `json:"indent"`
	Bullet  string `json:"bullet"`
	Gap     string `json:"-"`
	Box     string `json:"box"`
	Spacing string `json:"-"`
	Raw     string `json:"raw"`
}

type Task struct {
	DocumentID string    `json:"document"`
	LineNumber int       `json:"line"`
	Checked    bool      `json:"checked"`
	Text       string    `json:"text"`
	Status     Status    `json:"status"`
	Priority   Priority  `json:"priority"`
	Created    string    `json:"created,omitempty"`
	Due        string    `json:"due,omitempty"`
	Closed     string    `json:"closed,omitempty"`
	Project    string    `json:"project,omitempty"`
	People     []string  `json:"people"`
	Extra      []Token   `json:"extra,omitempty"`
	Line       LineShape `json:"-"`
}

// Field names a task attribute that can be changed in place.
type Field string

const (
	FieldText     Field = "text"
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
	FieldCreated  Field = "created"
	FieldDue      Field = "due"
	FieldClosed   Field = "closed"
	FieldProject  Field = "project"
	FieldPeople   Field = "people"
)

// QuickFilter buckets tasks by how close their due date is to today.
type QuickFilter string

const (
	QuickAll     QuickFilter = "all"
	QuickToday   QuickFilter = "today"
	QuickWeek    QuickFilter = "week"
	QuickOverdue QuickFilter = "overdue"
)

type SortKey string

const (
	SortCreated  SortKey = "Created"
	SortDue      SortKey = "Due"
	SortPriority SortKey = "Priority"
	SortStatus   SortKey = "Status"
)

// FilterAll disables the status or priority filter.
const FilterAll = "All"

// QueryParams is the complete view state for one query.
type QueryParams struct {
	Status   string
	Priority string
	Quick    QuickFilter
	SortBy   SortKey
	DueOnly  bool
}

// DefaultQueryParams matches the initial state of a fresh view.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		Status:   FilterAll,
		Priority: FilterAll,
		Quick:    QuickAll,
		SortBy:   SortDue,
	}
}

// ParseStatus maps user input onto the canonical status spelling.
func ParseStatus(v string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "open":
		return StatusOpen, true
	case "in progress", "in-progress", "inprogress":
		return StatusInProgress, true
	case "complete", "completed", "done":
		return StatusComplete, true
	case "canceled", "cancelled":
		return StatusCanceled, true
	}
	return "", false
}

// ParsePriority maps user input onto the canonical priority spelling.
func ParsePriority(v string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	}
	return "", false
}
