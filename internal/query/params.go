package query

import (
	"errors"
	"fmt"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

var ErrInvalidParams = errors.New("invalid query parameters")

// ParseParams validates raw filter and sort values. Empty values keep the
// defaults of a fresh view.
func ParseParams(status, priority, quick, sortBy string) (model.QueryParams, error) {
	p := model.DefaultQueryParams()

	if status != "" && status != model.FilterAll {
		s, ok := model.ParseStatus(status)
		if !ok {
			return p, fmt.Errorf("%w: status %q", ErrInvalidParams, status)
		}
		p.Status = string(s)
	}
	if priority != "" && priority != model.FilterAll {
		pr, ok := model.ParsePriority(priority)
		if !ok {
			return p, fmt.Errorf("%w: priority %q", ErrInvalidParams, priority)
		}
		p.Priority = string(pr)
	}

	switch qf := model.QuickFilter(quick); qf {
	case "":
	case model.QuickAll, model.QuickToday, model.QuickWeek, model.QuickOverdue:
		p.Quick = qf
	default:
		return p, fmt.Errorf("%w: quick filter %q", ErrInvalidParams, quick)
	}

	switch key := model.SortKey(sortBy); key {
	case "":
	case model.SortCreated, model.SortDue, model.SortPriority, model.SortStatus:
		p.SortBy = key
	default:
		return p, fmt.Errorf("%w: sort key %q", ErrInvalidParams, sortBy)
	}
	return p, nil
}
