package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name                          string
		status, priority, quick, sort string
		want                          model.QueryParams
		wantErr                       bool
	}{
		{
			name: "defaults",
			want: model.DefaultQueryParams(),
		},
		{
			name:     "explicit values",
			status:   "in progress",
			priority: "high",
			quick:    "overdue",
			sort:     "Priority",
			want: model.QueryParams{
				Status:   "In Progress",
				Priority: "High",
				Quick:    model.QuickOverdue,
				SortBy:   model.SortPriority,
			},
		},
		{
			name:     "All keeps filters off",
			status:   "All",
			priority: "All",
			want:     model.DefaultQueryParams(),
		},
		{
			name:   "cancelled spelling",
			status: "Cancelled",
			want: model.QueryParams{
				Status:   "Canceled",
				Priority: model.FilterAll,
				Quick:    model.QuickAll,
				SortBy:   model.SortDue,
			},
		},
		{name: "bad status", status: "Someday", wantErr: true},
		{name: "bad priority", priority: "Urgent", wantErr: true},
		{name: "bad quick", quick: "month", wantErr: true},
		{name: "bad sort", sort: "Text", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.status, tt.priority, tt.quick, tt.sort)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParams)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
