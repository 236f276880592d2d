//go:build sqlite_math_functions

package rel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// floor and ceil only exist in sqlite builds with math functions:
//
//	go test -tags sqlite_math_functions ./rel/...
func TestSQLiteMathFunctions(t *testing.T) {
	db := openActions(t)
	d := NewDomain(sqliteActionsTable())

	tests := []struct {
		filter string
		want   []string
	}{
		{"floor(score) eq 95", []string{"uuid-1"}},
		{"ceiling(score) eq 100", []string{"uuid-4"}},
		{"ceiling(score) eq 82", []string{"uuid-2"}},
		{"floor(score) lt 50", []string{"uuid-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			q, err := d.AddFilter(tt.filter, &Select{Table: "actions", Columns: []string{"action_id"}, OrderBy: []string{"action_id"}})
			require.NoError(t, err)
			ids := []string{}
			require.NoError(t, q.Run(context.Background(), db, &ids))
			assert.Equal(t, tt.want, ids)
		})
	}
}
