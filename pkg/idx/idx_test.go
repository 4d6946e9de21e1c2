package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[ID]struct{})
	for range 1000 {
		id := New()
		require.False(t, id.IsZero())
		_, dup := seen[id]
		require.False(t, dup, "generated duplicate ID %s", id)
		seen[id] = struct{}{}
	}
}

func TestNew_Monotonic(t *testing.T) {
	t.Parallel()

	prev := New()
	for range 100 {
		next := New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	valid := New()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", valid.String(), false},
		{"valid with whitespace", "  " + valid.String() + "  ", false},
		{"empty", "", true},
		{"garbage", "not-a-ulid", true},
		{"too short", "01ARZ3NDEKTSV", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				require.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			require.Equal(t, valid, id)
		})
	}
}

func TestTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	id := NewAt(at)
	require.Equal(t, at.Truncate(time.Millisecond), id.Time())
	require.Equal(t, time.UTC, id.Time().Location())

	require.True(t, Zero.Time().IsZero())
}
