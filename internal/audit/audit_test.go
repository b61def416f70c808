package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("emit defaults the timestamp", func(t *testing.T) {
		p := NewPublisher(NewInMemoryStore())
		require.NoError(t, p.Emit(ctx, Event{
			Action: ActionSubmissionVerified,
			UserID: "user-1",
		}))

		events, err := p.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].Timestamp.IsZero())
	})

	t.Run("emit keeps an explicit timestamp", func(t *testing.T) {
		p := NewPublisher(NewInMemoryStore())
		ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		require.NoError(t, p.Emit(ctx, Event{
			Action:    ActionSubmissionRejected,
			UserID:    "user-1",
			Timestamp: ts,
		}))

		events, err := p.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, ts, events[0].Timestamp)
	})

	t.Run("list filters by user", func(t *testing.T) {
		p := NewPublisher(NewInMemoryStore())
		require.NoError(t, p.Emit(ctx, Event{Action: ActionSubmissionReceived, UserID: "user-1"}))
		require.NoError(t, p.Emit(ctx, Event{Action: ActionSubmissionReceived, UserID: "user-2"}))

		events, err := p.List(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "user-2", events[0].UserID)
	})
}
