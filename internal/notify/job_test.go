package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	due := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)

	t.Run("deadline reminder round trip", func(t *testing.T) {
		raw, err := json.Marshal(DeadlineReminderPayload{
			FacilitatorID: "fac-1",
			OfferingID:    "off-1",
			WeekNumber:    3,
			DueDate:       due,
		})
		require.NoError(t, err)

		decoded, err := DecodePayload(KindDeadlineReminder, raw)
		require.NoError(t, err)

		p, ok := decoded.(DeadlineReminderPayload)
		require.True(t, ok)
		assert.Equal(t, "fac-1", p.FacilitatorID)
		assert.Equal(t, "off-1", p.OfferingID)
		assert.Equal(t, 3, p.WeekNumber)
		assert.True(t, due.Equal(p.DueDate))
	})

	t.Run("weekly reminder tolerates empty payload", func(t *testing.T) {
		decoded, err := DecodePayload(KindWeeklyActivityReminder, nil)
		require.NoError(t, err)
		assert.Equal(t, KindWeeklyActivityReminder, decoded.Kind())
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := DecodePayload(Kind("resize_avatar"), []byte(`{}`))
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := DecodePayload(KindCourseAssignment, []byte(`{not json`))
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestJobRecurring(t *testing.T) {
	assert.False(t, (&Job{}).Recurring())
	assert.True(t, (&Job{CronSpec: "0 10 * * 5"}).Recurring())
}
