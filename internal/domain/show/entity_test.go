package show

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShow(t *testing.T) {
	startsAt := time.Now().Add(24 * time.Hour)

	s := NewShow("event-1", "venue-1", startsAt, 30000, 200)

	assert.Equal(t, "event-1", s.EventID)
	assert.Equal(t, "venue-1", s.VenueID)
	assert.Equal(t, startsAt, s.StartsAt)
	assert.Equal(t, 30000, s.BasePrice)
	assert.Equal(t, 200, s.TotalSeats)
	assert.Equal(t, 200, s.AvailableSeats)
	assert.NotZero(t, s.CreatedAt)
}

func TestShow_IsBookable(t *testing.T) {
	now := time.Now()
	s := NewShow("event-1", "venue-1", now.Add(time.Hour), 30000, 10)
	assert.True(t, s.IsBookable(now))
	assert.False(t, s.IsBookable(now.Add(time.Hour)))
	assert.False(t, s.IsBookable(now.Add(2*time.Hour)))
}

func TestShow_Validate(t *testing.T) {
	startsAt := time.Now().Add(24 * time.Hour)
	tests := []struct {
		name        string
		show        *Show
		expectedErr error
	}{
		{"有効な公演", NewShow("event-1", "venue-1", startsAt, 30000, 100), nil},
		{"無料公演", NewShow("event-1", "venue-1", startsAt, 0, 100), nil},
		{"イベントID未指定", NewShow("", "venue-1", startsAt, 30000, 100), ErrEventIDRequired},
		{"会場ID未指定", NewShow("event-1", "", startsAt, 30000, 100), ErrVenueIDRequired},
		{"開始日時未指定", NewShow("event-1", "venue-1", time.Time{}, 30000, 100), ErrStartsAtRequired},
		{"基本料金が負", NewShow("event-1", "venue-1", startsAt, -1, 100), ErrInvalidBasePrice},
		{"座席なし", NewShow("event-1", "venue-1", startsAt, 30000, 0), ErrNoSeats},
		{"空席数が総座席数を超える", &Show{EventID: "event-1", VenueID: "venue-1", StartsAt: startsAt, TotalSeats: 10, AvailableSeats: 11}, ErrSeatCounterOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.show.Validate()
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
