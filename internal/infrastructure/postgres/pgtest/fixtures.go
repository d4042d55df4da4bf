//go:build integration

package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Fixture は予約テスト用に作成したデータのID
type Fixture struct {
	UserIDs []string
	EventID string
	VenueID string
	ShowID  string
	SeatIDs []string
}

// SeedShow はユーザー・イベント・会場・座席・公演を作成する
// 座席は A 列に seats 席（倍率1.0）、公演の基本料金は basePrice
func SeedShow(t *testing.T, db *sqlx.DB, users, seats, basePrice int, startsAt time.Time) Fixture {
	t.Helper()
	ctx := context.Background()
	var f Fixture

	for i := 0; i < users; i++ {
		var id string
		err := db.QueryRowContext(ctx, `
			INSERT INTO users (username, email, password_hash, full_name)
			VALUES ($1, $2, 'x', 'テストユーザー') RETURNING id`,
			fmt.Sprintf("user%d", i), fmt.Sprintf("user%d@example.com", i),
		).Scan(&id)
		require.NoError(t, err)
		f.UserIDs = append(f.UserIDs, id)
	}

	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO events (name, duration_minutes) VALUES ('テスト公演', 120) RETURNING id`,
	).Scan(&f.EventID))
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO venues (name, address, city, capacity) VALUES ('テスト劇場', '千代田区1-1', '東京', $1) RETURNING id`,
		max(seats, 1),
	).Scan(&f.VenueID))

	for i := 1; i <= seats; i++ {
		var id string
		require.NoError(t, db.QueryRowContext(ctx,
			`INSERT INTO seats (venue_id, row_label, seat_number) VALUES ($1, 'A', $2) RETURNING id`,
			f.VenueID, i,
		).Scan(&id))
		f.SeatIDs = append(f.SeatIDs, id)
	}

	require.NoError(t, db.QueryRowContext(ctx, `
		INSERT INTO shows (event_id, venue_id, starts_at, base_price, total_seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`,
		f.EventID, f.VenueID, startsAt, basePrice, seats,
	).Scan(&f.ShowID))
	return f
}

// SeatCounters は公演の空席数と有効な予約座席数を返す
func SeatCounters(t *testing.T, db *sqlx.DB, showID string) (total, available, active int) {
	t.Helper()
	require.NoError(t, db.QueryRow(`SELECT total_seats, available_seats FROM shows WHERE id = $1`, showID).Scan(&total, &available))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM booking_seats WHERE show_id = $1 AND active`, showID).Scan(&active))
	return total, available, active
}
