package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/outbox"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

type outboxRow struct {
	ID          string    `db:"id"`
	AggregateID string    `db:"aggregate_id"`
	EventType   string    `db:"event_type"`
	Payload     []byte    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

// OutboxRepository はアウトボックスのPostgreSQL実装
type OutboxRepository struct{ db *sqlx.DB }

// NewOutboxRepository はOutboxRepositoryを作成する
func NewOutboxRepository(db *sqlx.DB) *OutboxRepository { return &OutboxRepository{db: db} }

func (r *OutboxRepository) Enqueue(ctx context.Context, tx transaction.Tx, msgs ...*outbox.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	const cols = 5
	args := make([]any, 0, len(msgs)*cols)
	placeholders := make([]string, 0, len(msgs))
	for i, m := range msgs {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, m.ID, m.AggregateID, m.EventType, string(m.Payload), m.CreatedAt)
	}
	query := `INSERT INTO outbox (id, aggregate_id, event_type, payload, created_at) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := sqlxTx.ExecContext(ctx, query, args...); err != nil {
		return wrapErr("アウトボックスへの登録に失敗しました", err)
	}
	return nil
}

// ClaimUnpublished は未配信メッセージを古い順に取得する
// SKIP LOCKED により複数の配信ワーカーが同じ行を取らない
func (r *OutboxRepository) ClaimUnpublished(ctx context.Context, tx transaction.Tx, limit int) ([]*outbox.Message, error) {
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	var rows []outboxRow
	if err := sqlxTx.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, wrapErr("未配信メッセージの取得に失敗しました", err)
	}
	msgs := make([]*outbox.Message, len(rows))
	for i, row := range rows {
		msgs[i] = &outbox.Message{
			ID: row.ID, AggregateID: row.AggregateID, EventType: row.EventType,
			Payload: row.Payload, CreatedAt: row.CreatedAt,
		}
	}
	return msgs, nil
}

func (r *OutboxRepository) MarkPublished(ctx context.Context, tx transaction.Tx, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	sqlxTx, err := mustUnwrap(tx)
	if err != nil {
		return err
	}
	if _, err := sqlxTx.ExecContext(ctx, `UPDATE outbox SET published_at = NOW() WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return wrapErr("配信済みへの更新に失敗しました", err)
	}
	return nil
}

var _ outbox.Repository = (*OutboxRepository)(nil)
