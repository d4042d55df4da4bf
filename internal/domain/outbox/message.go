package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// DefaultBatchSize は1回の配信で取得するメッセージ数
const DefaultBatchSize = 100

// Message は未配信のドメインイベント
type Message struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// NewMessage はペイロードをJSONにしてメッセージを作成する
func NewMessage(aggregateID, eventType string, payload any) (*Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ペイロードのエンコードに失敗しました: %w", err)
	}
	return &Message{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     body,
		CreatedAt:   time.Now(),
	}, nil
}

// Repository はアウトボックスのインターフェース
type Repository interface {
	// Enqueue は業務データと同じトランザクションでメッセージを保存する
	Enqueue(ctx context.Context, tx transaction.Tx, msgs ...*Message) error

	// ClaimUnpublished は未配信メッセージを古い順にロックして取得する
	// 他のトランザクションがロック中の行は読み飛ばす
	ClaimUnpublished(ctx context.Context, tx transaction.Tx, limit int) ([]*Message, error)

	// MarkPublished はメッセージを配信済みにする
	MarkPublished(ctx context.Context, tx transaction.Tx, ids []string) error
}

// Publisher はメッセージをブローカーに送信する
type Publisher interface {
	Publish(ctx context.Context, msg *Message) error
}
