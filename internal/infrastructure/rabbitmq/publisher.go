package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/config"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/outbox"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

const defaultConfirmTimeout = 5 * time.Second

var (
	// ErrNotAcked はブローカーがメッセージを受理しなかったことを表す
	ErrNotAcked = errors.New("ブローカーがメッセージを受理しませんでした")
	// ErrPublisherClosed は Close 後に送信しようとしたことを表す
	ErrPublisherClosed = errors.New("パブリッシャーは既に閉じられています")
)

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	IsClosed() bool
	Close() error
}

type connection interface {
	Channel() (channel, error)
	Close() error
}

type dialFunc func(url string) (connection, error)

// Publisher は予約イベントを topic エクスチェンジへ送信する
// チャネルは confirm モードで開き、ブローカーの受理を待ってから成功を返す
// 接続が切れていた場合は次の送信時に張り直す
type Publisher struct {
	url            string
	exchange       string
	confirmTimeout time.Duration
	dial           dialFunc

	// amqp.Channel は並行送信に対応していない
	mu     sync.Mutex
	conn   connection
	ch     channel
	closed bool
}

// NewPublisher はブローカーに接続してエクスチェンジを宣言する
func NewPublisher(cfg *config.RabbitMQConfig) (*Publisher, error) {
	return newPublisher(cfg, dialAMQP)
}

func newPublisher(cfg *config.RabbitMQConfig, dial dialFunc) (*Publisher, error) {
	p := &Publisher{
		url:            cfg.URL,
		exchange:       cfg.Exchange,
		confirmTimeout: defaultConfirmTimeout,
		dial:           dial,
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

// Publish はメッセージを永続化モードで送信し、ブローカーの受理を待つ
// ルーティングキーはイベント種別（booking.created など）
func (p *Publisher) Publish(ctx context.Context, msg *outbox.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}
	err := p.publish(ctx, msg)
	if errors.Is(err, amqp.ErrClosed) {
		logger.Warn("RabbitMQのチャネルが閉じられたため再接続します", zap.Error(err))
		p.reset()
		err = p.publish(ctx, msg)
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, msg *outbox.Message) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}
	conf, err := ch.Publish(ctx, p.exchange, msg.EventType, toPublishing(msg))
	if err != nil {
		return fmt.Errorf("メッセージの送信に失敗: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.confirmTimeout)
	defer cancel()
	acked, err := conf.WaitContext(waitCtx)
	if err != nil {
		// 確認の届かないチャネルは使い回さない
		p.reset()
		return fmt.Errorf("送信確認の待機に失敗: %w", err)
	}
	if !acked {
		return ErrNotAcked
	}
	return nil
}

// channel は開いているチャネルを返し、閉じていれば接続からやり直す
func (p *Publisher) channel() (channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := p.dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQへの接続に失敗: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("チャネルの作成に失敗: %w", err)
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("エクスチェンジの宣言に失敗: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("confirm モードの設定に失敗: %w", err)
	}
	p.conn, p.ch = conn, ch
	logger.Info("RabbitMQに接続しました", zap.String("exchange", p.exchange))
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.ch, p.conn = nil, nil
}

// Close はチャネルと接続を閉じる
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	var err error
	if p.ch != nil {
		err = p.ch.Close()
	}
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	p.ch, p.conn = nil, nil
	return err
}

func toPublishing(msg *outbox.Message) amqp.Publishing {
	return amqp.Publishing{
		MessageId:    msg.ID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.CreatedAt,
		Type:         msg.EventType,
		Headers:      amqp.Table{"aggregate_id": msg.AggregateID},
		Body:         msg.Payload,
	}
}

// amqp091 の型を connection / channel に合わせる

type amqpConnection struct{ *amqp.Connection }

func dialAMQP(url string) (connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return amqpConnection{conn}, nil
}

func (c amqpConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return amqpChannel{ch}, nil
}

type amqpChannel struct{ *amqp.Channel }

func (c amqpChannel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	conf, err := c.Channel.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	return conf, nil
}

var _ outbox.Publisher = (*Publisher)(nil)
