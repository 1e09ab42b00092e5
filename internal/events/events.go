package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/autosave/internal/domain"
)

type transactionEvent struct {
	ID        string          `json:"id"`
	UserID    int             `json:"user_id"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	RuleID    *string         `json:"rule_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Producer publishes ledger transactions to Kafka, keyed by user so a
// consumer sees one user's movements in order.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func New(brokers []string, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

// PublishTransaction is fire-and-forget: failures are logged, never surfaced
// to the money movement that triggered them.
func (p *Producer) PublishTransaction(ctx context.Context, txn *domain.LedgerTransaction) {
	payload, err := json.Marshal(transactionEvent{
		ID:        txn.ID,
		UserID:    txn.UserID,
		Type:      string(txn.Type),
		Amount:    txn.Amount,
		RuleID:    txn.RuleID,
		CreatedAt: txn.CreatedAt,
	})
	if err != nil {
		zap.L().Warn("failed to encode transaction event", zap.Error(err))
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(txn.UserID)),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		zap.L().Warn("failed to publish transaction event",
			zap.String("transaction_id", txn.ID), zap.Error(err))
	}
}

func (p *Producer) Close() error {
	return p.producer.Close()
}
