package bus

import (
	"context"
	"log/slog"
	"sync"

	sdk "github.com/segmentio/kafka-go"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
)

// KafkaConfig configures the Kafka dispatcher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Validate checks the required fields.
func (c KafkaConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New(errors.CodeTransport, "kafka brokers are required", nil)
	}
	if c.Topic == "" {
		return errors.New(errors.CodeTransport, "kafka topic is required", nil)
	}
	return nil
}

// Kafka implements Dispatcher over a Kafka topic. Publish writes the
// envelope to the topic; a background consumer reads it back and hands
// it to the locally subscribed recipient. Messages for recipients not
// subscribed in this process are logged and skipped, so several
// processes can share the topic with disjoint agent sets.
type Kafka struct {
	writer *sdk.Writer
	reader *sdk.Reader
	local  *Local
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// KafkaOption configures a Kafka dispatcher.
type KafkaOption func(*Kafka)

// WithKafkaLogger sets the dispatcher logger.
func WithKafkaLogger(logger *slog.Logger) KafkaOption {
	return func(k *Kafka) { k.logger = logger }
}

// NewKafka creates a Kafka dispatcher and starts its consumer loop.
func NewKafka(cfg KafkaConfig, opts ...KafkaOption) (*Kafka, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	writer := &sdk.Writer{
		Addr:         sdk.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		RequiredAcks: sdk.RequireAll,
		Balancer:     &sdk.LeastBytes{},
	}
	reader := sdk.NewReader(sdk.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})

	ctx, cancel := context.WithCancel(context.Background())
	k := &Kafka{
		writer: writer,
		reader: reader,
		local:  NewLocal(),
		logger: slog.Default(),
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(k)
	}

	k.wg.Add(1)
	go k.consume(ctx)
	return k, nil
}

// Publish writes the message to the topic, keyed by recipient so one
// agent's messages stay ordered.
func (k *Kafka) Publish(ctx context.Context, msg core.Message) error {
	runID, _ := core.RunID(ctx)
	data, err := EncodeEnvelope(Wrap(msg, runID))
	if err != nil {
		return err
	}

	err = k.writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(msg.To),
		Value: data,
	})
	if err != nil {
		return errors.New(errors.CodeTransport, "kafka write failed", err).
			WithContext("to", msg.To).
			WithRecoverable(true)
	}
	return nil
}

// Subscribe registers a handler for a recipient.
func (k *Kafka) Subscribe(recipient string, handler Handler) error {
	return k.local.Subscribe(recipient, handler)
}

// Unsubscribe removes the recipient's handler.
func (k *Kafka) Unsubscribe(recipient string) {
	k.local.Unsubscribe(recipient)
}

func (k *Kafka) consume(ctx context.Context) {
	defer k.wg.Done()

	for {
		data, err := k.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			k.logger.Error("kafka read failed", slog.String("error", err.Error()))
			continue
		}

		env, err := DecodeEnvelope(data.Value)
		if err != nil {
			k.logger.Error("dropping malformed envelope", slog.String("error", err.Error()))
			continue
		}

		msgCtx := ctx
		if env.RunID != "" {
			msgCtx = core.WithRunID(ctx, env.RunID)
		}
		if err := k.local.Publish(msgCtx, env.Message()); err != nil {
			// Recipient lives in another process sharing the topic.
			k.logger.Debug("skipping message for unsubscribed recipient",
				slog.String("to", env.To),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Close stops the consumer and releases broker connections.
func (k *Kafka) Close() error {
	k.closeOnce.Do(func() {
		k.cancel()
		if err := k.reader.Close(); err != nil {
			k.closeErr = err
		}
		if err := k.writer.Close(); err != nil && k.closeErr == nil {
			k.closeErr = err
		}
		k.wg.Wait()
	})
	return k.closeErr
}

var _ Dispatcher = (*Kafka)(nil)
