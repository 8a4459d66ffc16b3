// Package kafka provides a destination that publishes each record as a JSON
// message to a Kafka topic.
package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/ajitpratap0/synthdata/pkg/config"
	"github.com/ajitpratap0/synthdata/pkg/connector/base"
	"github.com/ajitpratap0/synthdata/pkg/connector/core"
	"github.com/ajitpratap0/synthdata/pkg/connector/registry"
	"github.com/ajitpratap0/synthdata/pkg/connector/shared"
	"github.com/ajitpratap0/synthdata/pkg/errors"
	jsonpool "github.com/ajitpratap0/synthdata/pkg/json"
	"github.com/ajitpratap0/synthdata/pkg/models"
)

func init() {
	_ = registry.RegisterDestination(registry.ConnectorInfo{
		Name:         "kafka",
		Description:  "One JSON message per record on a Kafka topic",
		Capabilities: []string{"streaming", "compression"},
	}, NewKafkaDestination)
}

// KafkaDestination publishes records with a synchronous producer so every
// batch is acknowledged before Write returns.
type KafkaDestination struct {
	*base.BaseConnector

	brokers []string
	topic   string
	sarama  *sarama.Config

	producer sarama.SyncProducer
	messages []*sarama.ProducerMessage
	sent     int
}

// NewKafkaDestination creates a new Kafka destination connector. The
// producer connects on the first Write.
func NewKafkaDestination(cfg *config.Config) (core.Destination, error) {
	return newKafkaDestination(cfg, nil)
}

func newKafkaDestination(cfg *config.Config, producer sarama.SyncProducer) (*KafkaDestination, error) {
	if len(cfg.Destination.Brokers) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "kafka destination requires brokers")
	}
	if cfg.Destination.Topic == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "kafka destination requires topic")
	}
	sc, err := buildSaramaConfig(cfg.Destination.Compression)
	if err != nil {
		return nil, err
	}
	return &KafkaDestination{
		BaseConnector: base.NewBaseConnector("kafka", core.ConnectorTypeDestination),
		brokers:       cfg.Destination.Brokers,
		topic:         cfg.Destination.Topic,
		sarama:        sc,
		producer:      producer,
	}, nil
}

func buildSaramaConfig(compression string) (*sarama.Config, error) {
	sc := sarama.NewConfig()
	sc.ClientID = "synthdata"
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.Retry.Max = 3
	sc.Producer.Timeout = 10 * time.Second

	switch compression {
	case "", "none":
		sc.Producer.Compression = sarama.CompressionNone
	case "gzip":
		sc.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		sc.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		sc.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		sc.Producer.Compression = sarama.CompressionZSTD
		sc.Version = sarama.V2_1_0_0
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "kafka does not support %s compression", compression)
	}
	return sc, nil
}

// Write sends one message per record. The message value is the record as a
// JSON object; the schema name travels in a header.
func (d *KafkaDestination) Write(ctx context.Context, schema *models.Schema, records []*models.Record) error {
	return d.Tracer().TraceBatch(ctx, "write", len(records), func(ctx context.Context) error {
		if err := d.connect(ctx); err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		d.messages = d.messages[:0]
		for _, r := range records {
			value, err := jsonpool.Marshal(shared.EncodableRecord(schema, r))
			if err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "failed to encode record")
			}
			d.messages = append(d.messages, &sarama.ProducerMessage{
				Topic: d.topic,
				Value: sarama.ByteEncoder(value),
				Headers: []sarama.RecordHeader{
					{Key: []byte("schema"), Value: []byte(schema.Name)},
				},
			})
		}

		if err := d.producer.SendMessages(d.messages); err != nil {
			failed := len(d.messages)
			if perrs, ok := err.(sarama.ProducerErrors); ok {
				failed = len(perrs)
			}
			return errors.Wrap(err, errors.ErrorTypeConnection, "failed to publish records").
				WithDetail("topic", d.topic).
				WithDetail("failed", failed)
		}
		d.sent += len(records)
		d.RecordWritten(len(records))
		return nil
	})
}

func (d *KafkaDestination) connect(ctx context.Context) error {
	if d.producer != nil {
		return nil
	}
	return d.Connect(ctx, func(context.Context) error {
		p, err := sarama.NewSyncProducer(d.brokers, d.sarama)
		if err != nil {
			return err
		}
		d.producer = p
		return nil
	})
}

// Close closes the producer
func (d *KafkaDestination) Close() error {
	if !d.MarkClosed() || d.producer == nil {
		return nil
	}
	if err := d.producer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to close Kafka producer")
	}
	d.GetLogger().Info("Kafka destination closed",
		zap.String("topic", d.topic),
		zap.Int("messages", d.sent))
	return nil
}
