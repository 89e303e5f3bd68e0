// Package events publica los eventos de stock hacia afuera del servicio.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/event"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

const (
	batchTimeout = 10 * time.Millisecond
	batchSize    = 100
)

// MessageWriter lo implementa *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe operation.validated en el topic de eventos de stock, con la referencia
// como key y el contexto de traza en los headers.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	log    *logger.Logger
}

// NewKafkaWriter construye el writer para el topic configurado.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: batchTimeout,
		BatchSize:    batchSize,
	}
}

// NewKafkaPublisher construye el publicador sobre un writer.
func NewKafkaPublisher(writer MessageWriter, topic string, log *logger.Logger) *KafkaPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaPublisher{writer: writer, topic: topic, log: log.Named("kafka")}
}

// PublishOperationValidated serializa el evento y lo escribe en Kafka.
func (p *KafkaPublisher) PublishOperationValidated(ctx context.Context, evt event.OperationValidated) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", evt.Event, err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "event", Value: []byte(evt.Event)})
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(evt.Reference),
		Value:   payload,
		Headers: headers,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka %s: %w", p.topic, err)
	}
	p.log.Debug().Str("reference", evt.Reference).Str("topic", p.topic).Msg("evento publicado")
	return nil
}

// Close cierra el writer y vacía los mensajes pendientes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
