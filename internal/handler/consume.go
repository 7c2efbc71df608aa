package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/libratrack/lms/internal/model"
)

type generateReport func(ctx context.Context, job model.ReportJob) error

type Consumer struct {
	generateHandler generateReport
	log             *zap.Logger
	ready           chan bool
}

func NewConsumer(generate generateReport, log *zap.Logger) *Consumer {
	return &Consumer{
		generateHandler: generate,
		log:             log.Named("consumer"),
		ready:           make(chan bool),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var job model.ReportJob
			if err := json.Unmarshal(message.Value, &job); err != nil {
				consumer.log.Error("unmarshal report job", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			// failures are recorded on the report row; the message is
			// always marked so a broken job is not retried forever
			if err := consumer.generateHandler(context.Background(), job); err != nil {
				consumer.log.Error("consumer.generateHandler", zap.Error(err))
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
