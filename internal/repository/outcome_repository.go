package repository

import (
	"context"
	"fmt"

	"checkinbot/internal/domain"
	"checkinbot/internal/repository/kafka"
)

// OutcomeRepository receives one event per account outcome. It exists so a
// fleet of cron runners can feed a central collector; a run with no brokers
// configured uses the no-op implementation.
type OutcomeRepository interface {
	SendOutcome(ctx context.Context, outcome domain.SignInOutcome) error
}

type KafkaOutcomeRepository struct {
	producer *kafka.Producer
}

func NewKafkaOutcomeRepository(producer *kafka.Producer) OutcomeRepository {
	return &KafkaOutcomeRepository{producer: producer}
}

// SendOutcome publishes the outcome as a JSON event keyed by the masked
// identifier, so events for one account land in one partition.
func (r *KafkaOutcomeRepository) SendOutcome(ctx context.Context, outcome domain.SignInOutcome) error {
	if err := r.producer.PublishEvent(ctx, outcome.DisplayID, outcome); err != nil {
		return fmt.Errorf("failed to publish outcome: %w", err)
	}
	return nil
}

// NoopOutcomeRepository drops every outcome. Used when no Kafka brokers are
// configured.
type NoopOutcomeRepository struct{}

func (NoopOutcomeRepository) SendOutcome(context.Context, domain.SignInOutcome) error {
	return nil
}
