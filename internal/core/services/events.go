package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

// publish runs after the write is committed, so errors are only logged.
func publish(ctx context.Context, pub domain.EventPublisher, logger *zap.Logger, routingKey string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, routingKey, payload); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
	}
}
