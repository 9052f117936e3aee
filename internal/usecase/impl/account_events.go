package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "smarttrack/internal/delivery/context"
	"smarttrack/internal/domain/entity"
	"smarttrack/internal/domain/service"

	"github.com/google/uuid"
)

// publish emits an account event after the producing transaction has committed.
// Publishing failures are logged and never fail the request.
func (srv *authService) publish(ctx context.Context, eventType service.AccountEventType, account *entity.Account, provider entity.ProviderType) {
	publishAccountEvent(ctx, srv.publisher, srv.log(ctx), srv.now, eventType, account, provider)
}

func publishAccountEvent(
	ctx context.Context,
	publisher service.AccountEventPublisher,
	logger *slog.Logger,
	now func() time.Time,
	eventType service.AccountEventType,
	account *entity.Account,
	provider entity.ProviderType,
) {
	if publisher == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventID:    uuid.New().String(),
		EventType:  eventType,
		AccountID:  account.ID.String(),
		Email:      account.Email,
		Provider:   string(provider),
		OccurredAt: now().UTC(),
	}

	if err := publisher.PublishAccountEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish account event",
			slog.String("event_type", string(eventType)),
			slog.String("account_id", event.AccountID),
			slog.Any("error", err),
		)
	}
}
