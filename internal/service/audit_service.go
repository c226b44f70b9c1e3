package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
)

// AuditService records post lifecycle events in the structured log.
type AuditService struct {
	bus    events.Bus
	logger *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(bus events.Bus, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{bus: bus, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to post events.
func (a *AuditService) RegisterHandlers() {
	if a.bus == nil {
		return
	}
	a.bus.Subscribe(events.EventPostCreated, a.record)
	a.bus.Subscribe(events.EventPostUpdated, a.record)
	a.bus.Subscribe(events.EventPostDeleted, a.record)
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("post_id", event.PostID),
		zap.String("actor", event.Actor.Subject),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload))
	return nil
}
