package service

import (
	"context"
	"fmt"
	"strings"

	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/pkg/events"
	"shop-assistant-be/pkg/llm/lifecycle"
	pktNats "shop-assistant-be/pkg/nats"
)

type IOpsService interface {
	Start()
}

// opsService consumes the service's own event stream and writes an
// operational audit trail. Degradations (failed pulls, fallback turns)
// surface as warnings so they stand out in the log.
type opsService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
}

func NewOpsService(sub *pktNats.Subscriber, log logger.ILogger) IOpsService {
	return &opsService{
		subscriber: sub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *opsService) Start() {
	err := s.subscriber.Subscribe("assistant.>", "ops-audit-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("ops", "failed to start ops subscriber", map[string]interface{}{"error": err.Error()})
		return
	}
	s.logger.Info("ops", "ops audit worker started, listening to assistant.>", nil)
}

func (s *opsService) handleEvent(ctx context.Context, event events.Event) error {
	// The NATS subject carries the stream prefix; strip it back to the
	// event type code.
	code := strings.TrimPrefix(event.EventType(), "assistant.")
	details := event.Payload()

	switch code {
	case events.TypeModelStateChanged:
		to, _ := details["to"].(string)
		if to == string(lifecycle.StatePullFailed) || to == string(lifecycle.StateUnavailable) {
			s.logger.Warn("ops", fmt.Sprintf("model degraded to %s", to), details)
			return nil
		}
		s.logger.Info("ops", "model state changed", details)
	case events.TypeChatTurn:
		if fallback, _ := details["fallback"].(bool); fallback {
			s.logger.Warn("ops", "turn answered via fallback", details)
			return nil
		}
		s.logger.Info("ops", "chat turn completed", details)
	default:
		s.logger.Info("ops", fmt.Sprintf("event %s", code), details)
	}
	return nil
}
