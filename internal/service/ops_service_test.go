package service

import (
	"context"
	"testing"
	"time"

	"shop-assistant-be/pkg/events"
)

type recordingLogger struct {
	infos []string
	warns []string
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {}
func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.infos = append(l.infos, message)
}
func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.warns = append(l.warns, message)
}
func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {}

func (l *recordingLogger) Sync() error { return nil }

func busEvent(code string, data map[string]interface{}) events.Event {
	// Events arrive off the bus with the stream prefix on the subject.
	return events.BaseEvent{
		Type:       "assistant." + code,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func TestOpsHandleEventSeverity(t *testing.T) {
	tests := []struct {
		name      string
		event     events.Event
		wantWarns int
		wantInfos int
	}{
		{
			name:      "failed pull warns",
			event:     busEvent(events.TypeModelStateChanged, map[string]interface{}{"to": "pull_failed"}),
			wantWarns: 1,
		},
		{
			name:      "model back up is informational",
			event:     busEvent(events.TypeModelStateChanged, map[string]interface{}{"to": "available"}),
			wantInfos: 1,
		},
		{
			name:      "fallback turn warns",
			event:     busEvent(events.TypeChatTurn, map[string]interface{}{"fallback": true}),
			wantWarns: 1,
		},
		{
			name:      "answered turn is informational",
			event:     busEvent(events.TypeChatTurn, map[string]interface{}{"fallback": false}),
			wantInfos: 1,
		},
		{
			name:      "unrecognized events are still recorded",
			event:     busEvent("SOMETHING_NEW", nil),
			wantInfos: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			svc := &opsService{logger: log}

			if err := svc.handleEvent(context.Background(), tt.event); err != nil {
				t.Fatalf("handleEvent returned %v; events must always be acked", err)
			}
			if len(log.warns) != tt.wantWarns {
				t.Errorf("warns = %d, want %d", len(log.warns), tt.wantWarns)
			}
			if len(log.infos) != tt.wantInfos {
				t.Errorf("infos = %d, want %d", len(log.infos), tt.wantInfos)
			}
		})
	}
}
