package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/config"
	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/dto"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/pkg/logger"
	"shop-assistant-be/pkg/assistant/prompt"
	"shop-assistant-be/pkg/assistant/response"
	"shop-assistant-be/pkg/assistant/retrieval"
	"shop-assistant-be/pkg/assistant/session"
	"shop-assistant-be/pkg/events"
	"shop-assistant-be/pkg/llm"
	"shop-assistant-be/pkg/llm/lifecycle"
	pktNats "shop-assistant-be/pkg/nats"

	"github.com/google/uuid"
)

type IAssistantService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, sessionKey string, limit int) (*dto.ChatHistoryResponse, error)
	EndSession(ctx context.Context, sessionKey string) error
	GetStatus(ctx context.Context) *dto.AssistantStatusResponse
	ExecuteAction(ctx context.Context, request *dto.AssistantActionRequest) (*dto.AssistantActionResponse, error)
}

type assistantService struct {
	sessions    *session.Store
	engine      *retrieval.Engine
	prompts     *prompt.Builder
	lifecycle   *lifecycle.Manager
	llmProvider llm.LLMProvider

	readinessWait time.Duration
	historyLimit  int

	log            logger.ILogger
	eventPublisher *pktNats.Publisher
}

func NewAssistantService(
	sessions *session.Store,
	engine *retrieval.Engine,
	prompts *prompt.Builder,
	lifecycleManager *lifecycle.Manager,
	llmProvider llm.LLMProvider,
	cfg config.AssistantConfig,
	log logger.ILogger,
	eventPublisher *pktNats.Publisher,
) IAssistantService {
	wait := time.Duration(cfg.ReadinessWaitSeconds) * time.Second
	if wait <= 0 {
		wait = 3 * time.Second
	}
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &assistantService{
		sessions:       sessions,
		engine:         engine,
		prompts:        prompts,
		lifecycle:      lifecycleManager,
		llmProvider:    llmProvider,
		readinessWait:  wait,
		historyLimit:   historyLimit,
		log:            log,
		eventPublisher: eventPublisher,
	}
}

// SendChat runs one full turn: record the user message, gather context,
// ask the model (or fall back), record the reply. Once the user message
// is stored the turn always produces an assistant message, except when
// the caller's context is cancelled mid-turn. The first turn on a key
// additionally carries the greeting in the response; it is not part of
// the stored history.
func (s *assistantService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	_, created, err := s.sessions.GetOrCreate(ctx, request.SessionKey, request.Language)
	if err != nil {
		return nil, err
	}

	// No timestamps here: Append stamps messages under the session lock
	// so history order matches append order.
	userMsg := &entity.ChatMessage{
		Id:       uuid.New(),
		Role:     constant.ChatMessageRoleUser,
		Text:     request.Message,
		Language: request.Language,
		IsVoice:  request.IsVoice,
	}
	if _, err := s.sessions.Append(ctx, request.SessionKey, userMsg); err != nil {
		return nil, err
	}

	// Retrieval failures degrade to an empty context set; the turn
	// still gets answered.
	results, err := s.engine.Retrieve(ctx, request.Message, request.Language, retrieval.Filters{})
	if err != nil {
		s.log.Warn("assistant", "retrieval degraded to empty context", map[string]interface{}{
			"session_key": request.SessionKey,
			"error":       err.Error(),
		})
		results = nil
	}

	replyText, usedFallback, err := s.generateReply(ctx, request, results)
	if err != nil {
		// Cancellation: the user message stays recorded, no assistant
		// append. A retry with the same session key is safe.
		return nil, err
	}

	replyMsg := &entity.ChatMessage{
		Id:       uuid.New(),
		Role:     constant.ChatMessageRoleAssistant,
		Text:     replyText,
		Language: request.Language,
	}
	if _, err := s.sessions.Append(ctx, request.SessionKey, replyMsg); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewChatTurn(request.SessionKey, usedFallback, len(results)))

	resp := &dto.SendChatResponse{
		SessionKey: request.SessionKey,
		Sent:       toMessageResponse(userMsg),
		Reply:      toMessageResponse(replyMsg),
		Fallback:   usedFallback,
	}
	if created {
		resp.Greeting = constant.SessionGreeting
	}
	return resp, nil
}

// generateReply produces the assistant text for one turn. The bool
// reports whether the deterministic fallback was used. A non-nil error
// is returned only for caller cancellation.
func (s *assistantService) generateReply(ctx context.Context, request *dto.SendChatRequest, results []*retrieval.Result) (string, bool, error) {
	if !s.lifecycle.EnsureAvailable(ctx, s.readinessWait) {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		s.log.Info("assistant", "model not ready, replying with fallback", map[string]interface{}{
			"session_key": request.SessionKey,
			"model_state": string(s.lifecycle.Status().State),
			"error":       apperror.ErrInferenceUnavailable.Error(),
		})
		return response.Fallback(results), true, nil
	}

	history, err := s.sessions.History(ctx, request.SessionKey, s.historyLimit)
	if err != nil {
		history = nil
	}
	// The user turn was already appended; keep it out of the history
	// block since the prompt carries it as the closing message.
	if n := len(history); n > 0 && history[n-1].Role == constant.ChatMessageRoleUser {
		history = history[:n-1]
	}

	messages := s.prompts.Build(results, history, request.Message)

	// One inference call per turn. No retry; a failure means fallback.
	replyText, err := s.llmProvider.Chat(ctx, messages)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		s.log.Warn("assistant", "inference call failed, replying with fallback", map[string]interface{}{
			"session_key": request.SessionKey,
			"error":       fmt.Errorf("%w: %v", apperror.ErrInferenceCallFailed, err).Error(),
		})
		return response.Fallback(results), true, nil
	}
	return replyText, false, nil
}

func (s *assistantService) GetHistory(ctx context.Context, sessionKey string, limit int) (*dto.ChatHistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	sess, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	msgs, err := s.sessions.History(ctx, sessionKey, limit)
	if err != nil {
		return nil, err
	}

	out := &dto.ChatHistoryResponse{
		SessionKey: sessionKey,
		IsActive:   sess.IsActive,
		Messages:   make([]dto.ChatMessageResponse, len(msgs)),
	}
	for i, m := range msgs {
		out.Messages[i] = toMessageResponse(m)
	}
	return out, nil
}

func (s *assistantService) EndSession(ctx context.Context, sessionKey string) error {
	if err := s.sessions.Deactivate(ctx, sessionKey); err != nil {
		return err
	}
	s.publishEvent(ctx, events.NewSessionEnded(sessionKey))
	return nil
}

func (s *assistantService) GetStatus(ctx context.Context) *dto.AssistantStatusResponse {
	snap := s.lifecycle.Status()

	resp := &dto.AssistantStatusResponse{
		ModelState:         string(snap.State),
		Model:              snap.Model,
		LastError:          snap.LastError,
		Features:           constant.FeatureFlags,
		SupportedLanguages: constant.SupportedLanguages,
	}
	if !snap.LastChecked.IsZero() {
		t := snap.LastChecked
		resp.LastChecked = &t
	}
	return resp
}

// ExecuteAction handles operator actions. The pull runs in the
// background; callers poll the status endpoint for the outcome.
func (s *assistantService) ExecuteAction(ctx context.Context, request *dto.AssistantActionRequest) (*dto.AssistantActionResponse, error) {
	switch request.Action {
	case constant.ActionPullModel:
		before := s.lifecycle.Status().State
		go func() {
			if err := s.lifecycle.PullModel(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("assistant", "operator pull failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			after := s.lifecycle.Status()
			s.publishEvent(context.Background(), events.NewModelStateChanged(after.Model, string(before), string(after.State)))
		}()

		return &dto.AssistantActionResponse{
			Action:     request.Action,
			ModelState: string(s.lifecycle.Status().State),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown action %q", apperror.ErrInvalidMessage, request.Action)
	}
}

func (s *assistantService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("assistant", "event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func toMessageResponse(m *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Id:        m.Id,
		Role:      m.Role,
		Text:      m.Text,
		Language:  m.Language,
		IsVoice:   m.IsVoice,
		CreatedAt: m.CreatedAt,
	}
}
