package session

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shop-assistant-be/internal/apperror"
	"shop-assistant-be/internal/constant"
	"shop-assistant-be/internal/entity"
	"shop-assistant-be/internal/repository/specification"
	"shop-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Store owns chat sessions. All history mutation goes through Append so
// per-session ordering holds even under concurrent turns.
type Store struct {
	factory unitofwork.RepositoryFactory

	// snapshots caches active sessions by key; the cache TTL doubles as
	// the idle window after which a session is retired.
	snapshots *gocache.Cache
	idle      time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(factory unitofwork.RepositoryFactory, idle time.Duration) *Store {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Store{
		factory:   factory,
		snapshots: gocache.New(idle, 10*time.Minute),
		idle:      idle,
		locks:     make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex serializing one session key.
func (s *Store) keyLock(sessionKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionKey]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionKey] = l
	}
	return l
}

// GetOrCreate returns the session for a key, creating an active empty
// one on first reference. The bool reports whether a new session was
// created; callers surface the greeting for new sessions. The greeting
// is never written into history, which holds turn messages only.
func (s *Store) GetOrCreate(ctx context.Context, sessionKey, language string) (*entity.ChatSession, bool, error) {
	lock := s.keyLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()
	return s.getOrCreateLocked(ctx, sessionKey, language)
}

func (s *Store) getOrCreateLocked(ctx context.Context, sessionKey, language string) (*entity.ChatSession, bool, error) {
	if cached, ok := s.snapshots.Get(sessionKey); ok {
		return cached.(*entity.ChatSession), false, nil
	}

	uow := s.factory.NewUnitOfWork(ctx)
	existing, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if existing.IsActive {
			s.snapshots.Set(sessionKey, existing, gocache.DefaultExpiration)
		}
		return existing, false, nil
	}

	now := time.Now()
	sess := &entity.ChatSession{
		Id:         uuid.New(),
		SessionKey: sessionKey,
		Language:   language,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  &now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, sess); err != nil {
		return nil, false, err
	}

	s.snapshots.Set(sessionKey, sess, gocache.DefaultExpiration)
	return sess, true, nil
}

// Get returns the session for a key without creating one. Unknown keys
// fail with SessionNotFound.
func (s *Store) Get(ctx context.Context, sessionKey string) (*entity.ChatSession, error) {
	if cached, ok := s.snapshots.Get(sessionKey); ok {
		return cached.(*entity.ChatSession), nil
	}
	uow := s.factory.NewUnitOfWork(ctx)
	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperror.ErrSessionNotFound
	}
	return sess, nil
}

// Append validates and records one message. Roles outside user and
// assistant, and empty text, are rejected with InvalidMessage. Appending
// to a retired session fails with SessionClosed. Sessions idle past the
// store's window are retired on the spot. Messages without a timestamp
// are stamped here, under the session lock and after session resolution,
// so history order follows append order.
func (s *Store) Append(ctx context.Context, sessionKey string, msg *entity.ChatMessage) (*entity.ChatSession, error) {
	if msg.Role != constant.ChatMessageRoleUser && msg.Role != constant.ChatMessageRoleAssistant {
		return nil, apperror.ErrInvalidMessage
	}
	if strings.TrimSpace(msg.Text) == "" {
		return nil, apperror.ErrInvalidMessage
	}

	lock := s.keyLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	sess, _, err := s.getOrCreateLocked(ctx, sessionKey, msg.Language)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive {
		return nil, apperror.ErrSessionClosed
	}
	if s.idleExpired(sess) {
		if err := s.deactivateLocked(ctx, sess); err != nil {
			return nil, err
		}
		return nil, apperror.ErrSessionClosed
	}

	if msg.Id == uuid.Nil {
		msg.Id = uuid.New()
	}
	msg.ChatSessionId = sess.Id
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.ChatMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	now := time.Now()
	sess.UpdatedAt = &now
	if msg.Language != "" {
		sess.Language = msg.Language
	}
	if err := uow.ChatSessionRepository().Update(ctx, sess); err != nil {
		return nil, err
	}

	s.snapshots.Set(sessionKey, sess, gocache.DefaultExpiration)
	return sess, nil
}

// Deactivate retires a session. Unknown keys fail with SessionNotFound.
func (s *Store) Deactivate(ctx context.Context, sessionKey string) error {
	lock := s.keyLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	uow := s.factory.NewUnitOfWork(ctx)
	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return err
	}
	if sess == nil {
		return apperror.ErrSessionNotFound
	}
	return s.deactivateLocked(ctx, sess)
}

func (s *Store) deactivateLocked(ctx context.Context, sess *entity.ChatSession) error {
	sess.IsActive = false
	now := time.Now()
	sess.UpdatedAt = &now

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Update(ctx, sess); err != nil {
		return err
	}
	s.snapshots.Delete(sess.SessionKey)
	return nil
}

// History returns the most recent maxMessages in chronological order,
// oldest first. Unknown keys fail with SessionNotFound.
func (s *Store) History(ctx context.Context, sessionKey string, maxMessages int) ([]*entity.ChatMessage, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperror.ErrSessionNotFound
	}

	msgs, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sess.Id})
	if err != nil {
		return nil, err
	}

	sortMessages(msgs)
	if maxMessages > 0 && len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	return msgs, nil
}

func (s *Store) idleExpired(sess *entity.ChatSession) bool {
	last := sess.CreatedAt
	if sess.UpdatedAt != nil {
		last = *sess.UpdatedAt
	}
	return time.Since(last) > s.idle
}

func sortMessages(msgs []*entity.ChatMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}
