// Package chat keeps the assistant conversations and drives one exchange
// with the relay per user message.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chaisa2/student-productivity-help-app/internal/collection"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/storage"
)

var ErrNotFound = errors.New("chat session not found")

// Relay answers a user message given the prior conversation.
type Relay interface {
	Ask(ctx context.Context, message string, history []models.Turn) (string, error)
}

// Pending is a user message that has been recorded and is waiting for its reply.
type Pending struct {
	SessionID string
	Message   string
	History   []models.Turn
}

type Store struct {
	provider storage.Provider
	list     *collection.List[models.ChatSession]
	active   string
	now      func() time.Time
}

func sessionID(s models.ChatSession) string { return s.ID }

// Open loads the sessions from p. The most recently updated session becomes active.
func Open(p storage.Provider) (*Store, error) {
	var items []models.ChatSession
	if _, err := storage.GetJSON(p, constants.KeyChatSessions, &items); err != nil {
		return nil, fmt.Errorf("failed to load chat sessions: %w", err)
	}

	s := &Store{
		provider: p,
		list:     collection.New(sessionID, items),
		now:      time.Now,
	}
	var latest time.Time
	for _, sess := range s.list.Items() {
		if s.active == "" || sess.LastUpdated.After(latest) {
			s.active = sess.ID
			latest = sess.LastUpdated
		}
	}
	return s, nil
}

func (s *Store) save() error {
	if err := storage.PutJSON(s.provider, constants.KeyChatSessions, s.list.Items()); err != nil {
		return fmt.Errorf("failed to save chat sessions: %w", err)
	}
	return nil
}

// Sessions returns every session, newest first.
func (s *Store) Sessions() []models.ChatSession {
	return s.list.Items()
}

func (s *Store) Get(id string) (models.ChatSession, error) {
	sess, ok := s.list.Get(id)
	if !ok {
		return models.ChatSession{}, ErrNotFound
	}
	return sess, nil
}

// Resolve expands a unique id prefix to a session id.
func (s *Store) Resolve(prefix string) (string, error) {
	id, err := s.list.Resolve(prefix)
	if errors.Is(err, collection.ErrNotFound) {
		return "", ErrNotFound
	}
	return id, err
}

// Active returns the active session, if any.
func (s *Store) Active() (models.ChatSession, bool) {
	if s.active == "" {
		return models.ChatSession{}, false
	}
	return s.list.Get(s.active)
}

func (s *Store) ActiveID() string {
	return s.active
}

// SetActive switches the active session. Selection is not persisted.
func (s *Store) SetActive(id string) error {
	if _, ok := s.list.Get(id); !ok {
		return ErrNotFound
	}
	s.active = id
	return nil
}

// NewSession prepends an empty session and makes it active.
func (s *Store) NewSession() (models.ChatSession, error) {
	now := s.now()
	sess := models.ChatSession{
		ID:          uuid.NewString(),
		Title:       constants.NewChatTitle,
		Messages:    []models.Message{},
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.list.Prepend(sess)
	s.active = sess.ID
	if err := s.save(); err != nil {
		return models.ChatSession{}, err
	}
	return sess, nil
}

// Delete removes a session. Deleting the active session activates the first
// remaining one, or none.
func (s *Store) Delete(id string) error {
	if !s.list.Remove(id) {
		return ErrNotFound
	}
	if s.active == id {
		s.active = ""
		if first, ok := s.list.First(); ok {
			s.active = first.ID
		}
	}
	return s.save()
}

// Begin records text as a user message in the active session, creating one
// when none is active. Blank text is ignored and yields nil.
func (s *Store) Begin(text string) (*Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	sess, ok := s.Active()
	if !ok {
		created, err := s.NewSession()
		if err != nil {
			return nil, err
		}
		sess = created
	}

	p := &Pending{SessionID: sess.ID, Message: text, History: sess.History()}

	if len(sess.Messages) == 0 {
		sess.Title = Title(text)
	}
	s.append(&sess, text, models.RoleUser)
	s.list.Replace(sess)
	if err := s.save(); err != nil {
		return nil, err
	}
	return p, nil
}

// Finish appends the reply to p as an assistant message. A relay error is
// replaced by the fixed apology.
func (s *Store) Finish(p *Pending, reply string, relayErr error) (models.Message, error) {
	if relayErr != nil {
		logger.Warn("Chat relay failed", "session", p.SessionID, "error", relayErr)
		reply = constants.ChatFallbackReply
	}

	sess, ok := s.list.Get(p.SessionID)
	if !ok {
		return models.Message{}, ErrNotFound
	}
	msg := s.append(&sess, reply, models.RoleAssistant)
	s.list.Replace(sess)
	if err := s.save(); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// Send runs one full exchange: Begin, ask the relay, Finish.
// It returns nil when text is blank.
func (s *Store) Send(ctx context.Context, relay Relay, text string) (*models.Message, error) {
	p, err := s.Begin(text)
	if err != nil || p == nil {
		return nil, err
	}

	reply, askErr := relay.Ask(ctx, p.Message, p.History)
	msg, err := s.Finish(p, reply, askErr)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Store) append(sess *models.ChatSession, content string, role models.Role) models.Message {
	now := s.now()
	msg := models.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Timestamp: now,
	}
	sess.Messages = append(sess.Messages, msg)
	sess.LastUpdated = now
	return msg
}

// Title derives a session title from its first user message.
func Title(first string) string {
	r := []rune(first)
	if len(r) > constants.ChatTitleMaxRunes {
		return string(r[:constants.ChatTitleMaxRunes]) + "..."
	}
	return first
}
