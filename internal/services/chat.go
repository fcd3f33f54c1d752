package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tiadocs/tia/internal/api"
	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/repositories/sessions"
)

// assistantErrorText is appended in place of an answer when the backend
// fails. The user's own message stays in the log; failures are additive.
const assistantErrorText = "Sorry, I couldn't answer that. Please try again."

// ChatService owns the append-only chat log and the single-flight question
// round trip, plus saving/loading named snapshots of the log.
type ChatService struct {
	client   api.Client
	sessions sessions.Repository
	log      logging.Logger
	topK     int

	mu       sync.Mutex
	messages []models.ChatMessage
	activeID string
	busy     bool

	now func() time.Time
}

func NewChatService(client api.Client, repo sessions.Repository, log logging.Logger, topK int) *ChatService {
	return &ChatService{
		client:   client,
		sessions: repo,
		log:      log,
		topK:     topK,
		now:      time.Now,
	}
}

// Messages returns a copy of the current log in insertion order.
func (s *ChatService) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.messages...)
}

// ActiveSessionID returns the id of the loaded saved session, or "" for an
// unsaved log.
func (s *ChatService) ActiveSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Busy reports whether a question is outstanding.
func (s *ChatService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Ask submits a question for the given user. The user message is appended
// optimistically before the request; on success the assistant's answer is
// appended with the backend's sources verbatim, on failure a fixed error
// message is appended instead and the error is returned for notification.
// Nothing already in the log is ever altered or removed.
//
// A second Ask while one is outstanding returns ErrBusy. Blank questions and
// a missing user id are rejected before any network call.
func (s *ChatService) Ask(ctx context.Context, userID, question string) (*models.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.appendLocked(models.RoleUser, question, nil)
	s.mu.Unlock()

	res, err := s.client.Query(ctx, userID, question, s.topK)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.log.Error(ctx, "query failed", "error", err)
		msg := s.appendLocked(models.RoleAssistant, assistantErrorText, nil)
		return &msg, err
	}

	msg := s.appendLocked(models.RoleAssistant, res.Answer, res.Sources)
	return &msg, nil
}

// appendLocked adds a message to the log. Callers must hold s.mu. Message
// ids are derived from the submission time, which also keeps them sortable.
func (s *ChatService) appendLocked(role models.MessageRole, content string, sources []models.Source) models.ChatMessage {
	now := s.now()
	msg := models.ChatMessage{
		ID:        strconv.FormatInt(now.UnixNano(), 10),
		Role:      role,
		Content:   content,
		CreatedAt: now,
		Sources:   sources,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// RemoveMessage deletes a single message from the log by id. Past messages
// are never mutated, only removed.
func (s *ChatService) RemoveMessage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// Reset clears the live log and detaches it from any saved session.
func (s *ChatService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.activeID = ""
}

// Save snapshots the current log under the given name (auto-generated when
// empty) and returns the stored session.
func (s *ChatService) Save(ctx context.Context, name string) (*models.SavedSession, error) {
	s.mu.Lock()
	snapshot := append([]models.ChatMessage(nil), s.messages...)
	s.mu.Unlock()

	now := s.now()
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Session %s", now.Format("2006-01-02 15:04"))
	}
	saved := models.SavedSession{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		Messages:  snapshot,
	}
	if err := s.sessions.Save(ctx, saved); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.activeID = saved.ID
	s.mu.Unlock()

	s.log.Info(ctx, "chat session saved", "id", saved.ID, "name", saved.Name, "messages", len(snapshot))
	return &saved, nil
}

// Load replaces the live log wholly with a saved snapshot. No merging.
func (s *ChatService) Load(ctx context.Context, id string) error {
	saved, err := s.sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]models.ChatMessage(nil), saved.Messages...)
	s.activeID = saved.ID
	return nil
}

// ListSaved returns the stored snapshots, newest first.
func (s *ChatService) ListSaved(ctx context.Context) ([]models.SavedSession, error) {
	return s.sessions.List(ctx)
}

// DeleteSaved removes a stored snapshot. The live log is untouched even if
// it was loaded from that snapshot.
func (s *ChatService) DeleteSaved(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}
