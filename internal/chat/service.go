package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log"
	"strings"

	"github.com/google/uuid"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/validation"
)

const systemPromptTemplate = `You are an expert on books and literature. Provide detailed and accurate information about the book "%s" by %s.
Answer questions concisely, focusing on plot, themes, characters, and historical context.
Maintain context from previous messages to provide relevant follow-up responses.`

// Message accepts either a JSON string or an array of strings.
type Message string

func (m *Message) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*m = Message(text)
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("message must be a string or an array of strings")
	}
	*m = Message(strings.Join(parts, "\n"))
	return nil
}

// Request asks a question about a book.
type Request struct {
	SessionID string  `json:"sessionId"`
	Title     string  `json:"title" validate:"notblank"`
	Author    string  `json:"author" validate:"notblank"`
	Message   Message `json:"message"`
}

// Reply is a lazily streamed answer. Chunks must be consumed at most once.
type Reply struct {
	SessionID string
	Chunks    iter.Seq2[string, error]
}

// Service answers questions about books through a Backend.
type Service struct {
	backend   Backend
	sessions  *SessionStore
	model     string
	validator *validation.Validator
}

func NewService(backend Backend, sessions *SessionStore, model string) *Service {
	return &Service{
		backend:   backend,
		sessions:  sessions,
		model:     model,
		validator: validation.New(),
	}
}

// ChatAboutBook sends a message in the request's session, opening a new
// session when the ID is empty or unknown.
func (s *Service) ChatAboutBook(ctx context.Context, req Request) (*Reply, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := s.validator.Validate(&req); err != nil {
		return nil, err
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	entry, created, err := s.sessions.getOrCreate(ctx, sessionID, func(ctx context.Context) (Session, error) {
		return s.backend.CreateSession(ctx, s.model, fmt.Sprintf(systemPromptTemplate, req.Title, req.Author))
	})
	if err != nil {
		return nil, domainerrors.Upstream(err, "Error processing chat")
	}
	if created {
		log.Printf("[CHAT] Opened session %s for %q", sessionID, req.Title)
	}

	text := strings.TrimSpace(string(req.Message))
	if text == "" {
		text = fmt.Sprintf("What is the book %s by %s about?", req.Title, req.Author)
	}

	chunks := func(yield func(string, error) bool) {
		entry.mu.Lock()
		defer entry.mu.Unlock()

		for chunk, err := range entry.session.SendMessageStream(ctx, text) {
			if err != nil {
				yield("", domainerrors.Upstream(err, "Error processing chat"))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}

	return &Reply{SessionID: sessionID, Chunks: chunks}, nil
}
