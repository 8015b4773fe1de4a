// Package chat holds conversations with an AI model about a single book.
//
// A conversation is a Session created by a Backend; sessions are kept in a
// bounded TTL store so follow-up questions keep their context.
package chat

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"
)

// Backend opens chat sessions against a language model.
type Backend interface {
	CreateSession(ctx context.Context, model, systemInstruction string) (Session, error)
}

// Session is a stateful conversation. Each call to SendMessageStream appends
// the message and the model's reply to the history.
type Session interface {
	SendMessageStream(ctx context.Context, text string) iter.Seq2[string, error]
}

// GeminiBackend creates sessions with the Gemini API.
type GeminiBackend struct {
	client *genai.Client
}

// NewGeminiBackend creates a Gemini client authenticated with apiKey.
func NewGeminiBackend(ctx context.Context, apiKey string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiBackend{client: client}, nil
}

func (b *GeminiBackend) CreateSession(ctx context.Context, model, systemInstruction string) (Session, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "text/plain",
	}

	chat, err := b.client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return &geminiSession{chat: chat}, nil
}

type geminiSession struct {
	chat *genai.Chat
}

func (s *geminiSession) SendMessageStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
			if err != nil {
				yield("", fmt.Errorf("stream reply: %w", err))
				return
			}
			chunk := resp.Text()
			if chunk == "" {
				continue
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}
