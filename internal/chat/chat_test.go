package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

type fakeSession struct {
	mu       sync.Mutex
	messages []string
	chunks   []string
	err      error
}

func (s *fakeSession) SendMessageStream(_ context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s.mu.Lock()
		s.messages = append(s.messages, text)
		s.mu.Unlock()

		for _, c := range s.chunks {
			if !yield(c, nil) {
				return
			}
		}
		if s.err != nil {
			yield("", s.err)
		}
	}
}

type fakeBackend struct {
	mu           sync.Mutex
	created      int
	model        string
	instructions []string
	session      *fakeSession
	err          error
}

func (b *fakeBackend) CreateSession(_ context.Context, model, systemInstruction string) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	b.created++
	b.model = model
	b.instructions = append(b.instructions, systemInstruction)
	return b.session, nil
}

func newTestService(t *testing.T, backend *fakeBackend) *Service {
	t.Helper()
	store, err := NewSessionStore(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return NewService(backend, store, "test-model")
}

func collect(t *testing.T, reply *Reply) ([]string, error) {
	t.Helper()
	var chunks []string
	for chunk, err := range reply.Chunks {
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func TestService_ChatAboutBook_NewSession(t *testing.T) {
	session := &fakeSession{chunks: []string{"Dune is ", "a novel."}}
	backend := &fakeBackend{session: session}
	svc := newTestService(t, backend)

	reply, err := svc.ChatAboutBook(context.Background(), Request{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.NotEmpty(t, reply.SessionID)

	chunks, err := collect(t, reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune is ", "a novel."}, chunks)

	assert.Equal(t, "test-model", backend.model)
	require.Len(t, backend.instructions, 1)
	assert.Contains(t, backend.instructions[0], `"Dune" by Frank Herbert`)
	assert.Equal(t, []string{"What is the book Dune by Frank Herbert about?"}, session.messages)
}

func TestService_ChatAboutBook_ReusesSession(t *testing.T) {
	session := &fakeSession{chunks: []string{"ok"}}
	backend := &fakeBackend{session: session}
	svc := newTestService(t, backend)
	ctx := context.Background()

	first, err := svc.ChatAboutBook(ctx, Request{Title: "Dune", Author: "Frank Herbert", Message: "Who is Paul?"})
	require.NoError(t, err)
	_, err = collect(t, first)
	require.NoError(t, err)

	second, err := svc.ChatAboutBook(ctx, Request{SessionID: first.SessionID, Title: "Dune", Author: "Frank Herbert", Message: "And Leto?"})
	require.NoError(t, err)
	_, err = collect(t, second)
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, backend.created)
	assert.Equal(t, []string{"Who is Paul?", "And Leto?"}, session.messages)
}

func TestService_ChatAboutBook_UnknownSessionIDIsKept(t *testing.T) {
	backend := &fakeBackend{session: &fakeSession{}}
	svc := newTestService(t, backend)

	reply, err := svc.ChatAboutBook(context.Background(), Request{SessionID: "client-chosen", Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.Equal(t, "client-chosen", reply.SessionID)
	assert.Equal(t, 1, backend.created)
}

func TestService_ChatAboutBook_Validation(t *testing.T) {
	backend := &fakeBackend{session: &fakeSession{}}
	svc := newTestService(t, backend)

	_, err := svc.ChatAboutBook(context.Background(), Request{Title: "Dune"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.ChatAboutBook(context.Background(), Request{Title: " ", Author: "Frank Herbert"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	assert.Zero(t, backend.created)
}

func TestService_ChatAboutBook_BackendFailure(t *testing.T) {
	svc := newTestService(t, &fakeBackend{err: errors.New("quota exceeded")})

	_, err := svc.ChatAboutBook(context.Background(), Request{Title: "Dune", Author: "Frank Herbert"})
	assert.ErrorIs(t, err, domainerrors.ErrUpstream)
}

func TestService_ChatAboutBook_StreamFailure(t *testing.T) {
	session := &fakeSession{chunks: []string{"partial"}, err: errors.New("stream reset")}
	svc := newTestService(t, &fakeBackend{session: session})

	reply, err := svc.ChatAboutBook(context.Background(), Request{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)

	chunks, err := collect(t, reply)
	assert.Equal(t, []string{"partial"}, chunks)
	assert.ErrorIs(t, err, domainerrors.ErrUpstream)
}

func TestMessage_UnmarshalJSON(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Dune","author":"Frank Herbert","message":"Hi"}`), &req))
	assert.Equal(t, Message("Hi"), req.Message)

	require.NoError(t, json.Unmarshal([]byte(`{"message":["Who is Paul?","Be brief."]}`), &req))
	assert.Equal(t, Message("Who is Paul?\nBe brief."), req.Message)

	assert.Error(t, json.Unmarshal([]byte(`{"message":42}`), &req))
}

func TestSessionStore_Expires(t *testing.T) {
	store, err := NewSessionStore(10, 50*time.Millisecond)
	require.NoError(t, err)
	defer store.Close()

	creates := 0
	create := func(context.Context) (Session, error) {
		creates++
		return &fakeSession{}, nil
	}

	_, created, err := store.getOrCreate(context.Background(), "s1", create)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = store.getOrCreate(context.Background(), "s1", create)
	require.NoError(t, err)
	assert.False(t, created)

	time.Sleep(200 * time.Millisecond)

	_, created, err = store.getOrCreate(context.Background(), "s1", create)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, creates)
}

func TestSessionStore_KeepsNewSessionsAtCapacity(t *testing.T) {
	store, err := NewSessionStore(5, time.Hour)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	create := func(context.Context) (Session, error) {
		return &fakeSession{}, nil
	}

	// Fill the store and make the first sessions hot.
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("old-%d", i)
		for j := 0; j < 3; j++ {
			_, _, err := store.getOrCreate(ctx, id, create)
			require.NoError(t, err)
		}
	}

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("new-%d", i)
		_, created, err := store.getOrCreate(ctx, id, create)
		require.NoError(t, err)
		assert.True(t, created)

		_, created, err = store.getOrCreate(ctx, id, create)
		require.NoError(t, err)
		assert.False(t, created, "session %s was dropped right after creation", id)
	}
	assert.LessOrEqual(t, len(store.lastUsed), 5)
}

func TestNewSessionStore_InvalidConfig(t *testing.T) {
	_, err := NewSessionStore(0, time.Minute)
	assert.Error(t, err)

	_, err = NewSessionStore(10, 0)
	assert.Error(t, err)
}
