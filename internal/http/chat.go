package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/chat"
	domainerrors "github.com/mrlokans/bookshelf/internal/errors"
)

const chatErrorMessage = "Error processing chat"

// ChatService answers questions about a book as a stream of text chunks.
type ChatService interface {
	ChatAboutBook(ctx context.Context, req chat.Request) (*chat.Reply, error)
}

type ChatController struct {
	chat ChatService
}

func NewChatController(service ChatService) *ChatController {
	return &ChatController{chat: service}
}

type chatChunk struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

// Chat streams an answer as server-sent events: one "message" event per chunk,
// then "end", or "error" if the model fails mid-stream.
// POST /api/chat
func (cc *ChatController) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	reply, err := cc.chat.ChatAboutBook(c.Request.Context(), req)
	if err != nil && domainerrors.CodeOf(err) == domainerrors.CodeValidation {
		respondError(c, err, "chat")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	if err != nil {
		log.Printf("Chat failed: %v", err)
		cc.sendError(c)
		return
	}

	for text, err := range reply.Chunks {
		if err != nil {
			log.Printf("Chat stream failed for session %s: %v", reply.SessionID, err)
			cc.sendError(c)
			return
		}
		c.SSEvent("message", chatChunk{Text: text, SessionID: reply.SessionID})
		c.Writer.Flush()

		if c.Request.Context().Err() != nil {
			return
		}
	}

	c.SSEvent("end", gin.H{})
	c.Writer.Flush()
}

func (cc *ChatController) sendError(c *gin.Context) {
	c.SSEvent("error", gin.H{"error": chatErrorMessage})
	c.Writer.Flush()
}
