package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/model"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	maxChatMessage = 1000
	chatReadWait   = 60 * time.Second
	chatPingEvery  = 30 * time.Second
	chatWriteWait  = 10 * time.Second
)

// Replier answers a chat message.
type Replier interface {
	Reply(ctx context.Context, message string) string
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler serves the support chat assistant over HTTP and WebSocket.
type ChatHandler struct {
	assistant Replier
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(assistant Replier, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With().Str("handler", "chat").Logger(),
	}
}

// Message handles POST /api/chat requests.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "message is required", h.logger)
		return
	}
	if len(msg) > maxChatMessage {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "message is too long", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: h.assistant.Reply(r.Context(), msg)})
}

// Socket handles GET /api/chat/ws and answers every JSON message read from
// the connection until the client goes away.
func (h *ChatHandler) Socket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxChatMessage * 4)
	_ = conn.SetReadDeadline(time.Now().Add(chatReadWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatReadWait))
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The ping loop is the only other writer, so writes are serialised through it.
	replies := make(chan chatResponse)
	go h.writeLoop(ctx, conn, replies)

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Msg("chat socket closed")
			}
			return
		}

		msg := strings.TrimSpace(req.Message)
		if msg == "" {
			continue
		}
		if len(msg) > maxChatMessage {
			msg = msg[:maxChatMessage]
		}

		select {
		case replies <- chatResponse{Reply: h.assistant.Reply(ctx, msg)}:
		case <-ctx.Done():
			return
		}
	}
}

func (h *ChatHandler) writeLoop(ctx context.Context, conn *websocket.Conn, replies <-chan chatResponse) {
	ticker := time.NewTicker(chatPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case reply := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
			if err := conn.WriteJSON(reply); err != nil {
				h.logger.Debug().Err(err).Msg("chat reply failed")
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(chatWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		}
	}
}
