package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/linkup-social/backend/internal/chat"
	"github.com/linkup-social/backend/internal/models"
	"github.com/linkup-social/backend/internal/repositories"
)

// ChatHandler handles the websocket chat endpoint and conversation history.
// The hub is injected; the handler owns each connection's read loop.
type ChatHandler struct {
	hub               *chat.Hub
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
	upgrader          websocket.Upgrader
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(hub *chat.Hub, messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *ChatHandler {
	return &ChatHandler{
		hub:               hub,
		messageRepository: messageRepo,
		userRepository:    userRepo,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterChatRoutes registers chat-related routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chat/ws", h.Connect)
	g.GET("/chat/:userId/messages", h.GetConversation)
}

// Connect upgrades the request to a websocket and pumps incoming chat
// payloads: each one is persisted, then pushed to the recipient's live
// connections and echoed back to the sender.
func (h *ChatHandler) Connect(c echo.Context) error {
	callerID := currentUserID(c)

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to upgrade connection")
	}

	conn := h.hub.Register(callerID, ws)
	defer conn.Close()

	for {
		var payload models.ChatPayload
		if err := conn.ReadJSON(&payload); err != nil {
			return nil // peer closed or sent garbage; drop the connection
		}
		if payload.RecipientID == 0 || strings.TrimSpace(payload.Content) == "" {
			continue
		}

		message := &models.Message{
			ConversationID: models.ConversationKey(callerID, payload.RecipientID),
			SenderID:       callerID,
			RecipientID:    payload.RecipientID,
			Content:        payload.Content,
		}
		if err := h.messageRepository.CreateMessage(c.Request().Context(), message); err != nil {
			c.Logger().Errorf("failed to store chat message: %v", err)
			continue
		}

		frame, err := json.Marshal(echo.Map{"type": "new_message", "payload": message})
		if err != nil {
			continue
		}
		h.hub.SendToUser(payload.RecipientID, frame)
		conn.Send(frame)
	}
}

// GetConversation returns the message history between the caller and another user
func (h *ChatHandler) GetConversation(c echo.Context) error {
	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if _, err := h.userRepository.GetUserByID(uint(otherID)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	conversationID := models.ConversationKey(currentUserID(c), uint(otherID))
	messages, err := h.messageRepository.GetConversation(c.Request().Context(), conversationID, skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, messages)
}
