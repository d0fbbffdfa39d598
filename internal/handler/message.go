package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/middleware"
	"github.com/thanhng/workchat/internal/service"
)

// MessageHandler exposes message authoring endpoints.
type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type createMessageRequest struct {
	WorkspaceID     uint64  `json:"workspace_id"`
	ChannelID       *uint64 `json:"channel_id"`
	ConversationID  *uint64 `json:"conversation_id"`
	Content         string  `json:"content"`
	ParentMessageID *uint64 `json:"parent_message_id"`
}

// Create authors a message in a channel or conversation.
func (h *MessageHandler) Create(c echo.Context) error {
	var req createMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	id, err := h.messages.Create(ctx, middleware.UserID(c), service.CreateMessageInput{
		WorkspaceID:     req.WorkspaceID,
		ChannelID:       req.ChannelID,
		ConversationID:  req.ConversationID,
		Content:         req.Content,
		ParentMessageID: req.ParentMessageID,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Get returns one message.
func (h *MessageHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	msg, err := h.messages.Get(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, msg)
}

type updateMessageRequest struct {
	Content string `json:"content"`
}

// Update edits a message's content; author only.
func (h *MessageHandler) Update(c echo.Context) error {
	var req updateMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.messages.Update(ctx, pathID(c, "id"), middleware.UserID(c), req.Content); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "message updated"})
}

// Delete removes a message and its thread replies; author only.
func (h *MessageHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.messages.Delete(ctx, pathID(c, "id"), middleware.UserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
