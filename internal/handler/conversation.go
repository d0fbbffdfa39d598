package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/middleware"
	"github.com/thanhng/workchat/internal/service"
)

// ConversationHandler exposes direct/group conversation endpoints.
type ConversationHandler struct {
	conversations *service.ConversationService
}

func NewConversationHandler(conversations *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

type createConversationRequest struct {
	ParticipantIDs []uint64 `json:"participant_ids"`
}

// Create starts a conversation in the workspace; the caller is always a
// participant.
func (h *ConversationHandler) Create(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	id, err := h.conversations.Create(ctx, pathID(c, "id"), middleware.UserID(c), req.ParticipantIDs)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns the workspace's conversations.
func (h *ConversationHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.conversations.ListByWorkspace(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one conversation after the participation gate.
func (h *ConversationHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	conv, err := h.conversations.Get(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, conv)
}

// Participants lists the conversation's participants.
func (h *ConversationHandler) Participants(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.conversations.Participants(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type participantRequest struct {
	MemberID uint64 `json:"member_id"`
}

// AddParticipant attaches another workspace member to the conversation.
func (h *ConversationHandler) AddParticipant(c echo.Context) error {
	var req participantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.conversations.AddParticipant(ctx, pathID(c, "id"), middleware.UserID(c), req.MemberID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "participant added"})
}

// RemoveParticipant detaches a member; creator only.
func (h *ConversationHandler) RemoveParticipant(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.conversations.RemoveParticipant(ctx, pathID(c, "id"), middleware.UserID(c), pathID(c, "memberId")); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the conversation with its messages; creator only.
func (h *ConversationHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.conversations.Delete(ctx, pathID(c, "id"), middleware.UserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Messages returns one page of the conversation's messages in
// chronological order.
func (h *ConversationHandler) Messages(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	page, err := h.conversations.Messages(ctx, pathID(c, "id"), middleware.UserID(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, page)
}
