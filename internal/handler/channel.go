package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/middleware"
	"github.com/thanhng/workchat/internal/service"
)

// ChannelHandler exposes channel lifecycle and membership endpoints.
type ChannelHandler struct {
	channels *service.ChannelService
}

func NewChannelHandler(channels *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channels: channels}
}

type createChannelRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// Create makes a channel in the workspace; admin only.
func (h *ChannelHandler) Create(c echo.Context) error {
	var req createChannelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	id, err := h.channels.Create(ctx, pathID(c, "id"), middleware.UserID(c), req.Name, req.IsPrivate)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

type updateChannelRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`
}

// Update renames a channel or toggles visibility; admin only.
func (h *ChannelHandler) Update(c echo.Context) error {
	var req updateChannelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.channels.Update(ctx, pathID(c, "id"), middleware.UserID(c), req.Name, req.IsPrivate); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "channel updated"})
}

// Delete removes the channel and its messages; admin only.
func (h *ChannelHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.channels.Delete(ctx, pathID(c, "id"), middleware.UserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPublic lists the workspace's public channels.
func (h *ChannelHandler) ListPublic(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.channels.ListPublic(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one channel after the visibility gate.
func (h *ChannelHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	ch, err := h.channels.Get(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, ch)
}

type channelMemberRequest struct {
	MemberID uint64 `json:"member_id"`
}

// AddMember grants a workspace member access to a private channel.
func (h *ChannelHandler) AddMember(c echo.Context) error {
	var req channelMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.channels.AddMember(ctx, pathID(c, "id"), middleware.UserID(c), req.MemberID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "member added"})
}

// RemoveMember revokes a member's channel access.
func (h *ChannelHandler) RemoveMember(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.channels.RemoveMember(ctx, pathID(c, "id"), middleware.UserID(c), pathID(c, "memberId")); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Messages returns one page of the channel's messages, newest first.
func (h *ChannelHandler) Messages(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	msgs, err := h.channels.Messages(ctx, pathID(c, "id"), middleware.UserID(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}
