package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/middleware"
	"github.com/thanhng/workchat/internal/service"
)

// WorkspaceHandler exposes workspace lifecycle and membership endpoints.
type WorkspaceHandler struct {
	workspaces *service.WorkspaceService
}

func NewWorkspaceHandler(workspaces *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

type createWorkspaceRequest struct {
	Name string `json:"name"`
}

// Create makes a new workspace with the caller as admin.
func (h *WorkspaceHandler) Create(c echo.Context) error {
	var req createWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ws, err := h.workspaces.Create(ctx, middleware.UserID(c), req.Name)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, ws)
}

// List returns the caller's workspaces.
func (h *WorkspaceHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.workspaces.ListForUser(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Info returns the workspace name and whether the caller belongs to it.
func (h *WorkspaceHandler) Info(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	info, err := h.workspaces.Info(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

type joinWorkspaceRequest struct {
	JoinCode string `json:"join_code"`
}

// Join adds the caller to the workspace named by a join code.
func (h *WorkspaceHandler) Join(c echo.Context) error {
	var req joinWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	member, err := h.workspaces.Join(ctx, middleware.UserID(c), req.JoinCode)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

// NewJoinCode rotates the invite code; admin only.
func (h *WorkspaceHandler) NewJoinCode(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	code, err := h.workspaces.NewJoinCode(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"join_code": code})
}

type renameWorkspaceRequest struct {
	Name string `json:"name"`
}

// Rename changes the workspace name; admin only.
func (h *WorkspaceHandler) Rename(c echo.Context) error {
	var req renameWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.workspaces.Rename(ctx, pathID(c, "id"), middleware.UserID(c), req.Name); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "workspace renamed"})
}

// Delete removes the workspace and everything in it; admin only.
func (h *WorkspaceHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.workspaces.Delete(ctx, pathID(c, "id"), middleware.UserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Leave removes the caller's membership.
func (h *WorkspaceHandler) Leave(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.workspaces.Leave(ctx, pathID(c, "id"), middleware.UserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type transferAdminRequest struct {
	MemberID uint64 `json:"member_id"`
}

// TransferAdmin hands the admin role to another member.
func (h *WorkspaceHandler) TransferAdmin(c echo.Context) error {
	var req transferAdminRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.workspaces.TransferAdminRole(ctx, pathID(c, "id"), middleware.UserID(c), req.MemberID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "admin role transferred"})
}

// Members lists the workspace memberships.
func (h *WorkspaceHandler) Members(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	members, err := h.workspaces.Members(ctx, pathID(c, "id"), middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

type addMembersRequest struct {
	UserIDs []uint64 `json:"user_ids"`
}

// AddMembers bulk-adds users to the workspace.
func (h *WorkspaceHandler) AddMembers(c echo.Context) error {
	var req addMembersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.workspaces.AddMembers(ctx, pathID(c, "id"), middleware.UserID(c), req.UserIDs); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "members added"})
}
