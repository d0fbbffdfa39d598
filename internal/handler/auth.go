package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/middleware"
	"github.com/thanhng/workchat/internal/service"
)

// AuthHandler exposes the register/login/refresh/reset/logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates an inactive account and sends the activation email.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.auth.Register(ctx, service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "account created, check your email to activate it"})
}

type confirmRequest struct {
	Token string `json:"token"`
}

// ConfirmEmail activates the account named by the confirmation token.
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.auth.ConfirmEmail(ctx, req.Token); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account activated"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a token pair plus the profile.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates the session and returns a fresh token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	pair, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, pair)
}

type forgotRequest struct {
	Email string `json:"email"`
}

// ForgotPassword enqueues a reset email.  Unknown addresses get the same
// 204 as known ones so the endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.auth.ForgotPassword(ctx, req.Email); err != nil && !errors.Is(err, service.ErrNotFound) {
		return respondErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type resetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword sets a new password and revokes every open session.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.auth.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated, please log in again"})
}

// Logout revokes the caller's session.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.auth.Logout(ctx, middleware.SessionID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	profile, err := h.auth.Me(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
