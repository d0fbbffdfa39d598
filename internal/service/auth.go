package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/thanhng/workchat/internal/auth"
	"github.com/thanhng/workchat/internal/model"
	"github.com/thanhng/workchat/internal/queue"
	"github.com/thanhng/workchat/internal/repository"
	"github.com/thanhng/workchat/internal/utils"
)

// UserStore is the persistence contract the auth service needs.
// *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, email, username, firstName, lastName, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, id uint64, passwordHash string) error
	SetActive(ctx context.Context, id uint64, active bool) error
}

// Notifier enqueues an email delivery request.  Delivery is asynchronous;
// enqueue failures are logged by the caller and never fail the primary
// operation.
type Notifier interface {
	PublishEmail(ctx context.Context, ev queue.EmailEvent) error
}

// Profile is the user representation returned to clients.  The password
// hash never leaves the service layer.
type Profile struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
}

// TokenPair bundles a freshly issued access/refresh pair with the access
// token's expiry instant.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExpiry time.Time `json:"access_expiry"`
}

// LoginResult is returned by Login: a token pair plus the user profile.
type LoginResult struct {
	TokenPair
	User Profile `json:"user"`
}

// AuthService orchestrates the register/login/refresh/reset/logout flows
// on top of the credential helpers, the token issuer and the session
// manager.
type AuthService struct {
	users      UserStore
	sessions   *SessionManager
	issuer     *auth.Issuer
	notifier   Notifier
	bcryptCost int
}

func NewAuthService(users UserStore, sessions *SessionManager, issuer *auth.Issuer, notifier Notifier, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		issuer:     issuer,
		notifier:   notifier,
		bcryptCost: bcryptCost,
	}
}

// RegisterInput carries the profile fields collected at sign-up.
type RegisterInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

// Register creates an inactive account and enqueues the activation email.
// The account is created even when the enqueue fails: the security
// relevant state change must not be undone because a downstream
// notification misbehaved.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	if in.Email == "" || in.Password == "" {
		return ErrInvalidInput
	}
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	userID, err := s.users.Create(ctx, in.Email, in.Username, in.FirstName, in.LastName, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return ErrAlreadyExists
		}
		return err
	}

	token, _, err := s.issuer.IssueConfirm(userID)
	if err != nil {
		return err
	}
	ev := queue.NewEmailEvent(in.Email, queue.TemplateRegistration, map[string]string{
		"username":          in.Username,
		"verification_link": token,
	})
	if err := s.notifier.PublishEmail(ctx, ev); err != nil {
		log.Printf("auth: activation email enqueue failed for user %d: %v", userID, err)
	}
	return nil
}

// ConfirmEmail verifies an email-confirmation token and activates the
// account.  Confirming twice is an error, not a silent no-op: the second
// call reports ErrAlreadyActive.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.issuer.VerifyConfirm(token)
	if err != nil {
		return ErrTokenInvalid
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if user.Active {
		return ErrAlreadyActive
	}
	return s.users.SetActive(ctx, user.ID, true)
}

// Login verifies credentials, opens a new session and issues a token
// pair.  Verification fails closed: an account without a stored password
// yields the same ErrInvalidCredentials as a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	user, err := s.users.GetByEmail(ctx, email)
	if err == sql.ErrNoRows {
		return out, ErrInvalidCredentials
	}
	if err != nil {
		return out, err
	}
	if user.PasswordHash == "" || !utils.VerifyPassword(user.PasswordHash, password) {
		return out, ErrInvalidCredentials
	}
	if !user.Active {
		return out, ErrAccountNotActivated
	}

	session, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return out, err
	}
	pair, err := s.issuePair(user.ID, session.ID, session.Hash)
	if err != nil {
		return out, err
	}
	out.TokenPair = pair
	out.User = toProfile(user)
	return out, nil
}

// Refresh verifies a refresh token, rotates the session hash through the
// compare-and-set and issues a new pair bound to the rotated hash.  A
// stale hash reports ErrSessionHashMismatch; callers should treat
// repeated mismatches as replay and revoke the session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	var out TokenPair
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return out, ErrTokenInvalid
	}
	session, err := s.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		return out, err
	}
	newHash, err := s.sessions.Rotate(ctx, claims.SessionID, claims.Hash)
	if err != nil {
		return out, err
	}
	return s.issuePair(session.UserID, session.ID, newHash)
}

// ForgotPassword issues a password-reset token and enqueues the reset
// email.  An unknown email raises ErrNotFound internally; the transport
// layer decides whether to reveal that to the network.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	token, expiry, err := s.issuer.IssueReset(user.ID)
	if err != nil {
		return err
	}
	ev := queue.NewEmailEvent(user.Email, queue.TemplatePasswordReset, map[string]string{
		"username":    user.Username,
		"forgot_link": token,
		"expires_at":  expiry.Format("15:04 02/01/2006"),
	})
	if err := s.notifier.PublishEmail(ctx, ev); err != nil {
		log.Printf("auth: reset email enqueue failed for user %d: %v", user.ID, err)
	}
	return nil
}

// ResetPassword verifies a reset token, revokes every session of the user
// and then stores the new password hash.  Sessions are invalidated first
// so an in-flight request holding an old session cannot race the change.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidInput
	}
	claims, err := s.issuer.VerifyReset(token)
	if err != nil {
		return ErrTokenInvalid
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.sessions.RevokeAllForUser(ctx, user.ID); err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// Logout revokes the session identified by sessionID.
func (s *AuthService) Logout(ctx context.Context, sessionID uint64) error {
	if sessionID == 0 {
		return ErrInvalidInput
	}
	return s.sessions.Revoke(ctx, sessionID)
}

// Me returns the profile for a user id.
func (s *AuthService) Me(ctx context.Context, userID uint64) (Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err == sql.ErrNoRows {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return toProfile(user), nil
}

func (s *AuthService) issuePair(userID, sessionID uint64, hash string) (TokenPair, error) {
	var out TokenPair
	access, accessExp, err := s.issuer.IssueAccess(userID, sessionID)
	if err != nil {
		return out, err
	}
	refresh, _, err := s.issuer.IssueRefresh(sessionID, hash)
	if err != nil {
		return out, err
	}
	out.AccessToken = access
	out.RefreshToken = refresh
	out.AccessExpiry = accessExp
	return out, nil
}

func toProfile(u model.User) Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
	}
}
