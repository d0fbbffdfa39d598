// Package auth issues and verifies the four token classes used by the
// service: access, refresh, email-confirmation and password-reset.  Every
// class signs with its own secret and lifetime, so a token minted for one
// purpose never verifies under another class.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/thanhng/workchat/internal/config"
)

// ErrInvalidToken is returned when a token is malformed, expired, or
// signed with the wrong class secret.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims bind an access token to a user and the session it was
// minted for.  Access tokens are short-lived and attached to every
// authenticated request.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    uint64 `json:"uid"`
	SessionID uint64 `json:"sid"`
}

// RefreshClaims bind a refresh token to a session and that session's
// current opaque hash.  The hash is compared against the stored one
// during rotation, which is what makes a refresh token single-use.
type RefreshClaims struct {
	jwt.RegisteredClaims
	SessionID uint64 `json:"sid"`
	Hash      string `json:"hash"`
}

// ConfirmClaims carry the user whose email address is being confirmed.
type ConfirmClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
}

// ResetClaims carry the user whose password is being reset.  The token is
// scoped strictly to the password change.
type ResetClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
}

// Issuer signs and verifies HS256 tokens.  Secrets and lifetimes come
// from configuration; each class is independent.
type Issuer struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	confirmSecret []byte
	confirmTTL    time.Duration
	resetSecret   []byte
	resetTTL      time.Duration
}

// NewIssuer builds an Issuer from the application config.
func NewIssuer(cfg config.Config) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		accessTTL:     cfg.AccessTTL,
		refreshSecret: []byte(cfg.RefreshSecret),
		refreshTTL:    cfg.RefreshTTL,
		confirmSecret: []byte(cfg.ConfirmSecret),
		confirmTTL:    cfg.ConfirmTTL,
		resetSecret:   []byte(cfg.ResetSecret),
		resetTTL:      cfg.ResetTTL,
	}
}

// AccessTTL exposes the configured access token lifetime so callers can
// report the expiry instant alongside an issued pair.
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }

// IssueAccess signs an access token for (userID, sessionID) and returns
// the token string together with its expiry time.
func (i *Issuer) IssueAccess(userID, sessionID uint64) (string, time.Time, error) {
	exp := time.Now().UTC().Add(i.accessTTL)
	token, err := sign(AccessClaims{
		RegisteredClaims: stamp(exp),
		UserID:           userID,
		SessionID:        sessionID,
	}, i.accessSecret)
	return token, exp, err
}

// VerifyAccess validates an access token and returns its claims.
func (i *Issuer) VerifyAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parse(token, claims, i.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// IssueRefresh signs a refresh token bound to a session and its current
// hash.  The lifetime is the configured refresh TTL measured from now;
// it is never derived from the access token's expiry instant.
func (i *Issuer) IssueRefresh(sessionID uint64, hash string) (string, time.Time, error) {
	exp := time.Now().UTC().Add(i.refreshTTL)
	token, err := sign(RefreshClaims{
		RegisteredClaims: stamp(exp),
		SessionID:        sessionID,
		Hash:             hash,
	}, i.refreshSecret)
	return token, exp, err
}

// VerifyRefresh validates a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parse(token, claims, i.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// IssueConfirm signs an email-confirmation token for a user.
func (i *Issuer) IssueConfirm(userID uint64) (string, time.Time, error) {
	exp := time.Now().UTC().Add(i.confirmTTL)
	token, err := sign(ConfirmClaims{RegisteredClaims: stamp(exp), UserID: userID}, i.confirmSecret)
	return token, exp, err
}

// VerifyConfirm validates an email-confirmation token.
func (i *Issuer) VerifyConfirm(token string) (*ConfirmClaims, error) {
	claims := &ConfirmClaims{}
	if err := parse(token, claims, i.confirmSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// IssueReset signs a password-reset token for a user.
func (i *Issuer) IssueReset(userID uint64) (string, time.Time, error) {
	exp := time.Now().UTC().Add(i.resetTTL)
	token, err := sign(ResetClaims{RegisteredClaims: stamp(exp), UserID: userID}, i.resetSecret)
	return token, exp, err
}

// VerifyReset validates a password-reset token.
func (i *Issuer) VerifyReset(token string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parse(token, claims, i.resetSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func stamp(exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
	}
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parse validates the signature with the class secret and rejects tokens
// signed with a non-HMAC method.  Expiry is enforced by the jwt library
// through the registered exp claim.
func parse(token string, claims jwt.Claims, secret []byte) error {
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}
