package community

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
)

// Session is a stored authentication token together with its user
type Session struct {
	TokenID      uint
	User         *models.User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Identity is the acting user behind a verified access token
type Identity struct {
	User    *models.User
	TokenID uint
}

var errBadCredentials = apperrors.Unauthenticated("invalid username or password")

// Login checks the password and opens a session. The leaver account never logs in.
func (s *Service) Login(ctx context.Context, username, password, clientIP string) (*Session, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if s.sentinel.Is(user.ID) || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, errBadCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.Persistence("failed to issue tokens", err)
	}

	token := &models.AuthenticationToken{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		AccessIP:     clientIP,
		UserID:       user.ID,
		ExpiresAt:    pair.ExpiresAt,
	}
	if err := s.store.Create(ctx, token); err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("client_ip", clientIP))

	return &Session{
		TokenID:      token.ID,
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

// Logout ends the session; its tokens stop authenticating immediately
func (s *Service) Logout(ctx context.Context, tokenID uint) error {
	removed, err := s.store.DeleteWhere(ctx, &models.AuthenticationToken{}, "id", tokenID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperrors.NotFound("authentication token %d not found", tokenID)
	}
	return nil
}

// Refresh rotates the access token of a stored session
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid or expired refresh token")
	}

	var session *Session
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		token, err := tx.FindTokenByRefresh(ctx, refreshToken)
		if errors.Is(err, apperrors.ErrNotFound) || (err == nil && token.UserID != userID) {
			return apperrors.Unauthenticated("session has ended")
		}
		if err != nil {
			return err
		}

		access, err := s.tokens.IssueAccess(userID)
		if err != nil {
			return apperrors.Persistence("failed to issue tokens", err)
		}
		if err := tx.Updates(ctx, token, map[string]interface{}{"access_token": access}); err != nil {
			return err
		}

		user, err := tx.FindUser(ctx, userID, "ProfileImage")
		if err != nil {
			return err
		}

		session = &Session{
			TokenID:      token.ID,
			User:         user,
			AccessToken:  access,
			RefreshToken: refreshToken,
			ExpiresAt:    token.ExpiresAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Authenticate resolves an access token to its user. The token must be
// valid and its session row must still exist.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, apperrors.Unauthenticated("authorization token is required")
	}

	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid or expired token")
	}

	token, err := s.store.FindTokenByAccess(ctx, accessToken)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthenticated("session has ended")
	}
	if err != nil {
		return nil, err
	}
	if token.UserID != userID {
		return nil, apperrors.Unauthenticated("session has ended")
	}

	user, err := s.store.FindUser(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Unauthenticated("user not found")
	}
	if err != nil {
		return nil, err
	}

	return &Identity{User: user, TokenID: token.ID}, nil
}
