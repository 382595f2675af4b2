package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// Issuer signs and verifies the access and refresh tokens handed to clients
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is not set")
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// Pair is a freshly issued token couple. ExpiresAt is the refresh expiry,
// after which the stored session can be swept.
type Pair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

func (i *Issuer) IssuePair(userID uint) (Pair, error) {
	access, err := i.IssueAccess(userID)
	if err != nil {
		return Pair{}, err
	}

	expiresAt := i.now().Add(i.refreshTTL)
	refresh, err := i.sign(userID, refreshTokenType, expiresAt)
	if err != nil {
		return Pair{}, err
	}

	return Pair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func (i *Issuer) IssueAccess(userID uint) (string, error) {
	return i.sign(userID, accessTokenType, i.now().Add(i.accessTTL))
}

// The jti keeps two tokens minted in the same second for the same user distinct
func (i *Issuer) sign(userID uint, tokenType string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"jti":     uuid.NewString(),
		"iat":     i.now().Unix(),
		"exp":     expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// VerifyAccess returns the user id carried by a valid access token
func (i *Issuer) VerifyAccess(tokenString string) (uint, error) {
	return i.verify(tokenString, accessTokenType)
}

// VerifyRefresh returns the user id carried by a valid refresh token
func (i *Issuer) VerifyRefresh(tokenString string) (uint, error) {
	return i.verify(tokenString, refreshTokenType)
}

func (i *Issuer) verify(tokenString, tokenType string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	if claims["type"] != tokenType {
		return 0, fmt.Errorf("expected %s token", tokenType)
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid user ID in token claims")
	}

	return uint(userIDFloat), nil
}
