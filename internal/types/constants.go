package types

const (
	ContextUserKey  = "user"
	ContextTokenKey = "token_id"
)

// Cookie names carrying the session tokens for browser clients
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)
