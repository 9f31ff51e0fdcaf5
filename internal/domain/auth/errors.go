package auth

import "errors"

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("token is missing employee or role claims")
	ErrAccessDenied  = errors.New("role not allowed for this action")
)
