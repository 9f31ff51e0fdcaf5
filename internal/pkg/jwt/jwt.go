package jwt

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim.
const (
	TypeAccess = "access"
	TypeStream = "sse"
)

// StreamTokenTTL bounds stream tokens, which travel in query strings.
const StreamTokenTTL = 5 * time.Minute

type Service interface {
	GenerateAccessToken(employeeID string, role auth.Role) (token string, expiresAt int64, err error)
	GenerateStreamToken(employeeID string, role auth.Role) (token string, expiresIn int, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) Service {
	return &JWTService{
		accessTokenTTL: accessTokenTTL,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, role auth.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenTTL).Unix()
	token, err = j.encode(employeeID, role, TypeAccess, expiresAt)
	return token, expiresAt, err
}

// GenerateStreamToken issues a short-lived token for the team status stream.
func (j *JWTService) GenerateStreamToken(employeeID string, role auth.Role) (token string, expiresIn int, err error) {
	expiresAt := time.Now().Add(StreamTokenTTL).Unix()
	token, err = j.encode(employeeID, role, TypeStream, expiresAt)
	return token, int(StreamTokenTTL / time.Second), err
}

func (j *JWTService) encode(employeeID string, role auth.Role, tokenType string, expiresAt int64) (string, error) {
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        string(role),
		"type":        tokenType,
		"exp":         expiresAt,
	})
	return tokenString, err
}
