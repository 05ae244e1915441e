package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken     = errors.New("auth: missing authentication token")
	ErrInvalidToken     = errors.New("auth: invalid token")
	ErrExpiredToken     = errors.New("auth: token has expired")
	ErrInvalidSignature = errors.New("auth: invalid token signature")
	ErrInvalidClaims    = errors.New("auth: invalid token claims")
)

// Authenticator resolves an opaque credential to a user identity.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (int64, error)
}

// JWTConfig holds settings for JWTAuthenticator.
type JWTConfig struct {
	Secret        string
	Issuer        string // checked when non-empty
	SigningMethod string // HS256, HS384 or HS512
}

// JWTAuthenticator validates HMAC-signed JWTs whose subject is the numeric user id.
type JWTAuthenticator struct {
	secret []byte
	issuer string
	method jwt.SigningMethod
}

var _ Authenticator = (*JWTAuthenticator)(nil)

func NewJWTAuthenticator(cfg JWTConfig) (*JWTAuthenticator, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("auth: secret key required")
	}
	name := strings.ToUpper(strings.TrimSpace(cfg.SigningMethod))
	if name == "" {
		name = "HS256"
	}
	var method jwt.SigningMethod
	switch name {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("auth: unsupported signing method: %s", cfg.SigningMethod)
	}
	return &JWTAuthenticator{secret: []byte(cfg.Secret), issuer: cfg.Issuer, method: method}, nil
}

// Authenticate validates token and returns the user id carried in its subject.
func (a *JWTAuthenticator) Authenticate(_ context.Context, token string) (int64, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return 0, ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{a.method.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return 0, fmt.Errorf("%w: invalid issuer", ErrInvalidClaims)
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: subject is not a user id", ErrInvalidClaims)
	}
	return userID, nil
}

// IssueToken signs a token for userID valid for ttl (no expiry when ttl <= 0).
func (a *JWTAuthenticator) IssueToken(userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		Issuer:   a.issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(a.method, claims).SignedString(a.secret)
}

// TokenFromRequest extracts a credential from the token query parameter
// (browsers cannot set headers on a websocket upgrade) or the Authorization header.
func TokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
