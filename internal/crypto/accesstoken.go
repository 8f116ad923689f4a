package crypto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an access token stays valid.
const DefaultTokenTTL = 2 * time.Hour

var (
	ErrSignerNotConfigured = errors.New("api key and secret are not configured")
	ErrInvalidGrant        = errors.New("grant requires room and identity")
	ErrInvalidToken        = errors.New("invalid access token")
)

// VideoGrant is the media-service permission set carried by a token.
type VideoGrant struct {
	Room           string `json:"room,omitempty"`
	RoomJoin       bool   `json:"roomJoin,omitempty"`
	CanPublish     bool   `json:"canPublish"`
	CanSubscribe   bool   `json:"canSubscribe"`
	CanPublishData bool   `json:"canPublishData"`
}

// AccessClaims are the JWT claims understood by the media service.
type AccessClaims struct {
	jwt.RegisteredClaims
	Name  string      `json:"name,omitempty"`
	Video *VideoGrant `json:"video,omitempty"`
}

// AccessGrant describes the token to issue.
type AccessGrant struct {
	Room     string
	Identity string
	TTL      time.Duration
}

// TokenSigner mints access tokens signed with the media service's API
// secret. Both parties of a call receive the same permissions.
type TokenSigner struct {
	apiKey    string
	apiSecret string
	now       func() time.Time
}

// NewTokenSigner creates a signer for the given key pair.
func NewTokenSigner(apiKey, apiSecret string) *TokenSigner {
	return &TokenSigner{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}
}

// Configured reports whether both halves of the key pair are present.
func (s *TokenSigner) Configured() bool {
	return s != nil && s.apiKey != "" && s.apiSecret != ""
}

// Issue signs a token for grant.Identity scoped to grant.Room.
func (s *TokenSigner) Issue(ctx context.Context, grant AccessGrant) (string, error) {
	if !s.Configured() {
		return "", ErrSignerNotConfigured
	}
	if grant.Room == "" || grant.Identity == "" {
		return "", ErrInvalidGrant
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ttl := grant.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := s.now()

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			Subject:   grant.Identity,
			ID:        NewTokenID(),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name: grant.Identity,
		Video: &VideoGrant{
			Room:           grant.Room,
			RoomJoin:       true,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and checks it was signed by this key pair.
func (s *TokenSigner) Verify(tokenStr string) (*AccessClaims, error) {
	if !s.Configured() {
		return nil, ErrSignerNotConfigured
	}
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.apiSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.apiKey),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Video == nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
