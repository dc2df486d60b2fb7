package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/owusuprince21/cheaprides.backend/internal/auth"
	"github.com/owusuprince21/cheaprides.backend/internal/auth/verifier"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by locally issued tokens. The identity claims mirror
// what the identity provider asserted at login so the auth gate can
// resolve the same user record from either token family.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// Pair is an access/refresh token pair.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Service mints and parses HS256 access and refresh tokens.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Mint issues a fresh access/refresh pair for the verified identity.
func (s *Service) Mint(identity *auth.Identity) (Pair, error) {
	access, err := s.sign(identity, typeAccess, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(identity, typeRefresh, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Rotate validates a refresh token and issues a new pair. The old
// refresh token is superseded by the returned one.
func (s *Service) Rotate(refreshToken string) (Pair, error) {
	claims, err := s.parse(refreshToken, typeRefresh)
	if err != nil {
		return Pair{}, err
	}
	return s.Mint(&auth.Identity{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.Name,
	})
}

// ParseAccess validates an access token and returns the embedded identity.
func (s *Service) ParseAccess(token string) (*auth.Identity, error) {
	claims, err := s.parse(token, typeAccess)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{
		UID:         claims.UID,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}

func (s *Service) sign(identity *auth.Identity, typ string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		UID:   identity.UID,
		Email: identity.Email,
		Name:  identity.DisplayName,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("tokens: failed to sign: %w", err)
	}
	return signed, nil
}

func (s *Service) parse(raw string, wantType string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType || claims.UID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// AccessVerifier adapts the token service to the verifier contract so
// the auth gate accepts locally issued access tokens.
type AccessVerifier struct {
	Tokens *Service
}

func (v AccessVerifier) Verify(_ context.Context, token string) (*auth.Identity, error) {
	identity, err := v.Tokens.ParseAccess(token)
	if err != nil {
		return nil, verifier.ErrAuthenticationFailed
	}
	return identity, nil
}
