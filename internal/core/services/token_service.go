package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

// ErrTokenRevoked is returned for well-formed tokens whose profile was wiped.
var ErrTokenRevoked = errors.New("token revoked: profile no longer exists")

// profileLookupTimeout bounds the revocation check done on every request.
const profileLookupTimeout = 2 * time.Second

type TokenService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
	profiles      domain.ProfileRepository
	parser        *jwt.Parser
}

func NewTokenService(secretKey string, issuer string, tokenDuration time.Duration, profiles domain.ProfileRepository) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
		profiles:      profiles,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateToken issues the bearer token handed out at onboarding. There is no
// refresh flow: a profile keeps using it until it expires or the profile is wiped.
func (s *TokenService) GenerateToken(profileID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   profileID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("token service: failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the profile id carried by the token.
func (s *TokenService) ValidateToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}); err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	if claims.Subject == "" {
		return "", errors.New("invalid token subject")
	}

	// A wipe deletes the profile row, so looking it up is what revokes
	// tokens that are still inside their expiry window.
	ctx, cancel := context.WithTimeout(context.Background(), profileLookupTimeout)
	defer cancel()

	if _, err := s.profiles.GetByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return "", ErrTokenRevoked
		}
		return "", fmt.Errorf("token service: profile lookup failed: %w", err)
	}

	return claims.Subject, nil
}
