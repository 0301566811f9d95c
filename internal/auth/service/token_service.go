package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/AnthoniusHendriyanto/blog-service/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	autherror "github.com/AnthoniusHendriyanto/blog-service/internal/errors"
	authconstant "github.com/AnthoniusHendriyanto/blog-service/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
)

type TokenGenerator interface {
	Generate(userID string) (*domain.TokenPair, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
}

// TokenService mints and verifies HS256-signed bearer tokens. Access and
// refresh tokens are structurally identical except for the type claim and
// TTL; every consumer must check the type.
type TokenService struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	clock              domain.Clock
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

func NewTokenService(secret string, accessMinutes, refreshDays int, clock domain.Clock) *TokenService {
	return &TokenService{
		Secret:             secret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshDays) * 24 * time.Hour,
		clock:              clock,
	}
}

// Generate issues a fresh access/refresh pair for the given subject.
func (ts *TokenService) Generate(userID string) (*domain.TokenPair, error) {
	accessToken, err := ts.sign(userID, authconstant.TokenTypeAccess, ts.AccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := ts.sign(userID, authconstant.TokenTypeRefresh, ts.RefreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (ts *TokenService) sign(userID, tokenType string, ttl time.Duration) (string, error) {
	now := ts.clock.Now()

	claims := JWTCustomClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
}

// VerifyAccessToken parses and validates an access token. Refresh tokens are
// rejected: they must never authorize resource access.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, authconstant.TokenTypeAccess)
}

// VerifyRefreshToken parses and validates a refresh token. Access tokens are
// rejected: they must never authorize token renewal.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, authconstant.TokenTypeRefresh)
}

func (ts *TokenService) verify(tokenString, wantType string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.Secret), nil
	}, jwt.WithTimeFunc(ts.clock.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, autherror.ErrTokenExpired
		}
		return nil, autherror.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != wantType {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}
