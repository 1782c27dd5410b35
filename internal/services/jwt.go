package services

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds the signing settings for member sessions.
type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type tokenKind string

const (
	accessKind  tokenKind = "access"
	refreshKind tokenKind = "refresh"
)

var errWrongTokenKind = errors.New("wrong token kind")

type JWTService struct {
	cfg    JWTConfig
	parser *jwt.Parser
}

// Claims are carried by access tokens.
type Claims struct {
	MemberID int64     `json:"member_id"`
	Username string    `json:"username"`
	Kind     tokenKind `json:"kind"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	Kind tokenKind `json:"kind"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

func NewJWTService(cfg JWTConfig) *JWTService {
	return &JWTService{
		cfg: cfg,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (s *JWTService) registered(memberID int64, now time.Time, expiry time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    s.cfg.Issuer,
		Subject:   strconv.FormatInt(memberID, 10),
		ID:        uuid.NewString(),
	}
}

func (s *JWTService) sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
}

func (s *JWTService) GenerateTokenPair(memberID int64, username string) (*TokenPair, error) {
	now := time.Now()

	access, err := s.sign(Claims{
		MemberID:         memberID,
		Username:         username,
		Kind:             accessKind,
		RegisteredClaims: s.registered(memberID, now, s.cfg.AccessExpiry),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.sign(refreshClaims{
		Kind:             refreshKind,
		RegisteredClaims: s.registered(memberID, now, s.cfg.RefreshExpiry),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.cfg.AccessExpiry.Seconds()),
	}, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	})
	return err
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := s.parse(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Kind != accessKind || claims.MemberID == 0 {
		return nil, fmt.Errorf("failed to parse token: %w", errWrongTokenKind)
	}
	return claims, nil
}

// ValidateRefreshToken returns the member a refresh token was issued to.
func (s *JWTService) ValidateRefreshToken(tokenString string) (int64, error) {
	claims := &refreshClaims{}
	if err := s.parse(tokenString, claims); err != nil {
		return 0, fmt.Errorf("failed to parse refresh token: %w", err)
	}
	if claims.Kind != refreshKind {
		return 0, fmt.Errorf("failed to parse refresh token: %w", errWrongTokenKind)
	}

	memberID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || memberID <= 0 {
		return 0, fmt.Errorf("invalid member id in token: %q", claims.Subject)
	}
	return memberID, nil
}

func (s *JWTService) RefreshExpiry() time.Duration {
	return s.cfg.RefreshExpiry
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
