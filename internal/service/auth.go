package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/model"
)

const staffSessionIssuer = "verdescan-staff"

// UserIdentity is what the identity provider vouches for in an access token
type UserIdentity struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// userClaims mirrors the access tokens issued by the identity provider
type userClaims struct {
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// StaffClaims identify a staff session
type StaffClaims struct {
	Username    string                 `json:"username"`
	AccountType model.StaffAccountType `json:"account_type"`
	jwt.RegisteredClaims
}

// StaffID returns the staff account the session belongs to
func (c *StaffClaims) StaffID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type AuthService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg: cfg,
		now: time.Now,
	}
}

// VerifyUserToken checks an HS256 access token from the identity provider.
// The subject must be the user's UUID.
func (s *AuthService) VerifyUserToken(raw string) (*UserIdentity, error) {
	if s.cfg.Auth.UserJWTSecret == "" {
		return nil, errors.New("user token secret not configured")
	}

	claims := &userClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.UserJWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token validation failed")
	}

	id, err := uuid.Parse(strings.TrimSpace(claims.Subject))
	if err != nil {
		return nil, fmt.Errorf("invalid token subject: %w", err)
	}

	return &UserIdentity{
		ID:    id,
		Email: claims.Email,
		Name:  displayName(claims),
	}, nil
}

func displayName(c *userClaims) string {
	for _, key := range []string{"name", "full_name"} {
		if v, ok := c.UserMetadata[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if at := strings.Index(c.Email, "@"); at > 0 {
		return c.Email[:at]
	}
	return c.Email
}

// IssueStaffSession signs a session token for a staff account
func (s *AuthService) IssueStaffSession(staff *model.StaffAccount) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.Auth.StaffSessionTTL)
	claims := StaffClaims{
		Username:    staff.Username,
		AccountType: staff.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    staffSessionIssuer,
			Subject:   staff.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.StaffJWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign staff session: %w", err)
	}
	return token, expiresAt, nil
}

// VerifyStaffSession parses a session token issued by IssueStaffSession
func (s *AuthService) VerifyStaffSession(raw string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.StaffJWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(staffSessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := claims.StaffID(); err != nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
