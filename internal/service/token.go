package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/metrics"
	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

// TokenAlphabet excludes I and O so codes can be read aloud without confusion
const TokenAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const (
	userTokenListLimit = 20
	depletionBatchSize = 100
)

// IssuedToken is what the user shows to staff
type IssuedToken struct {
	ID              uuid.UUID          `json:"id"`
	Code            string             `json:"code"`
	MaterialType    model.MaterialType `json:"material_type"`
	PointsValue     int64              `json:"points_value"`
	Quantity        int64              `json:"quantity"`
	ExpiresAt       time.Time          `json:"expires_at"`
	UnitDescription string             `json:"unit_description"`
}

// Redemption is the outcome of a staff validation
type Redemption struct {
	UserName       string             `json:"user_name"`
	UserEmail      string             `json:"user_email"`
	MaterialType   model.MaterialType `json:"material_type"`
	Quantity       int64              `json:"-"`
	PointsCredited int64              `json:"points_credited"`
	PreviousPoints int64              `json:"previous_points"`
	NewPoints      int64              `json:"new_points"`
	ValidatedBy    string             `json:"validated_by"`
	ValidatedAt    time.Time          `json:"validated_at"`
}

// RedemptionNotifier receives every successful redemption
type RedemptionNotifier interface {
	NotifyRedemption(ctx context.Context, r *Redemption) error
}

type TokenService struct {
	repo     *repository.Repository
	cfg      *config.Config
	metrics  *metrics.RewardsMetrics
	notifier RedemptionNotifier
	now      func() time.Time
	newCode  func(length int) (string, error)
}

func NewTokenService(repo *repository.Repository, cfg *config.Config) *TokenService {
	return &TokenService{
		repo:    repo,
		cfg:     cfg,
		metrics: metrics.Rewards(),
		now:     func() time.Time { return time.Now().UTC() },
		newCode: GenerateTokenCode,
	}
}

func (s *TokenService) SetNotifier(n RedemptionNotifier) {
	s.notifier = n
}

// SetClock overrides the time source used for expiry decisions
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

// SetCodeGenerator overrides how candidate codes are drawn
func (s *TokenService) SetCodeGenerator(gen func(length int) (string, error)) {
	s.newCode = gen
}

// GenerateTokenCode draws each character uniformly from TokenAlphabet
func GenerateTokenCode(length int) (string, error) {
	size := big.NewInt(int64(len(TokenAlphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		b.WriteByte(TokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeTokenCode trims and uppercases a code typed by staff
func NormalizeTokenCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Issue creates a pending token for quantity units of material. The virtual
// bin is not touched until the token is redeemed.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID, material model.MaterialType, quantity int64) (*IssuedToken, error) {
	if !material.Valid() {
		return nil, ErrInvalidMaterial
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	pointsCfg, err := s.repo.GetPointsConfig(ctx, material)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConfigMissing
		}
		return nil, fmt.Errorf("failed to get points config: %w", err)
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	token := &model.RecyclingToken{
		ID:           uuid.New(),
		UserID:       userID,
		TokenCode:    code,
		MaterialType: material,
		PointsValue:  pointsCfg.PointsFor(quantity),
		Quantity:     quantity,
		Status:       model.TokenStatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.cfg.Tokens.TTL),
	}
	if err := s.repo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	s.metrics.ObserveTokenIssued(string(material))
	zap.L().Info("token issued",
		zap.String("user_id", userID.String()),
		zap.String("material", string(material)),
		zap.Int64("quantity", quantity),
		zap.Int64("points", token.PointsValue),
	)

	return &IssuedToken{
		ID:              token.ID,
		Code:            token.TokenCode,
		MaterialType:    token.MaterialType,
		PointsValue:     token.PointsValue,
		Quantity:        token.Quantity,
		ExpiresAt:       token.ExpiresAt,
		UnitDescription: pointsCfg.UnitDescription,
	}, nil
}

func (s *TokenService) uniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < s.cfg.Tokens.MaxAttempts; attempt++ {
		code, err := s.newCode(s.cfg.Tokens.CodeLength)
		if err != nil {
			return "", err
		}
		exists, err := s.repo.TokenCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check token code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	zap.L().Warn("token code space exhausted", zap.Int("attempts", s.cfg.Tokens.MaxAttempts))
	return "", ErrCodeGenerationExhausted
}

// Redeem validates a token on behalf of an active staff account, credits
// the owner and drains the bound quantity from their virtual bin.
func (s *TokenService) Redeem(ctx context.Context, code string, staffID uuid.UUID) (*Redemption, error) {
	code = NormalizeTokenCode(code)
	if code == "" || staffID == uuid.Nil {
		return nil, ErrMissingRedeemParams
	}

	staff, err := s.repo.GetStaffByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			s.metrics.ObserveRedeemRejected("staff")
			return nil, ErrUnauthorizedStaff
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	if !staff.IsActive {
		s.metrics.ObserveRedeemRejected("staff")
		return nil, ErrUnauthorizedStaff
	}

	token, err := s.repo.GetTokenByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.ObserveRedeemRejected("not_found")
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	if err := s.checkRedeemable(ctx, token); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	validatedAt := s.now()
	txn, err := s.repo.RedeemToken(ctx, repository.RedeemParams{
		Token:       token,
		StaffID:     staff.ID,
		StaffName:   staff.Username,
		ValidatedAt: validatedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTokenNotPending):
			// Lost a race with another validation, expiry or cancellation
			return nil, s.reportTerminal(ctx, code)
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to redeem token: %w", err)
	}

	token.Status = model.TokenStatusValidated
	s.depleteBin(ctx, token)

	redemption := &Redemption{
		UserName:       user.Name,
		UserEmail:      user.Email,
		MaterialType:   token.MaterialType,
		Quantity:       token.Quantity,
		PointsCredited: token.PointsValue,
		PreviousPoints: txn.PointsBefore,
		NewPoints:      txn.PointsAfter,
		ValidatedBy:    staff.Username,
		ValidatedAt:    validatedAt,
	}

	s.metrics.ObserveTokenRedeemed(string(token.MaterialType), token.PointsValue)
	zap.L().Info("token redeemed",
		zap.String("code", token.TokenCode),
		zap.String("user_id", token.UserID.String()),
		zap.String("staff", staff.Username),
		zap.Int64("points", token.PointsValue),
	)

	if s.notifier != nil {
		if err := s.notifier.NotifyRedemption(ctx, redemption); err != nil {
			zap.L().Warn("failed to notify redemption", zap.Error(err))
		}
	}

	return redemption, nil
}

// checkRedeemable rejects terminal tokens and flips overdue pending ones
func (s *TokenService) checkRedeemable(ctx context.Context, token *model.RecyclingToken) error {
	if token.Status.IsTerminal() {
		s.metrics.ObserveRedeemRejected(string(token.Status))
		return statusError(token.Status)
	}

	if token.IsExpired(s.now()) {
		if _, err := s.repo.MarkTokenExpired(ctx, token.ID); err != nil {
			zap.L().Warn("failed to mark token expired", zap.String("code", token.TokenCode), zap.Error(err))
		}
		s.metrics.ObserveRedeemRejected(string(model.TokenStatusExpired))
		return ErrTokenExpired
	}
	return nil
}

func (s *TokenService) reportTerminal(ctx context.Context, code string) error {
	token, err := s.repo.GetTokenByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to reload token: %w", err)
	}
	s.metrics.ObserveRedeemRejected(string(token.Status))
	if !token.Status.IsTerminal() {
		return ErrAlreadyValidated
	}
	return statusError(token.Status)
}

func statusError(status model.TokenStatus) error {
	switch status {
	case model.TokenStatusValidated:
		return ErrAlreadyValidated
	case model.TokenStatusExpired:
		return ErrTokenExpired
	case model.TokenStatusCancelled:
		return ErrTokenCancelled
	}
	return nil
}

// depleteBin runs after the redemption committed. Failures are logged and
// left for DepletePendingBins.
func (s *TokenService) depleteBin(ctx context.Context, token *model.RecyclingToken) {
	if _, err := s.repo.DepleteTokenBin(ctx, token); err != nil {
		s.metrics.ObserveBinDepletionFailure()
		zap.L().Warn("failed to deplete virtual bin after redemption",
			zap.String("token_id", token.ID.String()),
			zap.String("user_id", token.UserID.String()),
			zap.Error(err),
		)
	}
}

// DepletePendingBins retries bin depletion for validated tokens that never
// completed it. Returns how many tokens were depleted.
func (s *TokenService) DepletePendingBins(ctx context.Context) (int, error) {
	tokens, err := s.repo.ListUndepletedTokens(ctx, depletionBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list undepleted tokens: %w", err)
	}

	depleted := 0
	for i := range tokens {
		applied, err := s.repo.DepleteTokenBin(ctx, &tokens[i])
		if err != nil {
			s.metrics.ObserveBinDepletionFailure()
			zap.L().Warn("bin depletion retry failed", zap.String("token_id", tokens[i].ID.String()), zap.Error(err))
			continue
		}
		if applied {
			depleted++
		}
	}

	if depleted > 0 {
		zap.L().Info("depleted pending virtual bins", zap.Int("tokens", depleted))
	}
	return depleted, nil
}

// Cancel lets the owner withdraw a pending token
func (s *TokenService) Cancel(ctx context.Context, userID uuid.UUID, code string) error {
	token, err := s.repo.GetTokenByCode(ctx, NormalizeTokenCode(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("failed to get token: %w", err)
	}
	if token.UserID != userID {
		return ErrTokenNotFound
	}
	if token.Status.IsTerminal() {
		return statusError(token.Status)
	}
	if token.IsExpired(s.now()) {
		_, _ = s.repo.MarkTokenExpired(ctx, token.ID)
		return ErrTokenExpired
	}

	ok, err := s.repo.CancelToken(ctx, token.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to cancel token: %w", err)
	}
	if !ok {
		return s.reportTerminal(ctx, token.TokenCode)
	}
	return nil
}

// ListForUser returns the user's recent tokens with expiry applied on read
func (s *TokenService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.RecyclingToken, error) {
	tokens, err := s.repo.ListUserTokens(ctx, userID, userTokenListLimit)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range tokens {
		tokens[i].Status = tokens[i].EffectiveStatus(now)
	}
	return tokens, nil
}

// StaffStats aggregates the validations performed by one staff account
func (s *TokenService) StaffStats(ctx context.Context, staffID uuid.UUID) (*model.StaffValidationStats, error) {
	return s.repo.GetStaffValidationStats(ctx, staffID)
}
