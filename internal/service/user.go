package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/repository"
)

const defaultLeaderboardLimit = 20

type UserService struct {
	repo *repository.Repository
}

func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// GetOrCreate makes sure a verified identity has a user row and returns it
func (s *UserService) GetOrCreate(ctx context.Context, identity *UserIdentity) (*model.User, error) {
	err := s.repo.EnsureUser(ctx, &model.User{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return s.GetUser(ctx, identity.ID)
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetNeighborhood(ctx context.Context, id uuid.UUID, neighborhood string) (*model.User, error) {
	neighborhood = strings.TrimSpace(neighborhood)
	if neighborhood == "" {
		return nil, ErrInvalidNeighborhood
	}
	if err := s.repo.UpdateNeighborhood(ctx, id, neighborhood); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// Leaderboard ranks neighborhoods by the lifetime points of their residents
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]model.NeighborhoodRanking, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardLimit
	}
	return s.repo.GetNeighborhoodRankings(ctx, limit)
}
