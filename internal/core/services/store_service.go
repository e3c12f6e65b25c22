package services

import (
	"context"
	"fmt"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

// StoreService is the normalization boundary in front of the persistence
// port: nothing a client sends is ever written as-is.
type StoreService struct {
	repo domain.StoreRepository
}

func NewStoreService(repo domain.StoreRepository) *StoreService {
	return &StoreService{
		repo: repo,
	}
}

// Fetch returns the current store. Backend failures have already degraded to
// the default store inside the repository, so Fetch cannot fail.
func (s *StoreService) Fetch(ctx context.Context) domain.HabitStore {
	return domain.NormalizeStore(s.repo.Read(ctx))
}

// Replace normalizes a decoded candidate store and persists it. The caller
// is responsible for rejecting bodies that were not valid JSON; everything
// that decoded is accepted and made conformant here.
func (s *StoreService) Replace(ctx context.Context, raw any) (domain.HabitStore, error) {
	normalized := domain.NormalizeStore(raw)
	if err := s.repo.Write(ctx, normalized); err != nil {
		return nil, fmt.Errorf("store service: persist store: %w", err)
	}
	return normalized, nil
}
