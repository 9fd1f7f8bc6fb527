package service

import (
	"context"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/config"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/repository"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

// ProfileService reads the community roster.
type ProfileService struct {
	profiles repository.ProfileRepository
	cfg      *config.Config
}

func NewProfileService(profiles repository.ProfileRepository, cfg *config.Config) *ProfileService {
	return &ProfileService{profiles: profiles, cfg: cfg}
}

// GetProfile returns the caller's profile, or nil without error when the
// account was never provisioned. "No profile" is a state, not a failure.
func (s *ProfileService) GetProfile(ctx context.Context, accountID string) (*domain.Profile, error) {
	if accountID == "" {
		return nil, nil
	}

	profile, err := s.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to load profile", err)
	}

	return profile, nil
}

// GetAllProfiles returns the configured community's roster in sign-up order.
func (s *ProfileService) GetAllProfiles(ctx context.Context) ([]*domain.Profile, error) {
	profiles, err := s.profiles.ListByAffiliation(ctx, s.cfg.Community)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to list profiles", err)
	}

	return profiles, nil
}

// Candidates returns the voting candidate pool: the full roster minus the
// voter. No sampling or ranking.
func (s *ProfileService) Candidates(ctx context.Context, voterID string) ([]*domain.Profile, error) {
	profiles, err := s.GetAllProfiles(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.ID != voterID {
			candidates = append(candidates, p)
		}
	}

	return candidates, nil
}
