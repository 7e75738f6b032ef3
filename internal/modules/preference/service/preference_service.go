package service

import (
	"context"
	"fmt"

	"microwins/internal/modules/preference/domain"
	prefout "microwins/internal/modules/preference/port/out"
)

type PreferenceService struct {
	cache  prefout.LocalCache
	remote prefout.RemoteProfile
	font   prefout.FontApplier
}

// NewPreferenceService accepts nil remote and font ports.
func NewPreferenceService(cache prefout.LocalCache, remote prefout.RemoteProfile, font prefout.FontApplier) *PreferenceService {
	return &PreferenceService{cache: cache, remote: remote, font: font}
}

// Current resolves defaults overlaid with the local cache.
func (s *PreferenceService) Current(ctx context.Context) (domain.Preference, error) {
	local, err := s.cache.Load(ctx)
	if err != nil {
		return domain.Preference{}, err
	}
	return domain.Resolve(local), nil
}

// Reconcile merges the remote profile over the local cache and persists the
// result. A remote failure leaves the cache authoritative and is returned as
// remoteErr rather than err.
func (s *PreferenceService) Reconcile(ctx context.Context, userID string) (pref domain.Preference, remoteErr error, err error) {
	local, err := s.cache.Load(ctx)
	if err != nil {
		return domain.Preference{}, nil, err
	}
	if s.remote == nil || userID == "" {
		return domain.Resolve(local), nil, nil
	}
	remote, exists, fetchErr := s.remote.Fetch(ctx, userID)
	if fetchErr != nil {
		return domain.Resolve(local), fmt.Errorf("fetch remote profile: %w", fetchErr), nil
	}
	if !exists {
		return domain.Resolve(local), nil, nil
	}
	merged := domain.Merge(local, remote)
	if err := s.cache.Save(ctx, merged); err != nil {
		return domain.Preference{}, nil, err
	}
	return domain.Resolve(merged), nil, nil
}

func (s *PreferenceService) Update(ctx context.Context, patch domain.Patch) (domain.Preference, error) {
	if err := patch.Validate(); err != nil {
		return domain.Preference{}, err
	}
	local, err := s.cache.Load(ctx)
	if err != nil {
		return domain.Preference{}, err
	}
	merged := domain.Merge(local, patch)
	if err := s.cache.Save(ctx, merged); err != nil {
		return domain.Preference{}, err
	}
	return domain.Resolve(merged), nil
}

func (s *PreferenceService) ApplyFont(ctx context.Context, font domain.Font) error {
	if s.font == nil {
		return nil
	}
	if err := s.font.ApplyFont(ctx, font); err != nil {
		return fmt.Errorf("apply font: %w", err)
	}
	return nil
}

func (s *PreferenceService) Push(ctx context.Context, userID string, pref domain.Preference) error {
	if s.remote == nil || userID == "" {
		return nil
	}
	if err := s.remote.Push(ctx, userID, pref); err != nil {
		return fmt.Errorf("push remote profile: %w", err)
	}
	return nil
}
