package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/contextkeys"
	apperrors "gearguard/pkg/errors"
)

const roleCacheKeyPrefix = "role:"

type RoleServiceInterface interface {
	RoleOf(ctx context.Context, userID uint64) (entities.Role, error)
	ActorFromContext(ctx context.Context) (authz.Actor, error)
	InvalidateRole(ctx context.Context, userID uint64)
}

// roleService resolves the role attached to an authenticated account,
// caching lookups in redis so the profile table is not hit on every call.
type roleService struct {
	userRepo repositories.UserRepositoryInterface
	cache    repositories.CacheRepositoryInterface
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewRoleService(
	userRepo repositories.UserRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) RoleServiceInterface {
	return &roleService{userRepo: userRepo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *roleService) RoleOf(ctx context.Context, userID uint64) (entities.Role, error) {
	key := fmt.Sprintf("%s%d", roleCacheKeyPrefix, userID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		if role := entities.Role(cached); role.Valid() {
			return role, nil
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("role cache read failed", zap.Uint64("user_id", userID), zap.Error(err))
	}

	profile, err := s.userRepo.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Authenticated account without a profile row: data-integrity
			// problem, reported distinctly from a permission denial.
			return "", apperrors.ErrProfileMissing
		}
		return "", err
	}

	if err := s.cache.Set(ctx, key, string(profile.Role), s.cacheTTL); err != nil {
		s.logger.Warn("role cache write failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
	return profile.Role, nil
}

func (s *roleService) ActorFromContext(ctx context.Context) (authz.Actor, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return authz.Actor{}, apperrors.ErrUserIDNotFoundInContext
	}

	role, err := s.RoleOf(ctx, userID)
	if err != nil {
		return authz.Actor{}, err
	}
	return authz.Actor{ID: userID, Role: role}, nil
}

func (s *roleService) InvalidateRole(ctx context.Context, userID uint64) {
	key := fmt.Sprintf("%s%d", roleCacheKeyPrefix, userID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("role cache invalidation failed", zap.Uint64("user_id", userID), zap.Error(err))
	}
}
