package services

import (
	"context"
	"errors"
	"time"

	"github.com/KNehe/alx-files-manager/internal/cache"
	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/KNehe/alx-files-manager/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tokenKeyPrefix namespaces session tokens inside the shared cache.
const tokenKeyPrefix = "auth_"

type SessionService struct {
	DB       *gorm.DB
	Cache    cache.Cache
	TokenTTL time.Duration
}

func NewSessionService(db *gorm.DB, c cache.Cache, tokenTTL time.Duration) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{DB: db, Cache: c, TokenTTL: tokenTTL}
}

// Resolve maps a bearer token to its user. An absent or expired token, or a
// cache entry pointing at a deleted user, resolves to (nil, nil): the caller
// decides how an unauthenticated request is reported. Only cache or store
// failures produce an error.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	userID, err := s.Cache.Get(ctx, tokenKeyPrefix+token)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, nil
		}
		return nil, err
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// Connect checks credentials and mints an opaque session token with a
// bounded lifetime.
func (s *SessionService) Connect(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", ErrUnauthorized
	}

	token := uuid.New().String()
	if err := s.Cache.Set(ctx, tokenKeyPrefix+token, user.ID.String(), s.TokenTTL); err != nil {
		return "", err
	}

	logger.InfoWithUser(user.ID.String(), "session_opened", map[string]interface{}{
		"ttl": s.TokenTTL.String(),
	})

	return token, nil
}

// Disconnect drops the session token. An unknown token is unauthorized.
func (s *SessionService) Disconnect(ctx context.Context, token string) error {
	user, err := s.Resolve(ctx, token)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUnauthorized
	}

	if err := s.Cache.Del(ctx, tokenKeyPrefix+token); err != nil {
		return err
	}

	logger.InfoWithUser(user.ID.String(), "session_closed", nil)
	return nil
}
