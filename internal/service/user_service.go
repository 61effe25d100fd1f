package service

import (
	"context"
	"fmt"
	"strconv"

	"autoparts/internal/auth"
	"autoparts/internal/model"
	"autoparts/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// GetOrCreateFromTelegram stores or refreshes the user behind a verified
// Telegram login. The Telegram username falls back to the first name when
// the account has no public username.
func (s *userService) GetOrCreateFromTelegram(ctx context.Context, tgUser *auth.TelegramUser) (*model.User, error) {
	if tgUser == nil {
		return nil, fmt.Errorf("telegram user is nil")
	}

	username := tgUser.Username
	if username == "" {
		username = tgUser.FirstName
	}

	user := &model.User{
		ID:           strconv.FormatInt(tgUser.ID, 10),
		FirstName:    tgUser.FirstName,
		TgUsername:   username,
		Role:         model.RoleUser,
		LanguageCode: tgUser.LanguageCode,
	}

	stored, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", stored.ID).
		Str("tg_username", stored.TgUsername).
		Msg("telegram user signed in")

	return stored, nil
}

// GetByID retrieves a user.
func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial update to the user's shipping profile.
func (s *userService) UpdateProfile(ctx context.Context, id string, patch *model.ProfilePatch) (*model.User, error) {
	user, err := s.userRepo.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}
