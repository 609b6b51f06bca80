package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"miniapp-user-backend/internal/common/validation"
	"miniapp-user-backend/internal/features/user/events"
	"miniapp-user-backend/internal/features/user/models"
	"miniapp-user-backend/internal/features/user/repository"

	"github.com/rs/zerolog"
)

const DefaultLanguageCode = "en"

type UserService interface {
	// GetOrCreate returns the stored user, creating it from hints when absent.
	// The bool is true when the record was created by this call.
	GetOrCreate(ctx context.Context, id string, hints models.ProfileHints) (*models.User, bool, error)
	// Update applies a validated partial patch.
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// EventPublisher receives a notice after every successful write. Publish
// errors are logged and never fail the request.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event) error
}

type Config struct {
	DefaultLanguageCode string
	Now                 func() time.Time
	// Optional
	Events EventPublisher
}

type userService struct {
	repo            repository.UserRepository
	defaultLanguage string
	now             func() time.Time
	events          EventPublisher
	logger          zerolog.Logger
}

func NewUserService(repo repository.UserRepository, cfg Config, logger zerolog.Logger) UserService {
	s := &userService{
		repo:            repo,
		defaultLanguage: cfg.DefaultLanguageCode,
		now:             cfg.Now,
		events:          cfg.Events,
		logger:          logger.With().Str("component", "user_service").Logger(),
	}
	if s.defaultLanguage == "" {
		s.defaultLanguage = DefaultLanguageCode
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// timestamp drops the monotonic reading and sub-microsecond precision so
// the value survives a round trip through the store unchanged.
func (s *userService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// GetOrCreate is a check-then-create: two first requests racing for the same
// identity both write a complete record and the last writer wins.
func (s *userService) GetOrCreate(ctx context.Context, id string, hints models.ProfileHints) (*models.User, bool, error) {
	if err := validation.ValidateIdentity(id); err != nil {
		return nil, false, newValidationError("telegram_id", err)
	}

	user, err := s.repo.Get(ctx, id)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error().Err(err).Str("telegram_id", id).Msg("Failed to load user")
		return nil, false, err
	}

	if err := validation.ValidateProfileName(hints.FirstName); err != nil {
		return nil, false, newValidationError("first_name", err)
	}

	languageCode := strings.TrimSpace(hints.LanguageCode)
	if languageCode == "" {
		languageCode = s.defaultLanguage
	}
	if err := validation.ValidateLanguageCode(languageCode); err != nil {
		return nil, false, newValidationError("language_code", err)
	}

	now := s.timestamp()
	user = &models.User{
		TelegramID:   id,
		FirstName:    strings.TrimSpace(hints.FirstName),
		LastName:     strings.TrimSpace(hints.LastName),
		Username:     strings.TrimSpace(hints.Username),
		LanguageCode: languageCode,
		UserData:     map[string]interface{}{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("telegram_id", id).Msg("Failed to create user")
		return nil, false, err
	}

	s.logger.Info().Str("telegram_id", id).Msg("User created")
	s.publish(ctx, events.TypeUserCreated, id, now)
	return user, true, nil
}

func (s *userService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if err := validation.ValidateIdentity(id); err != nil {
		return nil, newValidationError("telegram_id", err)
	}

	clean, err := validatePatch(patch)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Update(ctx, id, clean, s.timestamp())
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error().Err(err).Str("telegram_id", id).Msg("Failed to update user")
		}
		return nil, err
	}

	s.logger.Debug().Str("telegram_id", id).Msg("User updated")
	s.publish(ctx, events.TypeUserUpdated, id, user.UpdatedAt)
	return user, nil
}

func (s *userService) Exists(ctx context.Context, id string) (bool, error) {
	if err := validation.ValidateIdentity(id); err != nil {
		return false, newValidationError("telegram_id", err)
	}
	return s.repo.Exists(ctx, id)
}

func (s *userService) publish(ctx context.Context, t events.Type, id string, at time.Time) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events.Event{Type: t, TelegramID: id, At: at}); err != nil {
		s.logger.Warn().Err(err).Str("telegram_id", id).Str("event", string(t)).Msg("Failed to publish user event")
	}
}

// validatePatch checks every provided field and returns the patch with
// names trimmed. Nothing is written when it fails.
func validatePatch(patch models.UserPatch) (models.UserPatch, error) {
	var clean models.UserPatch

	if patch.FirstName != nil {
		if err := validation.ValidateFirstName(*patch.FirstName); err != nil {
			return clean, newValidationError("first_name", err)
		}
		v := strings.TrimSpace(*patch.FirstName)
		clean.FirstName = &v
	}

	if patch.LastName != nil {
		if err := validation.ValidateLastName(*patch.LastName); err != nil {
			return clean, newValidationError("last_name", err)
		}
		v := strings.TrimSpace(*patch.LastName)
		clean.LastName = &v
	}

	if patch.UserData != nil {
		if _, err := validation.ValidateUserData(patch.UserData); err != nil {
			return clean, newValidationError("user_data", err)
		}
		clean.UserData = patch.UserData
	}

	return clean, nil
}
