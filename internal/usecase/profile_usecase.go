package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
)

// UpdateProfileInput carries the caller-editable profile fields. Accounts
// and tier are never updatable through the API.
type UpdateProfileInput struct {
	UserID               string
	FirstName            *string
	LastName             *string
	Email                *string
	PhoneNumber          *string
	Address              *domain.Address
	Preferences          map[string]any
	NotificationSettings domain.NotificationSettings
}

// ProfileUseCase reads and updates user profiles. Updates are restricted to
// contact fields, preferences, and notification settings.
type ProfileUseCase struct {
	profileRepo   ProfileRepository
	notifications NotificationPublisher
	logger        zerolog.Logger
	now           func() time.Time
}

// NewProfileUseCase creates a new ProfileUseCase.
func NewProfileUseCase(profileRepo ProfileRepository, notifications NotificationPublisher, logger zerolog.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo:   profileRepo,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

// GetProfile returns the profile for userID.
func (uc *ProfileUseCase) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return uc.profileRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the editable subset of fields after validating them,
// persists the profile, and emits an account update notification.
func (uc *ProfileUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.UserProfile, error) {
	profile, err := uc.profileRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		if err := domain.ValidateName(*input.FirstName); err != nil {
			return nil, fmt.Errorf("%w: first name: %v", domain.ErrInvalidRequest, err)
		}
		profile.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		if err := domain.ValidateName(*input.LastName); err != nil {
			return nil, fmt.Errorf("%w: last name: %v", domain.ErrInvalidRequest, err)
		}
		profile.LastName = *input.LastName
	}
	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		profile.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		if err := domain.ValidatePhoneNumber(*input.PhoneNumber); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		profile.PhoneNumber = *input.PhoneNumber
	}
	if input.Address != nil {
		profile.Address = *input.Address
	}
	if input.Preferences != nil {
		profile.Preferences = input.Preferences
	}
	if input.NotificationSettings != nil {
		profile.NotificationSettings = input.NotificationSettings
	}
	profile.UpdatedAt = uc.now()

	if err := uc.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	event := &domain.NotificationEvent{
		Type:       domain.NotificationAccountUpdate,
		UserID:     profile.UserID,
		UpdateType: "profile_updated",
		Timestamp:  uc.now().Unix(),
	}
	if err := uc.notifications.PublishNotification(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("user_id", profile.UserID).
			Msg("failed to publish account update notification")
	}

	return profile, nil
}
