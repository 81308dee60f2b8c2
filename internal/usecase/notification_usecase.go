package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// NotificationDispatcher fans a notification event out to the channels the
// user has enabled. Channel failures are isolated: one broken sender never
// blocks the others, and a fully failed dispatch is still consumed.
type NotificationDispatcher struct {
	profileRepo ProfileRepository
	push        ChannelSender
	email       ChannelSender
	sms         ChannelSender
	logger      *slog.Logger
}

// NewNotificationDispatcher creates a new NotificationDispatcher.
func NewNotificationDispatcher(profileRepo ProfileRepository, push, email, sms ChannelSender, logger *slog.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		profileRepo: profileRepo,
		push:        push,
		email:       email,
		sms:         sms,
		logger:      logger,
	}
}

// Dispatch delivers one notification event according to the user's
// preferences. Security alerts bypass preferences entirely and go to every
// channel.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, event *domain.NotificationEvent) error {
	settings, err := d.settingsFor(ctx, event.UserID)
	if err != nil {
		return err
	}

	title, content := d.render(event)

	switch event.Type {
	case domain.NotificationSecurityAlert:
		// Security alerts go out on all channels regardless of
		// preferences.
		d.send(ctx, d.push, "push", event, title, content)
		d.send(ctx, d.email, "email", event, title, content)
		d.send(ctx, d.sms, "sms", event, title, content)

	case domain.NotificationTransferCompleted:
		if !settings.TransactionAlerts() {
			return nil
		}
		if settings.Push() {
			d.send(ctx, d.push, "push", event, title, content)
		}
		if settings.Email() {
			d.send(ctx, d.email, "email", event, title, content)
		}
		if settings.SMS() {
			d.send(ctx, d.sms, "sms", event, title, content)
		}

	case domain.NotificationAccountUpdate:
		if !settings.AccountUpdates() {
			return nil
		}
		if settings.Push() {
			d.send(ctx, d.push, "push", event, title, content)
		}
		if settings.Email() {
			d.send(ctx, d.email, "email", event, title, content)
		}

	case domain.NotificationPromotional:
		if !settings.Marketing() {
			return nil
		}
		if settings.Push() {
			d.send(ctx, d.push, "push", event, title, content)
		}
		if settings.Email() {
			d.send(ctx, d.email, "email", event, title, content)
		}

	default:
		d.logger.Warn("unknown notification type, dropping event",
			"notification_type", string(event.Type),
			"user_id", event.UserID)
	}

	return nil
}

// settingsFor loads the user's notification settings. A missing profile
// falls back to defaults rather than dropping the event: a security alert
// for a half-provisioned user must still go out.
func (d *NotificationDispatcher) settingsFor(ctx context.Context, userID string) (domain.NotificationSettings, error) {
	profile, err := d.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			d.logger.Warn("profile not found, using default notification settings",
				"user_id", userID)
			return nil, nil
		}
		return nil, err
	}
	return profile.NotificationSettings, nil
}

func (d *NotificationDispatcher) render(event *domain.NotificationEvent) (title, content string) {
	title = event.Title
	content = event.Content

	if title != "" && content != "" {
		return title, content
	}

	switch event.Type {
	case domain.NotificationTransferCompleted:
		title = "Transfer Completed"
		content = fmt.Sprintf("Your transfer of %s has been completed.", event.Amount)
	case domain.NotificationSecurityAlert:
		title = "Security Alert"
		content = fmt.Sprintf("Unusual activity detected: %s.", event.AlertType)
	case domain.NotificationAccountUpdate:
		title = "Account Update"
		content = fmt.Sprintf("Your account settings were updated (%s).", event.UpdateType)
	case domain.NotificationPromotional:
		title = "Offer For You"
		content = "Check out the latest offers in your app."
	}
	return title, content
}

func (d *NotificationDispatcher) send(ctx context.Context, sender ChannelSender, channel string, event *domain.NotificationEvent, title, content string) {
	if sender == nil {
		return
	}
	if err := sender.Send(ctx, event.UserID, title, content); err != nil {
		d.logger.Error("notification delivery failed",
			"channel", channel,
			"user_id", event.UserID,
			"error", err)
		return
	}
	metrics.NotificationsSent.WithLabelValues(channel, string(event.Type)).Inc()
	d.logger.Debug("notification delivered",
		"channel", channel,
		"user_id", event.UserID)
}
