// Package notifier provides the delivery channels used by the notification
// dispatcher. The senders here write structured delivery records; swapping in
// real push/email/SMS providers only requires new ChannelSender
// implementations.
package notifier

import (
	"context"
	"log/slog"
)

// LogSender records notification deliveries on one channel.
type LogSender struct {
	channel string
	logger  *slog.Logger
}

// NewPushSender creates the push notification channel.
func NewPushSender(logger *slog.Logger) *LogSender {
	return &LogSender{channel: "push", logger: logger}
}

// NewEmailSender creates the email channel.
func NewEmailSender(logger *slog.Logger) *LogSender {
	return &LogSender{channel: "email", logger: logger}
}

// NewSMSSender creates the SMS channel.
func NewSMSSender(logger *slog.Logger) *LogSender {
	return &LogSender{channel: "sms", logger: logger}
}

// Send delivers one notification to one user.
func (s *LogSender) Send(ctx context.Context, userID, title, message string) error {
	s.logger.InfoContext(ctx, "notification sent",
		"channel", s.channel,
		"user_id", userID,
		"title", title,
		"message", message)
	return nil
}
