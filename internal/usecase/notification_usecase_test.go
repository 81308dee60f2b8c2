package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
	"github.com/iho/gobank/internal/usecase/mocks"
)

func dispatcherFixture() (*mocks.MockProfileRepository, *mocks.MockChannelSender, *mocks.MockChannelSender, *mocks.MockChannelSender, *usecase.NotificationDispatcher) {
	repo := mocks.NewMockProfileRepository()
	push := &mocks.MockChannelSender{}
	email := &mocks.MockChannelSender{}
	sms := &mocks.MockChannelSender{}
	d := usecase.NewNotificationDispatcher(repo, push, email, sms, discardLogger())
	return repo, push, email, sms, d
}

func seedSettings(repo *mocks.MockProfileRepository, userID string, settings domain.NotificationSettings) {
	repo.Seed(&domain.UserProfile{
		UserID:               userID,
		NotificationSettings: settings,
	})
}

func TestNotificationDispatcher_SecurityAlertBypassesPreferences(t *testing.T) {
	repo, push, email, sms, d := dispatcherFixture()
	seedSettings(repo, "user-1", domain.NotificationSettings{
		domain.SettingPushNotifications:  false,
		domain.SettingEmailNotifications: false,
		domain.SettingSMSNotifications:   false,
	})

	err := d.Dispatch(context.Background(), &domain.NotificationEvent{
		Type:      domain.NotificationSecurityAlert,
		UserID:    "user-1",
		AlertType: "large_transaction",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(push.Sends()) != 1 || len(email.Sends()) != 1 || len(sms.Sends()) != 1 {
		t.Fatalf("security alert must reach all channels: push=%d email=%d sms=%d",
			len(push.Sends()), len(email.Sends()), len(sms.Sends()))
	}
}

func TestNotificationDispatcher_TransferCompleted(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.NotificationSettings
		want     map[string]int // channel -> deliveries
	}{
		{
			name:     "defaults: push only",
			settings: nil,
			want:     map[string]int{"push": 1, "email": 0, "sms": 0},
		},
		{
			name: "all channels opted in",
			settings: domain.NotificationSettings{
				domain.SettingPushNotifications:  true,
				domain.SettingEmailNotifications: true,
				domain.SettingSMSNotifications:   true,
			},
			want: map[string]int{"push": 1, "email": 1, "sms": 1},
		},
		{
			name: "everything off",
			settings: domain.NotificationSettings{
				domain.SettingPushNotifications: false,
			},
			want: map[string]int{"push": 0, "email": 0, "sms": 0},
		},
		{
			name: "transaction alerts off suppresses every channel",
			settings: domain.NotificationSettings{
				domain.SettingTransactionAlerts:  false,
				domain.SettingPushNotifications:  true,
				domain.SettingEmailNotifications: true,
				domain.SettingSMSNotifications:   true,
			},
			want: map[string]int{"push": 0, "email": 0, "sms": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, push, email, sms, d := dispatcherFixture()
			seedSettings(repo, "user-1", tt.settings)

			err := d.Dispatch(context.Background(), &domain.NotificationEvent{
				Type:   domain.NotificationTransferCompleted,
				UserID: "user-1",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := map[string]int{"push": len(push.Sends()), "email": len(email.Sends()), "sms": len(sms.Sends())}
			for ch, n := range tt.want {
				if got[ch] != n {
					t.Errorf("channel %s: expected %d deliveries, got %d", ch, n, got[ch])
				}
			}
		})
	}
}

func TestNotificationDispatcher_AccountUpdateGate(t *testing.T) {
	repo, push, email, sms, d := dispatcherFixture()
	seedSettings(repo, "user-1", domain.NotificationSettings{
		domain.SettingAccountUpdates:     false,
		domain.SettingPushNotifications:  true,
		domain.SettingEmailNotifications: true,
	})

	err := d.Dispatch(context.Background(), &domain.NotificationEvent{
		Type:       domain.NotificationAccountUpdate,
		UserID:     "user-1",
		UpdateType: "profile_updated",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(push.Sends())+len(email.Sends())+len(sms.Sends()) != 0 {
		t.Error("account updates disabled: nothing should be delivered")
	}
}

func TestNotificationDispatcher_PromotionalGate(t *testing.T) {
	t.Run("marketing off by default", func(t *testing.T) {
		repo, push, email, _, d := dispatcherFixture()
		seedSettings(repo, "user-1", nil)

		if err := d.Dispatch(context.Background(), &domain.NotificationEvent{
			Type:   domain.NotificationPromotional,
			UserID: "user-1",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(push.Sends())+len(email.Sends()) != 0 {
			t.Error("promotional must be dropped unless marketing is opted in")
		}
	})

	t.Run("marketing opted in, push and email only", func(t *testing.T) {
		repo, push, email, sms, d := dispatcherFixture()
		seedSettings(repo, "user-1", domain.NotificationSettings{
			domain.SettingMarketingNotifications: true,
			domain.SettingEmailNotifications:     true,
			domain.SettingSMSNotifications:       true,
		})

		if err := d.Dispatch(context.Background(), &domain.NotificationEvent{
			Type:   domain.NotificationPromotional,
			UserID: "user-1",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(push.Sends()) != 1 || len(email.Sends()) != 1 {
			t.Errorf("expected push and email delivery, got push=%d email=%d", len(push.Sends()), len(email.Sends()))
		}
		if len(sms.Sends()) != 0 {
			t.Error("promotional never goes to SMS")
		}
	})
}

func TestNotificationDispatcher_ChannelFailureIsolation(t *testing.T) {
	repo, push, email, sms, d := dispatcherFixture()
	seedSettings(repo, "user-1", domain.NotificationSettings{
		domain.SettingPushNotifications:  true,
		domain.SettingEmailNotifications: true,
		domain.SettingSMSNotifications:   true,
	})
	sms.SendFunc = func(ctx context.Context, userID, title, message string) error {
		return errors.New("sms provider 502")
	}

	err := d.Dispatch(context.Background(), &domain.NotificationEvent{
		Type:   domain.NotificationTransferCompleted,
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("sender failure must not fail the dispatch: %v", err)
	}
	if len(push.Sends()) != 1 || len(email.Sends()) != 1 {
		t.Errorf("other channels must still deliver: push=%d email=%d", len(push.Sends()), len(email.Sends()))
	}
}

func TestNotificationDispatcher_MissingProfileUsesDefaults(t *testing.T) {
	_, push, email, sms, d := dispatcherFixture()

	// Security alert for a user with no profile still goes everywhere.
	if err := d.Dispatch(context.Background(), &domain.NotificationEvent{
		Type:   domain.NotificationSecurityAlert,
		UserID: "ghost",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(push.Sends()) != 1 || len(email.Sends()) != 1 || len(sms.Sends()) != 1 {
		t.Error("security alert must go to all channels even without a profile")
	}
}

func TestNotificationDispatcher_UnknownTypeDropped(t *testing.T) {
	repo, push, email, sms, d := dispatcherFixture()
	seedSettings(repo, "user-1", nil)

	if err := d.Dispatch(context.Background(), &domain.NotificationEvent{
		Type:   "carrier_pigeon",
		UserID: "user-1",
	}); err != nil {
		t.Fatalf("unknown types are dropped, not errored: %v", err)
	}
	if len(push.Sends())+len(email.Sends())+len(sms.Sends()) != 0 {
		t.Error("unknown types must not be delivered")
	}
}
