package domain

import "time"

// UserTier determines transaction limits.
type UserTier string

const (
	TierStandard  UserTier = "standard"
	TierPremium   UserTier = "premium"
	TierCorporate UserTier = "corporate"
)

// Notification setting keys. Absent keys fall back to per-key defaults:
// push on, email off, sms off, transaction alerts on, account updates on,
// marketing off. Security alerts have no key: they ignore settings.
const (
	SettingPushNotifications      = "push_notifications"
	SettingEmailNotifications     = "email_notifications"
	SettingSMSNotifications       = "sms_notifications"
	SettingTransactionAlerts      = "transaction_alerts"
	SettingAccountUpdates         = "account_updates"
	SettingMarketingNotifications = "marketing_notifications"
)

// NotificationSettings holds per-channel and per-category opt-ins.
type NotificationSettings map[string]bool

func (s NotificationSettings) lookup(key string, def bool) bool {
	if s == nil {
		return def
	}
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

// Push reports whether push delivery is enabled (default on).
func (s NotificationSettings) Push() bool { return s.lookup(SettingPushNotifications, true) }

// Email reports whether email delivery is enabled (default off).
func (s NotificationSettings) Email() bool { return s.lookup(SettingEmailNotifications, false) }

// SMS reports whether SMS delivery is enabled (default off).
func (s NotificationSettings) SMS() bool { return s.lookup(SettingSMSNotifications, false) }

// TransactionAlerts reports whether transaction outcome notifications are
// enabled (default on).
func (s NotificationSettings) TransactionAlerts() bool {
	return s.lookup(SettingTransactionAlerts, true)
}

// AccountUpdates reports whether account update notifications are enabled
// (default on).
func (s NotificationSettings) AccountUpdates() bool { return s.lookup(SettingAccountUpdates, true) }

// Marketing reports whether promotional notifications are enabled (default
// off).
func (s NotificationSettings) Marketing() bool {
	return s.lookup(SettingMarketingNotifications, false)
}

// Address is a user's postal address.
type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// UserProfile is the profile document for a banking customer. The Accounts
// list is the sole authority for account ownership.
type UserProfile struct {
	UserID               string
	FirstName            string
	LastName             string
	Email                string
	PhoneNumber          string
	Address              Address
	Accounts             []string
	Tier                 UserTier
	Preferences          map[string]any
	NotificationSettings NotificationSettings
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// OwnsAccount reports whether accountID is in the profile's account list.
func (p *UserProfile) OwnsAccount(accountID string) bool {
	for _, id := range p.Accounts {
		if id == accountID {
			return true
		}
	}
	return false
}
