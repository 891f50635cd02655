package domain

import "time"

// OAuth links a user account to an account at an external provider.
// A user signing in through the provider is resolved to the local user
// through the (provider, provider_user_id) pair.
type OAuth struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id" gorm:"notNull;index"`
	User           *User  `json:"user"`
	Provider       string `json:"provider" gorm:"notNull;uniqueIndex:idx_oauths_provider_account"`
	ProviderUserID string `json:"provider_user_id" gorm:"notNull;uniqueIndex:idx_oauths_provider_account"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OAuthService is a set of methods to manipulate and work with the OAuth model.
type OAuthService interface {
	ByProviderUserID(provider, providerUserID string) (*OAuth, error)
	Create(oauth *OAuth) error
}
