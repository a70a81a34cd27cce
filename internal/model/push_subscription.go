package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// Editors subscribe to the pricing profiles whose sell prices they watch.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	TenantID  string    `gorm:"index;size:64;not null"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	PricingProfiles []*PricingProfile `gorm:"many2many:subscription_profile_mapping;"`
}
