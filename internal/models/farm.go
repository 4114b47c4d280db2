package models

import "time"

// SubscriptionPlan is the billing tier a farm is on.
type SubscriptionPlan string

const (
	PlanStarter    SubscriptionPlan = "starter"
	PlanGrower     SubscriptionPlan = "grower"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// SubscriptionStatus is the persisted outcome of the external checkout
// flow; the flow itself is not handled here.
type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Farm is the tenant root. Every activity record, ledger entry, budget,
// and farming year is partitioned by FarmID.
type Farm struct {
	Base
	Name               string             `gorm:"not null" json:"name"`
	Location           string             `json:"location,omitempty"`
	Currency           string             `gorm:"not null;default:'USD'" json:"currency"`
	Plan               SubscriptionPlan   `gorm:"not null;default:'starter'" json:"plan"`
	SubscriptionStatus SubscriptionStatus `gorm:"not null;default:'trialing'" json:"subscription_status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty"`
}
