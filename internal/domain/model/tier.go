package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RewardFrequency describes how often a tier credits its reward value.
type RewardFrequency string

const (
	RewardFrequencyMonthly RewardFrequency = "Monthly"
	RewardFrequencyYearly  RewardFrequency = "Yearly"
)

// BenefitFrequency describes how often a benefit template recurs.
type BenefitFrequency string

const (
	BenefitFrequencyMonthly   BenefitFrequency = "Monthly"
	BenefitFrequencyQuarterly BenefitFrequency = "Quarterly"
	BenefitFrequencyYearly    BenefitFrequency = "Yearly"
)

// BenefitTemplate is cloned onto a member at enrollment.
type BenefitTemplate struct {
	Name            string           `json:"name"`
	Frequency       BenefitFrequency `json:"frequency"`
	ExpiresInMonths int              `json:"expires_in_months"`
}

// YearlyPrice holds first and subsequent year pricing for annual billing.
type YearlyPrice struct {
	FirstYear  decimal.Decimal `json:"first_year"`
	SecondYear decimal.Decimal `json:"second_year"`
}

// CashbackLimits caps earned cashback; nil fields mean no cap.
type CashbackLimits struct {
	PerTransaction *decimal.Decimal `json:"per_transaction,omitempty"`
	Monthly        *decimal.Decimal `json:"monthly,omitempty"`
	Annual         *decimal.Decimal `json:"annual,omitempty"`
}

// CashbackConfig describes a tier's cashback program. Rate is a percentage
// in [0, 100].
type CashbackConfig struct {
	Enabled bool            `json:"enabled"`
	Rate    decimal.Decimal `json:"rate"`
	Limits  *CashbackLimits `json:"limits,omitempty"`
}

// MembershipTier defines pricing, reward rules, and benefit templates.
// Identity is immutable; configuration fields may be edited.
type MembershipTier struct {
	ID               string
	Name             string
	Description      string
	MonthlyPrice     *decimal.Decimal
	YearlyPrice      *YearlyPrice
	BenefitTemplates []BenefitTemplate
	RewardValue      decimal.Decimal
	RewardFrequency  RewardFrequency
	Cashback         *CashbackConfig
	MemberCount      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
