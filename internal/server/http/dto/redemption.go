package dto

import "github.com/shopspring/decimal"

// RedeemRewardRequest describes a rewards balance redemption payload.
type RedeemRewardRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// RedeemRewardResponse reports the balance after redemption.
type RedeemRewardResponse struct {
	RewardsBalance decimal.Decimal `json:"rewards_balance"`
}
