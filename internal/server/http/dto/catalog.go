package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// BenefitTemplateRequest describes one benefit a tier grants.
type BenefitTemplateRequest struct {
	Name            string `json:"name"`
	Frequency       string `json:"frequency"`
	ExpiresInMonths int    `json:"expires_in_months"`
}

// YearlyPriceRequest carries annual pricing.
type YearlyPriceRequest struct {
	FirstYear  decimal.Decimal `json:"first_year"`
	SecondYear decimal.Decimal `json:"second_year"`
}

// CashbackLimitsRequest caps cashback; absent fields mean no cap.
type CashbackLimitsRequest struct {
	PerTransaction *decimal.Decimal `json:"per_transaction,omitempty"`
	Monthly        *decimal.Decimal `json:"monthly,omitempty"`
	Annual         *decimal.Decimal `json:"annual,omitempty"`
}

// CashbackConfigRequest describes a tier's cashback program.
type CashbackConfigRequest struct {
	Enabled bool                   `json:"enabled"`
	Rate    decimal.Decimal        `json:"rate"`
	Limits  *CashbackLimitsRequest `json:"limits,omitempty"`
}

// TierRequest describes a membership tier definition payload.
type TierRequest struct {
	Name             string                   `json:"name"`
	Description      string                   `json:"description,omitempty"`
	MonthlyPrice     *decimal.Decimal         `json:"monthly_price,omitempty"`
	YearlyPrice      *YearlyPriceRequest      `json:"yearly_price,omitempty"`
	BenefitTemplates []BenefitTemplateRequest `json:"benefit_templates,omitempty"`
	RewardValue      decimal.Decimal          `json:"reward_value"`
	RewardFrequency  string                   `json:"reward_frequency"`
	Cashback         *CashbackConfigRequest   `json:"cashback,omitempty"`
}

// ToTierModel maps the request onto a tier aggregate.
func (r TierRequest) ToTierModel() *model.MembershipTier {
	tier := &model.MembershipTier{
		Name:            r.Name,
		Description:     r.Description,
		MonthlyPrice:    r.MonthlyPrice,
		RewardValue:     r.RewardValue,
		RewardFrequency: model.RewardFrequency(r.RewardFrequency),
	}
	if r.YearlyPrice != nil {
		tier.YearlyPrice = &model.YearlyPrice{
			FirstYear:  r.YearlyPrice.FirstYear,
			SecondYear: r.YearlyPrice.SecondYear,
		}
	}
	for _, t := range r.BenefitTemplates {
		tier.BenefitTemplates = append(tier.BenefitTemplates, model.BenefitTemplate{
			Name:            t.Name,
			Frequency:       model.BenefitFrequency(t.Frequency),
			ExpiresInMonths: t.ExpiresInMonths,
		})
	}
	if r.Cashback != nil {
		cfg := &model.CashbackConfig{Enabled: r.Cashback.Enabled, Rate: r.Cashback.Rate}
		if r.Cashback.Limits != nil {
			cfg.Limits = &model.CashbackLimits{
				PerTransaction: r.Cashback.Limits.PerTransaction,
				Monthly:        r.Cashback.Limits.Monthly,
				Annual:         r.Cashback.Limits.Annual,
			}
		}
		tier.Cashback = cfg
	}
	return tier
}

// TierResponse describes a membership tier.
type TierResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	MonthlyPrice    *decimal.Decimal `json:"monthly_price,omitempty"`
	RewardValue     decimal.Decimal  `json:"reward_value"`
	RewardFrequency string           `json:"reward_frequency"`
	MemberCount     int              `json:"member_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ToTierResponse maps a tier aggregate onto its response shape.
func ToTierResponse(t *model.MembershipTier) TierResponse {
	return TierResponse{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		MonthlyPrice:    t.MonthlyPrice,
		RewardValue:     t.RewardValue,
		RewardFrequency: string(t.RewardFrequency),
		MemberCount:     t.MemberCount,
		CreatedAt:       t.CreatedAt,
	}
}

// OfferRequest describes an offer definition payload.
type OfferRequest struct {
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	QuantityLimit *int             `json:"quantity_limit,omitempty"`
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	TierIDs       []string         `json:"tier_ids,omitempty"`
}

// ToOfferModel maps the request onto an offer.
func (r OfferRequest) ToOfferModel() *model.Offer {
	return &model.Offer{
		Title:         r.Title,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		QuantityLimit: r.QuantityLimit,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		TierIDs:       r.TierIDs,
	}
}

// OfferStatusRequest changes an offer's lifecycle status.
type OfferStatusRequest struct {
	Status string `json:"status"`
}

// OfferResponse describes a catalog offer.
type OfferResponse struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	QuantityLimit   *int             `json:"quantity_limit,omitempty"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	Status          string           `json:"status"`
	RedemptionCount int              `json:"redemption_count"`
	TierIDs         []string         `json:"tier_ids,omitempty"`
}

// ToOfferResponse maps an offer onto its response shape.
func ToOfferResponse(o *model.Offer) OfferResponse {
	return OfferResponse{
		ID:              o.ID,
		Title:           o.Title,
		Description:     o.Description,
		Price:           o.Price,
		OriginalPrice:   o.OriginalPrice,
		QuantityLimit:   o.QuantityLimit,
		StartDate:       o.StartDate,
		EndDate:         o.EndDate,
		Status:          string(o.Status),
		RedemptionCount: o.RedemptionCount,
		TierIDs:         o.TierIDs,
	}
}

// PurchaseOfferRequest describes payment for an offer purchase.
type PurchaseOfferRequest struct {
	PaymentMethod string       `json:"payment_method"`
	Card          *CardRequest `json:"card,omitempty"`
}

// PurchaseOfferResponse reports the recorded purchase.
type PurchaseOfferResponse struct {
	PurchaseID     string    `json:"purchase_id"`
	TransactionID  string    `json:"transaction_id"`
	ExpirationDate time.Time `json:"expiration_date"`
}
