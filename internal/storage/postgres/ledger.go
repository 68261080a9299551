package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rvslabs/membercore/internal/domain/model"
)

type ledgerRepository struct {
	q querier
}

// decodeDetail rebuilds the typed detail variant from its stored document,
// keyed on the entry type.
func decodeDetail(txType model.TransactionType, raw []byte) (model.Detail, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var (
		detail model.Detail
		err    error
	)
	switch txType {
	case model.TransactionBillPayment:
		var d model.BillPaymentDetail
		err = json.Unmarshal(raw, &d)
		detail = d
	case model.TransactionCashbackEarned:
		var d model.CashbackDetail
		err = json.Unmarshal(raw, &d)
		detail = d
	case model.TransactionRewardRedemption:
		var d model.RewardRedemptionDetail
		err = json.Unmarshal(raw, &d)
		detail = d
	case model.TransactionBenefitUsage:
		var d model.BenefitUsageDetail
		err = json.Unmarshal(raw, &d)
		detail = d
	case model.TransactionMembershipPurchase:
		var d model.MembershipPurchaseDetail
		err = json.Unmarshal(raw, &d)
		detail = d
	case model.TransactionOfferPurchase:
		var d model.OfferPurchaseDetail
		err = json.Unmarshal(raw, &d)
		detail = d
	default:
		return nil, fmt.Errorf("unknown transaction type %q", txType)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s detail: %w", txType, err)
	}
	return detail, nil
}

func (r *ledgerRepository) Append(ctx context.Context, t *model.Transaction) error {
	detail := []byte(`{}`)
	if t.Detail != nil {
		var err error
		detail, err = json.Marshal(t.Detail)
		if err != nil {
			return fmt.Errorf("encode detail: %w", err)
		}
	}
	extra, err := marshalNullable(t.Extra != nil, t.Extra)
	if err != nil {
		return fmt.Errorf("encode extra: %w", err)
	}

	var method, last4 *string
	if t.PaymentMethod != nil {
		m := string(t.PaymentMethod.Type)
		method = &m
		if t.PaymentMethod.Last4 != "" {
			l := t.PaymentMethod.Last4
			last4 = &l
		}
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO transactions (id, member_id, type, amount, cashback_earned,
            payment_method, payment_last4, status, detail, extra, created_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		t.ID, t.MemberID, t.Type, t.Amount, t.CashbackEarned,
		method, last4, t.Status, detail, extra, t.Timestamp,
	)
	return err
}

// MonthlyCashbackTotal sums cashback earned in the UTC calendar month
// containing at. The ledger is the only source for the aggregate.
func (r *ledgerRepository) MonthlyCashbackTotal(ctx context.Context, memberID string, at time.Time) (decimal.Decimal, error) {
	at = at.UTC()
	from := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	return r.cashbackTotal(ctx, memberID, from, from.AddDate(0, 1, 0))
}

// AnnualCashbackTotal sums cashback earned in the UTC calendar year
// containing at.
func (r *ledgerRepository) AnnualCashbackTotal(ctx context.Context, memberID string, at time.Time) (decimal.Decimal, error) {
	at = at.UTC()
	from := time.Date(at.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return r.cashbackTotal(ctx, memberID, from, from.AddDate(1, 0, 0))
}

func (r *ledgerRepository) cashbackTotal(ctx context.Context, memberID string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
         WHERE member_id = $1 AND type = $2 AND created_at >= $3 AND created_at < $4`,
		memberID, model.TransactionCashbackEarned, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *ledgerRepository) MemberHistory(ctx context.Context, memberID string, limit int) ([]model.Transaction, error) {
	query := `SELECT id, member_id, type, amount, cashback_earned, payment_method,
            payment_last4, status, detail, extra, created_at
         FROM transactions
         WHERE member_id = $1
         ORDER BY created_at DESC`
	args := []any{memberID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *t)
	}
	return history, rows.Err()
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var (
		t      model.Transaction
		method *string
		last4  *string
		detail []byte
		extra  []byte
	)
	err := row.Scan(
		&t.ID, &t.MemberID, &t.Type, &t.Amount, &t.CashbackEarned,
		&method, &last4, &t.Status, &detail, &extra, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	if method != nil {
		pm := &model.PaymentMethod{Type: model.PaymentMethodType(*method)}
		if last4 != nil {
			pm.Last4 = *last4
		}
		t.PaymentMethod = pm
	}
	if t.Detail, err = decodeDetail(t.Type, detail); err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &t.Extra); err != nil {
			return nil, fmt.Errorf("decode extra: %w", err)
		}
	}
	return &t, nil
}
