package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
)

type tierRepository struct {
	q querier
}

const tierColumns = `id, name, description, monthly_price, yearly_price,
        benefit_templates, reward_value, reward_frequency, cashback,
        member_count, created_at, updated_at`

func scanTier(row pgx.Row) (*model.MembershipTier, error) {
	var (
		t           model.MembershipTier
		yearlyPrice []byte
		templates   []byte
		cashback    []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.MonthlyPrice, &yearlyPrice,
		&templates, &t.RewardValue, &t.RewardFrequency, &cashback,
		&t.MemberCount, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if len(yearlyPrice) > 0 {
		if err := json.Unmarshal(yearlyPrice, &t.YearlyPrice); err != nil {
			return nil, fmt.Errorf("decode yearly price: %w", err)
		}
	}
	if err := json.Unmarshal(templates, &t.BenefitTemplates); err != nil {
		return nil, fmt.Errorf("decode benefit templates: %w", err)
	}
	if len(cashback) > 0 {
		if err := json.Unmarshal(cashback, &t.Cashback); err != nil {
			return nil, fmt.Errorf("decode cashback config: %w", err)
		}
	}
	return &t, nil
}

func (r *tierRepository) Get(ctx context.Context, id string) (*model.MembershipTier, error) {
	row := r.q.QueryRow(ctx, `SELECT `+tierColumns+` FROM membership_tiers WHERE id = $1`, id)
	return scanTier(row)
}

func (r *tierRepository) Create(ctx context.Context, t *model.MembershipTier) error {
	yearlyPrice, err := marshalNullable(t.YearlyPrice != nil, t.YearlyPrice)
	if err != nil {
		return fmt.Errorf("encode yearly price: %w", err)
	}
	templates, err := json.Marshal(t.BenefitTemplates)
	if err != nil {
		return fmt.Errorf("encode benefit templates: %w", err)
	}
	cashback, err := marshalNullable(t.Cashback != nil, t.Cashback)
	if err != nil {
		return fmt.Errorf("encode cashback config: %w", err)
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO membership_tiers (id, name, description, monthly_price, yearly_price,
            benefit_templates, reward_value, reward_frequency, cashback,
            member_count, created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		t.ID, t.Name, t.Description, t.MonthlyPrice, yearlyPrice,
		templates, t.RewardValue, t.RewardFrequency, cashback,
		t.MemberCount, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *tierRepository) List(ctx context.Context) ([]model.MembershipTier, error) {
	rows, err := r.q.Query(ctx, `SELECT `+tierColumns+` FROM membership_tiers ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []model.MembershipTier
	for rows.Next() {
		t, err := scanTier(rows)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, *t)
	}
	return tiers, rows.Err()
}

func (r *tierRepository) IncrementMemberCount(ctx context.Context, id string, delta int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE membership_tiers SET member_count = member_count + $2, updated_at = NOW()
         WHERE id = $1`, id, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// marshalNullable returns NULL-able JSONB bytes for optional documents.
func marshalNullable(present bool, v any) ([]byte, error) {
	if !present {
		return nil, nil
	}
	return json.Marshal(v)
}
