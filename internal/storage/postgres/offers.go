package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
)

type offerRepository struct {
	q querier
}

const offerColumns = `id, title, description, price, original_price, quantity_limit,
        start_date, end_date, status, redemption_count, tier_ids, created_at, updated_at`

func scanOffer(row pgx.Row) (*model.Offer, error) {
	var (
		o       model.Offer
		tierIDs []byte
	)
	err := row.Scan(
		&o.ID, &o.Title, &o.Description, &o.Price, &o.OriginalPrice, &o.QuantityLimit,
		&o.StartDate, &o.EndDate, &o.Status, &o.RedemptionCount, &tierIDs,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(tierIDs, &o.TierIDs); err != nil {
		return nil, fmt.Errorf("decode tier ids: %w", err)
	}
	return &o, nil
}

func (r *offerRepository) Get(ctx context.Context, id string) (*model.Offer, error) {
	row := r.q.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	return scanOffer(row)
}

func (r *offerRepository) Create(ctx context.Context, o *model.Offer) error {
	tierIDs, err := json.Marshal(o.TierIDs)
	if err != nil {
		return fmt.Errorf("encode tier ids: %w", err)
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO offers (id, title, description, price, original_price, quantity_limit,
            start_date, end_date, status, redemption_count, tier_ids, created_at, updated_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.Title, o.Description, o.Price, o.OriginalPrice, o.QuantityLimit,
		o.StartDate, o.EndDate, o.Status, o.RedemptionCount, tierIDs,
		o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *offerRepository) List(ctx context.Context) ([]model.Offer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+offerColumns+` FROM offers ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []model.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, *o)
	}
	return offers, rows.Err()
}

func (r *offerRepository) UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE offers SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// TryIncrementRedemption bumps the redemption counter only while stock
// remains. The conditional UPDATE makes concurrent purchases race on the
// row itself, so a limited offer can never oversell.
func (r *offerRepository) TryIncrementRedemption(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE offers SET redemption_count = redemption_count + 1, updated_at = NOW()
         WHERE id = $1 AND (quantity_limit IS NULL OR redemption_count < quantity_limit)`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
