package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
)

type memberRepository struct {
	q querier
}

const memberColumns = `id, name, email, phone, tier_id, status, rewards_balance,
        total_spent, join_date, last_activity, auto_renew, next_renewal_date,
        benefits, purchased_offers, archived_at`

func scanMember(row pgx.Row) (*model.Member, error) {
	var (
		m               model.Member
		benefits        []byte
		purchasedOffers []byte
	)
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.TierID, &m.Status,
		&m.RewardsBalance, &m.TotalSpent, &m.JoinDate, &m.LastActivity,
		&m.AutoRenew, &m.NextRenewalDate, &benefits, &purchasedOffers, &m.ArchivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(benefits, &m.Benefits); err != nil {
		return nil, fmt.Errorf("decode benefits: %w", err)
	}
	if err := json.Unmarshal(purchasedOffers, &m.PurchasedOffers); err != nil {
		return nil, fmt.Errorf("decode purchased offers: %w", err)
	}
	return &m, nil
}

func (r *memberRepository) Get(ctx context.Context, id string) (*model.Member, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1 AND archived_at IS NULL`, id)
	return scanMember(row)
}

// GetForUpdate takes a row lock so concurrent operations on the same
// member serialize for the duration of the transaction.
func (r *memberRepository) GetForUpdate(ctx context.Context, id string) (*model.Member, error) {
	row := r.q.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1 AND archived_at IS NULL FOR UPDATE`, id)
	return scanMember(row)
}

func (r *memberRepository) Create(ctx context.Context, m *model.Member) error {
	benefits, err := json.Marshal(m.Benefits)
	if err != nil {
		return fmt.Errorf("encode benefits: %w", err)
	}
	purchasedOffers, err := json.Marshal(m.PurchasedOffers)
	if err != nil {
		return fmt.Errorf("encode purchased offers: %w", err)
	}

	_, err = r.q.Exec(ctx,
		`INSERT INTO members (id, name, email, phone, tier_id, status, rewards_balance,
            total_spent, join_date, last_activity, auto_renew, next_renewal_date,
            benefits, purchased_offers)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		m.ID, m.Name, m.Email, m.Phone, m.TierID, m.Status, m.RewardsBalance,
		m.TotalSpent, m.JoinDate, m.LastActivity, m.AutoRenew, m.NextRenewalDate,
		benefits, purchasedOffers,
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

func (r *memberRepository) Save(ctx context.Context, m *model.Member) error {
	benefits, err := json.Marshal(m.Benefits)
	if err != nil {
		return fmt.Errorf("encode benefits: %w", err)
	}
	purchasedOffers, err := json.Marshal(m.PurchasedOffers)
	if err != nil {
		return fmt.Errorf("encode purchased offers: %w", err)
	}

	tag, err := r.q.Exec(ctx,
		`UPDATE members SET name = $2, email = $3, phone = $4, tier_id = $5,
            status = $6, rewards_balance = $7, total_spent = $8,
            last_activity = $9, auto_renew = $10, next_renewal_date = $11,
            benefits = $12, purchased_offers = $13
         WHERE id = $1 AND archived_at IS NULL`,
		m.ID, m.Name, m.Email, m.Phone, m.TierID, m.Status, m.RewardsBalance,
		m.TotalSpent, m.LastActivity, m.AutoRenew, m.NextRenewalDate,
		benefits, purchasedOffers,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *memberRepository) Archive(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE members SET archived_at = $2, status = $3, auto_renew = FALSE
         WHERE id = $1 AND archived_at IS NULL`,
		id, at, model.MemberStatusInactive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// SelectDueForRenewal claims a batch of members whose renewal date has
// passed. SKIP LOCKED keeps concurrent worker runs from claiming the
// same rows.
func (r *memberRepository) SelectDueForRenewal(ctx context.Context, limit int) ([]model.Member, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+memberColumns+` FROM members
         WHERE auto_renew AND next_renewal_date <= NOW() AND archived_at IS NULL
         ORDER BY next_renewal_date
         LIMIT $1
         FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
