package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
)

type staffRepository struct {
	q querier
}

func (r *staffRepository) Create(ctx context.Context, login, passwordHash string) (*model.Staff, error) {
	s := &model.Staff{ID: uuid.NewString(), Login: login, PasswordHash: passwordHash}
	err := r.q.QueryRow(ctx,
		`INSERT INTO staff (id, login, password_hash) VALUES ($1, $2, $3) RETURNING created_at`,
		s.ID, s.Login, s.PasswordHash,
	).Scan(&s.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return s, nil
}

func (r *staffRepository) GetByLogin(ctx context.Context, login string) (*model.Staff, error) {
	return r.scanStaff(r.q.QueryRow(ctx,
		`SELECT id, login, password_hash, created_at FROM staff WHERE login = $1`, login))
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	return r.scanStaff(r.q.QueryRow(ctx,
		`SELECT id, login, password_hash, created_at FROM staff WHERE id = $1`, id))
}

func (r *staffRepository) scanStaff(row pgx.Row) (*model.Staff, error) {
	var s model.Staff
	if err := row.Scan(&s.ID, &s.Login, &s.PasswordHash, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
