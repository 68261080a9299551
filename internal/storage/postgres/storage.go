package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rvslabs/membercore/internal/domain/repository"
)

// querier is the subset of pgx behaviour shared by the pool and an open
// transaction; repositories run on whichever backs them.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxPool abstracts *pgxpool.Pool so tests can substitute a mock pool.
type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage implements repository.Store backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Repository accessors running directly on the pool.
func (s *Storage) Members() repository.MemberRepository { return &memberRepository{q: s.pool} }
func (s *Storage) Tiers() repository.TierRepository     { return &tierRepository{q: s.pool} }
func (s *Storage) Offers() repository.OfferRepository   { return &offerRepository{q: s.pool} }
func (s *Storage) Ledger() repository.LedgerRepository  { return &ledgerRepository{q: s.pool} }
func (s *Storage) Staff() repository.StaffRepository    { return &staffRepository{q: s.pool} }

// txRepos binds every repository to one open transaction, so a ledger
// append and its companion member or offer update commit together.
type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) Members() repository.MemberRepository { return &memberRepository{q: r.tx} }
func (r *txRepos) Tiers() repository.TierRepository     { return &tierRepository{q: r.tx} }
func (r *txRepos) Offers() repository.OfferRepository   { return &offerRepository{q: r.tx} }
func (r *txRepos) Ledger() repository.LedgerRepository  { return &ledgerRepository{q: r.tx} }
func (r *txRepos) Staff() repository.StaffRepository    { return &staffRepository{q: r.tx} }

// InTx executes fn against transaction-bound repositories. Any error rolls
// the whole unit back; partial application is never visible.
func (s *Storage) InTx(ctx context.Context, fn func(repository.Repos) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(&txRepos{tx: tx})
	return err
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS staff (
            id TEXT PRIMARY KEY,
            login TEXT UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS membership_tiers (
            id TEXT PRIMARY KEY,
            name TEXT UNIQUE NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            monthly_price NUMERIC(14,2),
            yearly_price JSONB,
            benefit_templates JSONB NOT NULL DEFAULT '[]',
            reward_value NUMERIC(14,2) NOT NULL DEFAULT 0,
            reward_frequency TEXT NOT NULL,
            cashback JSONB,
            member_count INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS offers (
            id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(14,2) NOT NULL,
            original_price NUMERIC(14,2),
            quantity_limit INTEGER,
            start_date TIMESTAMPTZ NOT NULL,
            end_date TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL,
            redemption_count INTEGER NOT NULL DEFAULT 0,
            tier_ids JSONB NOT NULL DEFAULT '[]',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CHECK (quantity_limit IS NULL OR redemption_count <= quantity_limit)
        )`,
		`CREATE TABLE IF NOT EXISTS members (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            tier_id TEXT NOT NULL REFERENCES membership_tiers(id),
            status TEXT NOT NULL,
            rewards_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (rewards_balance >= 0),
            total_spent NUMERIC(14,2) NOT NULL DEFAULT 0,
            join_date TIMESTAMPTZ NOT NULL,
            last_activity TIMESTAMPTZ NOT NULL,
            auto_renew BOOLEAN NOT NULL DEFAULT FALSE,
            next_renewal_date TIMESTAMPTZ NOT NULL,
            benefits JSONB NOT NULL DEFAULT '[]',
            purchased_offers JSONB NOT NULL DEFAULT '[]',
            archived_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS transactions (
            id TEXT PRIMARY KEY,
            member_id TEXT NOT NULL REFERENCES members(id),
            type TEXT NOT NULL,
            amount NUMERIC(14,2) NOT NULL,
            cashback_earned NUMERIC(14,2) NOT NULL DEFAULT 0,
            payment_method TEXT,
            payment_last4 TEXT,
            status TEXT NOT NULL,
            detail JSONB NOT NULL DEFAULT '{}',
            extra JSONB,
            created_at TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_member ON transactions(member_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_cashback ON transactions(member_id, created_at) WHERE type = 'cashback_earned'`,
		`CREATE INDEX IF NOT EXISTS idx_members_renewal ON members(next_renewal_date) WHERE auto_renew`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
