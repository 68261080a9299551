package repository

import (
	"context"

	"github.com/rvslabs/membercore/internal/domain/model"
)

// StaffRepository persists back-office operator accounts.
type StaffRepository interface {
	Create(ctx context.Context, login, passwordHash string) (*model.Staff, error)
	GetByLogin(ctx context.Context, login string) (*model.Staff, error)
	GetByID(ctx context.Context, id string) (*model.Staff, error)
}
