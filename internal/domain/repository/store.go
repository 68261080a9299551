package repository

import "context"

// Repos groups the domain repositories reachable from one storage handle.
type Repos interface {
	Members() MemberRepository
	Tiers() TierRepository
	Offers() OfferRepository
	Ledger() LedgerRepository
	Staff() StaffRepository
}

// Store is the transactional entry point the redemption engine runs on.
// InTx executes fn against repositories bound to a single transaction:
// every write inside fn commits together or rolls back together, which is
// how a ledger append and its companion balance update stay one atomic
// unit.
type Store interface {
	Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}
