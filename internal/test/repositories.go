package test

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/rvslabs/membercore/internal/domain/errors"
	"github.com/rvslabs/membercore/internal/domain/model"
	"github.com/rvslabs/membercore/internal/domain/repository"
)

// MemberRepositoryStub stores members in-memory and lets tests override
// individual operations.
type MemberRepositoryStub struct {
	GetFn                func(context.Context, string) (*model.Member, error)
	GetForUpdateFn       func(context.Context, string) (*model.Member, error)
	CreateFn             func(context.Context, *model.Member) error
	SaveFn               func(context.Context, *model.Member) error
	ArchiveFn            func(context.Context, string, time.Time) error
	SelectDueForRenewalFn func(context.Context, int) ([]model.Member, error)

	Members map[string]*model.Member
	Saves   int
}

// NewMemberRepositoryStub constructs the stub with an initialized map.
func NewMemberRepositoryStub() *MemberRepositoryStub {
	return &MemberRepositoryStub{Members: make(map[string]*model.Member)}
}

// Get fetches a non-archived member or returns not found.
func (s *MemberRepositoryStub) Get(ctx context.Context, id string) (*model.Member, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	m, ok := s.Members[id]
	if !ok || m.ArchivedAt != nil {
		return nil, domainErrors.ErrNotFound
	}
	return m, nil
}

// GetForUpdate behaves as Get unless overridden.
func (s *MemberRepositoryStub) GetForUpdate(ctx context.Context, id string) (*model.Member, error) {
	if s.GetForUpdateFn != nil {
		return s.GetForUpdateFn(ctx, id)
	}
	return s.Get(ctx, id)
}

// Create registers a member, refusing duplicate ids or emails.
func (s *MemberRepositoryStub) Create(ctx context.Context, m *model.Member) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, m)
	}
	if s.Members == nil {
		s.Members = make(map[string]*model.Member)
	}
	if _, exists := s.Members[m.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	for _, other := range s.Members {
		if other.Email == m.Email {
			return domainErrors.ErrAlreadyExists
		}
	}
	s.Members[m.ID] = m
	return nil
}

// Save stores the member and counts invocations.
func (s *MemberRepositoryStub) Save(ctx context.Context, m *model.Member) error {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, m)
	}
	if _, ok := s.Members[m.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	s.Members[m.ID] = m
	s.Saves++
	return nil
}

// Archive marks the member archived and inactive.
func (s *MemberRepositoryStub) Archive(ctx context.Context, id string, at time.Time) error {
	if s.ArchiveFn != nil {
		return s.ArchiveFn(ctx, id, at)
	}
	m, ok := s.Members[id]
	if !ok || m.ArchivedAt != nil {
		return domainErrors.ErrNotFound
	}
	m.ArchivedAt = &at
	m.Status = model.MemberStatusInactive
	m.AutoRenew = false
	return nil
}

// SelectDueForRenewal returns auto-renewing members past their renewal date.
func (s *MemberRepositoryStub) SelectDueForRenewal(ctx context.Context, limit int) ([]model.Member, error) {
	if s.SelectDueForRenewalFn != nil {
		return s.SelectDueForRenewalFn(ctx, limit)
	}
	var due []model.Member
	for _, m := range s.Members {
		if m.AutoRenew && m.ArchivedAt == nil && !m.NextRenewalDate.After(time.Now()) {
			due = append(due, *m)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextRenewalDate.Before(due[j].NextRenewalDate) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// TierRepositoryStub stores tiers in-memory.
type TierRepositoryStub struct {
	GetFn                  func(context.Context, string) (*model.MembershipTier, error)
	CreateFn               func(context.Context, *model.MembershipTier) error
	ListFn                 func(context.Context) ([]model.MembershipTier, error)
	IncrementMemberCountFn func(context.Context, string, int) error

	Tiers map[string]*model.MembershipTier
}

// NewTierRepositoryStub constructs the stub with an initialized map.
func NewTierRepositoryStub() *TierRepositoryStub {
	return &TierRepositoryStub{Tiers: make(map[string]*model.MembershipTier)}
}

// Get fetches a tier or returns not found.
func (s *TierRepositoryStub) Get(ctx context.Context, id string) (*model.MembershipTier, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	if t, ok := s.Tiers[id]; ok {
		return t, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Create registers a tier unless the id already exists.
func (s *TierRepositoryStub) Create(ctx context.Context, t *model.MembershipTier) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, t)
	}
	if s.Tiers == nil {
		s.Tiers = make(map[string]*model.MembershipTier)
	}
	if _, exists := s.Tiers[t.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	s.Tiers[t.ID] = t
	return nil
}

// List returns all stored tiers.
func (s *TierRepositoryStub) List(ctx context.Context) ([]model.MembershipTier, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	tiers := make([]model.MembershipTier, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		tiers = append(tiers, *t)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].ID < tiers[j].ID })
	return tiers, nil
}

// IncrementMemberCount adjusts the cached member count.
func (s *TierRepositoryStub) IncrementMemberCount(ctx context.Context, id string, delta int) error {
	if s.IncrementMemberCountFn != nil {
		return s.IncrementMemberCountFn(ctx, id, delta)
	}
	t, ok := s.Tiers[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	t.MemberCount += delta
	return nil
}

// OfferRepositoryStub stores offers in-memory. TryIncrementRedemption is
// guarded by a mutex so concurrency tests exercise the oversell check.
type OfferRepositoryStub struct {
	GetFn                    func(context.Context, string) (*model.Offer, error)
	CreateFn                 func(context.Context, *model.Offer) error
	ListFn                   func(context.Context) ([]model.Offer, error)
	UpdateStatusFn           func(context.Context, string, model.OfferStatus) error
	TryIncrementRedemptionFn func(context.Context, string) (bool, error)

	Offers map[string]*model.Offer
	mu     sync.Mutex
}

// NewOfferRepositoryStub constructs the stub with an initialized map.
func NewOfferRepositoryStub() *OfferRepositoryStub {
	return &OfferRepositoryStub{Offers: make(map[string]*model.Offer)}
}

// Get fetches a snapshot of an offer or returns not found.
func (s *OfferRepositoryStub) Get(ctx context.Context, id string) (*model.Offer, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.Offers[id]; ok {
		snapshot := *o
		return &snapshot, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Create registers an offer.
func (s *OfferRepositoryStub) Create(ctx context.Context, o *model.Offer) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, o)
	}
	if s.Offers == nil {
		s.Offers = make(map[string]*model.Offer)
	}
	s.Offers[o.ID] = o
	return nil
}

// List returns all stored offers.
func (s *OfferRepositoryStub) List(ctx context.Context) ([]model.Offer, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	offers := make([]model.Offer, 0, len(s.Offers))
	for _, o := range s.Offers {
		offers = append(offers, *o)
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].ID < offers[j].ID })
	return offers, nil
}

// UpdateStatus sets the offer status.
func (s *OfferRepositoryStub) UpdateStatus(ctx context.Context, id string, status model.OfferStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status)
	}
	o, ok := s.Offers[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Status = status
	return nil
}

// TryIncrementRedemption bumps the counter while stock remains.
func (s *OfferRepositoryStub) TryIncrementRedemption(ctx context.Context, id string) (bool, error) {
	if s.TryIncrementRedemptionFn != nil {
		return s.TryIncrementRedemptionFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Offers[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if o.QuantityLimit != nil && o.RedemptionCount >= *o.QuantityLimit {
		return false, nil
	}
	o.RedemptionCount++
	return true, nil
}

// LedgerRepositoryStub keeps appended entries in order and derives the
// cashback aggregates from them the way the real ledger does.
type LedgerRepositoryStub struct {
	AppendFn               func(context.Context, *model.Transaction) error
	MonthlyCashbackTotalFn func(context.Context, string, time.Time) (decimal.Decimal, error)
	AnnualCashbackTotalFn  func(context.Context, string, time.Time) (decimal.Decimal, error)
	MemberHistoryFn        func(context.Context, string, int) ([]model.Transaction, error)

	Entries []*model.Transaction
}

// Append records the entry.
func (s *LedgerRepositoryStub) Append(ctx context.Context, t *model.Transaction) error {
	if s.AppendFn != nil {
		return s.AppendFn(ctx, t)
	}
	entry := *t
	s.Entries = append(s.Entries, &entry)
	return nil
}

// MonthlyCashbackTotal sums cashback entries in the UTC calendar month of at.
func (s *LedgerRepositoryStub) MonthlyCashbackTotal(ctx context.Context, memberID string, at time.Time) (decimal.Decimal, error) {
	if s.MonthlyCashbackTotalFn != nil {
		return s.MonthlyCashbackTotalFn(ctx, memberID, at)
	}
	at = at.UTC()
	return s.sumCashback(memberID, func(ts time.Time) bool {
		ts = ts.UTC()
		return ts.Year() == at.Year() && ts.Month() == at.Month()
	}), nil
}

// AnnualCashbackTotal sums cashback entries in the UTC calendar year of at.
func (s *LedgerRepositoryStub) AnnualCashbackTotal(ctx context.Context, memberID string, at time.Time) (decimal.Decimal, error) {
	if s.AnnualCashbackTotalFn != nil {
		return s.AnnualCashbackTotalFn(ctx, memberID, at)
	}
	at = at.UTC()
	return s.sumCashback(memberID, func(ts time.Time) bool {
		return ts.UTC().Year() == at.Year()
	}), nil
}

func (s *LedgerRepositoryStub) sumCashback(memberID string, inBucket func(time.Time) bool) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Entries {
		if e.MemberID == memberID && e.Type == model.TransactionCashbackEarned && inBucket(e.Timestamp) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// MemberHistory returns the member's entries newest first.
func (s *LedgerRepositoryStub) MemberHistory(ctx context.Context, memberID string, limit int) ([]model.Transaction, error) {
	if s.MemberHistoryFn != nil {
		return s.MemberHistoryFn(ctx, memberID, limit)
	}
	var history []model.Transaction
	for i := len(s.Entries) - 1; i >= 0; i-- {
		if s.Entries[i].MemberID == memberID {
			history = append(history, *s.Entries[i])
		}
		if limit > 0 && len(history) == limit {
			break
		}
	}
	return history, nil
}

// EntriesOfType returns stored entries matching the given type.
func (s *LedgerRepositoryStub) EntriesOfType(t model.TransactionType) []*model.Transaction {
	var matched []*model.Transaction
	for _, e := range s.Entries {
		if e.Type == t {
			matched = append(matched, e)
		}
	}
	return matched
}

// StaffRepositoryStub stores staff accounts in-memory.
type StaffRepositoryStub struct {
	Accounts map[string]*model.Staff
	ByID     map[string]*model.Staff
	Next     int
	Err      error
}

// NewStaffRepositoryStub constructs the stub with initialized maps.
func NewStaffRepositoryStub() *StaffRepositoryStub {
	return &StaffRepositoryStub{
		Accounts: make(map[string]*model.Staff),
		ByID:     make(map[string]*model.Staff),
		Next:     1,
	}
}

// Create registers a staff account unless the login is taken.
func (s *StaffRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Accounts == nil {
		s.Accounts = make(map[string]*model.Staff)
	}
	if s.ByID == nil {
		s.ByID = make(map[string]*model.Staff)
	}
	if _, exists := s.Accounts[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	staff := &model.Staff{ID: "staff-" + strconv.Itoa(s.Next), Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Accounts[login] = staff
	s.ByID[staff.ID] = staff
	return staff, nil
}

// GetByLogin fetches a staff account by login or returns not found.
func (s *StaffRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if staff, ok := s.Accounts[login]; ok {
		return staff, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches a staff account by identifier or returns not found.
func (s *StaffRepositoryStub) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if staff, ok := s.ByID[id]; ok {
		return staff, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StoreStub implements repository.Store over the in-memory stubs. InTx
// serializes callers with a mutex, mirroring row-lock behaviour, and can
// be forced to fail via InTxErr.
type StoreStub struct {
	MemberRepo *MemberRepositoryStub
	TierRepo   *TierRepositoryStub
	OfferRepo  *OfferRepositoryStub
	LedgerRepo *LedgerRepositoryStub
	StaffRepo  *StaffRepositoryStub

	InTxFn  func(context.Context, func(repository.Repos) error) error
	InTxErr error

	mu sync.Mutex
}

// NewStoreStub constructs a store with fresh stub repositories.
func NewStoreStub() *StoreStub {
	return &StoreStub{
		MemberRepo: NewMemberRepositoryStub(),
		TierRepo:   NewTierRepositoryStub(),
		OfferRepo:  NewOfferRepositoryStub(),
		LedgerRepo: &LedgerRepositoryStub{},
		StaffRepo:  NewStaffRepositoryStub(),
	}
}

func (s *StoreStub) Members() repository.MemberRepository { return s.MemberRepo }
func (s *StoreStub) Tiers() repository.TierRepository     { return s.TierRepo }
func (s *StoreStub) Offers() repository.OfferRepository   { return s.OfferRepo }
func (s *StoreStub) Ledger() repository.LedgerRepository  { return s.LedgerRepo }
func (s *StoreStub) Staff() repository.StaffRepository    { return s.StaffRepo }

// InTx runs fn against the same stub repositories under a lock.
func (s *StoreStub) InTx(ctx context.Context, fn func(repository.Repos) error) error {
	if s.InTxFn != nil {
		return s.InTxFn(ctx, fn)
	}
	if s.InTxErr != nil {
		return s.InTxErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

var _ repository.Store = (*StoreStub)(nil)
