package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/apperrors"
	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	portsrepo "github.com/SscSPs/sadaqah_box_app/internal/core/ports/repositories"
	"github.com/SscSPs/sadaqah_box_app/internal/ratesources"
	"github.com/SscSPs/sadaqah_box_app/internal/utils/pagination"
	"github.com/SscSPs/sadaqah_box_app/internal/worker"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- clock ---

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// --- rate attempts ---

type memAttemptRepo struct {
	mu   sync.Mutex
	rows map[string]domain.CurrencyRateAttempt
}

func newMemAttemptRepo() *memAttemptRepo {
	return &memAttemptRepo{rows: make(map[string]domain.CurrencyRateAttempt)}
}

var _ portsrepo.CurrencyRateAttemptRepositoryFacade = (*memAttemptRepo)(nil)

func (r *memAttemptRepo) FindAttemptByCode(_ context.Context, code string) (*domain.CurrencyRateAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *memAttemptRepo) FindAttemptsByCodes(_ context.Context, codes []string) ([]domain.CurrencyRateAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CurrencyRateAttempt
	for _, c := range codes {
		if a, ok := r.rows[c]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAttemptRepo) ListFoundSince(_ context.Context, since time.Time) ([]domain.CurrencyRateAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CurrencyRateAttempt
	for _, a := range r.rows {
		if a.Found && a.LastSuccessAt != nil && !a.LastSuccessAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAttemptRepo) UpsertSuccess(_ context.Context, code string, usdValue decimal.Decimal, source string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertSuccessLocked(code, usdValue, source, at)
	return nil
}

func (r *memAttemptRepo) upsertSuccessLocked(code string, usdValue decimal.Decimal, source string, at time.Time) {
	a := r.rows[code]
	a.CurrencyCode = code
	a.LastAttemptAt = at
	success, value, src := at, usdValue, source
	a.LastSuccessAt = &success
	a.CachedUSDValue = &value
	a.SourceProvider = &src
	a.AttemptCount++
	a.Found = true
	r.rows[code] = a
}

func (r *memAttemptRepo) UpsertSuccesses(_ context.Context, values map[string]decimal.Decimal, source string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for code, v := range values {
		r.upsertSuccessLocked(code, v, source, at)
	}
	return nil
}

func (r *memAttemptRepo) UpsertNotFound(_ context.Context, code string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.rows[code]
	a.CurrencyCode = code
	a.LastAttemptAt = at
	a.AttemptCount++
	a.Found = false
	r.rows[code] = a
	return nil
}

func (r *memAttemptRepo) DeleteAttempt(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, code)
	return nil
}

func (r *memAttemptRepo) DeleteAllAttempts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.rows))
	r.rows = make(map[string]domain.CurrencyRateAttempt)
	return n, nil
}

// --- currencies ---

type memCurrencyRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Currency
}

func newMemCurrencyRepo(currencies ...domain.Currency) *memCurrencyRepo {
	r := &memCurrencyRepo{byID: make(map[string]domain.Currency)}
	for _, c := range currencies {
		r.byID[c.CurrencyID] = c
	}
	return r
}

var _ portsrepo.CurrencyRepositoryFacade = (*memCurrencyRepo)(nil)

func (r *memCurrencyRepo) SaveCurrency(_ context.Context, c domain.Currency) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Code == c.Code {
			return apperrors.ErrDuplicate
		}
	}
	r.byID[c.CurrencyID] = c
	return nil
}

func (r *memCurrencyRepo) FindCurrencyByID(_ context.Context, id string) (*domain.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *memCurrencyRepo) FindCurrencyByCode(_ context.Context, code string) (*domain.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memCurrencyRepo) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Currency, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memCurrencyRepo) UpdateUSDValues(_ context.Context, values map[string]decimal.Decimal, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, c := range r.byID {
		v, ok := values[c.Code]
		if !ok {
			continue
		}
		value, ts := v, at
		c.USDValue = &value
		c.LastRateUpdate = &ts
		r.byID[id] = c
		n++
	}
	return n, nil
}

func (r *memCurrencyRepo) setRate(id string, v decimal.Decimal, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.byID[id]
	c.USDValue = &v
	c.LastRateUpdate = &at
	r.byID[id] = c
}

// --- boxes ---

type fakeTx struct {
	pgx.Tx
}

type memBoxRepo struct {
	mu          sync.Mutex
	boxes       map[string]domain.Box
	collections []domain.Collection
	commits     int
	rollbacks   int
}

func newMemBoxRepo() *memBoxRepo {
	return &memBoxRepo{boxes: make(map[string]domain.Box)}
}

var _ portsrepo.BoxRepositoryWithTx = (*memBoxRepo)(nil)

func cloneBox(b domain.Box) domain.Box {
	b.TotalValueExtra = b.TotalValueExtra.Clone()
	return b
}

func (r *memBoxRepo) Begin(context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

func (r *memBoxRepo) Commit(context.Context, pgx.Tx) error {
	r.mu.Lock()
	r.commits++
	r.mu.Unlock()
	return nil
}

func (r *memBoxRepo) Rollback(context.Context, pgx.Tx) error {
	r.mu.Lock()
	r.rollbacks++
	r.mu.Unlock()
	return nil
}

func (r *memBoxRepo) SaveBox(_ context.Context, b domain.Box) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes[b.BoxID] = cloneBox(b)
	return nil
}

func (r *memBoxRepo) FindBoxByID(_ context.Context, id string) (*domain.Box, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.boxes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	b = cloneBox(b)
	return &b, nil
}

func (r *memBoxRepo) FindBoxForUpdate(ctx context.Context, _ pgx.Tx, id string) (*domain.Box, error) {
	return r.FindBoxByID(ctx, id)
}

func (r *memBoxRepo) ListBoxes(_ context.Context, limit, offset int) ([]domain.Box, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Box
	for _, b := range r.boxes {
		out = append(out, cloneBox(b))
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memBoxRepo) UpdateBoxAggregate(_ context.Context, _ pgx.Tx, b domain.Box) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boxes[b.BoxID]; !ok {
		return apperrors.ErrNotFound
	}
	r.boxes[b.BoxID] = cloneBox(b)
	return nil
}

func (r *memBoxRepo) SaveCollection(_ context.Context, _ pgx.Tx, c domain.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections = append(r.collections, c)
	return nil
}

func (r *memBoxRepo) ListCollections(_ context.Context, boxID string) ([]domain.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Collection
	for _, c := range r.collections {
		if c.BoxID == boxID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- sadaqahs ---

type memSadaqahRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Sadaqah
}

func newMemSadaqahRepo() *memSadaqahRepo {
	return &memSadaqahRepo{rows: make(map[string]domain.Sadaqah)}
}

var _ portsrepo.SadaqahRepositoryFacade = (*memSadaqahRepo)(nil)

func (r *memSadaqahRepo) InsertSadaqah(_ context.Context, _ pgx.Tx, s domain.Sadaqah) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[s.SadaqahID] = s
	return nil
}

func (r *memSadaqahRepo) DeleteSadaqah(_ context.Context, _ pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memSadaqahRepo) MarkCollected(_ context.Context, _ pgx.Tx, boxID, collectionID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.rows {
		if s.BoxID == boxID && s.CollectionID == nil {
			cid := collectionID
			s.CollectionID = &cid
			r.rows[id] = s
			n++
		}
	}
	return n, nil
}

func (r *memSadaqahRepo) FindSadaqahByID(_ context.Context, id string) (*domain.Sadaqah, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r *memSadaqahRepo) ListSadaqahsByBox(_ context.Context, boxID string, limit int, after *pagination.Cursor) ([]domain.Sadaqah, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.Sadaqah
	for _, s := range r.rows {
		if s.BoxID == boxID {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].DonatedAt.Equal(all[j].DonatedAt) {
			return all[i].DonatedAt.After(all[j].DonatedAt)
		}
		return all[i].SadaqahID > all[j].SadaqahID
	})
	var out []domain.Sadaqah
	for _, s := range all {
		if after != nil {
			if s.DonatedAt.After(after.DonatedAt) || (s.DonatedAt.Equal(after.DonatedAt) && s.SadaqahID >= after.ID) {
				continue
			}
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// --- providers ---

type stubProvider struct {
	mu    sync.Mutex
	name  string
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Fetch(context.Context) (map[string]decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	out := make(map[string]decimal.Decimal, len(p.rates))
	for k, v := range p.rates {
		out[k] = v
	}
	return out, nil
}

func (p *stubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *stubProvider) set(rates map[string]decimal.Decimal, err error) {
	p.mu.Lock()
	p.rates, p.err = rates, err
	p.mu.Unlock()
}

var errProviderDown = errors.New("status 503")

func groupsOf(fiat, crypto, gold *stubProvider) []ratesources.Group {
	notGold := func(code string) bool { return code != domain.GoldCode }
	groups := []ratesources.Group{
		{Name: ratesources.GroupFiat, Accepts: notGold},
		{Name: ratesources.GroupCrypto, Accepts: notGold},
		{Name: ratesources.GroupGold, Accepts: func(code string) bool { return code == domain.GoldCode }},
	}
	for i, p := range []*stubProvider{fiat, crypto, gold} {
		if p != nil {
			groups[i].Providers = []ratesources.RateProvider{p}
		}
	}
	return groups
}

// --- background submitter ---

type recordingSubmitter struct {
	mu   sync.Mutex
	keys []string
	runs []worker.Task
}

func (s *recordingSubmitter) Submit(key string, run worker.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	s.runs = append(s.runs, run)
	return true
}

func (s *recordingSubmitter) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

// --- fixtures ---

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func currencyWithRate(id, code, name string, usd *decimal.Decimal, at *time.Time) domain.Currency {
	return domain.Currency{CurrencyID: id, Code: code, Name: name, Symbol: code, USDValue: usd, LastRateUpdate: at}
}

func ptr[T any](v T) *T { return &v }
