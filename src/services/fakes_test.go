package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"assetmanager/src/models"
	"assetmanager/src/repositories"
	"assetmanager/src/schemas"
	"assetmanager/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeAssetStore struct {
	valuations map[int][]models.AssetValuation
	err        error
}

func (f *fakeAssetStore) ListAssetsForUser(_ context.Context, userID int) ([]models.AssetValuation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.valuations[userID], nil
}

// fakeSnapshotStore enforces one row per (user, date) like the unique constraint does.
type fakeSnapshotStore struct {
	mu          sync.Mutex
	rows        []models.PortfolioSnapshot
	inserts     int
	hideExists  bool
	insertErr   error
	existsCalls int
}

func (f *fakeSnapshotStore) Exists(_ context.Context, userID int, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.hideExists {
		return false, nil
	}
	for _, row := range f.rows {
		if row.UserID == userID && row.SnapshotDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSnapshotStore) Insert(_ context.Context, snapshot *models.PortfolioSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, row := range f.rows {
		if row.UserID == snapshot.UserID && row.SnapshotDate.Equal(snapshot.SnapshotDate) {
			return repositories.ErrDuplicateSnapshot
		}
	}
	f.inserts++
	snapshot.ID = len(f.rows) + 1
	f.rows = append(f.rows, *snapshot)
	return nil
}

func (f *fakeSnapshotStore) Query(_ context.Context, userID int, since time.Time) ([]models.PortfolioSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PortfolioSnapshot
	for _, row := range f.rows {
		if row.UserID == userID && !row.SnapshotDate.Before(since) {
			out = append(out, row)
		}
	}
	return out, nil
}

// staticRates serves rates from a map keyed "FROM_TO" and counts calls.
type staticRates struct {
	mu    sync.Mutex
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func (r *staticRates) GetRate(_ context.Context, from, to string) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return decimal.Zero, r.err
	}
	rate, ok := r.rates[from+"_"+to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", services.ErrRateUnavailable, from, to)
	}
	return rate, nil
}

type mockAssetRepo struct {
	mock.Mock
}

func (m *mockAssetRepo) ListAssetsForUser(ctx context.Context, userID int) ([]models.AssetValuation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.AssetValuation), args.Error(1)
}

func (m *mockAssetRepo) List(ctx context.Context, filter repositories.AssetFilter) ([]models.Asset, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Asset), args.Int(1), args.Error(2)
}

func (m *mockAssetRepo) GetByID(ctx context.Context, userID, id int) (*models.Asset, error) {
	args := m.Called(ctx, userID, id)
	asset, _ := args.Get(0).(*models.Asset)
	return asset, args.Error(1)
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *mockAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *mockAssetRepo) SoftDelete(ctx context.Context, userID, id int) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type mockPriceLookup struct {
	mock.Mock
}

func (m *mockPriceLookup) LookupCrypto(ctx context.Context, symbol string) (*schemas.PriceQuote, error) {
	args := m.Called(ctx, symbol)
	quote, _ := args.Get(0).(*schemas.PriceQuote)
	return quote, args.Error(1)
}

func (m *mockPriceLookup) LookupStock(ctx context.Context, symbol, exchange string) (*schemas.PriceQuote, error) {
	args := m.Called(ctx, symbol, exchange)
	quote, _ := args.Get(0).(*schemas.PriceQuote)
	return quote, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) UpsertByGoogleID(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) UpdatePreferredCurrency(ctx context.Context, id int, currency string) error {
	args := m.Called(ctx, id, currency)
	return args.Error(0)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}
