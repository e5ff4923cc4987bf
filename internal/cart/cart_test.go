package cart

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	"github.com/mhasan0505/sanslibyzebin/internal/store"
	"github.com/mhasan0505/sanslibyzebin/internal/store/memory"
	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishCartUpdated(ctx context.Context, sessionID string, cart domain.Cart, total int64) error {
	args := m.Called(ctx, sessionID, cart, total)
	return args.Error(0)
}

func (m *mockPublisher) PublishCartCleared(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *mockPublisher) PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist domain.Wishlist) error {
	args := m.Called(ctx, sessionID, wishlist)
	return args.Error(0)
}

// --- Failing store ---

type failingStore struct {
	store.Store
	setErr error
	getErr error
}

func (f failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f failingStore) Set(ctx context.Context, key string, data []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, key, data)
}

// --- Test Helpers ---

const session = "5f0c7a8e-3b9e-4c55-9a59-0d8f2f0c1a11"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var (
	gown = domain.Product{
		ID: 1, Name: "Sunshine Ruffle Gown", Price: "৳ 4500", Category: "Gowns",
		Images: []string{"/gown.jpg"}, Sizes: []string{"S", "M"}, Colors: []string{"Yellow"},
	}
	frock = domain.Product{
		ID: 2, Name: "Floral Frock", Price: "৳ 2,200", Category: "Frocks",
		Images: []string{"/frock.jpg"},
	}
	broken = domain.Product{
		ID: 3, Name: "Mystery Set", Price: "call us", Category: "Sets",
		Images: []string{"/set.jpg"},
	}
)

func newTestContainer(t *testing.T) (*Container, *memory.Store, *mockPublisher) {
	t.Helper()
	st := memory.New()
	pub := new(mockPublisher)
	c, err := Load(context.Background(), st, pub, session, newTestLogger())
	require.NoError(t, err)
	return c, st, pub
}

func stored(t *testing.T, st store.Store) domain.Cart {
	t.Helper()
	var items domain.Cart
	found, err := store.LoadJSON(context.Background(), st, store.Key(session, store.CartKey), &items)
	require.NoError(t, err)
	require.True(t, found)
	return items
}

// --- Tests ---

func TestLoad_Empty(t *testing.T) {
	c, _, _ := newTestContainer(t)
	assert.Empty(t, c.Items())
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, int64(0), c.Total(context.Background()))
	assert.Equal(t, session, c.SessionID())
}

func TestLoad_RestoresPersistedCart(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	want := domain.Cart{}.Add(gown, "M", "Yellow").Add(frock, "", "")
	require.NoError(t, store.SaveJSON(ctx, st, store.Key(session, store.CartKey), want))

	c, err := Load(ctx, st, new(mockPublisher), session, newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, want, c.Items())
	assert.Equal(t, 2, c.Count())
}

func TestLoad_CorruptDocumentIsDiscarded(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Set(ctx, store.Key(session, store.CartKey), []byte("{oops")))

	c, err := Load(ctx, st, new(mockPublisher), session, newTestLogger())
	require.NoError(t, err)
	assert.Empty(t, c.Items())
}

func TestLoad_StoreUnavailable(t *testing.T) {
	st := failingStore{Store: memory.New(), getErr: apperrors.Unavailable("session store", errors.New("down"))}

	_, err := Load(context.Background(), st, new(mockPublisher), session, newTestLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestAdd_MergesSameVariant(t *testing.T) {
	c, st, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, gown, "M", "Yellow"))
	require.NoError(t, c.Add(ctx, gown, "M", "Yellow"))
	require.NoError(t, c.Add(ctx, gown, "S", "Yellow"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "M", items[0].SelectedSize)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "S", items[1].SelectedSize)
	assert.Equal(t, 3, c.Count())

	assert.Equal(t, items, stored(t, st))
	pub.AssertNumberOfCalls(t, "PublishCartUpdated", 3)
}

func TestAdd_PublishesTotal(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, int64(4500)).Return(nil).Once()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, int64(6700)).Return(nil).Once()

	require.NoError(t, c.Add(ctx, gown, "", ""))
	require.NoError(t, c.Add(ctx, frock, "", ""))

	pub.AssertExpectations(t)
}

func TestAdd_RejectsUnknownVariant(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()

	err := c.Add(ctx, gown, "XXL", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	err = c.Add(ctx, gown, "M", "Purple")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Empty(t, c.Items())
	pub.AssertNotCalled(t, "PublishCartUpdated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdd_MergesPastLargeQuantity(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, frock, "", ""))
	require.NoError(t, c.UpdateQuantity(ctx, frock.ID, 500))
	require.NoError(t, c.Add(ctx, frock, "", ""))

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 501, c.Count())
}

func TestAdd_PublishFailureIsNotReturned(t *testing.T) {
	c, st, pub := newTestContainer(t)
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	require.NoError(t, c.Add(context.Background(), frock, "", ""))
	assert.Len(t, stored(t, st), 1)
}

func TestAdd_StoreFailureKeepsPreviousState(t *testing.T) {
	st := failingStore{Store: memory.New(), setErr: apperrors.Unavailable("session store", errors.New("down"))}
	pub := new(mockPublisher)
	c, err := Load(context.Background(), st, pub, session, newTestLogger())
	require.NoError(t, err)

	err = c.Add(context.Background(), frock, "", "")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
	assert.Empty(t, c.Items())
	pub.AssertNotCalled(t, "PublishCartUpdated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemove(t *testing.T) {
	c, st, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, gown, "M", "Yellow"))
	require.NoError(t, c.Add(ctx, gown, "S", "Yellow"))

	require.NoError(t, c.Remove(ctx, gown.ID, "M", "Yellow"))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "S", items[0].SelectedSize)
	assert.Equal(t, items, stored(t, st))

	// Identity must match exactly.
	require.NoError(t, c.Remove(ctx, gown.ID, "", ""))
	assert.Len(t, c.Items(), 1)
	pub.AssertNumberOfCalls(t, "PublishCartUpdated", 3)
}

func TestUpdateQuantity_AppliesToEveryLineOfProduct(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, gown, "M", "Yellow"))
	require.NoError(t, c.Add(ctx, gown, "S", "Yellow"))
	require.NoError(t, c.Add(ctx, frock, "", ""))

	require.NoError(t, c.UpdateQuantity(ctx, gown.ID, 4))
	items := c.Items()
	assert.Equal(t, 4, items[0].Quantity)
	assert.Equal(t, 4, items[1].Quantity)
	assert.Equal(t, 1, items[2].Quantity)
}

func TestUpdateQuantity_ZeroRemovesAllLines(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, gown, "M", "Yellow"))
	require.NoError(t, c.Add(ctx, gown, "S", "Yellow"))
	require.NoError(t, c.Add(ctx, frock, "", ""))

	require.NoError(t, c.UpdateQuantity(ctx, gown.ID, 0))
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, frock.ID, items[0].Product.ID)

	require.NoError(t, c.UpdateQuantity(ctx, frock.ID, -3))
	assert.Empty(t, c.Items())
}

func TestUpdateQuantity_UnknownProductIsNoop(t *testing.T) {
	c, _, pub := newTestContainer(t)

	require.NoError(t, c.UpdateQuantity(context.Background(), 99, 2))
	assert.Empty(t, c.Items())
	pub.AssertNotCalled(t, "PublishCartUpdated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantity_OverwritesLargeQuantity(t *testing.T) {
	c, st, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, gown, "M", "Yellow"))
	require.NoError(t, c.UpdateQuantity(ctx, gown.ID, 150))

	assert.Equal(t, 150, c.Count())
	require.Len(t, stored(t, st), 1)
	assert.Equal(t, 150, stored(t, st)[0].Quantity)
	assert.Equal(t, int64(4500*150), c.Total(ctx))
}

func TestClear(t *testing.T) {
	c, st, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)
	pub.On("PublishCartCleared", mock.Anything, session).Return(nil).Once()

	require.NoError(t, c.Add(ctx, frock, "", ""))
	require.NoError(t, c.Clear(ctx))

	assert.Empty(t, c.Items())
	assert.Empty(t, stored(t, st))
	pub.AssertExpectations(t)
}

func TestSummary_UnparseablePriceCountsAsZero(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, c.Add(ctx, frock, "", ""))
	require.NoError(t, c.Add(ctx, frock, "", ""))
	require.NoError(t, c.Add(ctx, broken, "", ""))

	s := c.Summary(ctx)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, int64(4400), s.Total)
	assert.Equal(t, 1, s.UnpricedLines)
	assert.Len(t, s.Items, 2)
	assert.Equal(t, int64(4400), c.Total(ctx))
}

func priceParseFailures(t *testing.T) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "storefront_price_parse_failures_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestSummary_ReportsUnparseablePriceOncePerChange(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	var published int64
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(3).(int64) }).
		Return(nil)

	require.NoError(t, c.Add(ctx, frock, "", ""))
	before := priceParseFailures(t)

	require.NoError(t, c.Add(ctx, broken, "", ""))
	s := c.Summary(ctx)
	_ = c.Total(ctx)
	_ = c.Summary(ctx)

	assert.Equal(t, before+1, priceParseFailures(t))
	assert.Equal(t, int64(2200), published)
	assert.Equal(t, int64(2200), s.Total)
	assert.Equal(t, 1, s.UnpricedLines)
}

func TestSummary_ReturnsCopy(t *testing.T) {
	c, _, pub := newTestContainer(t)
	ctx := context.Background()
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, c.Add(ctx, frock, "", ""))

	s := c.Summary(ctx)
	s.Items[0].Quantity = 9
	assert.Equal(t, 1, c.Summary(ctx).Items[0].Quantity)
}

func TestItems_ReturnsCopy(t *testing.T) {
	c, _, pub := newTestContainer(t)
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)
	require.NoError(t, c.Add(context.Background(), frock, "", ""))

	items := c.Items()
	items[0].Quantity = 50
	assert.Equal(t, 1, c.Count())
}

func TestConcurrentAdds(t *testing.T) {
	c, st, pub := newTestContainer(t)
	pub.On("PublishCartUpdated", mock.Anything, session, mock.Anything, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Add(context.Background(), frock, "", "")
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, c.Count())
	assert.Equal(t, 25, stored(t, st).Count())
}
