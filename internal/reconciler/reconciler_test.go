package reconciler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/catalog/memstore"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/pricing"
	"github.com/darkkaiser/catalog-sync/internal/supplier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	supplier *fakeSupplier
	images   *fakeImageCache
	store    *memstore.Store
	rec      *Reconciler
}

func newFixture(t *testing.T, workers int, products ...*supplier.Product) *fixture {
	t.Helper()

	f := &fixture{
		supplier: newFakeSupplier(products...),
		images:   newFakeImageCache(),
		store:    memstore.New(),
	}
	f.rec = newReconciler(t, workers, f.supplier, f.images, f.store)

	return f
}

func newReconciler(t *testing.T, workers int, s Supplier, images ImageCache, store catalog.Store) *Reconciler {
	t.Helper()

	engine, err := pricing.NewEngine(testPricingConfig())
	require.NoError(t, err)

	rec, err := New(Config{Workers: workers}, s, images, engine, store)
	require.NoError(t, err)

	return rec
}

func findByExternalID(t *testing.T, s catalog.Store, externalID string) *catalog.Product {
	t.Helper()

	p, err := s.FindByExternalID(context.Background(), externalID)
	require.NoError(t, err)

	full, err := s.Get(context.Background(), p.ID)
	require.NoError(t, err)
	return full
}

// normalize 실행마다 달라지는 값(갱신 시각, 하위 레코드 ID)을 지웁니다.
func normalize(p *catalog.Product) *catalog.Product {
	c := p.Clone()
	c.UpdatedAt = time.Time{}
	for i := range c.Images {
		c.Images[i].ID = ""
	}
	for i := range c.Variants {
		c.Variants[i].ID = ""
	}
	return c
}

func TestNew_MissingDependencies(t *testing.T) {
	t.Parallel()

	engine, err := pricing.NewEngine(testPricingConfig())
	require.NoError(t, err)

	s, images, store := newFakeSupplier(), newFakeImageCache(), memstore.New()

	tests := []struct {
		name string
		fn   func() (*Reconciler, error)
	}{
		{"공급사 누락", func() (*Reconciler, error) { return New(Config{}, nil, images, engine, store) }},
		{"이미지 캐시 누락", func() (*Reconciler, error) { return New(Config{}, s, nil, engine, store) }},
		{"가격 엔진 누락", func() (*Reconciler, error) { return New(Config{}, s, images, nil, store) }},
		{"저장소 누락", func() (*Reconciler, error) { return New(Config{}, s, images, engine, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := tt.fn()
			assert.Nil(t, rec)
			assert.True(t, apperrors.Is(err, apperrors.ConfigurationError))
		})
	}
}

func TestSyncAll_CreatesProductWithPricingImagesAndVariants(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, graphicTee())

	report, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalCount)
	assert.Equal(t, 1, report.SyncedCount)
	assert.Equal(t, 1, report.CreatedCount)
	assert.Empty(t, report.Errors)
	assert.True(t, report.Clean())
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 28.99, report.CatalogValue)

	p := findByExternalID(t, f.store, "123")

	assert.Equal(t, "ext-123", p.SKU)
	assert.Equal(t, "Graphic Tee", p.Name)
	assert.Equal(t, "High-quality Graphic Tee", p.Description)
	assert.Equal(t, "Printful", p.Brand)
	assert.Equal(t, "printful", p.Category)
	assert.Equal(t, "t-shirts", p.Subcategory)
	assert.Equal(t, 28.99, p.Price)
	assert.Equal(t, 8.74, p.Profit)
	assert.Equal(t, 18.25, p.SupplierCost)
	assert.Equal(t, 8.21, p.EstimatedCost)
	assert.Equal(t, 20.78, p.EstimatedProfit)
	assert.Equal(t, 10.0, p.SupplierEarnings)
	assert.Equal(t, 999, p.StockCount)
	assert.True(t, p.InStock)
	assert.True(t, p.IsActive)

	// 썸네일 → 변형 목업(중복 URL 제거) → 상품 파일 순서
	require.Len(t, p.Images, 4)
	assert.Equal(t, "/printful-images/product_123_variant_0_thumbnail.png", p.Images[0].URL)
	assert.Equal(t, "/printful-images/product_123_variant_1001_preview_1.png", p.Images[1].URL)
	assert.Equal(t, "/printful-images/product_123_variant_1002_preview_1.png", p.Images[2].URL)
	assert.Equal(t, "/printful-images/product_123_variant_0_file_0.png", p.Images[3].URL)
	for i, img := range p.Images {
		assert.Equal(t, i, img.SortOrder)
	}
	assert.Equal(t, "Graphic Tee - Front View", p.Images[1].Alt)
	assert.Equal(t, "Graphic Tee - Back View", p.Images[2].Alt)
	assert.Equal(t, p.Images[0].URL, p.ImageSrc)

	require.Len(t, p.Variants, 2)
	assert.Equal(t, "size", p.Variants[0].Type)
	assert.Equal(t, "S", p.Variants[0].Value)
	assert.Equal(t, "Black", p.Variants[0].Color)
	assert.Equal(t, "1001", p.Variants[0].ExternalID)
	assert.Equal(t, 28.99, p.Variants[0].Price)
	assert.Equal(t, 8.74, p.Variants[0].Profit)
	assert.Equal(t, 30.99, p.Variants[1].Price)
	assert.Equal(t, 9.49, p.Variants[1].Profit)
	assert.True(t, p.Variants[1].InStock)
}

func TestSyncAll_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 4, graphicTee(), simpleProduct(2, "Mug", 8), simpleProduct(3, "Poster", 12))

	first, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.CreatedCount)

	before := normalize(findByExternalID(t, f.store, "123"))

	second, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, second.SyncedCount)
	assert.Equal(t, 0, second.CreatedCount)
	assert.Equal(t, 3, second.UpdatedCount)

	n, err := f.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	after := normalize(findByExternalID(t, f.store, "123"))
	assert.Equal(t, before, after)
}

func TestSyncAll_SupplierFailureIsolated(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, simpleProduct(1, "A", 10), simpleProduct(2, "B", 10), simpleProduct(3, "C", 10))
	f.supplier.detailErr[2] = apperrors.New(apperrors.SupplierUnavailable, "상태 코드 503")

	report, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 2, report.SyncedCount)
	assert.False(t, report.Clean())
	require.Len(t, report.Errors, 1)

	e := report.Errors[0]
	assert.Equal(t, "B (#2)", e.ProductRef)
	assert.Equal(t, int64(2), e.SupplierID)
	assert.Equal(t, StepFetchDetail, e.Step)
	assert.Equal(t, "SupplierUnavailable", e.Type)
	assert.Contains(t, e.Message, "503")

	n, _ := f.store.Count(context.Background())
	assert.Equal(t, 2, n)
}

func TestSyncAll_IgnoredProductsAreSkipped(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, simpleProduct(1, "A", 10), simpleProduct(2, "B", 10), simpleProduct(3, "C", 10))
	f.supplier.ignored[2] = true

	report, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 2, report.SyncedCount)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 2, f.supplier.detailCalls)

	_, err = f.store.FindByName(context.Background(), "B")
	assert.True(t, apperrors.Is(err, apperrors.NotFound))
}

func TestSyncAll_PersistenceFailureIsolated(t *testing.T) {
	t.Parallel()

	s := newFakeSupplier(simpleProduct(1, "A", 10), simpleProduct(2, "B", 10))
	mem := memstore.New()
	rec := newReconciler(t, 1, s, newFakeImageCache(), &failingStore{Store: mem, failName: "B"})

	report, err := rec.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.SyncedCount)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, StepPersist, report.Errors[0].Step)
	assert.Equal(t, "PersistenceFailure", report.Errors[0].Type)

	n, _ := mem.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestSyncAll_ImageFailureDoesNotFailProduct(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())
	f.images.fail["https://files.example.com/123/back.png"] = true

	report, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.SyncedCount)
	assert.Equal(t, 1, report.ImageFailures)
	assert.Empty(t, report.Errors)

	p := findByExternalID(t, f.store, "123")
	require.Len(t, p.Images, 3)
	for i, img := range p.Images {
		assert.Equal(t, i, img.SortOrder)
	}
	assert.Equal(t, "https://files.example.com/123/detail.png", p.Images[2].SourceURL)
}

func TestSyncAll_AllImagesFailUsesPlaceholder(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())
	for _, u := range []string{"thumb", "front", "back", "detail"} {
		f.images.fail["https://files.example.com/123/"+u+".png"] = true
	}

	report, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.SyncedCount)
	assert.Equal(t, 4, report.ImageFailures)

	p := findByExternalID(t, f.store, "123")
	assert.Empty(t, p.Images)
	assert.Equal(t, defaultPlaceholderImage, p.ImageSrc)
}

func TestSyncAll_MissingCostUsesFloor(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, &supplier.Product{ID: 5, Name: "Sticker"})

	_, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)

	p := findByExternalID(t, f.store, "5")
	assert.Equal(t, 20.0, p.SupplierCost)
	assert.Equal(t, 30.99, p.Price)
	assert.Equal(t, "PF-5", p.SKU)
	assert.Equal(t, "apparel", p.Subcategory)
	assert.Empty(t, p.Variants)
}

func TestSyncAll_LegacyRecordMatchedByName(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())
	ctx := context.Background()

	legacy := &catalog.Product{Name: "Graphic Tee", Price: 1}
	require.NoError(t, f.store.Create(ctx, legacy))
	require.NoError(t, f.store.InsertChildren(ctx, legacy.ID, []catalog.Image{{URL: "/old.jpg"}}, nil))

	report, err := f.rec.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UpdatedCount)

	n, _ := f.store.Count(ctx)
	assert.Equal(t, 1, n)

	p := findByExternalID(t, f.store, "123")
	assert.Equal(t, legacy.ID, p.ID)
	assert.Equal(t, legacy.CreatedAt, p.CreatedAt)
	assert.Equal(t, 28.99, p.Price)
	require.Len(t, p.Images, 4)
	for _, img := range p.Images {
		assert.NotEqual(t, "/old.jpg", img.URL)
	}
}

func TestSyncAll_SameNameDifferentSupplierProductCreatesNew(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())
	ctx := context.Background()

	require.NoError(t, f.store.Create(ctx, &catalog.Product{ExternalID: "999", Name: "Graphic Tee"}))

	report, err := f.rec.SyncAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CreatedCount)

	n, _ := f.store.Count(ctx)
	assert.Equal(t, 2, n)
}

func TestSyncAll_ListFailureAbortsRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1)
	f.supplier.listErr = apperrors.New(apperrors.SupplierUnavailable, "401")

	report, err := f.rec.SyncAll(context.Background())
	assert.Nil(t, report)
	assert.True(t, apperrors.Is(err, apperrors.SupplierUnavailable))
}

func TestSyncAll_EmptyCatalog(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1)

	report, err := f.rec.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.TotalCount)
	assert.True(t, report.Clean())
	assert.NotNil(t, report.Errors)
}

func TestSyncAll_CanceledBeforeStart(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 2, simpleProduct(1, "A", 10), simpleProduct(2, "B", 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.rec.SyncAll(ctx)
	require.NoError(t, err)
	assert.True(t, report.Canceled)
	assert.Equal(t, 2, report.SkippedCount)
	assert.Zero(t, report.SyncedCount)
	assert.Empty(t, report.Errors)

	n, _ := f.store.Count(context.Background())
	assert.Zero(t, n)
}

func TestSyncAll_CanceledMidRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, simpleProduct(1, "A", 10), simpleProduct(2, "B", 10), simpleProduct(3, "C", 10))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.supplier.onDetail = func(id int64) {
		if id == 1 {
			cancel()
		}
	}

	report, err := f.rec.SyncAll(ctx)
	require.NoError(t, err)
	assert.True(t, report.Canceled)
	assert.Equal(t, 3, report.SkippedCount)
	assert.Empty(t, report.Errors)
	assert.Equal(t, report.TotalCount, report.SyncedCount+len(report.Errors)+report.SkippedCount)
}

func TestSyncOne(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())

	p, err := f.rec.SyncOne(context.Background(), 123)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 28.99, p.Price)
	require.Len(t, p.Images, 4)
	assert.Equal(t, p.ID, p.Images[0].ProductID)
	require.NotEmpty(t, p.Variants)

	stored, err := f.store.Get(context.Background(), p.ID)
	require.NoError(t, err)
	for i := range p.Images {
		assert.NotEmpty(t, p.Images[i].ID)
		assert.Equal(t, stored.Images[i].ID, p.Images[i].ID)
	}
	for i := range p.Variants {
		assert.NotEmpty(t, p.Variants[i].ID)
		assert.Equal(t, p.ID, p.Variants[i].ProductID)
		assert.Equal(t, stored.Variants[i].ID, p.Variants[i].ID)
	}

	again, err := f.rec.SyncOne(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	n, _ := f.store.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestSyncOne_SupplierError(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())
	f.supplier.detailErr[123] = apperrors.New(apperrors.SupplierUnavailable, "404")

	p, err := f.rec.SyncOne(context.Background(), 123)
	assert.Nil(t, p)
	assert.True(t, apperrors.Is(err, apperrors.SupplierUnavailable))
}

func TestSyncOne_ConcurrentSameProductDoesNotDuplicateChildren(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, graphicTee())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.rec.SyncOne(context.Background(), 123)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, _ := f.store.Count(context.Background())
	assert.Equal(t, 1, n)

	p := findByExternalID(t, f.store, "123")
	assert.Len(t, p.Images, 4)
	assert.Len(t, p.Variants, 2)
	assert.Zero(t, f.rec.locks.Len())
}

func TestSyncAll_ConcurrentRuns(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 3, graphicTee(), simpleProduct(2, "Mug", 8), simpleProduct(3, "Poster", 12))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := f.rec.SyncAll(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 3, report.SyncedCount)
		}()
	}
	wg.Wait()

	n, _ := f.store.Count(context.Background())
	assert.Equal(t, 3, n)

	p := findByExternalID(t, f.store, "123")
	assert.Len(t, p.Images, 4)
	assert.Len(t, p.Variants, 2)
}

func TestReport_String(t *testing.T) {
	t.Parallel()

	r := &Report{TotalCount: 3, SyncedCount: 2, CreatedCount: 1, UpdatedCount: 1, Errors: []ProductError{{}}}
	assert.Contains(t, r.String(), "2/3")
	assert.Zero(t, r.Duration())
}

func TestNewFailedReport(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := apperrors.Wrap(apperrors.New(apperrors.SupplierUnavailable, "401"), apperrors.Internal, "상품 목록 조회 실패")

	r := NewFailedReport("run-1", start, start.Add(2*time.Second), err)
	assert.True(t, r.Failed())
	assert.False(t, r.Clean())
	assert.Equal(t, "SupplierUnavailable", r.ErrorType)
	assert.NotNil(t, r.Errors)
	assert.Equal(t, 2*time.Second, r.Duration())
	assert.Contains(t, r.String(), "동기화 실패 (SupplierUnavailable)")

	assert.False(t, (&Report{Errors: []ProductError{}}).Failed())
}
