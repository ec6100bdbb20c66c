package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore TEST_POSTGRES_DSN이 설정된 경우에만 실제 데이터베이스로 테스트합니다.
// 각 테스트는 스키마를 새로 만들고 끝나면 되돌립니다.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN이 설정되지 않아 PostgreSQL 테스트를 건너뜁니다")
	}

	_, err := Migrate(dsn, Down)
	require.NoError(t, err)
	version, err := Migrate(dsn, Up)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)

	s, err := Open(context.Background(), Config{DSN: dsn, MaxOpenConns: 4, MaxIdleConns: 2})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_, _ = Migrate(dsn, Down)
	})

	return s
}

func TestStore_CreateFindUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &catalog.Product{
		ExternalID: "123",
		SKU:        "PF-123",
		Name:       "Graphic Tee",
		Price:      28.99,
		Profit:     8.74,
		InStock:    true,
		IsActive:   true,
		StockCount: 999,
	}
	require.NoError(t, s.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.FindByExternalID(ctx, "123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 28.99, got.Price)
	assert.Equal(t, 8.74, got.Profit)

	byName, err := s.FindByName(ctx, "Graphic Tee")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	got.Price = 30.99
	require.NoError(t, s.Update(ctx, got))

	again, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.99, again.Price)

	_, err = s.FindByExternalID(ctx, "missing")
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))

	err = s.Update(ctx, &catalog.Product{ID: "00000000-0000-0000-0000-000000000000", Name: "x"})
	assert.True(t, errors.Is(err, catalog.ErrProductNotFound))
}

func TestStore_DuplicateExternalID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &catalog.Product{ExternalID: "1", Name: "A"}))
	err := s.Create(ctx, &catalog.Product{ExternalID: "1", Name: "B"})

	assert.True(t, errors.Is(err, catalog.ErrDuplicateExternalID))
	assert.True(t, apperrors.Is(err, apperrors.PersistenceFailure))

	// 공급사 ID가 없는 레코드는 중복될 수 있습니다.
	require.NoError(t, s.Create(ctx, &catalog.Product{Name: "Legacy"}))
	require.NoError(t, s.Create(ctx, &catalog.Product{Name: "Legacy"}))
}

func TestStore_WithinTx_ReplaceChildren(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &catalog.Product{ExternalID: "1", Name: "A"}
	require.NoError(t, s.Create(ctx, p))
	images := []catalog.Image{{URL: "/a.jpg"}, {URL: "/b.jpg", SortOrder: 1}}
	variants := []catalog.Variant{{Type: "size", Value: "S", Price: 28.99}}
	require.NoError(t, s.InsertChildren(ctx, p.ID, images, variants))
	assert.NotEmpty(t, images[1].ID)
	assert.Equal(t, p.ID, variants[0].ProductID)

	require.NoError(t, s.WithinTx(ctx, func(tx catalog.Tx) error {
		if err := tx.DeleteChildren(ctx, p.ID); err != nil {
			return err
		}
		return tx.InsertChildren(ctx, p.ID, []catalog.Image{{URL: "/c.jpg"}}, nil)
	}))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "/c.jpg", got.Images[0].URL)
	assert.Empty(t, got.Variants)
}

func TestStore_WithinTx_Rollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &catalog.Product{ExternalID: "1", Name: "A"}
	require.NoError(t, s.Create(ctx, p))
	require.NoError(t, s.InsertChildren(ctx, p.ID, []catalog.Image{{URL: "/a.jpg"}}, nil))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx catalog.Tx) error {
		require.NoError(t, tx.DeleteChildren(ctx, p.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Images, 1)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMigrate_InvalidDirection(t *testing.T) {
	t.Parallel()

	_, err := Migrate("postgres://unused", Direction("sideways"))
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestOpen_InvalidDSNFailsAfterRetries(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{DSN: "postgres://127.0.0.1:1/none?sslmode=disable&connect_timeout=1", ConnectRetries: 0})
	assert.True(t, apperrors.Is(err, apperrors.PersistenceFailure))
}
