// Package postgres PostgreSQL 기반 catalog.Store 구현체를 제공합니다.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const component = "catalog.postgres"

// uniqueViolation PostgreSQL unique_violation 에러 코드입니다.
const uniqueViolation = "23505"

// Config 데이터베이스 연결 설정입니다.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// ConnectRetries 최초 연결 실패 시 재시도 횟수
	ConnectRetries int
}

// Store sqlx 기반 카탈로그 저장소입니다.
type Store struct {
	db *sqlx.DB
	queries
}

var _ catalog.Store = (*Store)(nil)

// Open 데이터베이스에 연결하고 새로운 Store를 생성합니다.
// 연결에 실패하면 ConnectRetries만큼 간격을 늘려 가며 다시 시도합니다.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)

	delay := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", cfg.DSN)
		if err == nil {
			break
		}
		if attempt >= cfg.ConnectRetries {
			return nil, apperrors.Wrap(err, apperrors.PersistenceFailure, "데이터베이스에 연결할 수 없습니다")
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"attempt": attempt + 1,
			"delay":   delay.String(),
			"error":   err,
		}).Warn("데이터베이스 연결 실패, 재시도합니다")

		select {
		case <-ctx.Done():
			return nil, apperrors.Wrap(ctx.Err(), apperrors.PersistenceFailure, "데이터베이스 연결 대기 중 취소되었습니다")
		case <-time.After(delay):
		}
		delay *= 2
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return New(db), nil
}

// New 이미 연결된 데이터베이스 핸들로 Store를 생성합니다.
func New(db *sqlx.DB) *Store {
	return &Store{
		db:      db,
		queries: queries{ext: db},
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx catalog.Tx) error) error {
	sqlTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return catalog.NewErrPersistence(err, "begin", "")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&queries{ext: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": rbErr,
			}).Warn("트랜잭션 롤백 실패")
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return catalog.NewErrPersistence(err, "commit", "")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*catalog.Product, error) {
	var p catalog.Product
	if err := sqlx.GetContext(ctx, s.db, &p, `SELECT * FROM products WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, catalog.NewErrPersistence(err, "get", id)
	}

	if err := sqlx.SelectContext(ctx, s.db, &p.Images, `SELECT * FROM product_images WHERE product_id = $1 ORDER BY sort_order`, id); err != nil {
		return nil, catalog.NewErrPersistence(err, "get_images", id)
	}
	if err := sqlx.SelectContext(ctx, s.db, &p.Variants, `SELECT * FROM product_variants WHERE product_id = $1 ORDER BY sort_order`, id); err != nil {
		return nil, catalog.NewErrPersistence(err, "get_variants", id)
	}

	return &p, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, s.db, &n, `SELECT COUNT(*) FROM products`); err != nil {
		return 0, catalog.NewErrPersistence(err, "count", "")
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// queries *sqlx.DB 또는 *sqlx.Tx 위에서 catalog.Tx를 구현합니다.
type queries struct {
	ext sqlx.ExtContext
}

var _ catalog.Tx = (*queries)(nil)

func (q *queries) FindByExternalID(ctx context.Context, externalID string) (*catalog.Product, error) {
	if externalID == "" {
		return nil, catalog.ErrProductNotFound
	}
	return q.findOne(ctx, `SELECT * FROM products WHERE external_id = $1 LIMIT 1`, externalID)
}

func (q *queries) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	return q.findOne(ctx, `SELECT * FROM products WHERE name = $1 ORDER BY created_at, id LIMIT 1`, name)
}

func (q *queries) findOne(ctx context.Context, query string, arg any) (*catalog.Product, error) {
	var p catalog.Product
	if err := sqlx.GetContext(ctx, q.ext, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, catalog.NewErrPersistence(err, "find", "")
	}
	return &p, nil
}

func (q *queries) Create(ctx context.Context, p *catalog.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	const query = `
		INSERT INTO products (
			id, external_id, sku, name, description, brand, category, subcategory,
			price, supplier_cost, profit, estimated_cost, estimated_profit, supplier_earnings,
			image_src, image_alt, in_stock, is_active, stock_count, created_at, updated_at
		) VALUES (
			:id, :external_id, :sku, :name, :description, :brand, :category, :subcategory,
			:price, :supplier_cost, :profit, :estimated_cost, :estimated_profit, :supplier_earnings,
			:image_src, :image_alt, :in_stock, :is_active, :stock_count, :created_at, :updated_at
		)`

	if _, err := sqlx.NamedExecContext(ctx, q.ext, query, p); err != nil {
		return translateWriteErr(err, "create", p.ID)
	}
	return nil
}

func (q *queries) Update(ctx context.Context, p *catalog.Product) error {
	p.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE products SET
			external_id = :external_id, sku = :sku, name = :name, description = :description,
			brand = :brand, category = :category, subcategory = :subcategory,
			price = :price, supplier_cost = :supplier_cost, profit = :profit,
			estimated_cost = :estimated_cost, estimated_profit = :estimated_profit,
			supplier_earnings = :supplier_earnings, image_src = :image_src, image_alt = :image_alt,
			in_stock = :in_stock, is_active = :is_active, stock_count = :stock_count,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, q.ext, query, p)
	if err != nil {
		return translateWriteErr(err, "update", p.ID)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.NewErrPersistence(catalog.ErrProductNotFound, "update", p.ID)
	}
	return nil
}

func (q *queries) DeleteChildren(ctx context.Context, productID string) error {
	if _, err := q.ext.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return catalog.NewErrPersistence(err, "delete_images", productID)
	}
	if _, err := q.ext.ExecContext(ctx, `DELETE FROM product_variants WHERE product_id = $1`, productID); err != nil {
		return catalog.NewErrPersistence(err, "delete_variants", productID)
	}
	return nil
}

func (q *queries) InsertChildren(ctx context.Context, productID string, images []catalog.Image, variants []catalog.Variant) error {
	if len(images) > 0 {
		for i := range images {
			if images[i].ID == "" {
				images[i].ID = uuid.NewString()
			}
			images[i].ProductID = productID
		}

		const query = `
			INSERT INTO product_images (id, product_id, url, alt, sort_order, source_url)
			VALUES (:id, :product_id, :url, :alt, :sort_order, :source_url)`
		if _, err := sqlx.NamedExecContext(ctx, q.ext, query, images); err != nil {
			return translateWriteErr(err, "insert_images", productID)
		}
	}

	if len(variants) > 0 {
		for i := range variants {
			if variants[i].ID == "" {
				variants[i].ID = uuid.NewString()
			}
			variants[i].ProductID = productID
		}

		const query = `
			INSERT INTO product_variants (id, product_id, external_id, type, value, color, price, supplier_cost, profit, in_stock, sort_order)
			VALUES (:id, :product_id, :external_id, :type, :value, :color, :price, :supplier_cost, :profit, :in_stock, :sort_order)`
		if _, err := sqlx.NamedExecContext(ctx, q.ext, query, variants); err != nil {
			return translateWriteErr(err, "insert_variants", productID)
		}
	}

	return nil
}

// translateWriteErr 쓰기 에러를 PersistenceFailure로 감쌉니다. 공급사 ID 중복은 ErrDuplicateExternalID로 식별할 수 있게 합니다.
func translateWriteErr(err error, op, productID string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == "products_external_id_key" {
		return catalog.NewErrPersistence(catalog.ErrDuplicateExternalID, op, productID)
	}
	return catalog.NewErrPersistence(err, op, productID)
}
