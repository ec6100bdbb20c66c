// Package reconciler 공급사 카탈로그를 로컬 카탈로그에 반영하는 동기화 엔진을 제공합니다.
//
// 상품마다 상세 조회 → 가격 계산 → 이미지 확보 → 저장 순서로 처리하며, 한 상품의 실패는
// 리포트에 기록될 뿐 실행 전체를 중단하지 않습니다. 상품 간 처리는 작업자 풀로 병렬 실행되고,
// 같은 공급사 ID에 대한 저장 단계는 ID별 잠금으로 직렬화됩니다.
package reconciler

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/imagecache"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/pricing"
	"github.com/darkkaiser/catalog-sync/internal/supplier"
	"github.com/darkkaiser/catalog-sync/pkg/concurrency"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const component = "reconciler"

const (
	defaultWorkers          = 4
	defaultBrand            = "Printful"
	defaultPlaceholderImage = "https://via.placeholder.com/300"
)

// Supplier 공급사 API 클라이언트입니다.
type Supplier interface {
	ListProducts(ctx context.Context) ([]supplier.ProductSummary, error)
	GetProductDetail(ctx context.Context, supplierID int64) (*supplier.Product, error)
}

// ImageCache 원격 이미지를 로컬 경로로 확보합니다.
type ImageCache interface {
	EnsureLocal(ctx context.Context, remoteURL string, key imagecache.Key) (string, error)
}

// Pricer 공급사 원가로 판매가를 계산합니다.
type Pricer interface {
	Price(cost float64, category, productName string) pricing.Result
}

var (
	_ Supplier   = (*supplier.Client)(nil)
	_ ImageCache = (*imagecache.Cache)(nil)
	_ Pricer     = (*pricing.Engine)(nil)
)

// Config 동기화 실행 설정입니다.
type Config struct {
	// Workers 동시에 처리할 상품 수 (0: 기본값 4)
	Workers int

	Brand            string
	PlaceholderImage string
}

// Reconciler 공급사 카탈로그 동기화 엔진입니다. 여러 고루틴에서 동시에 사용할 수 있습니다.
type Reconciler struct {
	cfg Config

	supplier Supplier
	images   ImageCache
	pricer   Pricer
	store    catalog.Store

	// locks 같은 공급사 ID의 저장 단계(조회, 생성/갱신, 하위 레코드 교체)가 겹치지 않도록 합니다.
	locks *concurrency.KeyedMutex[int64]

	now func() time.Time
}

// New 새로운 Reconciler를 생성합니다. 의존성이 누락되면 ConfigurationError를 반환합니다.
func New(cfg Config, s Supplier, images ImageCache, pricer Pricer, store catalog.Store) (*Reconciler, error) {
	switch {
	case s == nil:
		return nil, apperrors.New(apperrors.ConfigurationError, "공급사 클라이언트가 설정되지 않았습니다")
	case images == nil:
		return nil, apperrors.New(apperrors.ConfigurationError, "이미지 캐시가 설정되지 않았습니다")
	case pricer == nil:
		return nil, apperrors.New(apperrors.ConfigurationError, "가격 엔진이 설정되지 않았습니다")
	case store == nil:
		return nil, apperrors.New(apperrors.ConfigurationError, "카탈로그 저장소가 설정되지 않았습니다")
	}

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Brand == "" {
		cfg.Brand = defaultBrand
	}
	if cfg.PlaceholderImage == "" {
		cfg.PlaceholderImage = defaultPlaceholderImage
	}

	return &Reconciler{
		cfg:      cfg,
		supplier: s,
		images:   images,
		pricer:   pricer,
		store:    store,
		locks:    concurrency.NewKeyedMutex[int64](),
		now:      time.Now,
	}, nil
}

// productOutcome 상품 하나의 처리 결과입니다. 작업자마다 자기 인덱스에만 기록합니다.
type productOutcome struct {
	done          bool
	created       bool
	skipped       bool
	imageFailures int
	price         float64
	err           *ProductError
}

// SyncAll 공급사의 모든 상품을 동기화하고 결과 리포트를 반환합니다.
//
// 상품 목록 조회에 실패하면 동기화할 대상이 없으므로 에러를 반환합니다.
// 상품 단위 실패는 리포트의 Errors에 기록됩니다. 공급사에서 동기화 제외로 표시한 상품과
// ctx 취소로 처리하지 못한 상품은 건너뛴 것으로 집계됩니다.
func (r *Reconciler) SyncAll(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: r.now(),
		Errors:    []ProductError{},
	}

	logger := applog.WithComponentAndFields(component, applog.Fields{
		"run_id": report.RunID,
	})
	logger.Info("카탈로그 동기화 시작")

	summaries, err := r.supplier.ListProducts(ctx)
	if err != nil {
		logger.WithField("error", err).Error("공급사 상품 목록 조회 실패로 동기화를 중단합니다")
		return nil, err
	}
	report.TotalCount = len(summaries)

	outcomes := make([]productOutcome, len(summaries))

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)

	for i := range summaries {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			outcomes[i] = r.syncSummary(ctx, summaries[i])
			return nil
		})
	}
	_ = g.Wait()

	for i := range outcomes {
		o := &outcomes[i]
		switch {
		case !o.done || o.skipped:
			report.SkippedCount++
		case o.err != nil:
			report.Errors = append(report.Errors, *o.err)
		default:
			report.SyncedCount++
			report.CatalogValue += o.price
			if o.created {
				report.CreatedCount++
			} else {
				report.UpdatedCount++
			}
		}
		report.ImageFailures += o.imageFailures
	}

	report.CatalogValue = math.Round(report.CatalogValue*100) / 100
	report.Canceled = ctx.Err() != nil
	report.FinishedAt = r.now()

	entry := logger.WithFields(applog.Fields{
		"total":    report.TotalCount,
		"synced":   report.SyncedCount,
		"created":  report.CreatedCount,
		"updated":  report.UpdatedCount,
		"failed":   len(report.Errors),
		"skipped":  report.SkippedCount,
		"duration": report.Duration().String(),
	})
	if report.Clean() {
		entry.Info("카탈로그 동기화 완료")
	} else {
		entry.Warn("카탈로그 동기화가 일부 실패와 함께 완료되었습니다")
	}

	return report, nil
}

// SyncOne 공급사 상품 하나를 동기화하고 저장된 카탈로그 레코드를 반환합니다.
func (r *Reconciler) SyncOne(ctx context.Context, supplierID int64) (*catalog.Product, error) {
	detail, err := r.supplier.GetProductDetail(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	snap := r.build(ctx, detail)
	if _, err := r.commit(ctx, detail.ID, snap.product); err != nil {
		return nil, err
	}

	return snap.product, nil
}

// syncSummary 상품 하나를 처리합니다. 에러는 반환하지 않고 결과에 기록합니다.
func (r *Reconciler) syncSummary(ctx context.Context, s supplier.ProductSummary) productOutcome {
	if ctx.Err() != nil {
		return productOutcome{done: true, skipped: true}
	}
	if s.IsIgnored {
		applog.WithComponentAndFields(component, applog.Fields{
			"supplier_id":  s.ID,
			"product_name": s.Name,
		}).Debug("동기화 제외로 표시된 상품을 건너뜁니다")
		return productOutcome{done: true, skipped: true}
	}

	start := time.Now()
	ref := productRef(s.Name, s.ID)

	fail := func(step Step, err error) productOutcome {
		if isCanceled(ctx, err) {
			return productOutcome{done: true, skipped: true}
		}

		applog.WithComponentAndFields(component, applog.Fields{
			"supplier_id":  s.ID,
			"product_name": s.Name,
			"step":         step,
			"error":        err,
		}).Error("상품 동기화 실패")

		return productOutcome{
			done: true,
			err: &ProductError{
				ProductRef: ref,
				SupplierID: s.ID,
				Step:       step,
				Type:       apperrors.UnderlyingType(err).String(),
				Message:    err.Error(),
			},
		}
	}

	detail, err := r.supplier.GetProductDetail(ctx, s.ID)
	if err != nil {
		return fail(StepFetchDetail, err)
	}

	snap := r.build(ctx, detail)

	created, err := r.commit(ctx, s.ID, snap.product)
	if err != nil {
		o := fail(StepPersist, err)
		o.imageFailures = snap.imageFailures
		return o
	}

	action := "updated"
	if created {
		action = "created"
	}
	applog.WithComponentAndFields(component, applog.Fields{
		"supplier_id":    s.ID,
		"product_name":   detail.Name,
		"action":         action,
		"price":          snap.product.Price,
		"images":         len(snap.product.Images),
		"image_failures": snap.imageFailures,
		"variants":       len(snap.product.Variants),
		"duration":       time.Since(start).String(),
	}).Info("상품 동기화 완료")

	return productOutcome{done: true, created: created, imageFailures: snap.imageFailures, price: snap.product.Price}
}

// commit 조회, 생성 또는 갱신, 하위 레코드 교체를 하나의 트랜잭션으로 실행합니다.
// 같은 공급사 ID에 대한 commit은 동시에 실행되지 않습니다.
func (r *Reconciler) commit(ctx context.Context, supplierID int64, p *catalog.Product) (bool, error) {
	var created bool

	err := r.locks.WithLock(supplierID, func() error {
		return r.store.WithinTx(ctx, func(tx catalog.Tx) error {
			created = false

			existing, err := lookup(ctx, tx, p.ExternalID, p.Name)
			if err != nil {
				return err
			}

			if existing == nil {
				p.ID = ""
				p.CreatedAt = time.Time{}
				if err := tx.Create(ctx, p); err != nil {
					return err
				}
				created = true
			} else {
				p.ID = existing.ID
				p.CreatedAt = existing.CreatedAt
				if err := tx.Update(ctx, p); err != nil {
					return err
				}
				if err := tx.DeleteChildren(ctx, p.ID); err != nil {
					return err
				}
			}

			// 저장소가 채운 하위 레코드 ID와 상품 ID가 p.Images, p.Variants에 그대로 반영됩니다.
			return tx.InsertChildren(ctx, p.ID, p.Images, p.Variants)
		})
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.PersistenceFailure) {
			err = catalog.NewErrPersistence(err, "commit", p.ID)
		}
		return false, err
	}

	return created, nil
}

// lookup 공급사 ID로 먼저 찾고, 없으면 공급사 ID가 없는 과거 레코드를 상품명으로 찾습니다.
// 일치하는 상품이 없으면 (nil, nil)을 반환합니다.
func lookup(ctx context.Context, tx catalog.Tx, externalID, name string) (*catalog.Product, error) {
	p, err := tx.FindByExternalID(ctx, externalID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, catalog.ErrProductNotFound) {
		return nil, err
	}

	p, err = tx.FindByName(ctx, name)
	if err == nil {
		if p.ExternalID == "" || p.ExternalID == externalID {
			return p, nil
		}
		// 같은 이름의 다른 공급사 상품입니다.
		return nil, nil
	}
	if !errors.Is(err, catalog.ErrProductNotFound) {
		return nil, err
	}

	return nil, nil
}

func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
