package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/catalog"
	"github.com/darkkaiser/catalog-sync/internal/catalog/memstore"
	"github.com/darkkaiser/catalog-sync/internal/catalog/postgres"
	"github.com/darkkaiser/catalog-sync/internal/config"
	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	"github.com/darkkaiser/catalog-sync/internal/imagecache"
	"github.com/darkkaiser/catalog-sync/internal/notify"
	"github.com/darkkaiser/catalog-sync/internal/notify/telegram"
	"github.com/darkkaiser/catalog-sync/internal/pricing"
	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	"github.com/darkkaiser/catalog-sync/internal/service/runner"
	"github.com/darkkaiser/catalog-sync/internal/supplier"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

// imageRetryMaxDelay 이미지 다운로드 재시도 간격의 상한
const imageRetryMaxDelay = 10 * time.Second

// countingStore 저장소의 상품 수 조회와 종료를 함께 제공합니다.
type countingStore interface {
	catalog.Store
	io.Closer
}

// components 설정으로부터 조립된 동기화 엔진 구성 요소입니다.
type components struct {
	store      countingStore
	reconciler *reconciler.Reconciler
	runner     *runner.Runner
}

// Close 저장소 연결을 닫습니다.
func (c *components) Close() {
	if err := c.store.Close(); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("카탈로그 저장소 종료 중 에러가 발생했습니다")
	}
}

// buildComponents 공급사 클라이언트, 이미지 캐시, 가격 엔진, 저장소, 알림 채널을 조립합니다.
func buildComponents(ctx context.Context, appConfig *config.AppConfig, userAgent string) (*components, error) {
	// 공급사 API 요청은 재시도하지 않습니다. 실패는 상품 단위로 기록됩니다.
	supplierFetcher := fetcher.New(fetcher.Config{
		Timeout:   appConfig.Supplier.RequestTimeout,
		UserAgent: userAgent,
	})
	supplierClient, err := supplier.New(supplier.Config{
		BaseURL:           appConfig.Supplier.BaseURL,
		APIKey:            appConfig.Supplier.APIKey,
		PageSize:          appConfig.Supplier.PageSize,
		RequestsPerSecond: appConfig.Supplier.RequestsPerSecond,
		Burst:             appConfig.Supplier.Burst,
	}, supplierFetcher)
	if err != nil {
		return nil, err
	}

	imageFetcher := fetcher.New(fetcher.Config{
		Timeout:       appConfig.Supplier.RequestTimeout,
		UserAgent:     userAgent,
		MaxRetries:    appConfig.Images.MaxRetries,
		MinRetryDelay: appConfig.Images.RetryDelay,
		MaxRetryDelay: max(appConfig.Images.RetryDelay, imageRetryMaxDelay),
		MaxBytes:      appConfig.Images.MaxBytes,
	})
	images, err := imagecache.New(imagecache.Config{
		Dir:          appConfig.Images.Dir,
		PublicPrefix: appConfig.Images.PublicPrefix,
	}, imageFetcher)
	if err != nil {
		return nil, err
	}

	pricer, err := pricing.NewEngine(pricingConfig(appConfig.Pricing))
	if err != nil {
		return nil, err
	}

	store, err := openStore(ctx, appConfig.Database)
	if err != nil {
		return nil, err
	}

	rec, err := reconciler.New(reconciler.Config{
		Workers: appConfig.Sync.Workers,
	}, supplierClient, images, pricer, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	notifier, err := newNotifier(appConfig.Notifier.Telegram, pricer)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &components{
		store:      store,
		reconciler: rec,
		runner:     runner.New(rec, notifier, appConfig.Sync.ReportTimeout),
	}, nil
}

func pricingConfig(c config.PricingConfig) pricing.Config {
	return pricing.Config{
		MinProfitMargin:   c.MinProfitMargin,
		MaxProfitMargin:   c.MaxProfitMargin,
		ProfitPercentage:  c.ProfitPercentage,
		ShippingBuffer:    c.ShippingBuffer,
		FloorCost:         c.FloorCost,
		PremiumCategories: c.PremiumCategories,
		CostRatio:         c.CostRatio,
		SupplierEarnings:  c.SupplierEarnings,
		USDToEURRate:      c.USDToEURRate,
	}
}

// openStore DSN이 설정되어 있으면 PostgreSQL 저장소를, 아니면 메모리 저장소를 사용합니다.
func openStore(ctx context.Context, c config.DatabaseConfig) (countingStore, error) {
	if c.DSN == "" {
		applog.WithComponent(component).Warn("데이터베이스 DSN이 설정되지 않아 메모리 저장소를 사용합니다 (프로세스 종료 시 데이터가 사라집니다)")
		return memstore.New(), nil
	}

	store, err := postgres.Open(ctx, postgres.Config{
		DSN:             c.DSN,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnectRetries:  c.ConnectRetries,
	})
	if err != nil {
		return nil, err
	}

	applog.WithComponent(component).Info("PostgreSQL 카탈로그 저장소에 연결되었습니다")

	return store, nil
}

// newNotifier 텔레그램이 활성화되어 있으면 텔레그램 Notifier를, 아니면 로그로만 남기는 Notifier를 반환합니다.
func newNotifier(c config.TelegramConfig, converter notify.Converter) (notify.Notifier, error) {
	if !c.Enabled {
		return notify.Nop{}, nil
	}

	n, err := telegram.New(telegram.Config{
		BotToken: c.BotToken,
		ChatID:   c.ChatID,
	}, notify.NewRenderer(converter, 0))
	if err != nil {
		return nil, err
	}

	return n, nil
}

func userAgent() string {
	return fmt.Sprintf("%s/%s", config.AppName, Version)
}
