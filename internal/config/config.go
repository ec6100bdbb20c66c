// Package config 카탈로그 동기화 엔진의 설정 구조와 로더를 제공합니다.
//
// 설정은 다음 순서로 병합되며, 뒤에 오는 소스가 앞의 값을 덮어씁니다.
//
//  1. 구조체 기본값 (newDefaultConfig)
//  2. JSON 설정 파일 (catalog-sync.json)
//  3. 환경 변수 (CATALOG_SYNC_ 접두사, 계층 구분은 "__")
package config

import (
	"fmt"
	"time"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName = "catalog-sync"

	// DefaultFilename 실행 인자로 경로가 주어지지 않았을 때 탐색하는 설정 파일명입니다.
	DefaultFilename = AppName + ".json"

	// EnvPrefix 설정 값을 덮어쓰는 환경 변수의 접두사입니다.
	// 예: CATALOG_SYNC_SUPPLIER__API_KEY -> supplier.api_key
	EnvPrefix = "CATALOG_SYNC_"
)

// AppConfig 애플리케이션의 모든 설정을 담는 최상위 구조체
type AppConfig struct {
	Debug    bool           `json:"debug"`
	Supplier SupplierConfig `json:"supplier"`
	Pricing  PricingConfig  `json:"pricing"`
	Images   ImagesConfig   `json:"images"`
	Sync     SyncConfig     `json:"sync"`
	Database DatabaseConfig `json:"database"`
	API      APIConfig      `json:"api"`
	Notifier NotifierConfig `json:"notifier"`
}

// SupplierConfig 공급사 REST API 접속 설정
type SupplierConfig struct {
	BaseURL           string        `json:"base_url" validate:"required,http_url"`
	APIKey            string        `json:"api_key" validate:"required"`
	PageSize          int           `json:"page_size" validate:"min=1,max=100"`
	RequestTimeout    time.Duration `json:"request_timeout" validate:"gt=0"`
	RequestsPerSecond float64       `json:"requests_per_second" validate:"gte=0"` // 0: 제한 없음
	Burst             int           `json:"burst" validate:"min=1"`
}

// PricingConfig 가격 정책 설정
type PricingConfig struct {
	MinProfitMargin   float64            `json:"min_profit_margin" validate:"gte=0"`
	MaxProfitMargin   float64            `json:"max_profit_margin" validate:"gtefield=MinProfitMargin"`
	ProfitPercentage  float64            `json:"profit_percentage" validate:"gte=0"`
	ShippingBuffer    float64            `json:"shipping_buffer" validate:"gte=0"`
	FloorCost         float64            `json:"floor_cost" validate:"gt=0"`
	PremiumCategories map[string]float64 `json:"premium_categories" validate:"dive,keys,required,endkeys,gte=0"`
	CostRatio         float64            `json:"cost_ratio" validate:"gte=0,lte=1"`
	SupplierEarnings  float64            `json:"supplier_earnings" validate:"gte=0"`
	USDToEURRate      float64            `json:"usd_to_eur_rate" validate:"gt=0"`
}

// ImagesConfig 로컬 이미지 캐시 설정
type ImagesConfig struct {
	Dir          string        `json:"dir" validate:"required"`
	PublicPrefix string        `json:"public_prefix" validate:"required,startswith=/"`
	MaxRetries   int           `json:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay   time.Duration `json:"retry_delay" validate:"gte=0"`
	MaxBytes     int64         `json:"max_bytes" validate:"gt=0"`
}

// SyncConfig 동기화 실행 설정
type SyncConfig struct {
	Workers       int            `json:"workers" validate:"min=1,max=32"`
	Schedule      ScheduleConfig `json:"schedule"`
	ReportTimeout time.Duration  `json:"report_timeout" validate:"gt=0"`
}

// ScheduleConfig 정기 동기화 스케줄 설정
type ScheduleConfig struct {
	Enabled  bool   `json:"enabled"`
	TimeSpec string `json:"time_spec" validate:"required_if=Enabled true,omitempty,cron_spec"`
}

// DatabaseConfig 카탈로그 저장소(PostgreSQL) 설정
//
// DSN이 비어 있으면 메모리 저장소로 동작합니다 (dry-run 용도).
type DatabaseConfig struct {
	DSN             string        `json:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `json:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" validate:"gte=0"`
	ConnectRetries  int           `json:"connect_retries" validate:"gte=0,lte=10"`
}

// APIConfig 관리자용 동기화 트리거 API 서버 설정
type APIConfig struct {
	Enabled      bool     `json:"enabled"`
	ListenPort   int      `json:"listen_port" validate:"min=1,max=65535"`
	AppKey       string   `json:"app_key" validate:"required_if=Enabled true"`
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

// NotifierConfig 동기화 결과 보고 채널 설정
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required_if=Enabled true,omitempty,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required_if=Enabled true"`
}

// newDefaultConfig 설정 파일과 환경 변수가 없을 때 사용되는 기본 설정을 반환합니다.
func newDefaultConfig() AppConfig {
	return AppConfig{
		Supplier: SupplierConfig{
			BaseURL:           "https://api.printful.com",
			PageSize:          20,
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
		},
		Pricing: PricingConfig{
			MinProfitMargin:  2.0,
			MaxProfitMargin:  4.0,
			ProfitPercentage: 0.15,
			ShippingBuffer:   1.0,
			FloorCost:        20.0,
			PremiumCategories: map[string]float64{
				"hoodies": 3.0,
				"jackets": 4.0,
				"bags":    2.5,
			},
			CostRatio:        0.45,
			SupplierEarnings: 10.0,
			USDToEURRate:     0.85,
		},
		Images: ImagesConfig{
			Dir:          "public/printful-images",
			PublicPrefix: "/printful-images",
			MaxRetries:   2,
			RetryDelay:   time.Second,
			MaxBytes:     20 << 20,
		},
		Sync: SyncConfig{
			Workers: 4,
			Schedule: ScheduleConfig{
				Enabled:  false,
				TimeSpec: "0 0 3 * * *",
			},
			ReportTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnectRetries:  3,
		},
		API: APIConfig{
			ListenPort:   8080,
			AllowOrigins: []string{"*"},
		},
	}
}

// VerifyRecommendations 실행은 가능하지만 운영상 권장되지 않는 설정을 찾아 경고 메시지로 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.Supplier.RequestsPerSecond == 0 {
		warnings = append(warnings, "공급사 API 요청 속도 제한(requests_per_second)이 비활성화되어 있습니다. 공급사의 호출 한도에 걸릴 수 있습니다")
	}
	if c.Sync.Workers > 8 {
		warnings = append(warnings, fmt.Sprintf("동기화 작업자 수(workers=%d)가 많습니다. 공급사 API 호출 한도를 확인하세요", c.Sync.Workers))
	}
	if c.API.Enabled && c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 관리자 권한이 필요할 수 있습니다", c.API.ListenPort))
	}
	if c.Database.DSN == "" {
		warnings = append(warnings, "데이터베이스 DSN이 설정되지 않아 메모리 저장소를 사용합니다. 프로세스 종료 시 동기화 결과가 사라집니다")
	}

	return warnings
}
