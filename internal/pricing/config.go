package pricing

import (
	"fmt"
	"math"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

// Config 가격 정책 설정입니다. 금액 단위는 모두 공급사 통화(USD) 기준입니다.
type Config struct {
	// MinProfitMargin 총원가 대비 최소 목표 이익
	MinProfitMargin float64

	// MaxProfitMargin 총원가 대비 최대 이익 (판매가 상한)
	MaxProfitMargin float64

	// ProfitPercentage 총원가에 곱하는 비율 마크업 (0.15 = 15%)
	ProfitPercentage float64

	// ShippingBuffer 마크업 적용 전에 원가에 더하는 고정 금액
	ShippingBuffer float64

	// FloorCost 공급사 원가가 없거나 0일 때 대신 사용하는 원가
	FloorCost float64

	// PremiumCategories 카테고리/상품명 부분 문자열 → 목표 이익 재정의 값
	PremiumCategories map[string]float64

	// CostRatio 공급사 소매가 중 공급사 생산 원가로 추정하는 비율
	CostRatio float64

	// SupplierEarnings 공급사 측에 설정해 둔 판매자 수익 (보고용)
	SupplierEarnings float64

	// USDToEURRate 운영 보고서에 사용하는 고정 환율
	USDToEURRate float64
}

// DefaultConfig 기본 가격 정책을 반환합니다.
func DefaultConfig() Config {
	return Config{
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
	}
}

// Validate 가격 정책의 유효성을 검사합니다.
//
// 잘못된 가격 정책은 모든 상품의 가격을 조용히 틀리게 만들기 때문에 ConfigurationError를 반환하며,
// 호출자는 동기화를 시작하기 전에 실행을 중단해야 합니다.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"min_profit_margin", c.MinProfitMargin},
		{"max_profit_margin", c.MaxProfitMargin},
		{"profit_percentage", c.ProfitPercentage},
		{"shipping_buffer", c.ShippingBuffer},
		{"floor_cost", c.FloorCost},
		{"cost_ratio", c.CostRatio},
		{"supplier_earnings", c.SupplierEarnings},
		{"usd_to_eur_rate", c.USDToEURRate},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value < 0 {
			return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("가격 정책 '%s'의 값이 올바르지 않습니다: %v", f.name, f.value))
		}
	}

	if c.MaxProfitMargin < c.MinProfitMargin {
		return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("최대 이익(%.2f)이 최소 이익(%.2f)보다 작습니다", c.MaxProfitMargin, c.MinProfitMargin))
	}
	if c.FloorCost == 0 {
		return apperrors.New(apperrors.ConfigurationError, "대체 원가(floor_cost)는 0보다 커야 합니다")
	}
	if c.USDToEURRate == 0 {
		return apperrors.New(apperrors.ConfigurationError, "환율(usd_to_eur_rate)은 0보다 커야 합니다")
	}
	if c.CostRatio > 1 {
		return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("원가 비율(cost_ratio)은 1 이하여야 합니다: %v", c.CostRatio))
	}

	for key, profit := range c.PremiumCategories {
		if key == "" {
			return apperrors.New(apperrors.ConfigurationError, "프리미엄 카테고리 키가 비어 있습니다")
		}
		if math.IsNaN(profit) || math.IsInf(profit, 0) || profit < 0 {
			return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("프리미엄 카테고리 '%s'의 목표 이익이 올바르지 않습니다: %v", key, profit))
		}
	}

	return nil
}
