package pricing

import (
	"math"
	"testing"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	return e
}

func scenarioConfig() Config {
	cfg := DefaultConfig()
	cfg.MinProfitMargin = 5
	cfg.MaxProfitMargin = 10
	cfg.ProfitPercentage = 0.4
	cfg.ShippingBuffer = 2
	cfg.PremiumCategories = nil
	return cfg
}

func TestPrice_GraphicTeeScenario(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, scenarioConfig())

	r := e.Price(18.25, "t-shirts", "Graphic Tee")

	assert.Equal(t, 18.25, r.SupplierCost)
	assert.Equal(t, 20.25, r.TotalCost)
	assert.InDelta(t, 28.35, r.PercentagePrice, 1e-9)
	assert.InDelta(t, 25.25, r.TargetPrice, 1e-9)
	assert.InDelta(t, 28.35, r.OptimalPrice, 1e-9)
	assert.Equal(t, 28.99, r.RetailPrice)
	assert.Equal(t, 8.74, r.Profit)
	assert.Empty(t, r.PremiumCategory)
	assert.False(t, r.FloorCostApplied)
}

func TestPrice_DefaultProfile(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	tests := []struct {
		name        string
		cost        float64
		category    string
		productName string
		wantRetail  float64
		wantProfit  float64
		wantPremium string
	}{
		{"일반 상품", 18.25, "T-Shirts", "Graphic Tee", 22.99, 3.74, ""},
		{"프리미엄 카테고리 (대소문자 무시)", 30, "Men's HOODIES", "Zip Up", 34.99, 3.99, "hoodies"},
		{"상품명으로 프리미엄 일치", 10, "", "Canvas Bags Collection", 13.99, 2.99, "bags"},
		{"상한에 걸리는 경우", 31.5, "", "Poster", 35.99, 3.49, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := e.Price(tt.cost, tt.category, tt.productName)
			assert.Equal(t, tt.wantRetail, r.RetailPrice)
			assert.Equal(t, tt.wantProfit, r.Profit)
			assert.Equal(t, tt.wantPremium, r.PremiumCategory)
		})
	}
}

func TestPrice_FloorCost(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	for _, cost := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		r := e.Price(cost, "", "Mystery Item")

		assert.True(t, r.FloorCostApplied)
		assert.Equal(t, 20.0, r.SupplierCost)
		assert.Equal(t, 21.0, r.TotalCost)
		assert.Equal(t, 24.99, r.RetailPrice)
		assert.Equal(t, 3.99, r.Profit)
	}
}

func TestPrice_Deterministic(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())

	first := e.Price(23.4, "Jackets & Hoodies", "Windbreaker")
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, e.Price(23.4, "Jackets & Hoodies", "Windbreaker"))
	}

	// "hoodies"가 "jackets"보다 사전순으로 앞서므로 먼저 일치합니다.
	assert.Equal(t, "hoodies", first.PremiumCategory)
}

func TestPrice_Properties(t *testing.T) {
	t.Parallel()

	narrow := func(minMargin, maxMargin float64) Config {
		cfg := DefaultConfig()
		cfg.MinProfitMargin = minMargin
		cfg.MaxProfitMargin = maxMargin
		cfg.ProfitPercentage = 0
		cfg.ShippingBuffer = 0
		cfg.PremiumCategories = nil
		return cfg
	}

	configs := map[string]Config{
		"default":  DefaultConfig(),
		"scenario": scenarioConfig(),
		"wide": {
			MinProfitMargin: 1, MaxProfitMargin: 25, ProfitPercentage: 0.6, ShippingBuffer: 3.5,
			FloorCost: 15, CostRatio: 0.5, USDToEURRate: 0.9,
		},
		"narrow":      narrow(2, 2.5),
		"narrow_zero": narrow(0, 0.5),
		"equal":       narrow(1.5, 1.5),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine(t, cfg)
			windowed := cfg.MaxProfitMargin-cfg.MinProfitMargin >= 1

			prev := 0.0
			for cents := 1; cents <= 20000; cents += 37 {
				cost := float64(cents) / 100
				r := e.Price(cost, "apparel", "Tee")

				// .99 가격
				frac := math.Round((r.RetailPrice-math.Floor(r.RetailPrice))*100) / 100
				assert.Equal(t, 0.99, frac, "cost=%v retail=%v", cost, r.RetailPrice)

				// 단조성
				assert.GreaterOrEqual(t, r.RetailPrice, prev, "cost=%v", cost)
				prev = r.RetailPrice

				// 하한
				assert.GreaterOrEqual(t, r.Profit, cfg.MinProfitMargin-1e-9, "cost=%v retail=%v", cost, r.RetailPrice)

				// 상한 (상한과 하한 사이에 .99 가격이 없으면 1 미만으로 넘을 수 있음)
				if windowed {
					assert.LessOrEqual(t, r.Profit, cfg.MaxProfitMargin+1e-9, "cost=%v", cost)
				} else {
					assert.Less(t, r.Profit, cfg.MaxProfitMargin+1, "cost=%v", cost)
				}
			}
		})
	}
}

func TestPrice_NarrowMarginNeverBelowMinimum(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.ProfitPercentage = 0
	cfg.ShippingBuffer = 0
	cfg.PremiumCategories = nil

	tests := []struct {
		name       string
		min, max   float64
		cost       float64
		wantRetail float64
		wantProfit float64
	}{
		{"상한 아래 .99 가격이 최소 이익보다 낮음", 2, 2.5, 20.25, 22.99, 2.74},
		{"원가 이하로 내려가지 않음", 0, 0.5, 10.20, 10.99, 0.79},
		{"범위 안에 .99 가격이 있음", 2, 2.5, 19.6, 21.99, 2.39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := cfg
			c.MinProfitMargin = tt.min
			c.MaxProfitMargin = tt.max
			e := newTestEngine(t, c)

			r := e.Price(tt.cost, "", "Tee")
			assert.Equal(t, tt.wantRetail, r.RetailPrice)
			assert.Equal(t, tt.wantProfit, r.Profit)
			assert.GreaterOrEqual(t, r.Profit, tt.min)
		})
	}
}

func TestPrice_EstimatedFigures(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, scenarioConfig())

	r := e.Price(18.25, "", "Graphic Tee")
	assert.Equal(t, 8.21, r.EstimatedCost)
	assert.Equal(t, 20.78, r.EstimatedProfit)
	assert.Equal(t, 10.0, r.SupplierEarnings)
}

func TestNewEngine_CaseInsensitiveDuplicateKeys(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.PremiumCategories = map[string]float64{"Hoodies": 3, "hoodies": 7}

	e := newTestEngine(t, cfg)
	require.Len(t, e.premiumKeys, 1)

	r := e.Price(10, "hoodies", "")
	assert.Equal(t, "Hoodies", r.PremiumCategory)
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{MinProfitMargin: 5, MaxProfitMargin: 2, FloorCost: 20, USDToEURRate: 0.85})
	assert.True(t, apperrors.Is(err, apperrors.ConfigurationError))
}

func TestConvertUSDToEUR(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig())
	assert.Equal(t, 24.64, e.ConvertUSDToEUR(28.99))
	assert.Equal(t, 0.0, e.ConvertUSDToEUR(0))
}
