// Package pricing 공급사 원가로부터 판매가와 이익을 계산하는 가격 엔진을 제공합니다.
//
// 엔진은 입출력이 없는 순수 계산이며, 같은 입력과 설정에 대해 항상 같은 결과를 반환합니다.
package pricing

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Result 한 번의 가격 계산 결과입니다.
type Result struct {
	// SupplierCost 계산에 실제 사용한 공급사 원가 (대체 원가가 적용되었을 수 있음)
	SupplierCost float64
	TotalCost    float64
	TargetProfit float64

	PercentagePrice float64
	TargetPrice     float64
	OptimalPrice    float64

	// RetailPrice 최종 판매가 (항상 .99로 끝남)
	RetailPrice float64
	Profit      float64

	EstimatedCost    float64
	EstimatedProfit  float64
	SupplierEarnings float64

	// PremiumCategory 목표 이익을 재정의한 프리미엄 카테고리 키 (없으면 빈 문자열)
	PremiumCategory  string
	FloorCostApplied bool
}

// Engine 가격 엔진입니다. 생성 후에는 상태가 바뀌지 않으므로 여러 고루틴에서 동시에 사용할 수 있습니다.
type Engine struct {
	cfg Config

	// premiumKeys 대소문자를 접은 프리미엄 키 (정렬됨). 먼저 일치하는 키가 우선합니다.
	premiumKeys   []string
	premiumProfit map[string]float64
	premiumNames  map[string]string
}

// NewEngine 설정을 검증한 뒤 새로운 Engine을 생성합니다.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fold := cases.Fold()

	e := &Engine{
		cfg:           cfg,
		premiumProfit: make(map[string]float64, len(cfg.PremiumCategories)),
		premiumNames:  make(map[string]string, len(cfg.PremiumCategories)),
	}
	for key, profit := range cfg.PremiumCategories {
		folded := fold.String(key)
		if _, dup := e.premiumProfit[folded]; dup && e.premiumNames[folded] < key {
			// 대소문자만 다른 중복 키는 사전순으로 앞선 원래 키를 사용합니다.
			continue
		}
		e.premiumProfit[folded] = profit
		e.premiumNames[folded] = key
	}
	for folded := range e.premiumProfit {
		e.premiumKeys = append(e.premiumKeys, folded)
	}
	slices.Sort(e.premiumKeys)

	return e, nil
}

// Config 엔진이 사용하는 가격 정책을 반환합니다.
func (e *Engine) Config() Config {
	return e.cfg
}

// Price 공급사 원가와 카테고리/상품명 힌트로 판매가를 계산합니다.
//
//  1. totalCost = cost + shippingBuffer
//  2. targetProfit = 프리미엄 카테고리 일치 시 재정의 값, 아니면 minProfitMargin
//  3. optimal = min(max(totalCost × (1 + profitPercentage), totalCost + targetProfit), totalCost + maxProfitMargin)
//  4. retail = ceil(optimal) - 0.01, 단 상한을 넘으면 상한 이하의 가장 큰 .99 가격
//     상한 이하의 .99 가격이 목표 이익(상한보다 크면 상한)에 못 미치면 올림 가격을 그대로 사용합니다.
//     이때 이익은 최대 마진을 1 미만만큼 넘을 수 있지만 최소 마진 아래로 내려가지는 않습니다.
func (e *Engine) Price(cost float64, category, productName string) Result {
	r := Result{SupplierEarnings: e.cfg.SupplierEarnings}

	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost <= 0 {
		cost = e.cfg.FloorCost
		r.FloorCostApplied = true
	}
	r.SupplierCost = cost
	r.TotalCost = roundCents(cost + e.cfg.ShippingBuffer)

	r.TargetProfit = e.cfg.MinProfitMargin
	if key, profit, ok := e.matchPremium(category, productName); ok {
		r.PremiumCategory = key
		r.TargetProfit = profit
	}

	ceiling := r.TotalCost + e.cfg.MaxProfitMargin

	r.PercentagePrice = r.TotalCost * (1 + e.cfg.ProfitPercentage)
	r.TargetPrice = r.TotalCost + r.TargetProfit
	r.OptimalPrice = math.Min(math.Max(r.PercentagePrice, r.TargetPrice), ceiling)

	r.RetailPrice = charmCeil(r.OptimalPrice)
	if capped := charmFloor(ceiling); capped < r.RetailPrice && capped >= r.TotalCost+math.Min(r.TargetProfit, e.cfg.MaxProfitMargin)-priceEpsilon {
		r.RetailPrice = capped
	}
	r.Profit = roundCents(r.RetailPrice - r.TotalCost)

	r.EstimatedCost = roundCents(cost * e.cfg.CostRatio)
	r.EstimatedProfit = roundCents(r.RetailPrice - r.EstimatedCost)

	return r
}

// matchPremium 카테고리 또는 상품명에 프리미엄 키가 포함되어 있는지 확인합니다. 대소문자는 구분하지 않습니다.
func (e *Engine) matchPremium(category, productName string) (string, float64, bool) {
	if len(e.premiumKeys) == 0 {
		return "", 0, false
	}

	fold := cases.Fold()
	c := fold.String(category)
	n := fold.String(productName)

	for _, key := range e.premiumKeys {
		if strings.Contains(c, key) || strings.Contains(n, key) {
			return e.premiumNames[key], e.premiumProfit[key], true
		}
	}

	return "", 0, false
}

// priceEpsilon 부동소수점 오차로 정수 경계를 넘지 않도록 하는 허용 오차입니다.
const priceEpsilon = 1e-6

// charmCeil x 이상인 가장 작은 정수에서 0.01을 뺀 가격을 반환합니다.
func charmCeil(x float64) float64 {
	return roundCents(math.Ceil(x-priceEpsilon) - 0.01)
}

// charmFloor x 이하인 가장 큰 .99 가격을 반환합니다.
func charmFloor(x float64) float64 {
	return roundCents(math.Floor(x+0.01+priceEpsilon) - 0.01)
}

func roundCents(x float64) float64 {
	return math.Round(x*100) / 100
}
