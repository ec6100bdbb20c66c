package pricing

// ConvertUSDToEUR 설정된 고정 환율로 USD 금액을 EUR로 환산합니다. 운영 보고서의 참고 값으로만 사용합니다.
func (e *Engine) ConvertUSDToEUR(amount float64) float64 {
	return roundCents(amount * e.cfg.USDToEURRate)
}
