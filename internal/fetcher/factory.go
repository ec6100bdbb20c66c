package fetcher

import "time"

// Config Fetcher 체인 구성 옵션입니다.
type Config struct {
	// Timeout 요청 전송부터 본문 수신까지의 전체 제한 시간 (0: 기본값 30초)
	Timeout time.Duration

	UserAgent string

	// MaxRetries 0이면 RetryFetcher를 체인에 넣지 않습니다.
	MaxRetries    int
	MinRetryDelay time.Duration
	MaxRetryDelay time.Duration

	// MaxBytes 응답 본문 크기 제한 (0: 기본값 10MB, NoLimit: 제한 없음)
	MaxBytes int64

	// DisableStatusCheck true이면 상태 코드 검사를 호출자에게 맡깁니다.
	DisableStatusCheck bool
}

// New 설정에 따라 Logging → Retry → StatusCode → MaxBytes → HTTP 순서의 체인을 조립합니다.
func New(cfg Config) Fetcher {
	var f Fetcher = NewHTTPFetcher(cfg.Timeout, cfg.UserAgent)

	f = NewMaxBytesFetcher(f, cfg.MaxBytes)

	if !cfg.DisableStatusCheck {
		f = NewStatusCodeFetcher(f)
	}

	if cfg.MaxRetries > 0 {
		f = NewRetryFetcher(f, cfg.MaxRetries, cfg.MinRetryDelay, cfg.MaxRetryDelay)
	}

	return NewLoggingFetcher(f)
}
