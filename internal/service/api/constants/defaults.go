package constants

import "time"

// 서버 설정 기본값 상수입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간
	// 단건 동기화(POST /api/v1/sync/:id)는 공급사 조회와 이미지 다운로드를 포함하므로 넉넉하게 둡니다.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultReadTimeout 요청 본문 읽기 제한
	DefaultReadTimeout = 15 * time.Second

	// DefaultReadHeaderTimeout HTTP 헤더 읽기 최대 대기 시간 (Slowloris 방어)
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout 응답 쓰기 제한. 요청 타임아웃보다 길어야 타임아웃 응답을 보낼 수 있습니다.
	DefaultWriteTimeout = 75 * time.Second

	// DefaultIdleTimeout Keep-Alive 연결 유휴 제한
	DefaultIdleTimeout = 120 * time.Second

	// DefaultShutdownTimeout Graceful Shutdown 시 최대 대기 시간
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultHealthCheckTimeout 헬스체크에서 저장소 응답을 기다리는 최대 시간
	DefaultHealthCheckTimeout = 2 * time.Second

	// DefaultMaxBodySize 요청 본문의 최대 크기. 관리 API는 본문을 거의 받지 않습니다.
	DefaultMaxBodySize = "64K"

	// DefaultRateLimitPerSecond IP별 초당 허용 요청 수
	DefaultRateLimitPerSecond = 10

	// DefaultRateLimitBurst IP별 버스트 허용량
	DefaultRateLimitBurst = 20
)
