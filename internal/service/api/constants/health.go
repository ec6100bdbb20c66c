package constants

// 헬스체크 및 시스템 상태 관련 상수입니다.
const (
	// HealthStatusHealthy 헬스체크 상태: 정상
	HealthStatusHealthy = "healthy"

	// HealthStatusUnhealthy 헬스체크 상태: 비정상
	HealthStatusUnhealthy = "unhealthy"

	// DependencyCatalogStore 외부 의존성 ID: 카탈로그 저장소
	DependencyCatalogStore = "catalog_store"

	// DependencySyncRunner 외부 의존성 ID: 동기화 실행기
	DependencySyncRunner = "sync_runner"

	MsgDepStatusHealthy = "정상 작동 중"
	MsgDepStatusRunning = "동기화 실행 중"
	MsgDepStatusIdle    = "대기 중"
)
