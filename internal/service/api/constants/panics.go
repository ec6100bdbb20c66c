package constants

// 시스템 시작/구동 시 발생할 수 있는 크리티컬한 패닉 메시지 상수입니다.
const (
	PanicMsgSyncRunnerRequired    = "SyncRunner는 필수입니다"
	PanicMsgProductSyncerRequired = "ProductSyncer는 필수입니다"
	PanicMsgAppKeyRequired        = "관리 API의 app_key는 필수입니다"

	// PanicMsgRateLimitInvalid %s: 파라미터 이름, %d: 현재값
	PanicMsgRateLimitInvalid = "RateLimiting: %s는 양수여야 합니다 (현재값: %d)"
)
