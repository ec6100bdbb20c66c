package constants

// 클라이언트에게 반환되는 에러 메시지 상수입니다.
const (
	// 400 Bad Request
	ErrMsgBadRequest        = "잘못된 요청입니다"
	ErrMsgInvalidSupplierID = "공급사 상품 ID는 양의 정수여야 합니다"

	// 401 Unauthorized
	ErrMsgUnauthorized = "app_key가 유효하지 않습니다"

	// 404 Not Found
	ErrMsgNotFound         = "요청한 리소스를 찾을 수 없습니다"
	ErrMsgSupplierNotFound = "공급사에 해당 상품이 없습니다"

	// 409 Conflict
	ErrMsgSyncAlreadyRunning = "이미 전체 동기화가 진행 중입니다"

	// 413 Request Entity Too Large
	ErrMsgRequestEntityTooLarge = "요청 본문이 너무 큽니다"

	// 429 Too Many Requests
	ErrMsgTooManyRequests = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요"

	// 500 Internal Server Error
	ErrMsgInternalServer    = "내부 서버 오류가 발생했습니다"
	ErrMsgPersistenceFailed = "카탈로그 저장소에 기록하지 못했습니다"

	// 502 Bad Gateway
	ErrMsgSupplierUnavailable = "공급사 API를 사용할 수 없습니다"

	// 503 Service Unavailable
	ErrMsgServiceUnavailable = "서비스가 점검 중이거나 종료되었습니다"

	// ErrMsgAuthAppKeyRequired app_key 누락
	ErrMsgAuthAppKeyRequired = "app_key는 필수입니다 (X-App-Key 헤더)"
)
