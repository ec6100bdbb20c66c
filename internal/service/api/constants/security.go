package constants

// HeaderAppKey 관리 API 인증에 사용되는 HTTP 헤더 키입니다.
const HeaderAppKey = "X-App-Key"

// SensitiveQueryParams 로그 기록 시 마스킹 처리해야 할 쿼리 파라미터 목록입니다.
var SensitiveQueryParams = []string{
	"app_key",
	"api_key",
	"password",
	"token",
	"secret",
}
