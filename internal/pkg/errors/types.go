package errors

import "strconv"

// ErrorType 에러의 종류를 나타내는 타입입니다.
type ErrorType int

const (
	// Unknown 분류할 수 없는 에러
	Unknown ErrorType = iota

	// Internal 내부 로직 오류 (버그 등)
	Internal

	// System 시스템 또는 인프라 오류 (디스크, 네트워크 등)
	System

	// InvalidInput 잘못된 입력값
	InvalidInput

	// NotFound 리소스를 찾을 수 없음
	NotFound

	// Conflict 리소스 충돌
	Conflict

	// Timeout 작업 시간 초과
	Timeout

	// Unavailable 일시적으로 사용할 수 없음 (재시도 가능)
	Unavailable

	// ParsingFailed 응답 데이터 파싱 실패
	ParsingFailed

	// SupplierUnavailable 공급사 API가 비정상 응답을 반환했거나 연결할 수 없음
	SupplierUnavailable

	// DownloadFailed 이미지 다운로드 또는 로컬 기록 실패
	DownloadFailed

	// PersistenceFailure 카탈로그 저장소 쓰기 실패
	PersistenceFailure

	// ConfigurationError 자격 증명 누락 또는 잘못된 설정 (실행 전체 중단)
	ConfigurationError
)

var errorTypeNames = [...]string{
	Unknown:             "Unknown",
	Internal:            "Internal",
	System:              "System",
	InvalidInput:        "InvalidInput",
	NotFound:            "NotFound",
	Conflict:            "Conflict",
	Timeout:             "Timeout",
	Unavailable:         "Unavailable",
	ParsingFailed:       "ParsingFailed",
	SupplierUnavailable: "SupplierUnavailable",
	DownloadFailed:      "DownloadFailed",
	PersistenceFailure:  "PersistenceFailure",
	ConfigurationError:  "ConfigurationError",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return "ErrorType(" + strconv.Itoa(int(t)) + ")"
	}
	return errorTypeNames[t]
}

// IsFatal 실행 전체를 중단해야 하는 에러 타입인지 여부를 반환합니다.
func (t ErrorType) IsFatal() bool {
	return t == ConfigurationError
}
