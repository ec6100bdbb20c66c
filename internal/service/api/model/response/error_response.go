package response

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 400, 401, 500)
	ResultCode int `json:"result_code" example:"409"`

	// Message 에러 메시지
	Message string `json:"message" example:"이미 전체 동기화가 진행 중입니다"`
}
