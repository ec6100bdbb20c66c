// Package middleware 관리 API 서버를 위한 Echo 미들웨어를 제공합니다.
//
// 제공되는 미들웨어:
//
//   - PanicRecovery: 패닉 복구 및 에러 로깅
//   - HTTPLogger: HTTP 요청/응답 로깅 (민감 정보 자동 마스킹)
//   - RateLimiting: IP 기반 요청 속도 제한
//   - RequireAppKey: X-App-Key 헤더 기반 인증
//   - Logger: Echo 로거를 애플리케이션 로거로 연결하는 어댑터
package middleware
