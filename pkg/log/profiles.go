package log

// callerPathPrefix 호출 위치 출력 시 생략할 모듈 경로입니다.
const callerPathPrefix = "github.com/darkkaiser/catalog-sync"

// NewProductionOptions 운영 환경에 맞춘 로그 설정을 반환합니다.
func NewProductionOptions(appName string) Options {
	return Options{
		Name:   appName,
		Level:  InfoLevel,
		Format: FormatText,

		MaxAge:     30,
		MaxSizeMB:  100,
		MaxBackups: 20,

		EnableCriticalLog: true,
		EnableVerboseLog:  true,
		EnableConsoleLog:  false,

		ReportCaller:     true,
		CallerPathPrefix: callerPathPrefix,
	}
}

// NewDevelopmentOptions 개발 환경에 맞춘 로그 설정을 반환합니다.
// 모든 로그를 하나의 파일과 콘솔로 출력합니다.
func NewDevelopmentOptions(appName string) Options {
	return Options{
		Name:   appName,
		Level:  TraceLevel,
		Format: FormatText,

		MaxAge:     1,
		MaxSizeMB:  50,
		MaxBackups: 5,

		EnableConsoleLog: true,

		ReportCaller:     true,
		CallerPathPrefix: callerPathPrefix,
	}
}
