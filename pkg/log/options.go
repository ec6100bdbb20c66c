package log

import (
	"fmt"
	"os"
)

// Format 로그 파일에 기록할 출력 형식입니다.
type Format string

const (
	// FormatText 사람이 읽기 쉬운 key=value 형식 (기본값)
	FormatText Format = "text"

	// FormatJSON 로그 수집기에 적합한 한 줄 JSON 형식
	FormatJSON Format = "json"
)

// Options 로거 설정을 위한 구조체입니다.
type Options struct {
	Name   string // 로그 파일명 생성에 사용될 애플리케이션 식별자
	Dir    string // 로그 파일이 저장될 디렉토리 경로 (빈 값: "logs")
	Level  Level  // 로그 레벨 (0: Info)
	Format Format // 출력 형식 (빈 값: text)

	MaxAge     int // 오래된 로그 삭제 기준일 (0: 삭제 안 함)
	MaxSizeMB  int // 로그 파일 최대 크기 (0: 기본값 100MB)
	MaxBackups int // 최대 백업 파일 수 (0: 기본값 20개)

	EnableCriticalLog bool // ERROR 이상을 별도 파일로 분리 저장
	EnableVerboseLog  bool // DEBUG 이하를 별도 파일로 분리 저장
	EnableConsoleLog  bool // 표준 출력에도 기록

	ReportCaller     bool   // 호출 위치(함수명:라인) 기록 여부
	CallerPathPrefix string // 호출 위치 출력 시 잘라낼 패키지 경로 접두사
}

// Validate Options의 필드 값이 유효한지 검증합니다.
func (opts *Options) Validate() error {
	if opts.Name == "" {
		return fmt.Errorf("애플리케이션 식별자(Name)가 설정되지 않았습니다")
	}

	if opts.Dir != "" {
		if info, err := os.Stat(opts.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("로그 디렉토리 경로(%s)가 이미 파일로 존재합니다", opts.Dir)
		}
	}

	switch opts.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("지원하지 않는 로그 형식입니다: %q", opts.Format)
	}

	if opts.MaxAge < 0 || opts.MaxSizeMB < 0 || opts.MaxBackups < 0 {
		return fmt.Errorf("로그 로테이션 설정은 0 이상이어야 합니다 (MaxAge=%d, MaxSizeMB=%d, MaxBackups=%d)", opts.MaxAge, opts.MaxSizeMB, opts.MaxBackups)
	}

	return nil
}
