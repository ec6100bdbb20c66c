package main

import (
	"fmt"
	"os"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/urfave/cli/v2"
)

// @title Catalog Sync Admin API
// @version 1.0
// @description 공급사(Printful) 카탈로그 동기화를 수동으로 실행하고 실행 상태를 조회하는 관리용 API입니다.
// @description
// @description ## 인증 방법
// @description /api/v1 하위의 모든 엔드포인트는 X-App-Key 헤더가 필요합니다.
// @description 키는 설정 파일(catalog-sync.json)의 api.app_key 또는 CATALOG_SYNC_API__APP_KEY 환경 변수로 지정합니다.

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser

// @BasePath /

// @securityDefinitions.apikey AppKeyAuth
// @in header
// @name X-App-Key

// 빌드 정보 변수 (ldflags로 주입됨)
var (
	Version     = "dev"     // 릴리스 버전
	Commit      = "unknown" // Git 커밋 해시
	BuildDate   = "unknown" // 빌드 날짜
	BuildNumber = "0"       // 빌드 번호
)

const banner = `
   ____        _        _                 ____
  / ___| __ _ | |_ __ _| |  ___   __ _   / ___| _   _ _ __   ___
 | |    / _' || __/ _' | | / _ \ / _' |  \___ \| | | | '_ \ / __|
 | |___| (_| || || (_| | || (_) | (_| |   ___) | |_| | | | | (__
  \____|\__,_| \__\__,_|_| \___/ \__, |  |____/ \__, |_| |_|\___|
                                 |___/          |___/     %s
--------------------------------------------------------------------------------
`

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode 에러 종류에 맞는 프로세스 종료 코드를 반환합니다.
func exitCode(err error) int {
	if coder, ok := err.(cli.ExitCoder); ok {
		return coder.ExitCode()
	}
	if apperrors.Is(err, apperrors.ConfigurationError) {
		return 78 // EX_CONFIG
	}
	return 1
}
