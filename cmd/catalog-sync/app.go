package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"

	"github.com/darkkaiser/catalog-sync/internal/config"
	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const component = "main"

const (
	flagConfig  = "config"
	flagEnvFile = "env-file"
	flagLogDir  = "log-dir"
)

// newApp CLI 애플리케이션을 구성합니다.
func newApp() *cli.App {
	return &cli.App{
		Name:    config.AppName,
		Usage:   "공급사 카탈로그 동기화 및 동적 가격 책정 엔진",
		Version: Version,
		// 종료 코드는 main에서 결정한다.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "설정 파일 경로 (기본값: ./" + config.DefaultFilename + ", 없으면 환경 변수만 사용)",
			},
			&cli.StringFlag{
				Name:  flagEnvFile,
				Value: ".env",
				Usage: "환경 변수 파일 경로 (파일이 없으면 무시)",
			},
			&cli.StringFlag{
				Name:  flagLogDir,
				Usage: "로그 파일 디렉토리 (기본값: ./logs)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			syncCommand(),
			syncOneCommand(),
			migrateCommand(),
		},
	}
}

// environment 명령 실행에 필요한 공통 환경입니다.
type environment struct {
	config    *config.AppConfig
	buildInfo version.Info

	logCloser io.Closer
}

func (env *environment) Close() {
	if env.logCloser != nil {
		_ = env.logCloser.Close()
	}
}

// loadEnvironment 환경 변수 파일, 설정, 로그 시스템을 순서대로 초기화합니다.
func loadEnvironment(c *cli.Context) (*environment, error) {
	if err := loadDotEnv(c); err != nil {
		return nil, err
	}

	// 환경설정 (로그 설정에 필요하므로 로그보다 먼저 수행)
	var (
		appConfig *config.AppConfig
		err       error
	)
	if path := c.String(flagConfig); path != "" {
		appConfig, err = config.LoadWithFile(path)
	} else {
		appConfig, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	env, err := setupLogging(c, appConfig.Debug)
	if err != nil {
		return nil, err
	}
	env.config = appConfig

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent(component).Warn(warning)
	}

	return env, nil
}

// loadDotEnv 환경 변수 파일을 읽습니다. 이미 설정된 환경 변수는 덮어쓰지 않으며, 파일이 없으면 무시합니다.
func loadDotEnv(c *cli.Context) error {
	if err := godotenv.Load(c.String(flagEnvFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("환경 변수 파일(%s) 로드 실패: %w", c.String(flagEnvFile), err)
	}
	return nil
}

// setupLogging 로그 시스템을 초기화하고 빌드 정보를 전역에 등록합니다.
func setupLogging(c *cli.Context, debug bool) (*environment, error) {
	logOpts := applog.NewProductionOptions(config.AppName)
	if debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	}
	if dir := c.String(flagLogDir); dir != "" {
		logOpts.Dir = dir
	}

	logCloser, err := applog.Setup(logOpts)
	if err != nil {
		return nil, fmt.Errorf("로그 시스템 초기화 실패: %w", err)
	}

	// 로그 레벨 최종 확정
	applog.SetDebugMode(debug)

	buildInfo := version.Info{
		Version:     Version,
		Commit:      Commit,
		BuildDate:   BuildDate,
		BuildNumber: BuildNumber,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
	}
	version.Set(buildInfo)

	fields := applog.Fields(buildInfo.ToMap())
	fields["command"] = c.Command.Name
	fields["env"] = map[bool]string{true: "development", false: "production"}[debug]
	applog.WithComponentAndFields(component, fields).Info("초기화 시작")

	return &environment{
		buildInfo: buildInfo,
		logCloser: logCloser,
	}, nil
}
