package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/darkkaiser/catalog-sync/internal/catalog/postgres"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/service"
	"github.com/darkkaiser/catalog-sync/internal/service/api"
	"github.com/darkkaiser/catalog-sync/internal/service/runner"
	"github.com/darkkaiser/catalog-sync/internal/service/scheduler"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/urfave/cli/v2"
)

// exitCodeSyncIncomplete 동기화가 끝났지만 실패한 상품이 있거나 중단된 경우의 종료 코드
const exitCodeSyncIncomplete = 2

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "정기 동기화 스케줄러와 관리자 API 서버를 실행합니다",
		Action: serve,
	}
}

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "전체 카탈로그 동기화를 한 번 실행하고 리포트를 출력합니다",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "리포트를 JSON으로 출력"},
		},
		Action: syncAll,
	}
}

func syncOneCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync-one",
		Usage:     "공급사 상품 하나를 동기화하고 저장된 카탈로그 레코드를 출력합니다",
		ArgsUsage: "<supplier-product-id>",
		Action:    syncOne,
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "카탈로그 저장소 스키마 마이그레이션을 적용하거나 되돌립니다",
		ArgsUsage: "[up|down]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "데이터베이스 DSN (지정하면 설정 파일을 읽지 않습니다)",
			},
		},
		Action: migrate,
	}
}

// serve 백그라운드 서비스들을 시작하고 종료 시그널을 기다립니다.
func serve(c *cli.Context) error {
	env, err := loadEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	appConfig := env.config
	if !appConfig.Sync.Schedule.Enabled && !appConfig.API.Enabled {
		return apperrors.New(apperrors.ConfigurationError, "스케줄러와 API 서버가 모두 비활성화되어 있어 실행할 서비스가 없습니다")
	}

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Fprintf(c.App.Writer, banner, Version)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(c.Context)
	defer cancel()
	serviceStopWG := &sync.WaitGroup{}

	comps, err := buildComponents(serviceStopCtx, appConfig, userAgent())
	if err != nil {
		return err
	}
	defer comps.Close()

	var services []service.Service
	if appConfig.Sync.Schedule.Enabled {
		services = append(services, scheduler.NewService(appConfig.Sync.Schedule.TimeSpec, comps.runner))
	}
	if appConfig.API.Enabled {
		services = append(services, api.NewService(api.Config{
			Debug:        appConfig.Debug,
			ListenPort:   appConfig.API.ListenPort,
			AppKey:       appConfig.API.AppKey,
			AllowOrigins: appConfig.API.AllowOrigins,
		}, comps.runner, comps.reconciler, comps.store, env.buildInfo))
	}

	// 서비스를 시작한다.
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()
			comps.runner.Wait()

			return err
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(termC)

	applog.WithComponent(component).Info("서버 가동 완료")

	select {
	case <-termC:
		applog.WithComponent(component).Info("Shutdown signal received")
	case <-c.Context.Done():
	}

	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done

	// API로 시작된 동기화가 진행 중이면 취소된 상태로 리포트를 남길 때까지 기다린다.
	comps.runner.Wait()

	applog.WithComponent(component).Info("서버 종료 완료")

	return nil
}

// syncAll 전체 동기화를 한 번 실행합니다. 실패한 상품이 있으면 종료 코드 2로 끝납니다.
func syncAll(c *cli.Context) error {
	env, err := loadEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := buildComponents(ctx, env.config, userAgent())
	if err != nil {
		return err
	}
	defer comps.Close()

	report, err := comps.runner.Run(ctx, runner.TriggerCLI)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		if err := writeJSON(c, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(c.App.Writer, report.String())
	}

	if !report.Clean() {
		return cli.Exit(fmt.Sprintf("동기화가 완전히 끝나지 않았습니다 (실패 %d건, 건너뜀 %d건)", len(report.Errors), report.SkippedCount), exitCodeSyncIncomplete)
	}

	return nil
}

// syncOne 공급사 상품 하나를 동기화합니다.
func syncOne(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("공급사 상품 ID 하나를 지정해야 합니다", 1)
	}
	supplierID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || supplierID <= 0 {
		return cli.Exit(fmt.Sprintf("공급사 상품 ID가 올바르지 않습니다: '%s'", c.Args().First()), 1)
	}

	env, err := loadEnvironment(c)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps, err := buildComponents(ctx, env.config, userAgent())
	if err != nil {
		return err
	}
	defer comps.Close()

	product, err := comps.reconciler.SyncOne(ctx, supplierID)
	if err != nil {
		return err
	}

	return writeJSON(c, product)
}

// migrate 내장된 스키마 마이그레이션을 실행합니다.
func migrate(c *cli.Context) error {
	direction := postgres.Up
	if c.NArg() > 0 {
		direction = postgres.Direction(c.Args().First())
	}
	if direction != postgres.Up && direction != postgres.Down {
		return cli.Exit(fmt.Sprintf("마이그레이션 방향은 up 또는 down이어야 합니다: '%s'", direction), 1)
	}

	dsn := c.String("dsn")
	if dsn == "" {
		env, err := loadEnvironment(c)
		if err != nil {
			return err
		}
		defer env.Close()

		dsn = env.config.Database.DSN
	} else {
		// 공급사 자격 증명 없이도 마이그레이션할 수 있도록 설정 파일은 읽지 않는다.
		if err := loadDotEnv(c); err != nil {
			return err
		}
		env, err := setupLogging(c, false)
		if err != nil {
			return err
		}
		defer env.Close()
	}

	if dsn == "" {
		return apperrors.New(apperrors.ConfigurationError, "데이터베이스 DSN이 설정되지 않았습니다 (--dsn 또는 database.dsn)")
	}

	schemaVersion, err := postgres.Migrate(dsn, direction)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "migrate %s: schema version %d\n", direction, schemaVersion)

	return nil
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
