// Package scheduler 설정된 Cron 스케줄에 맞춰 전체 카탈로그 동기화를 실행하는 서비스를 제공합니다.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	"github.com/darkkaiser/catalog-sync/internal/service/runner"
	"github.com/darkkaiser/catalog-sync/pkg/cronx"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/robfig/cron/v3"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// Runner 동기화 실행기입니다. *runner.Runner가 구현합니다.
type Runner interface {
	Run(ctx context.Context, trigger runner.Trigger) (*reconciler.Report, error)
}

// Scheduler TimeSpec에 맞춰 동기화를 실행하는 서비스입니다.
type Scheduler struct {
	timeSpec string

	runner Runner

	cron *cron.Cron

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(timeSpec string, r Runner) *Scheduler {
	return &Scheduler{
		timeSpec: timeSpec,
		runner:   r,
	}
}

// Start Cron 엔진을 초기화하고 동기화 작업을 등록합니다.
//
// 동기화 작업은 serviceStopCtx를 그대로 넘겨받으므로, 종료 신호가 오면 진행 중인 실행은
// 남은 상품을 건너뛰고 빠르게 끝납니다. Stop은 실행 중인 작업이 끝날 때까지 기다립니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("서비스 시작 진입: Scheduler 서비스 초기화 프로세스를 시작합니다")

	if s.runner == nil {
		serviceStopWG.Done()
		return ErrRunnerNotInitialized
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 실행 중입니다 (중복 호출)")
		return nil
	}

	// - StandardParser: 초 단위를 포함한 6필드 형식
	// - Recover: 작업에서 발생한 panic이 스케줄러를 멈추지 않도록 복구
	// - SkipIfStillRunning: 이전 실행이 끝나지 않았으면 이번 실행을 건너뜀
	c := cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	if _, err := c.AddFunc(s.timeSpec, func() { s.runSync(serviceStopCtx) }); err != nil {
		serviceStopWG.Done()

		err = newErrInvalidCronSpec(s.timeSpec, err)
		applog.WithComponentAndFields(component, applog.Fields{
			"time_spec": s.timeSpec,
			"error":     err,
		}).Error("동기화 스케줄 등록에 실패했습니다")

		return err
	}

	s.cron = c
	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, applog.Fields{
		"time_spec": s.timeSpec,
		"next_run":  s.cron.Entries()[0].Next,
	}).Info("서비스 시작 완료: Scheduler 서비스가 정상적으로 초기화되었습니다")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 중지하고 진행 중인 동기화가 끝날 때까지 기다립니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("종료 절차 진입: Scheduler 서비스 중지 시그널을 수신했습니다")

	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 종료 완료: 모든 리소스가 정리되었습니다")
}

func (s *Scheduler) runSync(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if _, err := s.runner.Run(ctx, runner.TriggerScheduler); err != nil {
		fields := applog.Fields{
			"time_spec": s.timeSpec,
			"error":     err,
		}

		if errors.Is(err, runner.ErrAlreadyRunning) {
			applog.WithComponentAndFields(component, fields).Warn("다른 동기화가 진행 중이어서 이번 정기 실행을 건너뜁니다")
			return
		}

		applog.WithComponentAndFields(component, fields).Error("정기 동기화 실행 실패")
	}
}
