// Package runner 전체 카탈로그 동기화 실행을 한 번에 하나로 제한하고, 실행이 끝나면 리포트를 알립니다.
//
// 스케줄러와 관리자 API가 같은 Runner를 공유하므로, 정기 실행과 수동 실행이 겹치지 않습니다.
package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/notify"
	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/google/uuid"
)

const component = "service.runner"

const defaultReportTimeout = 30 * time.Second

// Trigger 동기화를 실행시킨 주체입니다.
type Trigger string

const (
	TriggerScheduler Trigger = "scheduler"
	TriggerAPI       Trigger = "api"
	TriggerCLI       Trigger = "cli"
)

// Syncer 전체 카탈로그 동기화를 수행합니다. *reconciler.Reconciler가 구현합니다.
type Syncer interface {
	SyncAll(ctx context.Context) (*reconciler.Report, error)
}

// Runner 동기화 실행기입니다. 여러 고루틴에서 동시에 사용할 수 있습니다.
type Runner struct {
	syncer   Syncer
	notifier notify.Notifier

	// reportTimeout 리포트 전송에 허용하는 시간. 동기화가 취소되어도 리포트는 이 시간 안에서 전송을 시도합니다.
	reportTimeout time.Duration

	running atomic.Bool
	wg      sync.WaitGroup

	mu         sync.RWMutex
	lastReport *reconciler.Report
}

// New 새로운 Runner를 생성합니다. notifier가 nil이면 리포트는 로그로만 남습니다.
func New(syncer Syncer, notifier notify.Notifier, reportTimeout time.Duration) *Runner {
	if syncer == nil {
		panic("Syncer는 필수입니다")
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if reportTimeout <= 0 {
		reportTimeout = defaultReportTimeout
	}

	return &Runner{
		syncer:        syncer,
		notifier:      notifier,
		reportTimeout: reportTimeout,
	}
}

// Run 동기화를 실행하고 끝날 때까지 기다립니다. 이미 실행 중이면 ErrAlreadyRunning을 반환합니다.
func (r *Runner) Run(ctx context.Context, trigger Trigger) (*reconciler.Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer r.running.Store(false)

	return r.run(ctx, trigger)
}

// Start 동기화를 백그라운드에서 시작하고 즉시 반환합니다. 이미 실행 중이면 ErrAlreadyRunning을 반환합니다.
// 실행은 ctx가 취소되면 중단되며, Wait로 종료를 기다릴 수 있습니다.
func (r *Runner) Start(ctx context.Context, trigger Trigger) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Store(false)

		_, _ = r.run(ctx, trigger)
	}()

	return nil
}

// Wait Start로 시작한 실행이 모두 끝날 때까지 기다립니다.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Running 동기화가 진행 중인지 여부를 반환합니다.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// LastReport 가장 최근에 끝난 실행의 리포트를 반환합니다. 실행 전체가 실패했으면 Failed()가 true인 리포트이고,
// 아직 실행된 적이 없으면 nil입니다.
func (r *Runner) LastReport() *reconciler.Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastReport
}

func (r *Runner) run(ctx context.Context, trigger Trigger) (*reconciler.Report, error) {
	logger := applog.WithComponentAndFields(component, applog.Fields{
		"trigger": trigger,
	})

	startedAt := time.Now()
	report, err := r.syncer.SyncAll(ctx)
	if err != nil {
		// 실행 전체가 실패해도 상태 조회와 알림 채널에는 실패 리포트를 남긴다.
		report = reconciler.NewFailedReport(uuid.NewString(), startedAt, time.Now(), err)

		logger.WithFields(applog.Fields{
			"run_id": report.RunID,
			"error":  err,
		}).Error("카탈로그 동기화를 시작하지 못했습니다")
	} else {
		logger.WithFields(applog.Fields{
			"run_id": report.RunID,
			"report": report.String(),
		}).Info("카탈로그 동기화 실행 종료")
	}

	r.mu.Lock()
	r.lastReport = report
	r.mu.Unlock()

	// 종료 신호로 동기화가 취소된 경우에도 리포트는 전달합니다.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.reportTimeout)
	defer cancel()

	if notifyErr := r.notifier.NotifyReport(notifyCtx, report); notifyErr != nil {
		logger.WithFields(applog.Fields{
			"run_id": report.RunID,
			"error":  notifyErr,
		}).Warn("동기화 리포트 전송 실패")
	}

	if err != nil {
		return nil, err
	}
	return report, nil
}
