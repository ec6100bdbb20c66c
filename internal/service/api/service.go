// Package api 카탈로그 동기화를 수동으로 실행하고 상태를 조회하는 관리용 HTTP API 서비스를 제공합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	_ "github.com/darkkaiser/catalog-sync/docs"
	"github.com/darkkaiser/catalog-sync/internal/pkg/version"
	"github.com/darkkaiser/catalog-sync/internal/service/api/constants"
	"github.com/darkkaiser/catalog-sync/internal/service/api/handler/system"
	v1 "github.com/darkkaiser/catalog-sync/internal/service/api/v1"
	v1handler "github.com/darkkaiser/catalog-sync/internal/service/api/v1/handler"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/labstack/echo/v4"
)

// Config 관리 API 서비스 설정입니다.
type Config struct {
	Debug bool

	ListenPort   int
	AppKey       string
	AllowOrigins []string
}

// SyncRunner 전체 동기화 실행기입니다. *runner.Runner가 구현합니다.
type SyncRunner interface {
	v1handler.SyncRunner
}

// Service 관리 API 서버의 생명주기를 관리하는 서비스입니다.
//
// 서비스는 고루틴으로 실행되며, Start에 전달된 context가 취소되면 Graceful Shutdown 후 종료됩니다.
// 같은 context는 API로 시작한 백그라운드 동기화에도 전달되므로, 종료 시 진행 중인 동기화도 함께 중단됩니다.
type Service struct {
	config Config

	runner SyncRunner
	syncer v1handler.ProductSyncer
	store  system.StoreCounter

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex

	// addr 실제로 수신 중인 주소. 서버가 시작되기 전에는 빈 문자열입니다.
	addr   string
	addrMu sync.RWMutex
}

// NewService Service 인스턴스를 생성합니다. store가 nil이면 헬스체크에서 저장소를 점검하지 않습니다.
func NewService(config Config, r SyncRunner, s v1handler.ProductSyncer, store system.StoreCounter, buildInfo version.Info) *Service {
	if r == nil {
		panic(constants.PanicMsgSyncRunnerRequired)
	}
	if s == nil {
		panic(constants.PanicMsgProductSyncerRequired)
	}

	return &Service{
		config: config,

		runner: r,
		syncer: s,
		store:  store,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다.
//
// 설정 검증에 실패하면 에러를 반환하고, 그렇지 않으면 서버를 별도 고루틴에서 실행한 뒤 즉시 반환합니다.
// 서버가 완전히 종료되면 serviceStopWG.Done()이 호출됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarting)

	if s.config.AppKey == "" {
		serviceStopWG.Done()
		return ErrAppKeyNotConfigured
	}
	if s.config.ListenPort < 0 || s.config.ListenPort > 65535 {
		serviceStopWG.Done()
		return ErrInvalidListenPort
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(constants.ComponentService).Warn(constants.LogMsgServiceAlreadyStarted)
		return nil
	}

	s.running = true

	e := s.setupServer(serviceStopCtx)

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	go func() {
		defer serviceStopWG.Done()
		s.waitForShutdown(serviceStopCtx, e, httpServerDone)
	}()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStarted)

	return nil
}

// Addr 서버가 실제로 수신 중인 주소를 반환합니다. 포트 0으로 시작한 경우 할당된 포트를 확인할 때 사용합니다.
func (s *Service) Addr() string {
	s.addrMu.RLock()
	defer s.addrMu.RUnlock()

	return s.addr
}

// setupServer Echo 서버를 생성하고 라우트를 등록합니다.
func (s *Service) setupServer(serviceStopCtx context.Context) *echo.Echo {
	systemHandler := system.NewHandler(s.store, s.runner, s.buildInfo)
	syncHandler := v1handler.NewHandler(serviceStopCtx, s.runner, s.syncer)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.config.Debug,
		AllowOrigins: s.config.AllowOrigins,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, syncHandler, s.config.AppKey)

	return e
}

// startHTTPServer HTTP 서버를 시작합니다. 서버가 종료되면 done 채널을 닫습니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.ListenPort))
	if err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"port":  s.config.ListenPort,
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerFatalError)
		return
	}
	e.Listener = listener

	s.addrMu.Lock()
	s.addr = listener.Addr().String()
	s.addrMu.Unlock()

	applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
		"addr": listener.Addr().String(),
	}).Info(constants.LogMsgServiceHTTPServerStarting)

	if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"port":  s.config.ListenPort,
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerFatalError)
		return
	}

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceHTTPServerStopped)
}

// waitForShutdown 종료 신호를 기다렸다가 서버를 정리합니다.
//
// HTTP 서버가 먼저 비정상 종료된 경우(포트 충돌 등)에도 종료 신호를 기다려 서비스 상태를 일관되게 유지합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	<-serviceStopCtx.Done()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopping)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		applog.WithComponentAndFields(constants.ComponentService, applog.Fields{
			"error": err,
		}).Error(constants.LogMsgServiceHTTPServerShutdownError)
	}

	<-httpServerDone

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(constants.ComponentService).Info(constants.LogMsgServiceStopped)
}
