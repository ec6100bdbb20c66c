// Package service 프로세스 생명주기 동안 백그라운드에서 동작하는 서비스(스케줄러, API 서버)의 공통 계약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 시작과 종료 절차를 갖는 백그라운드 서비스입니다.
//
// Start는 즉시 반환해야 하며, 서비스는 serviceStopCtx가 취소되면 정리 작업을 마친 뒤
// serviceStopWG.Done()을 정확히 한 번 호출합니다. Start가 에러를 반환하는 경우에도 마찬가지입니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
