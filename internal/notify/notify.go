// Package notify 동기화 실행 결과(Report)를 운영자에게 전달하는 알림 계층입니다.
//
// 리포트는 Renderer가 텔레그램 HTML 서식의 메시지로 변환하며, 실제 전달은
// Notifier 구현체(예: telegram 패키지)가 담당합니다.
package notify

import (
	"context"

	"github.com/darkkaiser/catalog-sync/internal/reconciler"
)

// Notifier 동기화 리포트를 외부 채널로 전달합니다.
type Notifier interface {
	NotifyReport(ctx context.Context, report *reconciler.Report) error
}

// Nop 아무것도 전달하지 않는 Notifier입니다. 알림 채널이 설정되지 않았을 때 사용합니다.
type Nop struct{}

func (Nop) NotifyReport(context.Context, *reconciler.Report) error { return nil }
