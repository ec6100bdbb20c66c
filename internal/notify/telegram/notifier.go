// Package telegram 동기화 리포트를 텔레그램 채팅으로 전달하는 Notifier를 제공합니다.
package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/notify"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/darkkaiser/catalog-sync/pkg/strutil"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const component = "notify.telegram"

const (
	// messageMaxLength 텔레그램 메시지 한 건의 최대 길이(4096)에서 여유를 둔 값
	messageMaxLength = 3900

	defaultTimeout = 10 * time.Second

	// 같은 채팅방에는 초당 1건 정도만 보내는 것이 안전합니다.
	sendInterval = time.Second
)

// sender 텔레그램 봇 API 중 메시지 전송 기능만 추린 인터페이스입니다. *tgbotapi.BotAPI가 구현합니다.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Config 텔레그램 Notifier 설정입니다.
type Config struct {
	BotToken string
	ChatID   int64

	// Timeout 봇 API 호출 타임아웃 (0: 기본값 10초)
	Timeout time.Duration
}

// Notifier 동기화 리포트를 텔레그램으로 전송합니다.
type Notifier struct {
	sender   sender
	chatID   int64
	renderer *notify.Renderer
	limiter  *rate.Limiter
}

var _ notify.Notifier = (*Notifier)(nil)

// New 봇 API 클라이언트를 초기화하여 Notifier를 생성합니다.
// 초기화 과정에서 봇 토큰을 검증하기 위해 텔레그램 API를 한 번 호출합니다.
func New(cfg Config, renderer *notify.Renderer) (*Notifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, apperrors.New(apperrors.ConfigurationError, "텔레그램 봇 토큰과 채팅 ID를 모두 설정해야 합니다")
	}
	if renderer == nil {
		return nil, apperrors.New(apperrors.ConfigurationError, "리포트 렌더러가 설정되지 않았습니다")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"bot_token": applog.MaskSensitiveData(cfg.BotToken),
		"chat_id":   cfg.ChatID,
	}).Debug("텔레그램 봇 API 클라이언트를 초기화합니다")

	// 기본 http.Client는 타임아웃이 없어 장애 시 전송이 무한히 대기할 수 있습니다.
	client := &http.Client{Timeout: timeout}

	botAPI, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ConfigurationError, "텔레그램 봇 API 클라이언트 초기화에 실패했습니다. 봇 토큰이 올바른지 확인해주세요")
	}

	return newNotifier(botAPI, cfg.ChatID, renderer, rate.NewLimiter(rate.Every(sendInterval), 1)), nil
}

func newNotifier(s sender, chatID int64, renderer *notify.Renderer, limiter *rate.Limiter) *Notifier {
	return &Notifier{
		sender:   s,
		chatID:   chatID,
		renderer: renderer,
		limiter:  limiter,
	}
}

// NotifyReport 리포트를 렌더링하여 전송합니다. 긴 메시지는 줄 단위로 나누어 순서대로 보내며,
// 전송에 실패하면 남은 조각은 보내지 않고 에러를 반환합니다.
func (n *Notifier) NotifyReport(ctx context.Context, report *reconciler.Report) error {
	if report == nil {
		return nil
	}

	chunks := splitMessage(n.renderer.Render(report), messageMaxLength)
	for i, chunk := range chunks {
		if err := n.limiter.Wait(ctx); err != nil {
			return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 전송이 취소되었습니다")
		}

		if err := n.send(chunk); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"chat_id": n.chatID,
				"run_id":  report.RunID,
				"chunk":   i + 1,
				"chunks":  len(chunks),
				"error":   err,
			}).Error("텔레그램 메시지 전송 실패")

			return apperrors.Wrap(err, apperrors.Unavailable, "텔레그램 메시지 전송에 실패했습니다")
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"chat_id": n.chatID,
		"run_id":  report.RunID,
		"chunks":  len(chunks),
	}).Debug("동기화 리포트를 텔레그램으로 전송했습니다")

	return nil
}

// send HTML 서식으로 전송하고, 실패하면 서식 없이 한 번 더 시도합니다.
// 메시지 분할로 HTML 태그가 어긋난 경우 텔레그램이 파싱 에러를 반환하기 때문입니다.
func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.sender.Send(msg); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"chat_id": n.chatID,
			"error":   err,
		}).Warn("HTML 서식 전송에 실패하여 일반 텍스트로 다시 전송합니다")

		msg.ParseMode = ""
		if _, err := n.sender.Send(msg); err != nil {
			return err
		}
	}

	return nil
}

// splitMessage 메시지를 줄 단위로 모아 maxLen 바이트 이하의 조각으로 나눕니다.
// 한 줄이 maxLen을 넘으면 UTF-8 문자 경계에서 강제로 자릅니다.
func splitMessage(message string, maxLen int) []string {
	if len(message) <= maxLen {
		return []string{message}
	}

	var chunks []string
	var sb strings.Builder

	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for line := range strings.SplitSeq(message, "\n") {
		needed := len(line)
		if sb.Len() > 0 {
			needed++
		}

		if sb.Len()+needed > maxLen {
			flush()

			for len(line) > maxLen {
				var head string
				head, line = strutil.SafeSplit(line, maxLen)
				chunks = append(chunks, head)
			}
			sb.WriteString(line)
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	flush()

	return chunks
}
