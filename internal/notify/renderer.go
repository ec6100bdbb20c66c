package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/darkkaiser/catalog-sync/internal/reconciler"
	"github.com/darkkaiser/catalog-sync/pkg/strutil"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// defaultMaxErrors 메시지에 나열할 실패 상품의 최대 개수
	defaultMaxErrors = 10

	// errorMessageLimit 실패 사유 한 줄의 최대 글자 수
	errorMessageLimit = 200

	msgTitle         = "<b>【 %s 】</b>"
	msgErrorOccurred = "*** 오류가 발생하였습니다. ***"
)

// Converter 달러 금액을 유로 추정치로 변환합니다. pricing.Engine이 구현합니다.
type Converter interface {
	ConvertUSDToEUR(amount float64) float64
}

// Renderer 동기화 리포트를 운영자용 메시지로 변환합니다.
type Renderer struct {
	printer   *message.Printer
	converter Converter
	maxErrors int
}

// NewRenderer 새로운 Renderer를 생성합니다. converter가 nil이면 유로 추정치를 생략하고,
// maxErrors가 0 이하이면 기본값(10)을 사용합니다.
func NewRenderer(converter Converter, maxErrors int) *Renderer {
	if maxErrors <= 0 {
		maxErrors = defaultMaxErrors
	}

	return &Renderer{
		printer:   message.NewPrinter(language.AmericanEnglish),
		converter: converter,
		maxErrors: maxErrors,
	}
}

// Title 리포트 상태에 맞는 메시지 제목을 반환합니다.
func (r *Renderer) Title(report *reconciler.Report) string {
	switch {
	case report.Failed():
		return "카탈로그 동기화 실패"
	case report.Canceled:
		return "카탈로그 동기화 중단"
	case report.Clean():
		return "카탈로그 동기화 완료"
	default:
		return "카탈로그 동기화 일부 실패"
	}
}

// Render 리포트를 텔레그램 HTML 서식의 메시지로 변환합니다.
// 상품명과 실패 사유 등 외부에서 들어온 문자열은 모두 이스케이프됩니다.
func (r *Renderer) Render(report *reconciler.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, msgTitle, html.EscapeString(r.Title(report)))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "실행 ID: %s\n", html.EscapeString(report.RunID))

	if report.Failed() {
		reason := strutil.Truncate(strutil.NormalizeSpaces(report.Error), errorMessageLimit)
		fmt.Fprintf(&sb, "실패 사유: [%s] %s\n\n", html.EscapeString(report.ErrorType), html.EscapeString(reason))
		sb.WriteString(msgErrorOccurred)
		return sb.String()
	}

	fmt.Fprintf(&sb, "전체 %s건 중 %s건 동기화 (생성 %s, 갱신 %s)\n",
		r.printer.Sprint(report.TotalCount), r.printer.Sprint(report.SyncedCount),
		r.printer.Sprint(report.CreatedCount), r.printer.Sprint(report.UpdatedCount))
	fmt.Fprintf(&sb, "실패 %d건, 건너뜀 %d건, 이미지 실패 %d건\n",
		len(report.Errors), report.SkippedCount, report.ImageFailures)
	fmt.Fprintf(&sb, "소요 시간: %s\n", report.Duration().Round(1e6))

	sb.WriteString("판매가 합계: ")
	sb.WriteString(r.printer.Sprint(currency.Symbol(currency.USD.Amount(report.CatalogValue))))
	if r.converter != nil {
		eur := r.converter.ConvertUSDToEUR(report.CatalogValue)
		sb.WriteString(" (약 ")
		sb.WriteString(r.printer.Sprint(currency.Symbol(currency.EUR.Amount(eur))))
		sb.WriteString(")")
	}
	sb.WriteString("\n")

	if len(report.Errors) > 0 {
		sb.WriteString("\n<b>실패 상품</b>\n")

		for i, e := range report.Errors {
			if i == r.maxErrors {
				fmt.Fprintf(&sb, "... 외 %d건\n", len(report.Errors)-r.maxErrors)
				break
			}

			// 이스케이프된 문자열을 자르면 엔티티가 깨질 수 있으므로 자른 다음 이스케이프합니다.
			reason := strutil.Truncate(strutil.NormalizeSpaces(e.Message), errorMessageLimit)
			fmt.Fprintf(&sb, "• %s [%s] %s: %s\n",
				html.EscapeString(e.ProductRef), e.Step, html.EscapeString(e.Type), html.EscapeString(reason))
		}
	}

	if !report.Clean() {
		sb.WriteString("\n")
		sb.WriteString(msgErrorOccurred)
	}

	return strings.TrimRight(sb.String(), "\n")
}
