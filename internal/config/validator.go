package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	"github.com/darkkaiser/catalog-sync/pkg/cronx"
	"github.com/darkkaiser/catalog-sync/pkg/validation"
	"github.com/go-playground/validator/v10"
)

// 텔레그램 봇 토큰 형식 (예: 123456:ABC-DEF1234ghIkl-zyx57W2v1u123ew11)
var telegramBotTokenRegex = regexp.MustCompile(`^\d{3,20}:[a-zA-Z0-9_-]{30,50}$`)

var validate = newValidator()

// newValidator 커스텀 규칙이 등록된 Validator 인스턴스를 생성합니다.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 에러 메시지에 Go 필드명 대신 JSON 이름(예: api_key)을 사용합니다.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("cron_spec", func(fl validator.FieldLevel) bool {
		return cronx.Validate(fl.Field().String()) == nil
	}); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'cron_spec' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}
	if err := v.RegisterValidation("cors_origin", func(fl validator.FieldLevel) bool {
		return validation.ValidateOrigin(fl.Field().String()) == nil
	}); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'cors_origin' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}
	if err := v.RegisterValidation("telegram_bot_token", func(fl validator.FieldLevel) bool {
		return telegramBotTokenRegex.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("초기화 치명적 오류: 'telegram_bot_token' 커스텀 유효성 검사 함수 등록에 실패했습니다: %v", err))
	}

	return v
}

// validate 모든 설정 항목을 검증합니다. 실패는 항상 ConfigurationError로 보고됩니다.
func (c *AppConfig) validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperrors.Wrap(err, apperrors.ConfigurationError, "설정 유효성 검증 중 알 수 없는 오류가 발생했습니다")
	}

	// 첫 번째 에러만 상세히 보고합니다.
	fieldErr := validationErrors[0]
	field := strings.TrimPrefix(fieldErr.Namespace(), "AppConfig.")

	switch fieldErr.StructNamespace() {
	case "AppConfig.Supplier.APIKey":
		return apperrors.New(apperrors.ConfigurationError, "공급사 API 키(supplier.api_key)가 설정되지 않았습니다")
	case "AppConfig.Pricing.MaxProfitMargin":
		return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("최대 마진(pricing.max_profit_margin=%v)은 최소 마진(pricing.min_profit_margin=%v)보다 작을 수 없습니다", c.Pricing.MaxProfitMargin, c.Pricing.MinProfitMargin))
	case "AppConfig.Sync.Schedule.TimeSpec":
		return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("동기화 스케줄(sync.schedule.time_spec) 설정이 올바르지 않습니다: '%v' (형식: 초 분 시 일 월 요일)", fieldErr.Value()))
	case "AppConfig.API.AppKey":
		return apperrors.New(apperrors.ConfigurationError, "API 서버 활성화 시 API 키(api.app_key)는 필수입니다")
	}

	if fieldErr.Tag() == "telegram_bot_token" {
		return apperrors.New(apperrors.ConfigurationError, "텔레그램 BotToken 형식이 올바르지 않습니다 (올바른 형식: 123456:ABC-DEF...)")
	}

	return apperrors.New(apperrors.ConfigurationError, fmt.Sprintf("설정 값이 올바르지 않습니다: %s='%v' (조건: %s)", field, fieldErr.Value(), validationRule(fieldErr)))
}

func validationRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
