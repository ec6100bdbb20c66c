package api

import (
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

var (
	// ErrAppKeyNotConfigured 관리 API를 켰지만 app_key가 설정되지 않았을 때 반환하는 에러입니다.
	ErrAppKeyNotConfigured = apperrors.New(apperrors.ConfigurationError, "관리 API의 app_key가 설정되지 않았습니다")

	// ErrInvalidListenPort 수신 포트가 유효 범위를 벗어났을 때 반환하는 에러입니다.
	ErrInvalidListenPort = apperrors.New(apperrors.ConfigurationError, "관리 API의 수신 포트가 올바르지 않습니다 (1-65535)")
)
