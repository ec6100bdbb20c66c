package runner

import apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"

// ErrAlreadyRunning 다른 동기화 실행이 진행 중일 때 반환됩니다.
var ErrAlreadyRunning = apperrors.New(apperrors.Conflict, "카탈로그 동기화가 이미 실행 중입니다")
