package imagecache

import (
	"fmt"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
)

func newErrDownloadFailed(err error, remoteURL string) error {
	return apperrors.Wrap(err, apperrors.DownloadFailed, fmt.Sprintf("이미지를 내려받지 못했습니다 (URL: %s)", remoteURL))
}

func newErrWriteFailed(err error, path string) error {
	return apperrors.Wrap(err, apperrors.DownloadFailed, fmt.Sprintf("이미지 파일을 기록하지 못했습니다 (경로: %s)", path))
}

func newErrDirectoryAccessFailed(err error, dir string) error {
	return apperrors.Wrap(err, apperrors.ConfigurationError, fmt.Sprintf("이미지 저장 디렉토리에 접근할 수 없습니다 (경로: %s)", dir))
}
