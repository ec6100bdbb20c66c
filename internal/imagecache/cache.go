// Package imagecache 공급사 미리보기 이미지를 로컬 디렉토리에 내려받아 보관하는 캐시를 제공합니다.
//
// 중복 제거는 내용 해시가 아니라 결정적인 파일명으로 이루어집니다. (상품, 변형, 슬롯)이 같으면
// 항상 같은 파일명이 되고, 파일이 이미 있으면 네트워크 요청 없이 기존 경로를 반환합니다.
package imagecache

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/darkkaiser/catalog-sync/internal/fetcher"
	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
)

const component = "imagecache"

// tempFilePattern 내려받는 중인 파일의 이름 패턴입니다. 완료되면 최종 파일명으로 이름을 바꿉니다.
const tempFilePattern = ".download-*.tmp"

// staleTempAge 이 시간보다 오래된 임시 파일은 이전 실행이 비정상 종료하며 남긴 것으로 보고 삭제합니다.
const staleTempAge = time.Hour

// Config 이미지 캐시 설정입니다.
type Config struct {
	// Dir 이미지를 저장할 로컬 디렉토리
	Dir string

	// PublicPrefix 카탈로그 레코드에 기록할 공개 경로 접두사 (예: "/printful-images")
	PublicPrefix string
}

// Cache 파일 시스템 기반 이미지 캐시입니다. 여러 고루틴에서 동시에 사용할 수 있습니다.
type Cache struct {
	dir          string
	publicPrefix string

	fetcher fetcher.Fetcher
}

// New 저장 디렉토리를 준비하고 새로운 Cache를 생성합니다.
func New(cfg Config, f fetcher.Fetcher) (*Cache, error) {
	absDir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, newErrDirectoryAccessFailed(err, cfg.Dir)
	}
	if err := os.MkdirAll(absDir, 0755); err != nil {
		return nil, newErrDirectoryAccessFailed(err, absDir)
	}

	c := &Cache{
		dir:          absDir,
		publicPrefix: "/" + strings.Trim(cfg.PublicPrefix, "/"),
		fetcher:      f,
	}
	c.cleanupStaleTempFiles()

	return c, nil
}

// Dir 이미지가 저장되는 절대 경로를 반환합니다.
func (c *Cache) Dir() string {
	return c.dir
}

// PublicPath 파일명에 대응하는 공개 경로를 반환합니다.
func (c *Cache) PublicPath(filename string) string {
	return path.Join(c.publicPrefix, filename)
}

// EnsureLocal remoteURL의 이미지가 로컬에 있는지 확인하고, 없으면 내려받은 뒤 공개 경로를 반환합니다.
//
// 파일이 이미 있으면 네트워크 요청을 하지 않습니다. 실패 시 DownloadFailed 에러를 반환하며,
// 일부만 기록된 파일은 남기지 않습니다.
func (c *Cache) EnsureLocal(ctx context.Context, remoteURL string, key Key) (string, error) {
	if strings.TrimSpace(remoteURL) == "" {
		return "", apperrors.New(apperrors.DownloadFailed, "이미지 URL이 비어 있습니다")
	}

	filename := Filename(key, remoteURL)
	dst := filepath.Join(c.dir, filename)

	if _, err := os.Stat(dst); err == nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"file": filename,
		}).Trace("이미지 캐시 적중")

		return c.PublicPath(filename), nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", newErrWriteFailed(err, dst)
	}

	start := time.Now()

	size, err := c.download(ctx, remoteURL, dst)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"file":  filename,
			"url":   remoteURL,
			"error": err,
		}).Warn("이미지 다운로드 실패")

		return "", err
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"file":     filename,
		"bytes":    size,
		"duration": time.Since(start).String(),
	}).Debug("이미지 다운로드 완료")

	return c.PublicPath(filename), nil
}

// download 임시 파일에 응답 본문을 스트리밍한 뒤 최종 경로로 이름을 바꿉니다.
func (c *Cache) download(ctx context.Context, remoteURL, dst string) (int64, error) {
	resp, err := fetcher.Get(ctx, c.fetcher, remoteURL, nil)
	if err != nil {
		return 0, newErrDownloadFailed(err, remoteURL)
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(c.dir, tempFilePattern)
	if err != nil {
		return 0, newErrWriteFailed(err, c.dir)
	}
	tmpPath := tmp.Name()

	// 성공적으로 이름이 바뀌면 tmpPath는 더 이상 존재하지 않으므로 삭제 에러는 무시합니다.
	defer func() { _ = os.Remove(tmpPath) }()

	size, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()

	if copyErr != nil {
		return 0, newErrDownloadFailed(copyErr, remoteURL)
	}
	if closeErr != nil {
		return 0, newErrWriteFailed(closeErr, tmpPath)
	}
	if size == 0 {
		return 0, apperrors.New(apperrors.DownloadFailed, "이미지 응답 본문이 비어 있습니다 (URL: "+remoteURL+")")
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, newErrWriteFailed(err, dst)
	}

	return size, nil
}

// cleanupStaleTempFiles 이전 실행에서 남겨진 오래된 임시 파일을 정리합니다.
func (c *Cache) cleanupStaleTempFiles() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"dir":   c.dir,
			"error": err,
		}).Warn("임시 파일 정리 중단: 디렉토리 조회 실패")

		return
	}

	threshold := time.Now().Add(-staleTempAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if matched, _ := filepath.Match(tempFilePattern, entry.Name()); !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(threshold) {
			continue
		}

		fullPath := filepath.Join(c.dir, entry.Name())
		if err := os.Remove(fullPath); err != nil {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":  fullPath,
				"error": err,
			}).Warn("임시 파일 삭제 실패")
		}
	}
}
