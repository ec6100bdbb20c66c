package postgres

import (
	"database/sql"
	"embed"
	"errors"

	apperrors "github.com/darkkaiser/catalog-sync/internal/pkg/errors"
	applog "github.com/darkkaiser/catalog-sync/pkg/log"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Direction 마이그레이션 방향입니다.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Migrate 내장된 스키마 마이그레이션을 적용하고, 적용 후의 스키마 버전을 반환합니다.
//
// 저장소의 연결 풀과 별도로 전용 연결을 열고 작업이 끝나면 닫습니다.
// 이미 최신 상태이면 아무 작업도 하지 않습니다. Down은 모든 마이그레이션을 되돌리므로 버전 0을 반환합니다.
func Migrate(dsn string, dir Direction) (uint, error) {
	if dir != Up && dir != Down {
		return 0, apperrors.New(apperrors.InvalidInput, "지원하지 않는 마이그레이션 방향입니다: "+string(dir))
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.PersistenceFailure, "데이터베이스 연결을 준비할 수 없습니다")
	}
	defer db.Close()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.Internal, "내장 마이그레이션 파일을 읽을 수 없습니다")
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.PersistenceFailure, "마이그레이션 드라이버를 초기화할 수 없습니다")
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.PersistenceFailure, "마이그레이션을 준비할 수 없습니다")
	}
	defer func() { _, _ = m.Close() }()

	if dir == Up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, apperrors.Wrap(err, apperrors.PersistenceFailure, "스키마 마이그레이션이 실패했습니다")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, apperrors.Wrap(err, apperrors.PersistenceFailure, "스키마 버전을 확인할 수 없습니다")
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"direction": dir,
		"version":   version,
		"dirty":     dirty,
	}).Info("스키마 마이그레이션 완료")

	return version, nil
}
