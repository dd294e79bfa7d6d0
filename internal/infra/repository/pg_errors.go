package repository

import (
	"errors"

	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Postgresの制約違反コードをrepo層のsentinelに変換する。
// それ以外はそのまま返す（usecase側で500扱い）
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repo.ErrDuplicate
		case pgForeignKeyViolation:
			return repo.ErrForeignKey
		}
	}
	return err
}
