package repositories

import (
	"context"
	"errors"

	apperrors "production-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// lockNoOpenRecords берет блокировку на открытые записи оператора в обеих
// таблицах и возвращает ErrConflict, если хоть одна нашлась. Вызывается
// только внутри транзакции вставки: FOR UPDATE держит конкурентов до коммита.
func lockNoOpenRecords(ctx context.Context, q querier, operatorID uint64) error {
	for _, table := range []string{"work_logs", "dead_times"} {
		var existingID uint64
		err := q.QueryRow(ctx,
			"SELECT id FROM "+table+" WHERE operator_id = $1 AND end_time IS NULL FOR UPDATE",
			operatorID).Scan(&existingID)
		if err == nil {
			return apperrors.ErrConflict
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return nil
}
