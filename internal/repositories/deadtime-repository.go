package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deadTimeSelect = `
	SELECT d.id, d.operator_id, d.code_id, c.code, c.name, d.description,
	       d.product_id, d.sheet_id, s.order_number, s.sheet_number,
	       d.start_time, d.end_time, d.created_at
	FROM dead_times d
	JOIN dead_time_codes c ON c.id = d.code_id
	LEFT JOIN sheets s ON s.id = d.sheet_id`

type DeadTimeRepositoryInterface interface {
	FindOpenByOperator(ctx context.Context, operatorID uint64) (*entities.DeadTime, error)
	Insert(ctx context.Context, dt *entities.DeadTime) (uint64, error)
	Close(ctx context.Context, id uint64, endTime time.Time) (*entities.DeadTime, error)
}

type deadTimeRepository struct{ storage *pgxpool.Pool }

func NewDeadTimeRepository(storage *pgxpool.Pool) DeadTimeRepositoryInterface {
	return &deadTimeRepository{storage: storage}
}

func scanDeadTime(row pgx.Row) (*entities.DeadTime, error) {
	var dt entities.DeadTime
	var productID, sheetID sql.NullInt64
	var orderNumber, sheetNumber sql.NullString
	var endTime sql.NullTime
	err := row.Scan(&dt.ID, &dt.OperatorID, &dt.CodeID, &dt.Code, &dt.CodeName, &dt.Description,
		&productID, &sheetID, &orderNumber, &sheetNumber, &dt.StartTime, &endTime, &dt.CreatedAt)
	if err != nil {
		return nil, err
	}
	dt.ProductID = utils.NullInt64ToUint64Ptr(productID)
	dt.SheetID = utils.NullInt64ToUint64Ptr(sheetID)
	if orderNumber.Valid {
		dt.OrderNumber = utils.StringPtr(orderNumber.String)
	}
	if sheetNumber.Valid {
		dt.SheetNumber = utils.StringPtr(sheetNumber.String)
	}
	dt.EndTime = utils.NullTimeToPtr(endTime)
	return &dt, nil
}

func (r *deadTimeRepository) FindOpenByOperator(ctx context.Context, operatorID uint64) (*entities.DeadTime, error) {
	dt, err := scanDeadTime(r.storage.QueryRow(ctx,
		deadTimeSelect+" WHERE d.operator_id = $1 AND d.end_time IS NULL", operatorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return dt, nil
}

// Insert — та же дисциплина, что у work_logs: одна открытая запись на
// оператора суммарно по обеим таблицам, проверка в транзакции + индекс.
func (r *deadTimeRepository) Insert(ctx context.Context, dt *entities.DeadTime) (uint64, error) {
	var newID uint64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		if err := lockNoOpenRecords(ctx, tx, dt.OperatorID); err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO dead_times (operator_id, code_id, description, product_id, sheet_id, start_time)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			dt.OperatorID, dt.CodeID, dt.Description, dt.ProductID, dt.SheetID, dt.StartTime,
		).Scan(&newID)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *deadTimeRepository) Close(ctx context.Context, id uint64, endTime time.Time) (*entities.DeadTime, error) {
	var closedID uint64
	err := r.storage.QueryRow(ctx,
		"UPDATE dead_times SET end_time = $2 WHERE id = $1 AND end_time IS NULL RETURNING id",
		id, endTime).Scan(&closedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}

	return scanDeadTime(r.storage.QueryRow(ctx, deadTimeSelect+" WHERE d.id = $1", closedID))
}
