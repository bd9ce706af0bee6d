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

const (
	workLogTable  = "work_logs"
	workLogFields = "id, operator_id, sheet_id, phase_id, stage, start_time, end_time, " +
		"quantity_done, total_quantity, find_material_time_sec, setup_time_sec, production_time_sec, created_at"
)

type dbWorkLog struct {
	ID                  uint64
	OperatorID          uint64
	SheetID             uint64
	PhaseID             uint64
	Stage               string
	StartTime           time.Time
	EndTime             sql.NullTime
	QuantityDone        int
	TotalQuantity       int
	FindMaterialTimeSec int64
	SetupTimeSec        int64
	ProductionTimeSec   int64
	CreatedAt           time.Time
}

func (db *dbWorkLog) ToEntity() entities.WorkLog {
	return entities.WorkLog{
		ID:                  db.ID,
		OperatorID:          db.OperatorID,
		SheetID:             db.SheetID,
		PhaseID:             db.PhaseID,
		Stage:               entities.Stage(db.Stage),
		StartTime:           db.StartTime,
		EndTime:             utils.NullTimeToPtr(db.EndTime),
		QuantityDone:        db.QuantityDone,
		TotalQuantity:       db.TotalQuantity,
		FindMaterialTimeSec: db.FindMaterialTimeSec,
		SetupTimeSec:        db.SetupTimeSec,
		ProductionTimeSec:   db.ProductionTimeSec,
		CreatedAt:           db.CreatedAt,
	}
}

func scanWorkLog(row pgx.Row) (*entities.WorkLog, error) {
	var db dbWorkLog
	err := row.Scan(&db.ID, &db.OperatorID, &db.SheetID, &db.PhaseID, &db.Stage,
		&db.StartTime, &db.EndTime, &db.QuantityDone, &db.TotalQuantity,
		&db.FindMaterialTimeSec, &db.SetupTimeSec, &db.ProductionTimeSec, &db.CreatedAt)
	if err != nil {
		return nil, err
	}
	log := db.ToEntity()
	return &log, nil
}

type WorkLogRepositoryInterface interface {
	FindOpenByOperator(ctx context.Context, operatorID uint64) (*entities.WorkLog, error)
	Insert(ctx context.Context, log *entities.WorkLog) (uint64, error)
	Close(ctx context.Context, id uint64, endTime time.Time, quantityDone int, findSec, setupSec, prodSec int64) (*entities.WorkLog, error)
	SumPendingStageSeconds(ctx context.Context, operatorID, sheetID, phaseID uint64) (findSec, setupSec int64, err error)
	ListBySheet(ctx context.Context, sheetID uint64) ([]entities.WorkLog, error)
}

type workLogRepository struct{ storage *pgxpool.Pool }

func NewWorkLogRepository(storage *pgxpool.Pool) WorkLogRepositoryInterface {
	return &workLogRepository{storage: storage}
}

// FindOpenByOperator возвращает (nil, nil), если открытой записи нет.
func (r *workLogRepository) FindOpenByOperator(ctx context.Context, operatorID uint64) (*entities.WorkLog, error) {
	log, err := scanWorkLog(r.storage.QueryRow(ctx,
		"SELECT "+workLogFields+" FROM "+workLogTable+" WHERE operator_id = $1 AND end_time IS NULL",
		operatorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

// Insert создает открытую запись. Эксклюзивность одной открытой записи на
// оператора (работа ИЛИ простой) проверяется здесь же, в транзакции, плюс
// страхуется частичным уникальным индексом — вторая вставка упрется в 23505.
func (r *workLogRepository) Insert(ctx context.Context, log *entities.WorkLog) (uint64, error) {
	var newID uint64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		if err := lockNoOpenRecords(ctx, tx, log.OperatorID); err != nil {
			return err
		}

		return tx.QueryRow(ctx, `
			INSERT INTO work_logs (operator_id, sheet_id, phase_id, stage, start_time,
			                       total_quantity, find_material_time_sec, setup_time_sec)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			log.OperatorID, log.SheetID, log.PhaseID, string(log.Stage), log.StartTime,
			log.TotalQuantity, log.FindMaterialTimeSec, log.SetupTimeSec,
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

// Close закрывает запись ровно один раз: условие end_time IS NULL гарантирует,
// что повторное завершение не перезапишет количество.
func (r *workLogRepository) Close(ctx context.Context, id uint64, endTime time.Time, quantityDone int, findSec, setupSec, prodSec int64) (*entities.WorkLog, error) {
	log, err := scanWorkLog(r.storage.QueryRow(ctx, `
		UPDATE work_logs
		SET end_time = $2, quantity_done = $3,
		    find_material_time_sec = find_material_time_sec + $4,
		    setup_time_sec = setup_time_sec + $5,
		    production_time_sec = $6
		WHERE id = $1 AND end_time IS NULL
		RETURNING `+workLogFields,
		id, endTime, quantityDone, findSec, setupSec, prodSec))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return log, nil
}

// SumPendingStageSeconds — накопленные секунды поиска/наладки по фазе листа
// с момента последнего закрытого production этого оператора. Они
// прикрепляются к следующей production-записи как метаданные.
func (r *workLogRepository) SumPendingStageSeconds(ctx context.Context, operatorID, sheetID, phaseID uint64) (int64, int64, error) {
	var findSec, setupSec int64
	err := r.storage.QueryRow(ctx, `
		SELECT COALESCE(SUM(find_material_time_sec), 0), COALESCE(SUM(setup_time_sec), 0)
		FROM work_logs
		WHERE operator_id = $1 AND sheet_id = $2 AND phase_id = $3
		  AND stage IN ('find', 'setup') AND end_time IS NOT NULL
		  AND start_time > COALESCE(
			(SELECT MAX(end_time) FROM work_logs
			 WHERE operator_id = $1 AND sheet_id = $2 AND phase_id = $3
			   AND stage = 'production' AND end_time IS NOT NULL),
			'epoch'::timestamptz)`,
		operatorID, sheetID, phaseID).Scan(&findSec, &setupSec)
	if err != nil {
		return 0, 0, err
	}
	return findSec, setupSec, nil
}

func (r *workLogRepository) ListBySheet(ctx context.Context, sheetID uint64) ([]entities.WorkLog, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT "+workLogFields+" FROM "+workLogTable+" WHERE sheet_id = $1 ORDER BY start_time",
		sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]entities.WorkLog, 0)
	for rows.Next() {
		var db dbWorkLog
		if err := rows.Scan(&db.ID, &db.OperatorID, &db.SheetID, &db.PhaseID, &db.Stage,
			&db.StartTime, &db.EndTime, &db.QuantityDone, &db.TotalQuantity,
			&db.FindMaterialTimeSec, &db.SetupTimeSec, &db.ProductionTimeSec, &db.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, db.ToEntity())
	}
	return logs, rows.Err()
}
