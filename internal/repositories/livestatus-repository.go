package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"production-system/pkg/types"
)

type LiveStatusRepositoryInterface interface {
	GetOpenWorkRows(ctx context.Context) ([]types.OpenWorkRow, error)
	GetOpenDeadTimeRows(ctx context.Context) ([]types.OpenDeadTimeRow, error)
	GetLastClosedByOperator(ctx context.Context) (map[uint64]types.LastActivityRow, error)
}

type liveStatusRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewLiveStatusRepository(storage *pgxpool.Pool, logger *zap.Logger) LiveStatusRepositoryInterface {
	return &liveStatusRepository{storage: storage, logger: logger}
}

// GetOpenWorkRows — открытые рабочие стадии со всем, что нужно табло:
// нормативы берем из замороженного снимка фаз листа, не из шаблона изделия.
func (r *liveStatusRepository) GetOpenWorkRows(ctx context.Context) ([]types.OpenWorkRow, error) {
	query, args, err := sq.Select(
		"w.id", "w.operator_id", "op.fio", "w.sheet_id", "s.order_number", "s.sheet_number",
		"w.phase_id", "ph.name", "w.stage", "w.start_time", "w.total_quantity",
		"sp.setup_time_sec", "sp.production_time_per_piece_sec",
	).
		From("work_logs w").
		Join("operators op ON op.id = w.operator_id").
		Join("sheets s ON s.id = w.sheet_id").
		Join("phases ph ON ph.id = w.phase_id").
		Join("sheet_phases sp ON sp.sheet_id = w.sheet_id AND sp.phase_id = w.phase_id").
		Where(sq.Eq{"w.end_time": nil}).
		OrderBy("w.start_time").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.OpenWorkRow, 0)
	for rows.Next() {
		var row types.OpenWorkRow
		if err := rows.Scan(&row.LogID, &row.OperatorID, &row.OperatorFio, &row.SheetID,
			&row.OrderNumber, &row.SheetNumber, &row.PhaseID, &row.PhaseName, &row.Stage,
			&row.StartTime, &row.TotalQuantity, &row.SetupTimeSec, &row.ProductionTimePerPieceSec); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *liveStatusRepository) GetOpenDeadTimeRows(ctx context.Context) ([]types.OpenDeadTimeRow, error) {
	query, args, err := sq.Select(
		"d.id", "d.operator_id", "op.fio", "c.code", "c.name", "d.description", "d.start_time",
	).
		From("dead_times d").
		Join("operators op ON op.id = d.operator_id").
		Join("dead_time_codes c ON c.id = d.code_id").
		Where(sq.Eq{"d.end_time": nil}).
		OrderBy("d.start_time").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]types.OpenDeadTimeRow, 0)
	for rows.Next() {
		var row types.OpenDeadTimeRow
		if err := rows.Scan(&row.DeadTimeID, &row.OperatorID, &row.OperatorFio,
			&row.Code, &row.CodeName, &row.Description, &row.StartTime); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// GetLastClosedByOperator — последняя закрытая активность на оператора,
// работа и простой в одной выборке. Нужна для колонки "простаивает с ...".
func (r *liveStatusRepository) GetLastClosedByOperator(ctx context.Context) (map[uint64]types.LastActivityRow, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT DISTINCT ON (operator_id) operator_id, kind, label, end_time
		FROM (
			SELECT w.operator_id, 'work' AS kind, ph.name AS label, w.end_time
			FROM work_logs w
			JOIN phases ph ON ph.id = w.phase_id
			WHERE w.end_time IS NOT NULL
			UNION ALL
			SELECT d.operator_id, 'deadtime' AS kind, c.name AS label, d.end_time
			FROM dead_times d
			JOIN dead_time_codes c ON c.id = d.code_id
			WHERE d.end_time IS NOT NULL
		) t
		ORDER BY operator_id, end_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint64]types.LastActivityRow)
	for rows.Next() {
		var row types.LastActivityRow
		if err := rows.Scan(&row.OperatorID, &row.Kind, &row.Label, &row.EndTime); err != nil {
			return nil, err
		}
		result[row.OperatorID] = row
	}
	return result, rows.Err()
}
