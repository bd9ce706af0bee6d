package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"production-system/internal/entities"
)

type ReportRepositoryInterface interface {
	GetWorkLogReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
}

type reportRepository struct{ storage *pgxpool.Pool }

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{storage: storage}
}

func (r *reportRepository) baseQuery(filter entities.ReportFilter) sq.SelectBuilder {
	base := sq.Select().
		From("work_logs w").
		Join("operators op ON op.id = w.operator_id").
		Join("sheets s ON s.id = w.sheet_id").
		Join("phases ph ON ph.id = w.phase_id").
		LeftJoin("products p ON p.id = s.product_id").
		Where(sq.NotEq{"w.end_time": nil})

	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"w.start_time": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.LtOrEq{"w.start_time": *filter.DateTo})
	}
	if len(filter.OperatorIDs) > 0 {
		base = base.Where(sq.Eq{"w.operator_id": filter.OperatorIDs})
	}
	if len(filter.PhaseIDs) > 0 {
		base = base.Where(sq.Eq{"w.phase_id": filter.PhaseIDs})
	}
	return base
}

func (r *reportRepository) GetWorkLogReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	countQuery, countArgs, err := r.baseQuery(filter).Columns("COUNT(*)").
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.ReportItem{}, 0, nil
	}

	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * filter.PerPage
	}

	query, args, err := r.baseQuery(filter).Columns(
		"w.id", "op.fio", "s.order_number", "s.sheet_number", "p.name", "ph.name",
		"w.stage", "w.start_time", "w.end_time", "w.quantity_done",
		"w.find_material_time_sec", "w.setup_time_sec", "w.production_time_sec",
	).
		OrderBy("w.start_time DESC").
		Limit(uint64(filter.PerPage)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.ReportItem, 0)
	for rows.Next() {
		var item entities.ReportItem
		if err := rows.Scan(&item.LogID, &item.OperatorFio, &item.OrderNumber, &item.SheetNumber,
			&item.ProductName, &item.PhaseName, &item.Stage, &item.StartTime, &item.EndTime,
			&item.QuantityDone, &item.FindMaterialTimeSec, &item.SetupTimeSec, &item.ProductionTimeSec); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}
