package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-system/internal/dto"
	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/types"
	"production-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const sheetSelect = `
	SELECT s.id, s.order_number, s.sheet_number, s.product_id, p.name, s.quantity, s.created_at, s.updated_at
	FROM sheets s
	JOIN products p ON p.id = s.product_id`

type SheetRepositoryInterface interface {
	FindSheetState(ctx context.Context, sheetID uint64) (*entities.SheetState, error)
	FindSheetStateByNumber(ctx context.Context, orderNumber, sheetNumber string) (*entities.SheetState, error)
	CreateSheet(ctx context.Context, payload dto.CreateSheetDTO, template []entities.PhaseDefinition) (uint64, error)
	UpdateSheet(ctx context.Context, sheetID uint64, payload dto.UpdateSheetDTO) error
	ListSheets(ctx context.Context, filter types.Filter) ([]entities.Sheet, uint64, error)
}

type sheetRepository struct {
	storage     *pgxpool.Pool
	workLogRepo WorkLogRepositoryInterface
}

func NewSheetRepository(storage *pgxpool.Pool) SheetRepositoryInterface {
	return &sheetRepository{storage: storage, workLogRepo: NewWorkLogRepository(storage)}
}

func scanSheet(row pgx.Row) (*entities.Sheet, error) {
	var sheet entities.Sheet
	var updatedAt sql.NullTime
	err := row.Scan(&sheet.ID, &sheet.OrderNumber, &sheet.SheetNumber, &sheet.ProductID,
		&sheet.ProductName, &sheet.Quantity, &sheet.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	sheet.UpdatedAt = utils.NullTimeToPtr(updatedAt)
	return &sheet, nil
}

func (r *sheetRepository) loadState(ctx context.Context, sheet *entities.Sheet) (*entities.SheetState, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT sp.phase_id, ph.code, ph.name, sp.sequence_position,
		       sp.setup_time_sec, sp.production_time_per_piece_sec, sp.requires_find
		FROM sheet_phases sp
		JOIN phases ph ON ph.id = sp.phase_id
		WHERE sp.sheet_id = $1
		ORDER BY sp.sequence_position`, sheet.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := &entities.SheetState{Sheet: *sheet}
	for rows.Next() {
		var def entities.PhaseDefinition
		if err := rows.Scan(&def.PhaseID, &def.PhaseCode, &def.PhaseName, &def.SequencePosition,
			&def.SetupTimeSec, &def.ProductionTimePerPieceSec, &def.RequiresFind); err != nil {
			return nil, err
		}
		state.Phases = append(state.Phases, def)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logs, err := r.workLogRepo.ListBySheet(ctx, sheet.ID)
	if err != nil {
		return nil, err
	}
	state.Logs = logs
	return state, nil
}

func (r *sheetRepository) FindSheetState(ctx context.Context, sheetID uint64) (*entities.SheetState, error) {
	sheet, err := scanSheet(r.storage.QueryRow(ctx, sheetSelect+" WHERE s.id = $1", sheetID))
	if err != nil {
		return nil, err
	}
	return r.loadState(ctx, sheet)
}

func (r *sheetRepository) FindSheetStateByNumber(ctx context.Context, orderNumber, sheetNumber string) (*entities.SheetState, error) {
	sheet, err := scanSheet(r.storage.QueryRow(ctx,
		sheetSelect+" WHERE s.order_number = $1 AND s.sheet_number = $2", orderNumber, sheetNumber))
	if err != nil {
		return nil, err
	}
	return r.loadState(ctx, sheet)
}

// CreateSheet вставляет лист и замораживает снимок фаз из шаблона изделия.
// Дальнейшие правки шаблона существующих листов не касаются.
func (r *sheetRepository) CreateSheet(ctx context.Context, payload dto.CreateSheetDTO, template []entities.PhaseDefinition) (uint64, error) {
	var newID uint64
	err := WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO sheets (order_number, sheet_number, product_id, quantity)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			payload.OrderNumber, payload.SheetNumber, payload.ProductID, payload.Quantity,
		).Scan(&newID)
		if err != nil {
			return err
		}

		for _, def := range template {
			_, err := tx.Exec(ctx, `
				INSERT INTO sheet_phases (sheet_id, phase_id, sequence_position,
				                          setup_time_sec, production_time_per_piece_sec, requires_find)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				newID, def.PhaseID, def.SequencePosition,
				def.SetupTimeSec, def.ProductionTimePerPieceSec, def.RequiresFind)
			if err != nil {
				return err
			}
		}
		return nil
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

// UpdateSheet целиком заменяет количество и снимок фаз. Лист с журналами
// работ заблокирован для правок — проверяется в той же транзакции.
func (r *sheetRepository) UpdateSheet(ctx context.Context, sheetID uint64, payload dto.UpdateSheetDTO) error {
	return WithTx(ctx, r.storage, func(tx pgx.Tx) error {
		var sheetExists uint64
		err := tx.QueryRow(ctx, "SELECT id FROM sheets WHERE id = $1 FOR UPDATE", sheetID).Scan(&sheetExists)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return err
		}

		var logCount int
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM work_logs WHERE sheet_id = $1", sheetID).Scan(&logCount); err != nil {
			return err
		}
		if logCount > 0 {
			return apperrors.ErrConflict
		}

		if _, err := tx.Exec(ctx, "UPDATE sheets SET quantity = $2, updated_at = NOW() WHERE id = $1", sheetID, payload.Quantity); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "DELETE FROM sheet_phases WHERE sheet_id = $1", sheetID); err != nil {
			return err
		}
		for _, def := range payload.Phases {
			_, err := tx.Exec(ctx, `
				INSERT INTO sheet_phases (sheet_id, phase_id, sequence_position,
				                          setup_time_sec, production_time_per_piece_sec, requires_find)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				sheetID, def.PhaseID, def.SequencePosition,
				def.SetupTimeSec, def.ProductionTimePerPieceSec, def.RequiresFind)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *sheetRepository) ListSheets(ctx context.Context, filter types.Filter) ([]entities.Sheet, uint64, error) {
	var total uint64
	var args []interface{}
	whereClause := ""

	if filter.Search != "" {
		whereClause = "WHERE s.order_number ILIKE $1 OR s.sheet_number ILIKE $1 OR p.name ILIKE $1"
		args = append(args, "%"+filter.Search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM sheets s JOIN products p ON p.id = s.product_id %s", whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Sheet{}, 0, nil
	}

	queryArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("%s %s ORDER BY s.id DESC LIMIT $%d OFFSET $%d",
		sheetSelect, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sheets := make([]entities.Sheet, 0)
	for rows.Next() {
		var sheet entities.Sheet
		var updatedAt sql.NullTime
		if err := rows.Scan(&sheet.ID, &sheet.OrderNumber, &sheet.SheetNumber, &sheet.ProductID,
			&sheet.ProductName, &sheet.Quantity, &sheet.CreatedAt, &updatedAt); err != nil {
			return nil, 0, err
		}
		sheet.UpdatedAt = utils.NullTimeToPtr(updatedAt)
		sheets = append(sheets, sheet)
	}
	return sheets, total, rows.Err()
}
