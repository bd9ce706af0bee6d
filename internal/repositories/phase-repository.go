package repositories

import (
	"context"
	"errors"

	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	phaseTable  = "phases"
	phaseFields = "id, code, name, created_at"

	deadTimeCodeTable  = "dead_time_codes"
	deadTimeCodeFields = "id, code, name, requirement, created_at"
)

type PhaseRepositoryInterface interface {
	GetPhases(ctx context.Context) ([]entities.Phase, error)
	FindProductWithPhases(ctx context.Context, productID uint64) (*entities.Product, error)
	GetDeadTimeCodes(ctx context.Context) ([]entities.DeadTimeCode, error)
	FindDeadTimeCode(ctx context.Context, code string) (*entities.DeadTimeCode, error)
}

type phaseRepository struct{ storage *pgxpool.Pool }

func NewPhaseRepository(storage *pgxpool.Pool) PhaseRepositoryInterface {
	return &phaseRepository{storage: storage}
}

func (r *phaseRepository) GetPhases(ctx context.Context) ([]entities.Phase, error) {
	rows, err := r.storage.Query(ctx, "SELECT "+phaseFields+" FROM "+phaseTable+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phases := make([]entities.Phase, 0)
	for rows.Next() {
		var p entities.Phase
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *phaseRepository) FindProductWithPhases(ctx context.Context, productID uint64) (*entities.Product, error) {
	var product entities.Product
	err := r.storage.QueryRow(ctx,
		"SELECT id, name, article, created_at FROM products WHERE id = $1", productID,
	).Scan(&product.ID, &product.Name, &product.Article, &product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.storage.Query(ctx, `
		SELECT pp.phase_id, ph.code, ph.name, pp.sequence_position,
		       pp.setup_time_sec, pp.production_time_per_piece_sec, pp.requires_find
		FROM product_phases pp
		JOIN phases ph ON ph.id = pp.phase_id
		WHERE pp.product_id = $1
		ORDER BY pp.sequence_position`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var def entities.PhaseDefinition
		if err := rows.Scan(&def.PhaseID, &def.PhaseCode, &def.PhaseName, &def.SequencePosition,
			&def.SetupTimeSec, &def.ProductionTimePerPieceSec, &def.RequiresFind); err != nil {
			return nil, err
		}
		product.Phases = append(product.Phases, def)
	}
	return &product, rows.Err()
}

func (r *phaseRepository) GetDeadTimeCodes(ctx context.Context) ([]entities.DeadTimeCode, error) {
	rows, err := r.storage.Query(ctx, "SELECT "+deadTimeCodeFields+" FROM "+deadTimeCodeTable+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]entities.DeadTimeCode, 0)
	for rows.Next() {
		var c entities.DeadTimeCode
		var requirement string
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &requirement, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Requirement = entities.RequirementTier(requirement)
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *phaseRepository) FindDeadTimeCode(ctx context.Context, code string) (*entities.DeadTimeCode, error) {
	var c entities.DeadTimeCode
	var requirement string
	err := r.storage.QueryRow(ctx,
		"SELECT "+deadTimeCodeFields+" FROM "+deadTimeCodeTable+" WHERE code = $1", code,
	).Scan(&c.ID, &c.Code, &c.Name, &requirement, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	c.Requirement = entities.RequirementTier(requirement)
	return &c, nil
}
