package repositories

import (
	"context"
	"database/sql"
	"errors"

	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	operatorTable  = "operators"
	operatorFields = "id, fio, login, password_hash, created_at, updated_at"
)

type OperatorRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Operator, error)
	FindByLogin(ctx context.Context, login string) (*entities.Operator, error)
	GetOperators(ctx context.Context) ([]entities.Operator, error)
}

type operatorRepository struct{ storage *pgxpool.Pool }

func NewOperatorRepository(storage *pgxpool.Pool) OperatorRepositoryInterface {
	return &operatorRepository{storage: storage}
}

func scanOperator(row pgx.Row) (*entities.Operator, error) {
	var op entities.Operator
	var updatedAt sql.NullTime
	err := row.Scan(&op.ID, &op.Fio, &op.Login, &op.PasswordHash, &op.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	op.UpdatedAt = utils.NullTimeToPtr(updatedAt)
	return &op, nil
}

func (r *operatorRepository) FindByID(ctx context.Context, id uint64) (*entities.Operator, error) {
	return scanOperator(r.storage.QueryRow(ctx,
		"SELECT "+operatorFields+" FROM "+operatorTable+" WHERE id = $1", id))
}

func (r *operatorRepository) FindByLogin(ctx context.Context, login string) (*entities.Operator, error) {
	return scanOperator(r.storage.QueryRow(ctx,
		"SELECT "+operatorFields+" FROM "+operatorTable+" WHERE login = $1", login))
}

func (r *operatorRepository) GetOperators(ctx context.Context) ([]entities.Operator, error) {
	rows, err := r.storage.Query(ctx, "SELECT "+operatorFields+" FROM "+operatorTable+" ORDER BY fio")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	operators := make([]entities.Operator, 0)
	for rows.Next() {
		var op entities.Operator
		var updatedAt sql.NullTime
		if err := rows.Scan(&op.ID, &op.Fio, &op.Login, &op.PasswordHash, &op.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		op.UpdatedAt = utils.NullTimeToPtr(updatedAt)
		operators = append(operators, op)
	}
	return operators, rows.Err()
}
