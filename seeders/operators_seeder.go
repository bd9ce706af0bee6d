package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func seedOperators(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'operators'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, op := range operatorsData {
		hash, err := bcrypt.GenerateFromPassword([]byte(op.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO operators (fio, login, password_hash) VALUES ($1, $2, $3)
			 ON CONFLICT (login) DO NOTHING`,
			op.Fio, op.Login, string(hash))
		if err != nil {
			log.Printf("Ошибка при вставке оператора '%s': %v", op.Login, err)
			return err
		}
	}

	return tx.Commit(ctx)
}
