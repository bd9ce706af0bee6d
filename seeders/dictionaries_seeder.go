package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedPhases(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'phases'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range phasesData {
		_, err := tx.Exec(ctx,
			`INSERT INTO phases (code, name) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			p.Code, p.Name)
		if err != nil {
			log.Printf("Ошибка при вставке фазы '%s': %v", p.Name, err)
			return err
		}
	}

	return tx.Commit(ctx)
}

func seedDeadTimeCodes(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'dead_time_codes'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range deadTimeCodesData {
		_, err := tx.Exec(ctx,
			`INSERT INTO dead_time_codes (code, name, requirement) VALUES ($1, $2, $3)
			 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, requirement = EXCLUDED.requirement`,
			c.Code, c.Name, c.Requirement)
		if err != nil {
			log.Printf("Ошибка при вставке кода простоя '%s': %v", c.Code, err)
			return err
		}
	}

	return tx.Commit(ctx)
}
