package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seedProducts заводит демонстрационные изделия с техпроцессами.
// Техпроцесс пересоздается целиком: на уже выданные листы это не влияет,
// их снимок фаз живет в sheet_phases.
func seedProducts(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблиц 'products' и 'product_phases'...")

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, p := range productsData {
		var productID uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO products (name, article) VALUES ($1, $2)
			 ON CONFLICT (article) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			p.Name, p.Article).Scan(&productID)
		if err != nil {
			log.Printf("Ошибка при вставке изделия '%s': %v", p.Article, err)
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM product_phases WHERE product_id = $1`, productID); err != nil {
			return err
		}

		for _, ph := range p.Phases {
			_, err := tx.Exec(ctx, `
				INSERT INTO product_phases
					(product_id, phase_id, sequence_position, setup_time_sec, production_time_per_piece_sec, requires_find)
				SELECT $1, id, $3, $4, $5, $6 FROM phases WHERE code = $2`,
				productID, ph.PhaseCode, ph.SequencePosition,
				ph.SetupTimeSec, ph.ProductionTimePerPieceSec, ph.RequiresFind)
			if err != nil {
				log.Printf("Ошибка при вставке фазы '%s' изделия '%s': %v", ph.PhaseCode, p.Article, err)
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
