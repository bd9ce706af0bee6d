package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDictionaries наполняет справочники без зависимостей: фазы и коды простоев.
func SeedDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedPhases(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения фаз: %v", err)
	}
	if err := seedDeadTimeCodes(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения кодов простоев: %v", err)
	}
	log.Println("✅ Наполнение справочников завершено!")
}

// SeedDemo заводит демо-изделия с техпроцессами и тестовых операторов.
func SeedDemo(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения демо-данных...")

	if err := seedProducts(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения изделий: %v", err)
	}
	if err := seedOperators(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения операторов: %v", err)
	}
	log.Println("✅ Наполнение демо-данных завершено!")
}
