package main

import (
	"flag"
	"log"

	"production-system/pkg/config"
	"production-system/pkg/database/postgresql"
	"production-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDicts := flag.Bool("dicts", false, "Наполнить справочники (фазы, коды простоев)")
	runDemo := flag.Bool("demo", false, "Наполнить демо-данные (изделия, операторы)")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -dicts -demo)")

	flag.Parse()

	if !*runDicts && !*runDemo && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -dicts")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runDicts || *runAll {
		seeders.SeedDictionaries(db)
	}
	if *runDemo || *runAll {
		seeders.SeedDemo(db)
	}

	log.Println("🏁 Готово.")
}
