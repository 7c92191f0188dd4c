package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/config"
	"github.com/ad/trustsphere/internal/db"
	"github.com/ad/trustsphere/internal/services"
)

func main() {
	cfg, err := config.LoadStorage()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.InitSchema(database); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	queue := db.NewDBQueue(database)
	defer queue.Close()

	modules, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load module catalog: %v", err)
	}

	progressRepo := db.NewProgressRepository(db.NewLocalStorageRepository(queue))
	statsService := services.NewStatisticsService(db.NewUserRepository(queue), progressRepo)

	stats, err := statsService.Calculate()
	if err != nil {
		log.Fatalf("Failed to calculate statistics: %v", err)
	}
	fmt.Println(services.FormatStats(stats, modules))

	users, err := statsService.AllUserProgress()
	if err != nil {
		log.Fatalf("Failed to list user progress: %v", err)
	}
	fmt.Println()
	for _, p := range users {
		fmt.Println(services.FormatUserProgress(p))
	}
}
