package main

import (
	"log"

	"anoa.com/habitloop/internal/config"
	"anoa.com/habitloop/internal/model"
	"anoa.com/habitloop/internal/server"
	"anoa.com/habitloop/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without populate locking and todo caching")
	}

	srv := server.NewServer(db, redisClient)

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserConfig{},
		&model.Activity{},
		&model.ActivityHistory{},
		&model.WeeklyScheduleEntry{},
		&model.DateScheduleEntry{},
		&model.TodoEntry{},
		&model.Achievement{},
	)
}
