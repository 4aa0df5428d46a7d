package main

import (
	"os"

	"github.com/Freeeeeet/rental_desk/internal/app"
	"github.com/Freeeeeet/rental_desk/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // .env необязателен

	logger := app.MustLogger(os.Getenv("ENV"), "rentalctl")
	defer logger.Sync()

	if err := cli.NewRootCmd(logger).Execute(); err != nil {
		logger.Sync()
		// 2: период занят, 1: любая другая ошибка
		if cli.IsConflict(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
