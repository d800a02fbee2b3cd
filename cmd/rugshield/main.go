package main

import (
	"github.com/joho/godotenv"

	"rugshield/internal/cli"
)

func main() {
	// A missing .env is fine; real deployments set environment directly.
	_ = godotenv.Load()
	cli.Execute()
}
