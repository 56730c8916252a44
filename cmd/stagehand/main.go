package main

import (
	"github.com/joho/godotenv"

	"github.com/msageha/stagehand/internal/cli"
)

func main() {
	// Optional; the API key can also come from the real environment.
	_ = godotenv.Load()
	cli.Execute()
}
