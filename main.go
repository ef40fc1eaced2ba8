package main

import (
	"github.com/joho/godotenv"

	"github.com/hstiawan/visit-tracker/cmd"
)

func main() {
	// A local .env can hold VISIT_TRACKER_* overrides during development.
	_ = godotenv.Load()

	cmd.Execute()
}
