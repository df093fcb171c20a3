package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/vlt-io/shipctl/cmd/shipctl/cli/cmd"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from system environment")
	}
}

func main() {
	cmd.Execute()
}
