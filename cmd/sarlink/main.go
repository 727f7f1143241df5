package main

import (
	"log"

	"github.com/joho/godotenv"

	"sarlink/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded; using the environment as is")
	}

	cli.Execute()
}
