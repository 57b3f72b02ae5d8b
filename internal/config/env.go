package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads a local .env file when present. Deployments that inject the
// environment directly run without one.
func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("Could not load .env file: %v", err)
		return err
	}
	return nil
}
