package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/gitstatus/config"
)

func main() {
	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	// Write the embedded schema next to the config package source.
	outputPath := filepath.Join("config", "gitstatus.embedded.schema.json")
	if err := os.WriteFile(outputPath, schemaBytes, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated config schema at %s", outputPath)
}
