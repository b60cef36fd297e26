// Package main provides the normalizer command-line tool for turning a HIS export into
// canonical records.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hisdash/internal/normalizer"
	"hisdash/internal/source"
)

func main() {
	inputPath := flag.String("input", "", "Path to the HIS CSV export")
	outputPath := flag.String("output", "", "Path to output JSON file")
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		fmt.Println("Usage: normalizer -input <export.csv> -output <records.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	payload, err := source.NewClient().LoadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading export: %v\n", err)
	}

	fmt.Printf("Reading: %s (%d bytes, %d rows)\n", *inputPath, len(payload.Content), len(payload.Table.Rows))

	records, err := normalizer.NewProcessor().Process(payload.Table)
	if err != nil {
		log.Fatalf("Error normalizing export: %v\n", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(*outputPath), 0o755); mkdirErr != nil {
		log.Fatalf("Error creating directory: %v\n", mkdirErr)
	}

	jsonData, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v\n", err)
	}

	if err := os.WriteFile(*outputPath, jsonData, 0o644); err != nil {
		log.Fatalf("Error writing file: %v\n", err)
	}

	fmt.Printf("Saved %d records to: %s\n", len(records), *outputPath)
}
