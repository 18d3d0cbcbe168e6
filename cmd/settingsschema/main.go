package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"titan-siege/server/internal/gamemode/settings"
)

func main() {
	var outDir string
	flag.StringVar(&outDir, "out", "", "directory to write one JSON schema per gamemode")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	for _, gamemodeType := range settings.Types() {
		schema, err := settings.Schema(gamemodeType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build %s schema: %v\n", gamemodeType, err)
			os.Exit(1)
		}
		outPath := filepath.Join(outDir, strings.ToLower(gamemodeType.String())+".schema.json")
		if err := writeSchema(outPath, schema); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
			os.Exit(1)
		}
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
