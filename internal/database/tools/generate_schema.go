// Command generate_schema regenerates internal/database/schema.go from the
// up migrations. Run from the repository root:
//
//	go run internal/database/tools/generate_schema.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	migrationsDir = "internal/database/migrations/files"
	outputPath    = "internal/database/schema.go"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	var upFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			upFiles = append(upFiles, e.Name())
		}
	}
	sort.Strings(upFiles)

	var schema strings.Builder
	for _, name := range upFiles {
		data, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		schema.WriteString("\n")
		schema.Write(data)
	}

	var out strings.Builder
	out.WriteString("// Code generated by internal/database/tools/generate_schema.go. DO NOT EDIT.\n\n")
	out.WriteString("package database\n\n")
	out.WriteString("// Schema is the complete ledger schema at the latest migration version.\n")
	out.WriteString("// Used by tests and tools to create a database without running migrations.\n")
	out.WriteString("const Schema = `")
	out.WriteString(schema.String())
	out.WriteString("`\n")

	if err := os.WriteFile(outputPath, []byte(out.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	fmt.Printf("wrote %s from %d migration(s)\n", outputPath, len(upFiles))
	return nil
}
