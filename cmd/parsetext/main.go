package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hiraoka-dev/millsheet-renamer/internal/catalog"
	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
)

// parsetext runs only the field extractors: OCR text in (file or stdin),
// extracted record plus the derived filename out as JSON. Pipe visiontext
// into it to exercise the whole flow without renaming anything.
func main() {
	var (
		catalogPath = flag.String("catalog", "", "maker catalog JSON (optional)")
		original    = flag.String("name", "document.pdf", "original filename, used for the fallback name")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	text, err := readInput(flag.Args())
	if err != nil {
		logger.Error("failed to read input", "error", err)
		os.Exit(1)
	}

	cat := catalog.Default()
	if *catalogPath != "" {
		cat, err = catalog.Load(*catalogPath)
		if err != nil {
			logger.Error("failed to load maker catalog", "path", *catalogPath, "error", err)
			os.Exit(1)
		}
	}

	parser := millsheet.NewParser(millsheet.WithMakers(cat.Makers))
	rec := parser.Parse(text)

	out := struct {
		millsheet.Record
		Fallback bool   `json:"fallback"`
		Filename string `json:"filename"`
	}{
		Record:   rec,
		Fallback: rec.Empty(),
		Filename: millsheet.BuildFilename(rec, *original),
	}

	enc, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(enc))
}

// readInput returns the text to parse: the named file, or stdin when no
// argument (or "-") is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}
