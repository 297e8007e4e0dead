package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"agrostats/internal/dataset"
	"agrostats/internal/validation"
)

// Write encodes ds to w in the given format.
func Write(w io.Writer, format Format, ds dataset.Dataset) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, ds, CSVOptions{BOMPrefix: true})
	case FormatXLSX:
		return WriteXLSX(w, ds)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteFile writes ds to path, creating parent directories. The format
// follows the file extension.
func WriteFile(path string, ds dataset.Dataset, logger *slog.Logger) error {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	logger.Info("Writing export file",
		slog.String("file_path", path),
		slog.String("format", string(format)),
		slog.Int("record_count", ds.Len()))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, format, ds); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return validator.ValidateExportFile(path)
}

// FileName returns the download name for an export of the given years.
func FileName(format Format, years []string) string {
	name := "producao_agricola"
	if len(years) == 1 {
		name += "_" + years[0]
	} else if len(years) > 1 {
		name += "_" + years[0] + "-" + years[len(years)-1]
	}
	return name + format.Extension()
}
