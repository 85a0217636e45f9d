// Package batch feeds CSV rows of title,date[,year] to an item processor.
package batch

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"plexdate/internal/logging"
	"plexdate/internal/updater"
)

// Processor handles one request. *updater.Processor satisfies it.
type Processor interface {
	Process(ctx context.Context, req updater.Request) updater.Result
}

// Summary tallies a batch run. Processed counts every non-blank row.
type Summary struct {
	Processed int
	Updated   int
	DryRun    int
	Skipped   int
	Failed    int
}

func (s *Summary) record(status updater.Status) {
	switch status {
	case updater.StatusUpdated:
		s.Updated++
	case updater.StatusDryRun:
		s.DryRun++
	case updater.StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Driver runs CSV files through a Processor.
type Driver struct {
	processor Processor
	logger    *slog.Logger
}

// NewDriver constructs a Driver. A nil logger discards output.
func NewDriver(processor Processor, logger *slog.Logger) *Driver {
	return &Driver{
		processor: processor,
		logger:    logging.NewComponentLogger(logger, "batch"),
	}
}

// Run processes the file at path row by row. Opening the file is the only
// fatal failure besides cancellation and read errors; per-row problems are
// logged and counted.
func (d *Driver) Run(ctx context.Context, path string, interactive bool) (Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer file.Close()

	d.logger.Info("processing csv", logging.String("path", path))
	summary, err := d.run(ctx, file, interactive)
	d.logger.Info("batch complete",
		logging.Int("processed", summary.Processed),
		logging.Int("updated", summary.Updated),
		logging.Int("dry_run", summary.DryRun),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, err
}

// maxLineBytes bounds a single CSV line.
const maxLineBytes = 1 << 20

// run parses each line as its own CSV record with strict quoting, so a stray
// quote fails that line only and can never pull later lines into a field.
func (d *Driver) run(ctx context.Context, r io.Reader, interactive bool) (Summary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var summary Summary
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line++

		record, err := parseLine(scanner.Text())
		if errors.Is(err, io.EOF) {
			continue
		}
		if err != nil {
			summary.Processed++
			summary.Failed++
			logging.ErrorWithContext(d.logger, "malformed csv row", "csv_malformed",
				logging.Int(logging.FieldRow, line),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "quote the whole field and double any quotes inside it"),
			)
			continue
		}

		fields := trimFields(record)
		if blank(fields) {
			continue
		}
		summary.Processed++

		req, ok := d.request(fields, line)
		if !ok {
			summary.Failed++
			continue
		}
		req.Interactive = interactive
		result := d.processor.Process(ctx, req)
		summary.record(result.Status)
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("read csv: %w", err)
	}
	return summary, ctx.Err()
}

func parseLine(text string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.Read()
}

func (d *Driver) request(fields []string, line int) (updater.Request, bool) {
	req := updater.Request{Title: field(fields, 0), Date: field(fields, 1)}
	raw := field(fields, 2)
	if raw == "" {
		return req, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		logging.ErrorWithContext(d.logger, "invalid year", "year_invalid",
			logging.Int(logging.FieldRow, line),
			logging.String(logging.FieldTitle, req.Title),
			logging.String(logging.FieldValue, raw),
			logging.String(logging.FieldErrorHint, "year must be a whole number"),
		)
		return req, false
	}
	req.Year = year
	return req, true
}

func trimFields(record []string) []string {
	out := make([]string, len(record))
	for i, f := range record {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func blank(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
