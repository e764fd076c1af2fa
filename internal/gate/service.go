// Package gate orchestrates a validation run: resolve the table schema,
// decode the file, run the engine's single pass, write the report
// artifacts, and optionally load the valid records into staging. It is the
// shared business layer behind both the CLI and the dashboard server.
package gate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/DataGate/internal/config"
	"github.com/JonMunkholm/DataGate/internal/engine"
	"github.com/JonMunkholm/DataGate/internal/load"
	"github.com/JonMunkholm/DataGate/internal/logging"
	"github.com/JonMunkholm/DataGate/internal/report"
	"github.com/JonMunkholm/DataGate/internal/schema"
	"github.com/JonMunkholm/DataGate/internal/textenc"
)

// dataExtensions are the file extensions picked up in directory mode.
var dataExtensions = map[string]bool{".dat": true, ".txt": true, ".csv": true}

// Service runs validations against a loaded schema registry.
// Read-only after construction and safe for concurrent use.
type Service struct {
	cfg     *config.Config
	reg     *schema.Registry
	reports *report.Writer
	loader  *load.Loader // nil when no staging database is configured
}

// RunOutcome is the result of validating one file end to end.
type RunOutcome struct {
	RunID      string           `json:"runId"`
	Table      string           `json:"table"`
	File       string           `json:"file"`
	Result     *engine.Result   `json:"result,omitempty"`
	Artifacts  report.Artifacts `json:"artifacts,omitempty"`
	RowsLoaded int64            `json:"rowsLoaded,omitempty"`
	Passed     bool             `json:"passed"`
	Err        error            `json:"-"`
}

// NewService creates the orchestration service. loader may be nil.
func NewService(cfg *config.Config, reg *schema.Registry, loader *load.Loader) *Service {
	return &Service{
		cfg:     cfg,
		reg:     reg,
		reports: report.NewWriter(cfg.Paths.OutputDir, nil),
		loader:  loader,
	}
}

// Registry exposes the loaded schema registry (read-only).
func (s *Service) Registry() *schema.Registry { return s.reg }

// Threshold returns the configured acceptance score.
func (s *Service) Threshold() float64 { return s.cfg.Validation.AcceptThreshold }

// Resolve resolves a table schema for a file, preferring an explicit
// table name over filename detection.
func (s *Service) Resolve(path, tableName string) (*schema.TableSchema, error) {
	if tableName == "" {
		detected, err := schema.DetectTable(s.reg, path)
		if err != nil {
			return nil, err
		}
		tableName = detected
	}
	ts, ok := s.reg.Get(tableName)
	if !ok {
		return nil, fmt.Errorf("table %q not found; available tables: %s",
			tableName, strings.Join(s.reg.Names(), ", "))
	}
	return ts, nil
}

// ValidateFile validates a single file end to end. tableName may be empty,
// in which case it is detected from the filename.
func (s *Service) ValidateFile(ctx context.Context, path, tableName string) (*RunOutcome, error) {
	ts, err := s.Resolve(path, tableName)
	if err != nil {
		return nil, err
	}

	lines, err := textenc.ReadFileLines(path, ts.Format.Encoding)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, ts, path, lines)
}

// ValidateLines validates already-decoded content against an explicit
// table. Used by the dashboard's ad-hoc upload endpoint.
func (s *Service) ValidateLines(ctx context.Context, tableName, fileName string, lines []string) (*RunOutcome, error) {
	ts, err := s.Resolve(fileName, tableName)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, ts, fileName, lines)
}

// run executes the pass, writes reports, and loads valid records when a
// loader is configured.
func (s *Service) run(ctx context.Context, ts *schema.TableSchema, path string, lines []string) (*RunOutcome, error) {
	runID := uuid.NewString()
	logger := logging.WithRun(ctx, runID).With("table", ts.TableName, "file", filepath.Base(path))

	result := engine.Validate(ts, filepath.Base(path), lines)
	logger.Info("validation pass complete",
		"total", result.TotalRecords,
		"valid", result.ValidCount(),
		"rejected", result.RejectedCount(),
		"score", fmt.Sprintf("%.2f", result.DataQualityScore),
	)

	artifacts, err := s.reports.WriteAll(ts, result)
	if err != nil {
		return nil, err
	}

	outcome := &RunOutcome{
		RunID:     runID,
		Table:     ts.TableName,
		File:      filepath.Base(path),
		Result:    result,
		Artifacts: artifacts,
		Passed:    result.DataQualityScore >= s.cfg.Validation.AcceptThreshold,
	}

	if s.loader != nil && result.ValidCount() > 0 {
		copied, err := s.loader.LoadValid(ctx, ts, result)
		if err != nil {
			return nil, fmt.Errorf("load valid records: %w", err)
		}
		outcome.RowsLoaded = copied
		logger.Info("valid records staged", "rows", copied, "staging_table", load.StagingTable(ts))
	}

	return outcome, nil
}

// ValidateDir validates every data file in dir (extensions .dat, .txt,
// .csv) using the configured worker pool. Outcomes come back in file
// order; a per-file fault (undetectable table, unreadable file) is carried
// in that file's outcome and does not stop the batch.
func (s *Service) ValidateDir(ctx context.Context, dir string) ([]*RunOutcome, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !dataExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no data files (*.dat, *.txt, *.csv) found in %s", dir)
	}

	// Resolve schemas up front; detection failures become per-file outcomes.
	outcomes := make([]*RunOutcome, len(paths))
	var jobs []engine.FileJob
	jobIdx := make([]int, 0, len(paths))
	for i, path := range paths {
		ts, err := s.Resolve(path, "")
		if err != nil {
			outcomes[i] = &RunOutcome{File: filepath.Base(path), Err: err}
			continue
		}
		jobs = append(jobs, engine.FileJob{Path: path, Schema: ts})
		jobIdx = append(jobIdx, i)
	}

	batch := engine.ValidateBatch(ctx, jobs, s.cfg.Validation.Workers, textenc.ReadFileLines)

	for k, fo := range batch {
		i := jobIdx[k]
		if fo.Err != nil {
			outcomes[i] = &RunOutcome{File: filepath.Base(fo.Job.Path), Table: fo.Job.Schema.TableName, Err: fo.Err}
			continue
		}

		// Reports and staging run sequentially; the expensive pass already
		// happened in the pool.
		runID := uuid.NewString()
		artifacts, err := s.reports.WriteAll(fo.Job.Schema, fo.Result)
		if err != nil {
			outcomes[i] = &RunOutcome{File: fo.Result.FileName, Table: fo.Result.TableName, Err: err}
			continue
		}
		outcome := &RunOutcome{
			RunID:     runID,
			Table:     fo.Result.TableName,
			File:      fo.Result.FileName,
			Result:    fo.Result,
			Artifacts: artifacts,
			Passed:    fo.Result.DataQualityScore >= s.cfg.Validation.AcceptThreshold,
		}
		if s.loader != nil && fo.Result.ValidCount() > 0 {
			copied, err := s.loader.LoadValid(ctx, fo.Job.Schema, fo.Result)
			if err != nil {
				outcome.Err = fmt.Errorf("load valid records: %w", err)
			} else {
				outcome.RowsLoaded = copied
			}
		}
		outcomes[i] = outcome
	}

	return outcomes, nil
}
