// Package chmetrics ships ingestion telemetry to ClickHouse. The recorder is
// optional and nil-safe: with metrics disabled every call is a no-op.
package chmetrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/finpulse/internal/adapters/config"
	"github.com/selivandex/finpulse/pkg/logger"
)

// IngestRun is one telemetry row describing a single ingestion batch
type IngestRun struct {
	Timestamp time.Time
	RunID     string
	Source    string
	Fetched   int
	Saved     int
	Duration  time.Duration
}

// Recorder buffers ingest runs and flushes them in batches
type Recorder struct {
	db          *sqlx.DB
	batchSize   int
	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup

	mu     sync.Mutex
	buffer []IngestRun
}

// NewRecorder connects to ClickHouse and starts the flush loop. Returns nil
// (a valid no-op recorder) when metrics are disabled.
func NewRecorder(cfg *config.MetricsConfig) (*Recorder, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	db, err := sqlx.Connect("clickhouse", cfg.ClickHouseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS ingest_runs (
			ts          DateTime,
			run_id      String,
			source      String,
			fetched     UInt32,
			saved       UInt32,
			duration_ms UInt32
		) ENGINE = MergeTree()
		ORDER BY ts
	`); err != nil {
		return nil, fmt.Errorf("failed to create ingest_runs table: %w", err)
	}

	r := &Recorder{
		db:          db,
		batchSize:   cfg.BatchSize,
		flushTicker: time.NewTicker(cfg.FlushInterval),
		stopCh:      make(chan struct{}),
	}

	r.wg.Add(1)
	go r.autoFlush()

	logger.Info("ingest telemetry recorder initialized",
		zap.Int("batch_size", cfg.BatchSize),
		zap.Duration("flush_interval", cfg.FlushInterval),
	)

	return r, nil
}

// Record buffers one ingest run. Safe on a nil recorder.
func (r *Recorder) Record(run IngestRun) {
	if r == nil {
		return
	}

	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	r.mu.Lock()
	r.buffer = append(r.buffer, run)
	full := len(r.buffer) >= r.batchSize
	r.mu.Unlock()

	if full {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.Flush(ctx); err != nil {
			logger.Error("telemetry flush failed", zap.Error(err))
		}
	}
}

// Flush writes all buffered runs to ClickHouse
func (r *Recorder) Flush(ctx context.Context) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	batch := r.buffer
	r.buffer = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ingest_runs (ts, run_id, source, fetched, saved, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, run := range batch {
		if _, err := stmt.ExecContext(ctx,
			run.Timestamp, run.RunID, run.Source,
			uint32(run.Fetched), uint32(run.Saved), uint32(run.Duration.Milliseconds()),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert ingest run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logger.Debug("flushed ingest telemetry", zap.Int("count", len(batch)))

	return nil
}

// Close stops the flush loop, drains the buffer, and closes the connection
func (r *Recorder) Close() {
	if r == nil {
		return
	}

	close(r.stopCh)
	r.wg.Wait()
	r.flushTicker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Flush(ctx); err != nil {
		logger.Error("final telemetry flush failed", zap.Error(err))
	}

	if err := r.db.Close(); err != nil {
		logger.Warn("failed to close clickhouse connection", zap.Error(err))
	}
}

func (r *Recorder) autoFlush() {
	defer r.wg.Done()

	for {
		select {
		case <-r.flushTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := r.Flush(ctx); err != nil {
				logger.Error("periodic telemetry flush failed", zap.Error(err))
			}
			cancel()
		case <-r.stopCh:
			return
		}
	}
}
