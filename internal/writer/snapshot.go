package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/payments-engine/internal/model"
)

// DB is the subset of *pgxpool.Pool the writer needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterConfig holds batch settings.
type WriterConfig struct {
	BatchSize int // Default: 1000
}

// WriterMetrics counts writer activity.
type WriterMetrics struct {
	Inserts int64
	Updates int64
	Flushes int64
}

const createSnapshotsTable = `
CREATE TABLE IF NOT EXISTS account_snapshots (
	run_id     UUID        NOT NULL,
	run_name   TEXT        NOT NULL,
	client     INTEGER     NOT NULL,
	available  NUMERIC     NOT NULL,
	held       NUMERIC     NOT NULL,
	total      NUMERIC     NOT NULL,
	locked     BOOLEAN     NOT NULL,
	written_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, client)
)`

const upsertSnapshot = `
INSERT INTO account_snapshots (run_id, run_name, client, available, held, total, locked, written_at)
VALUES ($1::uuid, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8)
ON CONFLICT (run_id, client) DO UPDATE SET
	available = EXCLUDED.available,
	held = EXCLUDED.held,
	total = EXCLUDED.total,
	locked = EXCLUDED.locked,
	written_at = EXCLUDED.written_at
RETURNING (xmax = 0) AS inserted`

// snapshotRow is one account_snapshots row.
type snapshotRow struct {
	Client    int32
	Available string
	Held      string
	Total     string
	Locked    bool
}

// SnapshotWriter batches snapshots of one run into account_snapshots.
type SnapshotWriter struct {
	cfg     WriterConfig
	db      DB
	logger  *slog.Logger
	runID   uuid.UUID
	runName string
	now     func() time.Time

	batch   []snapshotRow
	metrics WriterMetrics
}

// NewSnapshotWriter creates a writer for the run identified by runID.
func NewSnapshotWriter(cfg WriterConfig, db DB, runID uuid.UUID, runName string, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1000
	}
	return &SnapshotWriter{
		cfg:     cfg,
		db:      db,
		logger:  logger.With("run_id", runID.String()),
		runID:   runID,
		runName: runName,
		now:     time.Now,
		batch:   make([]snapshotRow, 0, cfg.BatchSize),
	}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (w *SnapshotWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, createSnapshotsTable); err != nil {
		return fmt.Errorf("create account_snapshots: %w", err)
	}
	return nil
}

// Write queues s, flushing once the batch is full.
func (w *SnapshotWriter) Write(ctx context.Context, s model.Snapshot) error {
	w.batch = append(w.batch, transform(s))
	if len(w.batch) >= w.cfg.BatchSize {
		return w.Flush(ctx)
	}
	return nil
}

// Flush writes every queued row in one pgx batch.
func (w *SnapshotWriter) Flush(ctx context.Context) error {
	if len(w.batch) == 0 {
		return nil
	}

	rows := w.batch
	w.batch = make([]snapshotRow, 0, w.cfg.BatchSize)
	start := time.Now()

	inserted, err := w.batchUpsert(ctx, rows)
	if err != nil {
		return fmt.Errorf("flush %d snapshots: %w", len(rows), err)
	}

	w.metrics.Inserts += int64(inserted)
	w.metrics.Updates += int64(len(rows) - inserted)
	w.metrics.Flushes++

	w.logger.Debug("flushed snapshots",
		"count", len(rows),
		"inserted", inserted,
		"duration", time.Since(start),
	)
	return nil
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() WriterMetrics {
	return w.metrics
}

func (w *SnapshotWriter) batchUpsert(ctx context.Context, rows []snapshotRow) (inserted int, err error) {
	writtenAt := w.now().UTC()
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertSnapshot,
			w.runID.String(), w.runName, r.Client, r.Available, r.Held, r.Total, r.Locked, writtenAt)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		var isInsert bool
		if err := results.QueryRow().Scan(&isInsert); err != nil {
			return 0, err
		}
		if isInsert {
			inserted++
		}
	}
	return inserted, nil
}

// transform converts a snapshot to its row form.
func transform(s model.Snapshot) snapshotRow {
	return snapshotRow{
		Client:    int32(s.Client),
		Available: s.Available.String(),
		Held:      s.Held.String(),
		Total:     s.Total.String(),
		Locked:    s.Locked,
	}
}
