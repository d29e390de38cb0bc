package db

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/japaniel/beehive/pkg/puzzle"
)

// Exporter mirrors an enriched collection into SQLite.
type Exporter struct {
	DB        *sql.DB
	BatchSize int
	Logger    *zap.Logger
	// OnProgress is called after each submitted puzzle with the number submitted and the total.
	OnProgress func(current, total int)
}

// NewExporter creates an Exporter with default batching.
func NewExporter(conn *sql.DB) *Exporter {
	return &Exporter{
		DB:        conn,
		BatchSize: 50,
		Logger:    zap.NewNop(),
	}
}

// Export upserts every puzzle in coll and returns how many were written.
// Exporting the same collection again leaves the mirror unchanged.
func (e *Exporter) Export(ctx context.Context, coll *puzzle.Collection) (int, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bw := NewBatchWriter(e.DB, e.BatchSize)
	var committed int64

	total := len(coll.Puzzles)
	var submitErr error
	for i, p := range coll.Puzzles {
		if err := ctx.Err(); err != nil {
			submitErr = err
			break
		}
		err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			var exec DBExecutor = e.DB
			if tx != nil {
				exec = tx
			}
			if err := UpsertPuzzle(exec, p); err != nil {
				return err
			}
			atomic.AddInt64(&committed, 1)
			return nil
		})
		if err != nil {
			submitErr = err
			break
		}
		if e.OnProgress != nil {
			e.OnProgress(i+1, total)
		}
	}

	closeErr := bw.Close()
	if err := errors.Join(submitErr, closeErr); err != nil {
		logger.Warn("export stopped early", zap.Int64("committed", atomic.LoadInt64(&committed)), zap.Error(err))
		return int(atomic.LoadInt64(&committed)), err
	}
	logger.Info("export complete", zap.Int("puzzles", total))
	return total, nil
}
