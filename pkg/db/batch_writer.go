package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// WriteFunc is a callback that performs database writes inside a transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = errors.New("batch writer closed")

// BatchWriter buffers write operations and commits them in batches, one
// transaction per batch, on a background committer.
type BatchWriter struct {
	mu     sync.Mutex
	buf    []WriteFunc
	cap    int
	closed bool
	wg     sync.WaitGroup

	commitCh chan []WriteFunc
	db       *sql.DB
	OnError  func(error)

	// errMu guards lastErr, the first error seen by the committer.
	errMu   sync.Mutex
	lastErr error
}

// NewBatchWriter creates a BatchWriter that commits every bufferSize submissions.
func NewBatchWriter(db *sql.DB, bufferSize int) *BatchWriter {
	if bufferSize <= 0 {
		bufferSize = 10
	}
	bw := &BatchWriter{
		buf:      make([]WriteFunc, 0, bufferSize),
		cap:      bufferSize,
		commitCh: make(chan []WriteFunc, 2),
		db:       db,
	}
	bw.wg.Add(1)
	go bw.committer()
	return bw
}

// Submit enqueues a write function. Once the committer has failed, Submit
// returns that error so callers stop producing work.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	if err := bw.Err(); err != nil {
		return err
	}
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	bw.buf = append(bw.buf, w)
	if len(bw.buf) >= bw.cap {
		bw.flushLocked()
	}
	return nil
}

// flushLocked assumes bw.mu is held. A full commit queue blocks the caller.
func (bw *BatchWriter) flushLocked() {
	if len(bw.buf) == 0 {
		return
	}
	batch := bw.buf
	bw.buf = make([]WriteFunc, 0, bw.cap)
	bw.commitCh <- batch
}

func (bw *BatchWriter) committer() {
	defer bw.wg.Done()
	for batch := range bw.commitCh {
		if bw.Err() != nil {
			continue
		}
		if err := bw.executeBatch(batch); err != nil {
			bw.errMu.Lock()
			if bw.lastErr == nil {
				bw.lastErr = err
			}
			bw.errMu.Unlock()
			if bw.OnError != nil {
				bw.OnError(err)
			}
		}
	}
}

func (bw *BatchWriter) executeBatch(batch []WriteFunc) error {
	ctx := context.Background()
	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin batch tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch (%d items): %w", len(batch), err)
	}
	return nil
}

// Err returns the first commit error, if any.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.lastErr
}

// Close flushes what is buffered and waits for pending batches to commit.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	bw.flushLocked()
	bw.mu.Unlock()

	close(bw.commitCh)
	bw.wg.Wait()
	return bw.Err()
}
