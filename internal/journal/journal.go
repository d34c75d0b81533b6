// ABOUTME: Generic one-entry-per-day journal over a key-value store.
// ABOUTME: Loads once, mutates in memory, and persists full snapshots through an ordered write queue.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/2389-research/breather/internal/kv"
	"github.com/2389-research/breather/internal/models"
)

var (
	// ErrNotInitialized is returned by mutations before Initialize has run.
	ErrNotInitialized = errors.New("journal not initialized")

	// ErrClosed is returned once the journal has been closed.
	ErrClosed = errors.New("journal closed")

	// ErrHistoryUnavailable is recorded as the write error while stored
	// entries could not be read. Writes are held back until a later
	// Initialize reads them, so a transient read failure cannot overwrite
	// the stored history.
	ErrHistoryUnavailable = errors.New("stored history unavailable")
)

// Option configures a Journal.
type Option func(*options)

type options struct {
	logger       hclog.Logger
	now          func() time.Time
	loc          *time.Location
	onWriteError func(error)
	queueSize    int
}

// WithLogger sets the logger used to report load and write failures.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the time zone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithWriteErrorHandler is called from the writer goroutine after each failed
// write. The handler may read the journal but must not call Flush, Close, or
// any mutation: those wait on the writer that is running the handler.
func WithWriteErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onWriteError = fn }
}

// WithQueueSize sets how many snapshots may wait for the writer before mutations block.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// Journal holds one collection of dated entries, newest first, with at most
// one entry per calendar day.
//
// Mutations update memory immediately and hand a full snapshot to a single
// writer goroutine, so durable state trails memory but always converges to it
// in mutation order. A failed write is logged and kept in LastWriteError; it
// never rolls memory back.
//
// Lock order is qmu then mu. qmu serializes mutators so queue order equals
// mutation order; mu is released before a mutator waits on a full queue, so
// reads never wait on storage.
type Journal[T models.Entry] struct {
	store  kv.Store
	key    string
	logger hclog.Logger
	now    func() time.Time
	loc    *time.Location

	qmu     sync.Mutex
	mu      sync.RWMutex
	entries []T
	loaded  bool
	closed  bool
	loadErr error // set while stored entries could not be read
	lastID  int64

	writes       chan writeJob
	writerDone   chan struct{}
	closeOnce    sync.Once
	onWriteError func(error)

	errMu   sync.Mutex
	lastErr error
}

type writeOp int

const (
	opSet writeOp = iota
	opRemove
	opBarrier
	opFail // report err without touching storage
)

type writeJob struct {
	op    writeOp
	value string
	err   error
	done  chan struct{} // closed after a barrier is reached
}

// New creates a journal persisted under key and starts its writer.
func New[T models.Entry](store kv.Store, key string, opts ...Option) *Journal[T] {
	o := options{
		now:       time.Now,
		loc:       time.Local,
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}
	if o.queueSize < 1 {
		o.queueSize = 1
	}

	j := &Journal[T]{
		store:        store,
		key:          key,
		logger:       o.logger.With("key", key),
		now:          o.now,
		loc:          o.loc,
		writes:       make(chan writeJob, o.queueSize),
		writerDone:   make(chan struct{}),
		onWriteError: o.onWriteError,
	}
	go j.writer()
	return j
}

// Key returns the storage key of this journal.
func (j *Journal[T]) Key() string {
	return j.key
}

// Initialize loads the collection. Absent or corrupt data yields an empty
// collection. If the backend cannot be read, the journal starts empty and
// usable but holds back writes (see ErrHistoryUnavailable); calling Initialize
// again retries the read and merges whatever was saved in the meantime. Once a
// read has succeeded, later calls are no-ops.
func (j *Journal[T]) Initialize(ctx context.Context) error {
	j.qmu.Lock()
	defer j.qmu.Unlock()
	j.mu.Lock()

	if j.closed {
		j.mu.Unlock()
		return ErrClosed
	}
	if j.loaded && j.loadErr == nil {
		j.mu.Unlock()
		return nil
	}
	retry := j.loaded
	j.loaded = true

	stored, err := j.read(ctx)
	if err != nil {
		j.loadErr = fmt.Errorf("%w: %v", ErrHistoryUnavailable, err)
		j.mu.Unlock()
		j.logger.Error("failed to load entries, starting empty and holding back writes", "error", err)
		return nil
	}
	j.loadErr = nil

	pending := j.entries
	j.entries = stored
	for i := len(pending) - 1; i >= 0; i-- {
		j.put(pending[i])
	}
	for _, e := range j.entries {
		if id, err := strconv.ParseInt(e.EntryID(), 10, 64); err == nil && id > j.lastID {
			j.lastID = id
		}
	}
	j.logger.Debug("entries loaded", "count", len(stored), "retry", retry)

	if len(pending) == 0 {
		j.mu.Unlock()
		return nil
	}
	job := j.snapshot()
	j.mu.Unlock()
	j.writes <- job
	return nil
}

// read decodes the stored collection. Absent and corrupt values read as
// empty; only a backend failure is returned. Must be called with mu held.
func (j *Journal[T]) read(ctx context.Context) ([]T, error) {
	raw, ok, err := j.store.Get(ctx, j.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		j.logger.Debug("no stored entries")
		return nil, nil
	}

	var entries []T
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		j.logger.Error("stored entries are corrupt, starting empty", "error", err)
		return nil, nil
	}
	return entries, nil
}

// Loaded reports whether Initialize has completed.
func (j *Journal[T]) Loaded() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.loaded
}

// Save stores the entry built from a fresh stamp. If an entry already exists
// for today it is replaced at the same position; otherwise the new entry is
// prepended.
func (j *Journal[T]) Save(ctx context.Context, build func(models.Stamp) T) (T, error) {
	j.qmu.Lock()
	defer j.qmu.Unlock()
	j.mu.Lock()

	var zero T
	if err := j.mutable(); err != nil {
		j.mu.Unlock()
		return zero, err
	}

	now := j.now()
	entry := build(models.NewStamp(j.nextID(now), now, j.loc))
	j.put(entry)

	job := j.snapshot()
	j.mu.Unlock()
	j.writes <- job
	return entry, nil
}

// Today returns the entry for the current calendar day, if any.
func (j *Journal[T]) Today() (T, bool) {
	today := models.Day(j.now(), j.loc)

	j.mu.RLock()
	defer j.mu.RUnlock()

	if i := j.indexOfDate(today); i >= 0 {
		return j.entries[i], true
	}
	var zero T
	return zero, false
}

// Between returns the entries whose date lies in [start, end], in collection
// order. Dates compare as strings, which is exact for zero-padded YYYY-MM-DD.
func (j *Journal[T]) Between(start, end string) []T {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var out []T
	for _, e := range j.entries {
		if d := e.EntryDate(); d >= start && d <= end {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes the entry with the given id. It reports whether an entry
// was removed; an unknown id changes nothing and writes nothing.
func (j *Journal[T]) Delete(ctx context.Context, id string) (bool, error) {
	j.qmu.Lock()
	defer j.qmu.Unlock()
	j.mu.Lock()

	if err := j.mutable(); err != nil {
		j.mu.Unlock()
		return false, err
	}

	updated := make([]T, 0, len(j.entries))
	for _, e := range j.entries {
		if e.EntryID() != id {
			updated = append(updated, e)
		}
	}
	if len(updated) == len(j.entries) {
		j.mu.Unlock()
		return false, nil
	}

	j.entries = updated
	job := j.snapshot()
	j.mu.Unlock()
	j.writes <- job
	return true, nil
}

// Clear empties the collection and removes its storage key. Clearing is
// allowed while stored history is unavailable; afterwards storage is meant to
// be empty, so writes resume.
func (j *Journal[T]) Clear(ctx context.Context) error {
	j.qmu.Lock()
	defer j.qmu.Unlock()
	j.mu.Lock()

	if err := j.mutable(); err != nil {
		j.mu.Unlock()
		return err
	}

	j.entries = nil
	j.loadErr = nil
	j.mu.Unlock()
	j.writes <- writeJob{op: opRemove}
	return nil
}

// Entries returns a copy of the collection, newest first.
func (j *Journal[T]) Entries() []T {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]T, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries.
func (j *Journal[T]) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// Flush waits until every write enqueued before the call has been attempted.
func (j *Journal[T]) Flush(ctx context.Context) error {
	done := make(chan struct{})

	j.qmu.Lock()
	j.mu.RLock()
	closed := j.closed
	j.mu.RUnlock()
	if closed {
		j.qmu.Unlock()
		return nil // Close already drained the queue
	}
	j.writes <- writeJob{op: opBarrier, done: done}
	j.qmu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LastWriteError returns the most recent persistence failure, or nil if the
// latest write succeeded.
func (j *Journal[T]) LastWriteError() error {
	j.errMu.Lock()
	defer j.errMu.Unlock()
	return j.lastErr
}

// Close stops accepting mutations and waits for pending writes. It does not
// close the underlying store.
func (j *Journal[T]) Close() error {
	j.closeOnce.Do(func() {
		j.qmu.Lock()
		j.mu.Lock()
		j.closed = true
		j.mu.Unlock()
		close(j.writes)
		j.qmu.Unlock()
	})
	<-j.writerDone
	return nil
}

// mutable must be called with mu held.
func (j *Journal[T]) mutable() error {
	if j.closed {
		return ErrClosed
	}
	if !j.loaded {
		return ErrNotInitialized
	}
	return nil
}

// nextID returns the millisecond timestamp of now, bumped past the last
// issued id so ids stay unique under a coarse or frozen clock.
// Must be called with mu held.
func (j *Journal[T]) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= j.lastID {
		id = j.lastID + 1
	}
	j.lastID = id
	return id
}

// put replaces the entry sharing e's date in place, or prepends e.
// Must be called with mu held.
func (j *Journal[T]) put(e T) {
	updated := make([]T, 0, len(j.entries)+1)
	if i := j.indexOfDate(e.EntryDate()); i >= 0 {
		updated = append(updated, j.entries...)
		updated[i] = e
	} else {
		updated = append(updated, e)
		updated = append(updated, j.entries...)
	}
	j.entries = updated
}

// indexOfDate must be called with mu held.
func (j *Journal[T]) indexOfDate(date string) int {
	for i, e := range j.entries {
		if e.EntryDate() == date {
			return i
		}
	}
	return -1
}

// snapshot encodes the current collection as the next write. While stored
// history is unavailable it yields a failure report instead, leaving storage
// untouched. Must be called with mu held.
func (j *Journal[T]) snapshot() writeJob {
	if j.loadErr != nil {
		return writeJob{op: opFail, err: j.loadErr}
	}
	data, err := json.Marshal(j.entries)
	if err != nil {
		return writeJob{op: opFail, err: fmt.Errorf("failed to encode entries: %w", err)}
	}
	return writeJob{op: opSet, value: string(data)}
}

func (j *Journal[T]) writer() {
	defer close(j.writerDone)

	// Writes outlive the request that caused them.
	ctx := context.Background()
	for job := range j.writes {
		var err error
		switch job.op {
		case opSet:
			err = j.store.Set(ctx, j.key, job.value)
		case opRemove:
			err = j.store.Remove(ctx, j.key)
		case opFail:
			err = job.err
		case opBarrier:
			close(job.done)
			continue
		}

		if err != nil {
			j.recordWriteError(err)
			continue
		}
		j.errMu.Lock()
		j.lastErr = nil
		j.errMu.Unlock()
	}
}

// recordWriteError runs on the writer goroutine only.
func (j *Journal[T]) recordWriteError(err error) {
	j.logger.Error("failed to persist entries", "error", err)
	j.errMu.Lock()
	j.lastErr = err
	j.errMu.Unlock()
	if j.onWriteError != nil {
		j.onWriteError(err)
	}
}
