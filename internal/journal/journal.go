package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"flowstore/internal/metrics"

	"github.com/tidwall/gjson"
	"github.com/tidwall/wal"
)

var (
	ErrClosed   = errors.New("journal closed")
	ErrNotFound = errors.New("journal not found")
)

// Record is one accepted action as written to the log.
type Record struct {
	Seq     uint64          `json:"seq" yaml:"seq"`
	Type    string          `json:"type" yaml:"type"`
	Time    time.Time       `json:"time" yaml:"time"`
	Payload json.RawMessage `json:"payload,omitempty" yaml:"-"`
}

// Journal is an append-only action log on top of a tidwall/wal segment
// directory. It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	log     *wal.Log
	nextIdx uint64
	closed  bool
}

func Open(dir string, noSync bool) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}

	opts := *wal.DefaultOptions
	opts.NoSync = noSync
	log, err := wal.Open(dir, &opts)
	if err != nil {
		return nil, fmt.Errorf("wal.Open: %w", err)
	}

	last, err := log.LastIndex()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("wal.LastIndex: %w", err)
	}

	slog.Debug("journal opened", "dir", dir, "records", last)
	return &Journal{log: log, nextIdx: last + 1}, nil
}

// OpenExisting opens a journal that must already exist. It never creates
// the directory.
func OpenExisting(dir string, noSync bool) (*Journal, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}
	return Open(dir, noSync)
}

// Append writes an action of the given type. payload is encoded as JSON; nil
// leaves it out.
func (j *Journal) Append(actionType string, payload any) (Record, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Record{}, fmt.Errorf("marshal payload of %s: %w", actionType, err)
		}
		raw = b
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return Record{}, ErrClosed
	}

	rec := Record{Seq: j.nextIdx, Type: actionType, Time: time.Now().UTC(), Payload: raw}
	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}

	start := time.Now()
	if err := j.log.Write(j.nextIdx, data); err != nil {
		return Record{}, fmt.Errorf("wal.Write(%d): %w", j.nextIdx, err)
	}
	metrics.JournalWriteDuration.Observe(time.Since(start).Seconds())
	metrics.JournalWritesTotal.Inc()

	j.nextIdx++
	return rec, nil
}

// Entries returns every record in write order.
func (j *Journal) Entries() ([]Record, error) {
	return j.collect(func([]byte) bool { return true })
}

// ByType returns the records whose type equals actionType.
func (j *Journal) ByType(actionType string) ([]Record, error) {
	return j.collect(func(data []byte) bool {
		return gjson.GetBytes(data, "type").String() == actionType
	})
}

// Len is the number of records written.
func (j *Journal) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextIdx - 1
}

func (j *Journal) collect(keep func(data []byte) bool) ([]Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil, ErrClosed
	}

	empty, err := j.log.IsEmpty()
	if err != nil {
		return nil, fmt.Errorf("wal.IsEmpty: %w", err)
	}
	if empty {
		return nil, nil
	}

	first, err := j.log.FirstIndex()
	if err != nil {
		return nil, fmt.Errorf("wal.FirstIndex: %w", err)
	}
	last, err := j.log.LastIndex()
	if err != nil {
		return nil, fmt.Errorf("wal.LastIndex: %w", err)
	}

	var records []Record
	for idx := first; idx <= last; idx++ {
		data, err := j.log.Read(idx)
		if err != nil {
			return nil, fmt.Errorf("wal.Read(%d): %w", idx, err)
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("record %d is not valid json", idx)
		}
		if !keep(data) {
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record %d: %w", idx, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	if err := j.log.Close(); err != nil {
		return fmt.Errorf("wal.Close: %w", err)
	}
	return nil
}
