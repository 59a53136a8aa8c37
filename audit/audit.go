// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package audit persists operation events into an append-only journal.
// The journal subscribes to the event bus and records every event it
// sees, giving operators a durable trail of issuance, compliance and
// governance activity independent of the relational store.
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/openstable-io/ingot/event"
	"github.com/prometheus/client_golang/prometheus"
)

const recordKeyPrefix = "event/"

// Record is one journaled event
type Record struct {
	Seq       uint64          `json:"seq"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Journal is an append-only event journal backed by badger. When no
// data directory is configured the journal runs in-memory.
type Journal struct {
	db           *badger.DB
	logger       *slog.Logger
	promRegistry prometheus.Registerer
	metrics      *journalMetrics
	bus          *event.EventBus
	subs         map[event.EventType]event.EventSubscriberId
	nextSeq      uint64
	mu           sync.Mutex
}

// JournalConfig holds the configuration for a Journal
type JournalConfig struct {
	DataDir      string
	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

// New creates an audit journal
func New(cfg JournalConfig) (*Journal, error) {
	j := &Journal{
		logger:       cfg.Logger,
		promRegistry: cfg.PromRegistry,
		subs:         make(map[event.EventType]event.EventSubscriberId),
	}
	if j.logger == nil {
		j.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	var badgerOpts badger.Options
	if cfg.DataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithLogger(newBadgerLogger(j.logger)).
			WithLoggingLevel(badger.WARNING).
			WithInMemory(true)
	} else {
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		badgerOpts = badger.DefaultOptions(filepath.Join(cfg.DataDir, "audit")).
			WithLogger(newBadgerLogger(j.logger)).
			WithLoggingLevel(badger.WARNING)
	}
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	j.db = db
	if err := j.recoverSeq(); err != nil {
		db.Close()
		return nil, err
	}
	if j.promRegistry != nil {
		j.initMetrics()
	}
	return j, nil
}

type journalMetrics struct {
	records prometheus.Counter
}

func (j *Journal) initMetrics() {
	j.metrics = &journalMetrics{
		records: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ingot_audit_records_total",
				Help: "events appended to the audit journal",
			},
		),
	}
	j.promRegistry.MustRegister(j.metrics.records)
}

// recoverSeq scans for the newest record so appends continue from the
// last sequence number after a restart
func (j *Journal) recoverSeq() error {
	return j.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Reverse = true
		iterOpts.PrefetchValues = false
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		// Seek past the end of the zero-padded record keyspace
		it.Seek([]byte(recordKeyPrefix + "9"))
		if it.ValidForPrefix([]byte(recordKeyPrefix)) {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			j.nextSeq = rec.Seq + 1
		}
		return nil
	})
}

// Attach subscribes the journal to the given event types on the bus.
// Attaching an already-subscribed type is a no-op.
func (j *Journal) Attach(bus *event.EventBus, eventTypes ...event.EventType) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.bus = bus
	for _, eventType := range eventTypes {
		if _, ok := j.subs[eventType]; ok {
			continue
		}
		j.subs[eventType] = bus.SubscribeFunc(eventType, j.append)
	}
}

// Detach unsubscribes the journal from the event bus
func (j *Journal) Detach() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.bus == nil {
		return
	}
	for eventType, subId := range j.subs {
		j.bus.Unsubscribe(eventType, subId)
		delete(j.subs, eventType)
	}
	j.bus = nil
}

func (j *Journal) append(evt event.Event) {
	data, err := json.Marshal(evt.Data)
	if err != nil {
		j.logger.Warn(
			"failed to encode event for journal",
			"type", evt.Type,
			"error", err,
			"component", "audit",
		)
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	rec := Record{
		Seq:       j.nextSeq,
		Type:      string(evt.Type),
		Timestamp: evt.Timestamp,
		Data:      data,
	}
	encoded, err := json.Marshal(&rec)
	if err != nil {
		j.logger.Warn(
			"failed to encode journal record",
			"type", evt.Type,
			"error", err,
			"component", "audit",
		)
		return
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.Seq), encoded)
	})
	if err != nil {
		j.logger.Warn(
			"failed to append journal record",
			"type", evt.Type,
			"error", err,
			"component", "audit",
		)
		return
	}
	j.nextSeq++
	if j.metrics != nil {
		j.metrics.records.Inc()
	}
}

// Records returns up to limit records starting from the given sequence
// number, in append order. A limit of zero returns all remaining
// records.
func (j *Journal) Records(start uint64, limit int) ([]Record, error) {
	var records []Record
	err := j.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		it := txn.NewIterator(iterOpts)
		defer it.Close()
		for it.Seek(recordKey(start)); it.ValidForPrefix([]byte(recordKeyPrefix)); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// NextSeq returns the sequence number the next record will receive
func (j *Journal) NextSeq() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextSeq
}

// Close detaches from the event bus and closes the underlying store
func (j *Journal) Close() error {
	j.Detach()
	return j.db.Close()
}

func recordKey(seq uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", recordKeyPrefix, seq)
}

// badgerLogger adapts slog to badger's logger interface
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger(logger *slog.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

func (b *badgerLogger) Errorf(format string, args ...any) {
	b.logger.Error(fmt.Sprintf(format, args...), "component", "audit")
}

func (b *badgerLogger) Warningf(format string, args ...any) {
	b.logger.Warn(fmt.Sprintf(format, args...), "component", "audit")
}

func (b *badgerLogger) Infof(format string, args ...any) {
	b.logger.Info(fmt.Sprintf(format, args...), "component", "audit")
}

func (b *badgerLogger) Debugf(format string, args ...any) {
	b.logger.Debug(fmt.Sprintf(format, args...), "component", "audit")
}
