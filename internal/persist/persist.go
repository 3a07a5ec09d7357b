// Package persist snapshots store state into a storage.Store namespace.
//
// Each namespace holds one JSON envelope:
//
//	{"state": <store state>, "version": <schema version>}
//
// Every save rewrites the whole envelope. A missing namespace loads as empty
// state. Envelopes written by an older schema version pass through the
// registered migrations on load; envelopes from a newer, unknown version are
// decoded best-effort and their version number is written back unchanged,
// together with any top-level state fields this schema does not know.
// Unknown fields nested below the top level are lost on the next save.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
)

// Fixed namespaces for the two stores.
const (
	LedgerNamespace   = "expense-tracker-storage"
	IdentityNamespace = "auth-storage"
)

// Envelope is the persisted wrapper around a store's state.
type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Migration upgrades a state document from version v to v+1.
type Migration func(state json.RawMessage) (json.RawMessage, error)

// Schema describes the current snapshot layout of one store.
type Schema struct {
	// Version is the version written for fresh state.
	Version int

	// Migrations maps a version v to the step that upgrades v to v+1.
	Migrations map[int]Migration
}

// Snapshotter loads and saves the state T of one store under one namespace.
type Snapshotter[T any] struct {
	store        storage.Store
	namespace    string
	schema       Schema
	writeVersion int

	// unknown holds top-level state fields of a newer-version snapshot that
	// T does not decode. Save writes them back.
	unknown map[string]json.RawMessage

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Snapshotter. m and logger may be nil.
func New[T any](store storage.Store, namespace string, schema Schema, m *metrics.Metrics, logger *slog.Logger) *Snapshotter[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapshotter[T]{
		store:        store,
		namespace:    namespace,
		schema:       schema,
		writeVersion: schema.Version,
		metrics:      m,
		logger:       logger,
	}
}

// Version returns the version number the next Save will write.
func (s *Snapshotter[T]) Version() int {
	return s.writeVersion
}

// Load reads and decodes the namespace. found is false when the namespace
// does not exist, in which case state is the zero value. For a snapshot from
// a newer schema, top-level fields T does not decode are kept for Save.
func (s *Snapshotter[T]) Load(ctx context.Context) (state T, found bool, err error) {
	raw, err := s.store.Get(ctx, s.namespace)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("No snapshot, starting empty", "namespace", s.namespace)
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("failed to read snapshot %s: %w", s.namespace, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return state, false, fmt.Errorf("failed to decode snapshot %s: %w", s.namespace, err)
	}

	doc := env.State
	switch {
	case env.Version < s.schema.Version:
		for v := env.Version; v < s.schema.Version; v++ {
			migrate, ok := s.schema.Migrations[v]
			if !ok {
				return state, false, fmt.Errorf("no migration for %s from version %d", s.namespace, v)
			}
			if doc, err = migrate(doc); err != nil {
				return state, false, fmt.Errorf("failed to migrate %s from version %d: %w", s.namespace, v, err)
			}
		}
		s.logger.Info("Migrated snapshot", "namespace", s.namespace, "from", env.Version, "to", s.schema.Version)
		s.writeVersion = s.schema.Version
	case env.Version > s.schema.Version:
		s.logger.Warn("Snapshot from newer schema, decoding best-effort",
			"namespace", s.namespace, "version", env.Version, "known", s.schema.Version)
		s.writeVersion = env.Version
	default:
		s.writeVersion = env.Version
	}

	s.unknown = nil
	if len(doc) > 0 && string(doc) != "null" {
		if err := json.Unmarshal(doc, &state); err != nil {
			return state, false, fmt.Errorf("failed to decode %s state: %w", s.namespace, err)
		}
		if env.Version > s.schema.Version {
			s.unknown = unknownFields(doc, state)
		}
	}
	return state, true, nil
}

// unknownFields returns the top-level keys of doc that do not survive a
// decode and re-encode through state. Non-object documents yield nil.
func unknownFields[T any](doc json.RawMessage, state T) map[string]json.RawMessage {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(doc, &all); err != nil {
		return nil
	}
	known, err := json.Marshal(state)
	if err != nil {
		return nil
	}
	var kept map[string]json.RawMessage
	if err := json.Unmarshal(known, &kept); err != nil {
		return nil
	}

	unknown := make(map[string]json.RawMessage)
	for key, value := range all {
		if _, ok := kept[key]; !ok {
			unknown[key] = value
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return unknown
}

// Save encodes state and rewrites the whole namespace.
func (s *Snapshotter[T]) Save(ctx context.Context, state T) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode %s state: %w", s.namespace, err)
	}
	if len(s.unknown) > 0 {
		if doc, err = mergeUnknown(doc, s.unknown); err != nil {
			return fmt.Errorf("failed to encode %s state: %w", s.namespace, err)
		}
	}
	raw, err := json.Marshal(Envelope{State: doc, Version: s.writeVersion})
	if err != nil {
		return fmt.Errorf("failed to encode %s envelope: %w", s.namespace, err)
	}

	if err := s.store.Put(ctx, s.namespace, raw); err != nil {
		s.metrics.SnapshotFailed(s.namespace)
		return fmt.Errorf("failed to write snapshot %s: %w", s.namespace, err)
	}
	s.metrics.SnapshotWritten(s.namespace, len(raw))
	return nil
}

// mergeUnknown adds the unknown fields to doc without overriding any field
// doc already has.
func mergeUnknown(doc json.RawMessage, unknown map[string]json.RawMessage) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil || fields == nil {
		return doc, nil
	}
	for key, value := range unknown {
		if _, ok := fields[key]; !ok {
			fields[key] = value
		}
	}
	return json.Marshal(fields)
}
