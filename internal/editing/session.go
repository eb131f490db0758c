// Package editing implements the dirty-field protocol used while a user
// edits a line item: every field moves Clean → Dirty → Committing → Clean,
// previews reflect in-flight values, and a commit writes exactly one field.
package editing

import (
	"context"
	"errors"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Simplici0/bidcost/internal/pricing"
)

var (
	// ErrUnknownField is returned for keys that are not editable on the
	// line item's category.
	ErrUnknownField = errors.New("unknown line item field")
	// ErrCommitInProgress is returned when a field is already committing.
	ErrCommitInProgress = errors.New("field commit already in progress")
)

// State is the edit state of a single field.
type State int

const (
	Clean State = iota
	Dirty
	Committing
)

func (s State) String() string {
	switch s {
	case Dirty:
		return "dirty"
	case Committing:
		return "committing"
	default:
		return "clean"
	}
}

// Persister writes one field of one line item and returns the stored record.
type Persister interface {
	UpdateLineItemField(ctx context.Context, estimateID, lineItemID, field string, value any) (pricing.Record, error)
}

type fieldState struct {
	state State
	value any
	// edited is set when the user changes the value while a commit is in
	// flight; the field stays dirty after that commit lands.
	edited bool
}

// Session tracks the fields of one line item being edited. Different
// fields commit independently and in any order. Preview, Revert and edits
// made while a commit is in flight serve long-lived client-side sessions;
// the HTTP service opens a session per request and commits one field.
type Session struct {
	mu        sync.Mutex
	persister Persister
	committed pricing.Record
	fields    map[string]*fieldState
}

// NewSession starts editing rec, whose field values are the last committed
// ones.
func NewSession(rec pricing.Record, persister Persister) *Session {
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
	return &Session{
		persister: persister,
		committed: rec,
		fields:    make(map[string]*fieldState),
	}
}

// Set records an uncommitted value for field.
func (s *Session) Set(field string, value any) error {
	if !pricing.IsField(s.committed.Category, field) {
		return eris.Wrapf(ErrUnknownField, "%s on %s", field, s.committed.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fs, ok := s.fields[field]
	if !ok {
		s.fields[field] = &fieldState{state: Dirty, value: value}
		return nil
	}
	fs.value = value
	if fs.state == Committing {
		fs.edited = true
		return nil
	}
	fs.state = Dirty
	return nil
}

// State returns the edit state of field.
func (s *Session) State(field string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fs, ok := s.fields[field]; ok {
		return fs.state
	}
	return Clean
}

// Dirty returns the fields with uncommitted values, sorted.
func (s *Session) Dirty() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.fields))
	for k := range s.fields {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Committed returns the record as last persisted.
func (s *Session) Committed() pricing.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.committed
	out.Fields = maps.Clone(s.committed.Fields)
	return out
}

// Current returns the record as the user currently sees it: committed
// values overlaid with every dirty or committing value.
func (s *Session) Current() pricing.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.committed
	rec.Fields = maps.Clone(s.committed.Fields)
	for k, fs := range s.fields {
		rec.Fields[k] = fs.value
	}
	return rec
}

// Preview computes the total of the record as currently shown.
func (s *Session) Preview(ctx pricing.Context) float64 {
	return pricing.RecordTotal(s.Current(), ctx)
}

// Revert discards the uncommitted value of field. A field that is
// committing is left alone.
func (s *Session) Revert(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fs, ok := s.fields[field]; ok && fs.state != Committing {
		delete(s.fields, field)
	}
}

// Commit persists the pending value of field. It reports whether a write
// happened: a clean field, or one whose value equals the last committed
// value, returns false without touching the persister. On failure the field
// stays dirty so the caller can retry or revert.
func (s *Session) Commit(ctx context.Context, field string) (bool, error) {
	s.mu.Lock()
	fs, ok := s.fields[field]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	if fs.state == Committing {
		s.mu.Unlock()
		return false, eris.Wrapf(ErrCommitInProgress, "field %s", field)
	}

	if sameValue(fs.value, s.committed.Fields[field]) {
		delete(s.fields, field)
		s.mu.Unlock()
		zap.L().Debug("editing: commit skipped, value unchanged",
			zap.String("line_item_id", s.committed.ID),
			zap.String("field", field),
		)
		return false, nil
	}

	fs.state = Committing
	fs.edited = false
	value := fs.value
	estimateID, itemID := s.committed.EstimateID, s.committed.ID
	s.mu.Unlock()

	stored, err := s.persister.UpdateLineItemField(ctx, estimateID, itemID, field, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		fs.state = Dirty
		return false, eris.Wrapf(err, "editing: commit %s on line item %s", field, itemID)
	}

	committedValue, ok := stored.Fields[field]
	if !ok {
		committedValue = value
	}
	s.committed = s.committed.With(field, committedValue)

	if fs.edited && !sameValue(fs.value, committedValue) {
		fs.state = Dirty
		fs.edited = false
	} else {
		delete(s.fields, field)
	}
	return true, nil
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
