// Package store persists estimates, line items and the constants table in
// SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/estimate"
	"github.com/Simplici0/bidcost/internal/pricing"
)

// ErrNotFound is returned for missing rows. It is the estimate package's
// sentinel so callers of the service can match it with errors.Is.
var ErrNotFound = estimate.ErrNotFound

// SQLiteStore implements estimate.Repository on a migrated database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ estimate.Repository = (*SQLiteStore)(nil)

// NewSQLite wraps an open database. The schema is applied by the
// migrations package.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

const estimateColumns = `id, customer_id, proposal_no, version_number, is_change_order,
	markup_percent, fringe, status, outcome, created_at, updated_at`

// CreateEstimate inserts a new estimate. A second estimate with the same
// proposal and version number is rejected with ErrInvalidInput.
func (s *SQLiteStore) CreateEstimate(ctx context.Context, est *estimate.Estimate) error {
	s.stamp(est)
	return insertEstimate(ctx, s.db, est)
}

// CreateVersion inserts est together with every line item it carries in
// one transaction. Either the whole version is stored or nothing is.
func (s *SQLiteStore) CreateVersion(ctx context.Context, est *estimate.Estimate) error {
	s.stamp(est)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin create version")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertEstimate(ctx, tx, est); err != nil {
		return err
	}
	items := map[pricing.Category][]pricing.Record{}
	for _, rec := range est.Items() {
		rec.EstimateID = est.ID
		stored, err := insertLineItem(ctx, tx, rec)
		if err != nil {
			return err
		}
		items[stored.Category] = append(items[stored.Category], stored)
	}
	if err := tx.Commit(); err != nil {
		return eris.Wrapf(err, "sqlite: commit version %d of %s", est.VersionNumber, est.ProposalNo)
	}
	est.LineItems = items
	return nil
}

func (s *SQLiteStore) stamp(est *estimate.Estimate) {
	if est.ID == "" {
		est.ID = uuid.New().String()
	}
	if est.CreatedAt.IsZero() {
		est.CreatedAt = s.now()
	}
	if est.UpdatedAt.IsZero() {
		est.UpdatedAt = est.CreatedAt
	}
}

func (s *SQLiteStore) GetEstimate(ctx context.Context, id string) (*estimate.Estimate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+estimateColumns+` FROM estimates WHERE id = ?`, id,
	)
	est, err := scanEstimate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: estimate %s", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := s.lineItems(ctx, est.ID)
	if err != nil {
		return nil, err
	}
	est.LineItems = items
	return est, nil
}

func (s *SQLiteStore) UpdateEstimate(ctx context.Context, est *estimate.Estimate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE estimates
		SET customer_id = ?, markup_percent = ?, fringe = ?, status = ?, outcome = ?,
			is_change_order = ?, updated_at = ?
		WHERE id = ?`,
		est.CustomerID, est.MarkupPercent, est.Fringe, string(est.Status), string(est.Outcome),
		est.IsChangeOrder, est.UpdatedAt, est.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update estimate %s", est.ID)
	}
	return checkRowsAffected(res, "estimate", est.ID)
}

// ListByProposal returns every version of a proposal with its line items,
// ordered by version number.
func (s *SQLiteStore) ListByProposal(ctx context.Context, proposalNo string) ([]estimate.Estimate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+estimateColumns+` FROM estimates WHERE proposal_no = ? ORDER BY version_number`,
		proposalNo,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list proposal %s", proposalNo)
	}
	defer rows.Close() //nolint:errcheck

	var out []estimate.Estimate
	for rows.Next() {
		est, err := scanEstimate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *est)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate estimates")
	}
	rows.Close() //nolint:errcheck

	for i := range out {
		items, err := s.lineItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].LineItems = items
	}
	return out, nil
}

func (s *SQLiteStore) AppendLineItem(ctx context.Context, rec pricing.Record) (pricing.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pricing.Record{}, eris.Wrap(err, "sqlite: begin append line item")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := touchEstimate(ctx, tx, rec.EstimateID, s.now()); err != nil {
		return pricing.Record{}, err
	}
	stored, err := insertLineItem(ctx, tx, rec)
	if err != nil {
		return pricing.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return pricing.Record{}, eris.Wrap(err, "sqlite: commit append line item")
	}
	return stored, nil
}

// UpdateLineItemField replaces a single field of a line item inside one
// transaction, so concurrent commits of different fields never overwrite
// each other.
func (s *SQLiteStore) UpdateLineItemField(ctx context.Context, estimateID, lineItemID, field string, value any) (pricing.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pricing.Record{}, eris.Wrap(err, "sqlite: begin update line item")
	}
	defer tx.Rollback() //nolint:errcheck

	var category, fieldsJSON string
	var position int
	err = tx.QueryRowContext(ctx,
		`SELECT category, position, fields FROM line_items WHERE id = ? AND estimate_id = ?`,
		lineItemID, estimateID,
	).Scan(&category, &position, &fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.Record{}, eris.Wrapf(ErrNotFound, "sqlite: line item %s on estimate %s", lineItemID, estimateID)
	}
	if err != nil {
		return pricing.Record{}, eris.Wrapf(err, "sqlite: read line item %s", lineItemID)
	}

	fields := map[string]any{}
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return pricing.Record{}, eris.Wrapf(err, "sqlite: unmarshal line item %s", lineItemID)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	fields[field] = value

	updated, err := json.Marshal(fields)
	if err != nil {
		return pricing.Record{}, eris.Wrapf(err, "sqlite: marshal line item %s", lineItemID)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE line_items SET fields = ? WHERE id = ?`, string(updated), lineItemID,
	); err != nil {
		return pricing.Record{}, eris.Wrapf(err, "sqlite: update line item %s", lineItemID)
	}
	if err := touchEstimate(ctx, tx, estimateID, s.now()); err != nil {
		return pricing.Record{}, err
	}
	if err := tx.Commit(); err != nil {
		return pricing.Record{}, eris.Wrap(err, "sqlite: commit update line item")
	}

	return decodeRecord(lineItemID, estimateID, category, position, string(updated))
}

func (s *SQLiteStore) DeleteLineItem(ctx context.Context, estimateID, lineItemID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM line_items WHERE id = ? AND estimate_id = ?`, lineItemID, estimateID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete line item %s", lineItemID)
	}
	return checkRowsAffected(res, "line item", lineItemID)
}

func (s *SQLiteStore) ListConstants(ctx context.Context) (constants.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, description, value, color FROM constants ORDER BY type, description`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list constants")
	}
	defer rows.Close() //nolint:errcheck

	table := constants.Table{}
	for rows.Next() {
		var c constants.Constant
		if err := rows.Scan(&c.ID, &c.Type, &c.Description, &c.Value, &c.Color); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan constant")
		}
		table = append(table, c)
	}
	return table, eris.Wrap(rows.Err(), "sqlite: iterate constants")
}

// UpsertConstant inserts c, or updates the value and color of the constant
// with the same type and description. It reports whether a row was
// inserted.
func (s *SQLiteStore) UpsertConstant(ctx context.Context, c constants.Constant) (bool, error) {
	return upsertConstant(ctx, s.db, c)
}

// UpsertConstantTx is UpsertConstant inside a caller's transaction.
func UpsertConstantTx(ctx context.Context, tx *sql.Tx, c constants.Constant) (bool, error) {
	return upsertConstant(ctx, tx, c)
}

func (s *SQLiteStore) lineItems(ctx context.Context, estimateID string) (map[pricing.Category][]pricing.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, category, position, fields FROM line_items WHERE estimate_id = ? ORDER BY position, rowid`,
		estimateID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list line items of %s", estimateID)
	}
	defer rows.Close() //nolint:errcheck

	items := map[pricing.Category][]pricing.Record{}
	for rows.Next() {
		var id, category, fieldsJSON string
		var position int
		if err := rows.Scan(&id, &category, &position, &fieldsJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan line item")
		}
		rec, err := decodeRecord(id, estimateID, category, position, fieldsJSON)
		if err != nil {
			return nil, err
		}
		items[rec.Category] = append(items[rec.Category], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate line items")
	}
	return items, nil
}

// helpers

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertEstimate(ctx context.Context, q querier, est *estimate.Estimate) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO estimates (`+estimateColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		est.ID, est.CustomerID, est.ProposalNo, est.VersionNumber, est.IsChangeOrder,
		est.MarkupPercent, est.Fringe, string(est.Status), string(est.Outcome),
		est.CreatedAt, est.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return eris.Wrapf(estimate.ErrInvalidInput, "sqlite: version %d of proposal %s already exists",
			est.VersionNumber, est.ProposalNo)
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert estimate %s", est.ID)
	}
	return nil
}

// insertLineItem stores rec and returns it with its fields as they will be
// read back.
func insertLineItem(ctx context.Context, q querier, rec pricing.Record) (pricing.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return pricing.Record{}, eris.Wrap(err, "sqlite: marshal line item fields")
	}
	if _, err := q.ExecContext(ctx,
		`INSERT INTO line_items (id, estimate_id, category, position, fields) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.EstimateID, string(rec.Category), rec.Position, string(fieldsJSON),
	); err != nil {
		return pricing.Record{}, eris.Wrapf(err, "sqlite: insert line item %s", rec.ID)
	}
	return decodeRecord(rec.ID, rec.EstimateID, string(rec.Category), rec.Position, string(fieldsJSON))
}

func upsertConstant(ctx context.Context, q querier, c constants.Constant) (bool, error) {
	var id string
	err := q.QueryRowContext(ctx,
		`SELECT id FROM constants WHERE type = ? AND description = ?`, c.Type, c.Description,
	).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO constants (id, type, description, value, color) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Type, c.Description, c.Value, c.Color,
		); err != nil {
			return false, eris.Wrapf(err, "sqlite: insert constant %q", c.Description)
		}
		return true, nil
	case err != nil:
		return false, eris.Wrapf(err, "sqlite: find constant %q", c.Description)
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE constants SET value = ?, color = ? WHERE id = ?`, c.Value, c.Color, id,
	); err != nil {
		return false, eris.Wrapf(err, "sqlite: update constant %q", c.Description)
	}
	return false, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func touchEstimate(ctx context.Context, tx *sql.Tx, estimateID string, now time.Time) error {
	res, err := tx.ExecContext(ctx, `UPDATE estimates SET updated_at = ? WHERE id = ?`, now, estimateID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: touch estimate %s", estimateID)
	}
	return checkRowsAffected(res, "estimate", estimateID)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

func decodeRecord(id, estimateID, category string, position int, fieldsJSON string) (pricing.Record, error) {
	fields := map[string]any{}
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return pricing.Record{}, eris.Wrapf(err, "sqlite: unmarshal line item %s", id)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return pricing.Record{
		ID:         id,
		EstimateID: estimateID,
		Category:   pricing.Category(category),
		Position:   position,
		Fields:     fields,
	}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEstimate(row scannable) (*estimate.Estimate, error) {
	var est estimate.Estimate
	var status, outcome string
	err := row.Scan(
		&est.ID, &est.CustomerID, &est.ProposalNo, &est.VersionNumber, &est.IsChangeOrder,
		&est.MarkupPercent, &est.Fringe, &status, &outcome, &est.CreatedAt, &est.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan estimate")
	}
	est.Status = estimate.Status(status)
	est.Outcome = estimate.Outcome(outcome)
	est.LineItems = map[pricing.Category][]pricing.Record{}
	return &est, nil
}
