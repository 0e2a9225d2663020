package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

const recordColumns = `id, type, category, amount, date`

type rowScanner interface {
	Scan(dest ...any) error
}

// List returns the identity's records in insertion order.
func (s *SQLiteStorage) List(ctx context.Context, identity string) ([]model.Record, error) {
	if err := validateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE owner = ?
		ORDER BY seq`, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	slog.Debug("retrieved records", "identity", identity, "count", len(records))
	return records, nil
}

// Find returns the record with the given id.
func (s *SQLiteStorage) Find(ctx context.Context, identity string, id int64) (model.Record, error) {
	if err := validateIdentity(ctx, identity); err != nil {
		return model.Record{}, err
	}

	return s.findTx(ctx, s.db, identity, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStorage) findTx(ctx context.Context, q querier, identity string, id int64) (model.Record, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE owner = ? AND id = ?`, identity, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, fmt.Errorf("record %d: %w", id, common.ErrNotFound)
	}
	return record, err
}

// Insert appends record to the identity's collection.
func (s *SQLiteStorage) Insert(ctx context.Context, identity string, record model.Record) error {
	if err := validateIdentity(ctx, identity); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (owner, id, type, category, amount, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		identity,
		record.ID(),
		string(record.Type()),
		string(record.Category()),
		record.Amount(),
		record.Date().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert record %d: %w", record.ID(), err)
	}
	return nil
}

// Replace overwrites the stored fields of the record with the same id.
func (s *SQLiteStorage) Replace(ctx context.Context, identity string, record model.Record) error {
	if err := validateIdentity(ctx, identity); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE records
		SET type = ?, category = ?, amount = ?, date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE owner = ? AND id = ?`,
		string(record.Type()),
		string(record.Category()),
		record.Amount(),
		record.Date().Format(time.RFC3339Nano),
		identity,
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update record %d: %w", record.ID(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %d: %w", record.ID(), common.ErrNotFound)
	}
	return nil
}

// Remove deletes the record with the given id and returns it.
func (s *SQLiteStorage) Remove(ctx context.Context, identity string, id int64) (model.Record, error) {
	if err := validateIdentity(ctx, identity); err != nil {
		return model.Record{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	record, err := s.findTx(ctx, tx, identity, id)
	if err != nil {
		return model.Record{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE owner = ? AND id = ?`, identity, id); err != nil {
		return model.Record{}, fmt.Errorf("failed to delete record %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Record{}, fmt.Errorf("failed to commit delete: %w", err)
	}
	return record, nil
}

func scanRecord(row rowScanner) (model.Record, error) {
	var (
		id       int64
		typ      string
		category string
		amount   int64
		date     string
	)
	if err := row.Scan(&id, &typ, &category, &amount, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Record{}, err
		}
		return model.Record{}, fmt.Errorf("failed to scan record: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, date)
	if err != nil {
		return model.Record{}, fmt.Errorf("stored record %d has bad date %q: %w", id, date, err)
	}

	record, err := model.NewRecord(id, model.RecordInput{
		Type:     model.RecordType(typ),
		Category: model.RecordCategory(category),
		Amount:   amount,
		Date:     parsed,
	})
	if err != nil {
		return model.Record{}, fmt.Errorf("stored record %d is invalid: %w", id, err)
	}
	return record, nil
}
