// Package docstore keeps schemaless JSON documents grouped in collections,
// stored as JSONB rows in SQLite.
package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("document not found")

// StoreError describes a failed store operation. It unwraps to the cause, so
// errors.Is(err, ErrNotFound) works on it.
type StoreError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("docstore %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("docstore %s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Document is a decoded JSON object. Numbers decode as float64.
type Document map[string]any

// String returns field as a string, or "" when it is missing or not a string.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Decode copies the document into dest through its JSON form.
func (d Document) Decode(dest any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Record is a document together with its id.
type Record struct {
	ID   string
	Data Document
}

type Store struct {
	db *sql.DB
}

// New wraps db. The documents table is created by the migrations package.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &StoreError{Op: "get", Collection: collection, ID: id, Err: ErrNotFound}
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Collection: collection, ID: id, Err: err}
	}

	doc, err := decode(data)
	if err != nil {
		return nil, &StoreError{Op: "get", Collection: collection, ID: id, Err: err}
	}
	return doc, nil
}

// Set creates or replaces a document. Structs are accepted as well as
// Document values.
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &StoreError{Op: "set", Collection: collection, ID: id, Err: err}
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, jsonb(?), ?)
		 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, id, string(data), nowUTC(),
	)
	if err != nil {
		return &StoreError{Op: "set", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// UpdateField sets a single top-level field of an existing document.
func (s *Store) UpdateField(ctx context.Context, collection, id, field string, value any) error {
	err := s.modify(ctx, collection, id, func(doc Document) error {
		doc[field] = value
		return nil
	})
	if err != nil {
		return &StoreError{Op: "update", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// List loads every document of a collection ordered by id.
func (s *Store) List(ctx context.Context, collection string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, json(data) FROM documents WHERE collection = ? ORDER BY id`, collection,
	)
	if err != nil {
		return nil, &StoreError{Op: "list", Collection: collection, Err: err}
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, &StoreError{Op: "list", Collection: collection, Err: err}
		}
		doc, err := decode(data)
		if err != nil {
			return nil, &StoreError{Op: "list", Collection: collection, ID: id, Err: err}
		}
		out = append(out, Record{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "list", Collection: collection, Err: err}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id,
	)
	if err != nil {
		return &StoreError{Op: "delete", Collection: collection, ID: id, Err: err}
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return &StoreError{Op: "delete", Collection: collection, ID: id, Err: ErrNotFound}
	}
	return nil
}

// Ping reports whether the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// modify loads a document, applies fn, and saves it in a transaction.
func (s *Store) modify(ctx context.Context, collection, id string, fn func(Document) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	doc, err := decode(data)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = jsonb(?), updated_at = ? WHERE collection = ? AND id = ?`,
		string(jsonData), nowUTC(), collection, id,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func decode(data string) (Document, error) {
	doc := Document{}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
