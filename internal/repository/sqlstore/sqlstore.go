// sentiric-contacts-service/internal/repository/sqlstore/sqlstore.go

// Package sqlstore is a device contact store backed by database/sql. The same
// code serves PostgreSQL (through pgx) and SQLite (through modernc).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
	"github.com/sentiric/sentiric-contacts-service/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	phone_numbers TEXT NOT NULL DEFAULT '[]',
	emails        TEXT NOT NULL DEFAULT '[]',
	image_uri     TEXT NOT NULL DEFAULT '',
	note          TEXT NOT NULL DEFAULT ''
)`

// Store implements [repository.ContactStore] over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     zerolog.Logger
}

var _ repository.ContactStore = (*Store)(nil)

// New returns a Store. Call Migrate once before use.
func New(db *sql.DB, dialect Dialect, log zerolog.Logger) *Store {
	return &Store{db: db, dialect: dialect, log: log}
}

// Migrate creates the contacts table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("contacts schema: %w", err)
	}
	return nil
}

// LoadAll never reports ErrPermissionDenied: a database has no access prompt.
func (s *Store) LoadAll(ctx context.Context) ([]contact.Record, error) {
	query := `
		SELECT id, name, first_name, last_name, phone_numbers, emails, image_uri, note
		FROM contacts
		ORDER BY lower(first_name), id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.log.Error().Err(err).Msg("Kişi listesi sorgulanamadı")
		return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	defer rows.Close()

	var records []contact.Record
	for rows.Next() {
		var r contact.Record
		var phones, emails string
		if err := rows.Scan(&r.ID, &r.Name, &r.FirstName, &r.LastName, &phones, &emails, &r.ImageURI, &r.Note); err != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
		}
		if err := json.Unmarshal([]byte(phones), &r.PhoneNumbers); err != nil {
			s.log.Warn().Err(err).Str("contact_id", r.ID).Msg("Telefon listesi çözümlenemedi")
		}
		if err := json.Unmarshal([]byte(emails), &r.Emails); err != nil {
			s.log.Warn().Err(err).Str("contact_id", r.ID).Msg("E-posta listesi çözümlenemedi")
		}
		r.ImageAvailable = r.ImageURI != ""
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, err)
	}
	return records, nil
}

func (s *Store) Create(ctx context.Context, r contact.Record) (string, error) {
	r.ID = uuid.NewString()
	phones, emails, err := encodeLists(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", repository.ErrWrite, err)
	}

	query := `INSERT INTO contacts (id, name, first_name, last_name, phone_numbers, emails, image_uri, note) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, s.dialect.rebind(query),
		r.ID, r.Name, r.FirstName, r.LastName, phones, emails, imageURI(r), r.Note)
	if err != nil {
		s.log.Error().Err(err).Msg("Kişi kaydı oluşturulamadı")
		return "", fmt.Errorf("%w: %w", repository.ErrWrite, err)
	}
	return r.ID, nil
}

func (s *Store) Update(ctx context.Context, prior contact.Record, f contact.Fields) error {
	r := f.ApplyTo(prior)
	phones, emails, err := encodeLists(r)
	if err != nil {
		return fmt.Errorf("%w: %w", repository.ErrWrite, err)
	}

	query := `
		UPDATE contacts
		SET name = ?, first_name = ?, last_name = ?, phone_numbers = ?, emails = ?, image_uri = ?, note = ?
		WHERE id = ?`
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query),
		r.Name, r.FirstName, r.LastName, phones, emails, imageURI(r), r.Note, r.ID)
	if err != nil {
		s.log.Error().Err(err).Str("contact_id", r.ID).Msg("Kişi güncellenemedi")
		return fmt.Errorf("%w: %w", repository.ErrWrite, err)
	}

	return affectedOne(result)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contacts WHERE id = ?`
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query), id)
	if err != nil {
		s.log.Error().Err(err).Str("contact_id", id).Msg("Kişi silinemedi")
		return fmt.Errorf("%w: %w", repository.ErrWrite, err)
	}

	return affectedOne(result)
}

// affectedOne reports ErrNotFound when no row matched. A driver that cannot
// count rows is a write failure, not a missing record.
func affectedOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", repository.ErrWrite, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func encodeLists(r contact.Record) (phones, emails string, err error) {
	p, err := json.Marshal(nonNil(r.PhoneNumbers))
	if err != nil {
		return "", "", err
	}
	e, err := json.Marshal(nonNil(r.Emails))
	if err != nil {
		return "", "", err
	}
	return string(p), string(e), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func imageURI(r contact.Record) string {
	if !r.ImageAvailable {
		return ""
	}
	return r.ImageURI
}
