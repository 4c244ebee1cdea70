// Package store persists form configurations and accepted submissions in
// SQLite. Form fields are stored as a JSON document column; the row
// carries the indexed partition keys (application type, flags, version).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hume-connect/intake/schema"
	"github.com/hume-connect/intake/validate"
)

// ErrNotFound is returned when no form configuration matches a lookup.
var ErrNotFound = errors.New("form configuration not found")

const ddl = `
CREATE TABLE IF NOT EXISTS form_configurations (
	id               TEXT PRIMARY KEY,
	name             TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	application_type TEXT NOT NULL,
	version          TEXT NOT NULL DEFAULT '1.0.0',
	is_active        INTEGER NOT NULL DEFAULT 1,
	is_default       INTEGER NOT NULL DEFAULT 0,
	fields_json      TEXT NOT NULL,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_form_configurations_type
	ON form_configurations(application_type, is_active, is_default);

CREATE TABLE IF NOT EXISTS submissions (
	id               TEXT PRIMARY KEY,
	application_type TEXT NOT NULL,
	form_id          TEXT NOT NULL,
	form_version     TEXT NOT NULL,
	data_json        TEXT NOT NULL,
	warnings_json    TEXT NOT NULL DEFAULT '[]',
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_type
	ON submissions(application_type, created_at);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// modernc.org/sqlite serializes access per connection; a single
	// connection avoids SQLITE_BUSY under concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring database: %w", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetActiveFormByType resolves the form used to validate submissions of
// the given type: the active default form first, then any active form.
// Returns ErrNotFound when no active form exists for the type.
func (s *Store) GetActiveFormByType(ctx context.Context, t schema.ApplicationType) (*schema.FormConfiguration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, application_type, version, is_active, is_default, fields_json, created_at, updated_at
		FROM form_configurations
		WHERE application_type = ? AND is_active = 1
		ORDER BY is_default DESC, updated_at DESC
		LIMIT 1`, string(t))
	return scanForm(row)
}

// GetByID fetches one form configuration.
func (s *Store) GetByID(ctx context.Context, id string) (*schema.FormConfiguration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, application_type, version, is_active, is_default, fields_json, created_at, updated_at
		FROM form_configurations
		WHERE id = ?`, id)
	return scanForm(row)
}

// List returns every form configuration, grouped by type, newest first
// within a type.
func (s *Store) List(ctx context.Context) ([]*schema.FormConfiguration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, application_type, version, is_active, is_default, fields_json, created_at, updated_at
		FROM form_configurations
		ORDER BY application_type, updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing form configurations: %w", err)
	}
	defer rows.Close()

	var forms []*schema.FormConfiguration
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// Create persists a new form configuration after checking its
// invariants. A missing ID is assigned; when the form is marked default,
// its siblings' default flags are cleared within the same transaction, so
// at most one default per application type can ever be observed.
func (s *Store) Create(ctx context.Context, f *schema.FormConfiguration) error {
	if err := f.CheckInvariants(); err != nil {
		return err
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Version == "" {
		f.Version = "1.0.0"
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	fieldsJSON, err := json.Marshal(f.Fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if f.IsDefault {
			if err := clearDefault(ctx, tx, f.ApplicationType); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO form_configurations
				(id, name, description, application_type, version, is_active, is_default, fields_json, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, f.Description, string(f.ApplicationType), f.Version,
			boolInt(f.IsActive), boolInt(f.IsDefault), string(fieldsJSON),
			now.Format(time.RFC3339), now.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting form configuration: %w", err)
		}
		return nil
	})
}

// Update rewrites an existing form configuration, with the same invariant
// and default-flag handling as Create.
func (s *Store) Update(ctx context.Context, f *schema.FormConfiguration) error {
	if err := f.CheckInvariants(); err != nil {
		return err
	}
	f.UpdatedAt = time.Now().UTC()

	fieldsJSON, err := json.Marshal(f.Fields)
	if err != nil {
		return fmt.Errorf("encoding fields: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if f.IsDefault {
			if err := clearDefault(ctx, tx, f.ApplicationType); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `
			UPDATE form_configurations
			SET name = ?, description = ?, application_type = ?, version = ?,
				is_active = ?, is_default = ?, fields_json = ?, updated_at = ?
			WHERE id = ?`,
			f.Name, f.Description, string(f.ApplicationType), f.Version,
			boolInt(f.IsActive), boolInt(f.IsDefault), string(fieldsJSON),
			f.UpdatedAt.Format(time.RFC3339), f.ID)
		if err != nil {
			return fmt.Errorf("updating form configuration: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SetDefault atomically makes the identified form its type's default,
// clearing the flag on every sibling in the same transaction.
func (s *Store) SetDefault(ctx context.Context, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var appType string
		err := tx.QueryRowContext(ctx,
			`SELECT application_type FROM form_configurations WHERE id = ?`, id).Scan(&appType)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("resolving form %s: %w", id, err)
		}

		if err := clearDefault(ctx, tx, schema.ApplicationType(appType)); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE form_configurations
			SET is_default = 1, updated_at = ?
			WHERE id = ?`, time.Now().UTC().Format(time.RFC3339), id)
		if err != nil {
			return fmt.Errorf("setting default form: %w", err)
		}
		return nil
	})
}

func clearDefault(ctx context.Context, tx *sql.Tx, t schema.ApplicationType) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE form_configurations SET is_default = 0 WHERE application_type = ?`, string(t))
	if err != nil {
		return fmt.Errorf("clearing default flags for %s: %w", t, err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*schema.FormConfiguration, error) {
	var (
		f                    schema.FormConfiguration
		appType              string
		isActive, isDefault  int
		fieldsJSON           string
		createdAt, updatedAt string
	)
	err := row.Scan(&f.ID, &f.Name, &f.Description, &appType, &f.Version,
		&isActive, &isDefault, &fieldsJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning form configuration: %w", err)
	}

	f.ApplicationType = schema.ApplicationType(appType)
	f.IsActive = isActive != 0
	f.IsDefault = isDefault != 0
	if err := json.Unmarshal([]byte(fieldsJSON), &f.Fields); err != nil {
		return nil, fmt.Errorf("decoding fields for form %s: %w", f.ID, err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		f.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		f.UpdatedAt = t
	}
	return &f, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Submission is one accepted, normalized intake payload.
type Submission struct {
	ID              string                 `json:"id"`
	ApplicationType schema.ApplicationType `json:"applicationType"`
	FormID          string                 `json:"formId"`
	FormVersion     string                 `json:"formVersion"`
	Data            map[string]any         `json:"data"`
	Warnings        []validate.Issue       `json:"warnings,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// SaveSubmission persists an accepted submission, assigning an ID when
// missing.
func (s *Store) SaveSubmission(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now().UTC()

	dataJSON, err := json.Marshal(sub.Data)
	if err != nil {
		return fmt.Errorf("encoding submission data: %w", err)
	}
	warnings := sub.Warnings
	if warnings == nil {
		warnings = []validate.Issue{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encoding submission warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, application_type, form_id, form_version, data_json, warnings_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, string(sub.ApplicationType), sub.FormID, sub.FormVersion,
		string(dataJSON), string(warningsJSON), sub.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

// ListSubmissions returns up to limit submissions for a type, newest
// first. A zero limit returns all of them.
func (s *Store) ListSubmissions(ctx context.Context, t schema.ApplicationType, limit int) ([]*Submission, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, application_type, form_id, form_version, data_json, warnings_json, created_at
		FROM submissions
		WHERE application_type = ?
		ORDER BY created_at DESC
		LIMIT ?`, string(t), limit)
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		var (
			sub                    Submission
			appType                string
			dataJSON, warningsJSON string
			createdAt              string
		)
		if err := rows.Scan(&sub.ID, &appType, &sub.FormID, &sub.FormVersion,
			&dataJSON, &warningsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		sub.ApplicationType = schema.ApplicationType(appType)
		if err := json.Unmarshal([]byte(dataJSON), &sub.Data); err != nil {
			return nil, fmt.Errorf("decoding submission %s: %w", sub.ID, err)
		}
		if err := json.Unmarshal([]byte(warningsJSON), &sub.Warnings); err != nil {
			return nil, fmt.Errorf("decoding submission %s warnings: %w", sub.ID, err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sub.CreatedAt = ts
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
