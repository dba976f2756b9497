package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/amancerp/graphweave/internal/apperr"
)

// SetupMode controls how ApplySchema behaves when a Session is
// opened. Only SetupSync and SetupOff are accepted; any other value,
// including SetupAsync, is a Configuration error — the original store
// defines SetupMode.ASYNC but rejects it the same as any unrecognized
// value, and this port preserves that rather than actually
// implementing a background apply (see DESIGN.md).
type SetupMode int

const (
	// SetupSync applies the schema inline before the session is
	// returned to the caller.
	SetupSync SetupMode = iota
	// SetupAsync is accepted as an enum value but rejected by Open —
	// present only so callers porting code that references it get a
	// clear Configuration error instead of a silent different mode.
	SetupAsync
	// SetupOff skips schema application; the caller is responsible
	// for the tables already existing.
	SetupOff
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_meta (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	dimensions INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
	content_id TEXT PRIMARY KEY,
	text_content TEXT NOT NULL,
	embedding_blob TEXT NOT NULL,
	link_to_tags_blob TEXT NOT NULL,
	metadata_blob TEXT NOT NULL,
	links_blob TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS targets (
	target_content_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	tag TEXT NOT NULL,
	embedding_blob TEXT NOT NULL,
	PRIMARY KEY (target_content_id, kind, tag)
);

CREATE INDEX IF NOT EXISTS targets_kind_tag_idx ON targets (kind, tag);
`

// applySchemaLocked runs schemaDDL and records the embedding
// dimension, guarded by a cross-process file lock so two instances
// racing to create the schema against the same database file don't
// interleave DDL statements. The lock lives alongside the database
// file, following the coordination pattern the teacher uses to guard
// a concurrent model download.
func applySchemaLocked(ctx context.Context, db *sql.DB, dbPath string, dimensions int) error {
	lockPath := dbPath + ".schema.lock"
	if dbPath == "" || dbPath == ":memory:" {
		return applySchema(ctx, db, dimensions)
	}

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return apperr.Wrap(apperr.Backend, "create schema lock directory", err)
	}

	fl := flock.New(lockPath)
	if err := fl.Lock(); err != nil {
		return apperr.Wrap(apperr.Backend, "acquire schema lock", err)
	}
	defer func() { _ = fl.Unlock() }()

	return applySchema(ctx, db, dimensions)
}

func applySchema(ctx context.Context, db *sql.DB, dimensions int) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return apperr.Wrap(apperr.Backend, "apply schema", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO schema_meta (id, dimensions) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET dimensions = excluded.dimensions
		 WHERE schema_meta.dimensions = 0`, dimensions); err != nil {
		return apperr.Wrap(apperr.Backend, "record schema dimensions", err)
	}

	var stored int
	err := db.QueryRowContext(ctx, `SELECT dimensions FROM schema_meta WHERE id = 1`).Scan(&stored)
	if err != nil {
		return apperr.Wrap(apperr.Backend, "read schema dimensions", err)
	}
	if stored != 0 && stored != dimensions {
		return apperr.New(apperr.Configuration, fmt.Sprintf(
			"embedding dimension %d does not match the %d the store was created with", dimensions, stored), nil)
	}

	return nil
}
