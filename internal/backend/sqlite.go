package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"github.com/amancerp/graphweave/internal/apperr"
)

// SQLiteSession implements Session on top of modernc.org/sqlite for
// row storage, with ANN ordering on embedding columns supplied by an
// in-process annIndex/partitionedIndex pair rather than a database-
// native index — the closest local stand-in for a wide-column store's
// storage-attached vector index.
type SQLiteSession struct {
	db          *sql.DB
	path        string
	nodeIndex   *annIndex
	targetIndex *partitionedIndex
}

var _ Session = (*SQLiteSession)(nil)

// Open creates or opens a SQLite-backed session at path (":memory:"
// or "" for an ephemeral in-memory store), in WAL mode for
// concurrent-process access, and applies the schema per mode.
func Open(ctx context.Context, path string, dimensions int, mode SetupMode) (*SQLiteSession, error) {
	dsn := ":memory:"
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, apperr.Wrap(apperr.Backend, "create database directory", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "open database", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, apperr.Wrap(apperr.Backend, "set pragma", err)
		}
	}

	s := &SQLiteSession{
		db:          db,
		path:        path,
		nodeIndex:   newANNIndex(),
		targetIndex: newPartitionedIndex(),
	}

	switch mode {
	case SetupSync:
		if err := s.ApplySchema(ctx, dimensions); err != nil {
			_ = db.Close()
			return nil, err
		}
	case SetupOff:
		// caller asserts the schema already exists
	default:
		_ = db.Close()
		return nil, apperr.New(apperr.Configuration, fmt.Sprintf("unsupported setup mode %d; only SetupSync and SetupOff are accepted", mode), nil)
	}

	if err := s.loadIndexes(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// loadIndexes rebuilds the in-memory ANN indexes from whatever rows
// already exist on disk — they don't persist across process restarts
// the way the SQL rows do.
func (s *SQLiteSession) loadIndexes(ctx context.Context) error {
	nodeRows, err := s.db.QueryContext(ctx, `SELECT content_id, embedding_blob FROM nodes`)
	if err != nil {
		return apperr.Wrap(apperr.Backend, "load node embeddings", err)
	}
	defer nodeRows.Close()

	for nodeRows.Next() {
		var id, blob string
		if err := nodeRows.Scan(&id, &blob); err != nil {
			return apperr.Wrap(apperr.Backend, "scan node embedding", err)
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return err
		}
		s.nodeIndex.Upsert(id, vec)
	}
	if err := nodeRows.Err(); err != nil {
		return apperr.Wrap(apperr.Backend, "iterate node embeddings", err)
	}

	targetRows, err := s.db.QueryContext(ctx, `SELECT target_content_id, kind, tag, embedding_blob FROM targets`)
	if err != nil {
		return apperr.Wrap(apperr.Backend, "load target embeddings", err)
	}
	defer targetRows.Close()

	for targetRows.Next() {
		var id, kind, tag, blob string
		if err := targetRows.Scan(&id, &kind, &tag, &blob); err != nil {
			return apperr.Wrap(apperr.Backend, "scan target embedding", err)
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return err
		}
		s.targetIndex.Upsert(kind, tag, id, vec)
	}
	return targetRows.Err()
}

// ApplySchema implements Session.
func (s *SQLiteSession) ApplySchema(ctx context.Context, dimensions int) error {
	return applySchemaLocked(ctx, s.db, s.path, dimensions)
}

func encodeEmbedding(v []float64) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", apperr.Wrap(apperr.Shape, "encode embedding", err)
	}
	return string(b), nil
}

func decodeEmbedding(blob string) ([]float64, error) {
	var v []float64
	if err := json.Unmarshal([]byte(blob), &v); err != nil {
		return nil, apperr.Wrap(apperr.Shape, "decode embedding", err)
	}
	return v, nil
}

func encodeLinkToTags(pairs [][2]string) (string, error) {
	b, err := json.Marshal(pairs)
	if err != nil {
		return "", apperr.Wrap(apperr.Shape, "encode link-to-tags", err)
	}
	return string(b), nil
}

func decodeLinkToTags(blob string) ([][2]string, error) {
	var pairs [][2]string
	if blob == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(blob), &pairs); err != nil {
		return nil, apperr.Wrap(apperr.Shape, "decode link-to-tags", err)
	}
	return pairs, nil
}

// InsertNode implements Session.
func (s *SQLiteSession) InsertNode(ctx context.Context, id, text string, embedding []float64, linkToTags [][2]string, metadataBlob, linksBlob string) error {
	embeddingBlob, err := encodeEmbedding(embedding)
	if err != nil {
		return err
	}
	linkToTagsBlob, err := encodeLinkToTags(linkToTags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (content_id, text_content, embedding_blob, link_to_tags_blob, metadata_blob, links_blob)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_id) DO UPDATE SET
			text_content = excluded.text_content,
			embedding_blob = excluded.embedding_blob,
			link_to_tags_blob = excluded.link_to_tags_blob,
			metadata_blob = excluded.metadata_blob,
			links_blob = excluded.links_blob
	`, id, text, embeddingBlob, linkToTagsBlob, metadataBlob, linksBlob)
	if err != nil {
		return apperr.Wrap(apperr.Backend, "insert node", err)
	}

	s.nodeIndex.Upsert(id, embedding)
	return nil
}

// InsertTarget implements Session.
func (s *SQLiteSession) InsertTarget(ctx context.Context, targetID, kind, tag string, embedding []float64) error {
	embeddingBlob, err := encodeEmbedding(embedding)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO targets (target_content_id, kind, tag, embedding_blob)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (target_content_id, kind, tag) DO UPDATE SET
			embedding_blob = excluded.embedding_blob
	`, targetID, kind, tag, embeddingBlob)
	if err != nil {
		return apperr.Wrap(apperr.Backend, "insert target", err)
	}

	s.targetIndex.Upsert(kind, tag, targetID, embedding)
	return nil
}

// NodeByID implements Session.
func (s *SQLiteSession) NodeByID(ctx context.Context, id string) (NodeRow, bool, error) {
	var row NodeRow
	err := s.db.QueryRowContext(ctx, `
		SELECT content_id, text_content, metadata_blob, links_blob
		FROM nodes WHERE content_id = ?
	`, id).Scan(&row.ContentID, &row.TextContent, &row.MetadataBlob, &row.LinksBlob)
	if err == sql.ErrNoRows {
		return NodeRow{}, false, nil
	}
	if err != nil {
		return NodeRow{}, false, apperr.Wrap(apperr.Backend, "query node by id", err)
	}
	return row, true, nil
}

func (s *SQLiteSession) nodeRowsByIDs(ctx context.Context, ids []string) ([]NodeRow, error) {
	out := make([]NodeRow, 0, len(ids))
	for _, id := range ids {
		row, ok, err := s.NodeByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

// NodesByEmbedding implements Session.
func (s *SQLiteSession) NodesByEmbedding(ctx context.Context, embedding []float64, k int) ([]NodeRow, error) {
	ids := s.nodeIndex.Search(embedding, k)
	return s.nodeRowsByIDs(ctx, ids)
}

// IDsAndLinkToTagsByEmbedding implements Session.
func (s *SQLiteSession) IDsAndLinkToTagsByEmbedding(ctx context.Context, embedding []float64, k int) ([]IDLinkToTagsRow, error) {
	ids := s.nodeIndex.Search(embedding, k)
	out := make([]IDLinkToTagsRow, 0, len(ids))
	for _, id := range ids {
		rows, err := s.IDsAndLinkToTagsByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

// IDsAndLinkToTagsByID implements Session.
func (s *SQLiteSession) IDsAndLinkToTagsByID(ctx context.Context, id string) ([]IDLinkToTagsRow, error) {
	var blob string
	err := s.db.QueryRowContext(ctx, `
		SELECT link_to_tags_blob FROM nodes WHERE content_id = ?
	`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "query link-to-tags by id", err)
	}
	pairs, err := decodeLinkToTags(blob)
	if err != nil {
		return nil, err
	}
	return []IDLinkToTagsRow{{ContentID: id, LinkToTags: pairs}}, nil
}

// IDsAndEmbeddingByEmbedding implements Session.
func (s *SQLiteSession) IDsAndEmbeddingByEmbedding(ctx context.Context, embedding []float64, k int) ([]IDEmbeddingRow, error) {
	ids := s.nodeIndex.Search(embedding, k)
	out := make([]IDEmbeddingRow, 0, len(ids))
	for _, id := range ids {
		var blob string
		err := s.db.QueryRowContext(ctx, `SELECT embedding_blob FROM nodes WHERE content_id = ?`, id).Scan(&blob)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Backend, "query embedding by id", err)
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, IDEmbeddingRow{ContentID: id, Embedding: vec})
	}
	return out, nil
}

// SourceTagsByID implements Session.
func (s *SQLiteSession) SourceTagsByID(ctx context.Context, id string) ([][2]string, error) {
	rows, err := s.IDsAndLinkToTagsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].LinkToTags, nil
}

// TargetsEmbeddingsByKindTagEmbedding implements Session.
func (s *SQLiteSession) TargetsEmbeddingsByKindTagEmbedding(ctx context.Context, kind, tag string, embedding []float64, k int) ([]TargetEmbeddingRow, error) {
	ids := s.targetIndex.Search(kind, tag, embedding, k)
	out := make([]TargetEmbeddingRow, 0, len(ids))
	for _, id := range ids {
		var blob string
		err := s.db.QueryRowContext(ctx, `
			SELECT embedding_blob FROM targets WHERE target_content_id = ? AND kind = ? AND tag = ?
		`, id, kind, tag).Scan(&blob)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.Backend, "query target embedding", err)
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, err
		}
		out = append(out, TargetEmbeddingRow{TargetContentID: id, Embedding: vec, Tag: tag})
	}
	return out, nil
}

// TargetsByKindAndValue implements Session.
func (s *SQLiteSession) TargetsByKindAndValue(ctx context.Context, kind, tag string) ([]TargetRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT target_content_id, kind, tag FROM targets WHERE kind = ? AND tag = ?
	`, kind, tag)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "query targets by kind and value", err)
	}
	defer rows.Close()

	var out []TargetRow
	for rows.Next() {
		var row TargetRow
		if err := rows.Scan(&row.TargetContentID, &row.Kind, &row.Tag); err != nil {
			return nil, apperr.Wrap(apperr.Backend, "scan target row", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close implements Session.
func (s *SQLiteSession) Close() error {
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}
