package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/tinyflags/internal/ir"
)

// Generation records one write of a generated file.
type Generation struct {
	ID               string `json:"id"`
	OutputPath       string `json:"output_path"`
	SpecHash         string `json:"spec_hash"`
	ContentHash      string `json:"content_hash"`
	GeneratorVersion string `json:"generator_version"`
	Seq              int64  `json:"seq"`
}

// Record appends a generation for outputPath, stamped with the current
// generator version and the next logical seq.
func (s *Store) Record(ctx context.Context, outputPath, specHash, contentHash string) (Generation, error) {
	gen := Generation{
		ID:               s.ids.Generate(),
		OutputPath:       outputPath,
		SpecHash:         specHash,
		ContentHash:      contentHash,
		GeneratorVersion: ir.GeneratorVersion,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Generation{}, fmt.Errorf("record generation: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM generations`).Scan(&gen.Seq); err != nil {
		return Generation{}, fmt.Errorf("record generation: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO generations
		(id, output_path, spec_hash, content_hash, generator_version, seq)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		gen.ID,
		gen.OutputPath,
		gen.SpecHash,
		gen.ContentHash,
		gen.GeneratorVersion,
		gen.Seq,
	)
	if err != nil {
		return Generation{}, fmt.Errorf("record generation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Generation{}, fmt.Errorf("record generation: commit: %w", err)
	}
	return gen, nil
}

// Latest returns the most recent generation for outputPath.
// The bool is false when the path has never been recorded.
func (s *Store) Latest(ctx context.Context, outputPath string) (Generation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, output_path, spec_hash, content_hash, generator_version, seq
		FROM generations
		WHERE output_path = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, outputPath)

	gen, err := scanGeneration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Generation{}, false, nil
	}
	if err != nil {
		return Generation{}, false, fmt.Errorf("latest generation: %w", err)
	}
	return gen, true, nil
}

// UpToDate reports whether outputPath was last generated from specHash by
// this generator version and still holds contentHash on disk.
func (s *Store) UpToDate(ctx context.Context, outputPath, specHash, contentHash string) (bool, error) {
	gen, ok, err := s.Latest(ctx, outputPath)
	if err != nil || !ok {
		return false, err
	}
	return gen.SpecHash == specHash &&
		gen.ContentHash == contentHash &&
		gen.GeneratorVersion == ir.GeneratorVersion, nil
}

// History returns generations newest first. An empty outputPath returns
// records for every path.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) History(ctx context.Context, outputPath string) ([]Generation, error) {
	query := `
		SELECT id, output_path, spec_hash, content_hash, generator_version, seq
		FROM generations
	`
	var args []any
	if outputPath != "" {
		query += ` WHERE output_path = ?`
		args = append(args, outputPath)
	}
	query += ` ORDER BY seq DESC, id COLLATE BINARY DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	gens := []Generation{}
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		gens = append(gens, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return gens, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row scanner) (Generation, error) {
	var gen Generation
	err := row.Scan(
		&gen.ID,
		&gen.OutputPath,
		&gen.SpecHash,
		&gen.ContentHash,
		&gen.GeneratorVersion,
		&gen.Seq,
	)
	return gen, err
}
