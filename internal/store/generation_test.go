package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tinyflags/internal/ir"
)

func TestRecordAssignsSeqAndVersion(t *testing.T) {
	s := createTestStore(t, "gen-1", "gen-2")
	ctx := context.Background()

	first, err := s.Record(ctx, "perm_flags.go", "spec-a", "content-a")
	require.NoError(t, err)
	assert.Equal(t, Generation{
		ID:               "gen-1",
		OutputPath:       "perm_flags.go",
		SpecHash:         "spec-a",
		ContentHash:      "content-a",
		GeneratorVersion: ir.GeneratorVersion,
		Seq:              1,
	}, first)

	second, err := s.Record(ctx, "other_flags.go", "spec-b", "content-b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq, "seq is global across outputs")
}

func TestLatest(t *testing.T) {
	s := createTestStore(t, "gen-1", "gen-2", "gen-3")
	ctx := context.Background()

	_, ok, err := s.Latest(ctx, "perm_flags.go")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Record(ctx, "perm_flags.go", "spec-a", "content-a")
	require.NoError(t, err)
	_, err = s.Record(ctx, "other_flags.go", "spec-x", "content-x")
	require.NoError(t, err)
	_, err = s.Record(ctx, "perm_flags.go", "spec-b", "content-b")
	require.NoError(t, err)

	latest, ok, err := s.Latest(ctx, "perm_flags.go")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gen-3", latest.ID)
	assert.Equal(t, "spec-b", latest.SpecHash)
}

func TestUpToDate(t *testing.T) {
	s := createTestStore(t, "gen-1", "gen-2")
	ctx := context.Background()

	ok, err := s.UpToDate(ctx, "perm_flags.go", "spec-a", "content-a")
	require.NoError(t, err)
	assert.False(t, ok, "never generated")

	_, err = s.Record(ctx, "perm_flags.go", "spec-a", "content-a")
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		spec    string
		content string
		want    bool
	}{
		{"unchanged", "perm_flags.go", "spec-a", "content-a", true},
		{"schema changed", "perm_flags.go", "spec-b", "content-a", false},
		{"output edited", "perm_flags.go", "spec-a", "content-z", false},
		{"other path", "other_flags.go", "spec-a", "content-a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.UpToDate(ctx, tt.path, tt.spec, tt.content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err = s.Record(ctx, "perm_flags.go", "spec-b", "content-b")
	require.NoError(t, err)
	ok, err = s.UpToDate(ctx, "perm_flags.go", "spec-a", "content-a")
	require.NoError(t, err)
	assert.False(t, ok, "only the latest record counts")
}

func TestUpToDateRejectsOtherGeneratorVersion(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (id, output_path, spec_hash, content_hash, generator_version, seq)
		VALUES ('old', 'perm_flags.go', 'spec-a', 'content-a', '0.0.1', 1)
	`)
	require.NoError(t, err)

	ok, err := s.UpToDate(ctx, "perm_flags.go", "spec-a", "content-a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistory(t *testing.T) {
	s := createTestStore(t, "gen-1", "gen-2", "gen-3")
	ctx := context.Background()

	empty, err := s.History(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, path := range []string{"a_flags.go", "b_flags.go", "a_flags.go"} {
		_, err := s.Record(ctx, path, "spec", "content")
		require.NoError(t, err)
	}

	all, err := s.History(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].Seq, all[1].Seq, all[2].Seq})

	onlyA, err := s.History(ctx, "a_flags.go")
	require.NoError(t, err)
	require.Len(t, onlyA, 2)
	assert.Equal(t, "gen-3", onlyA[0].ID)
	assert.Equal(t, "gen-1", onlyA[1].ID)
}

func TestRecordDuplicateIDFails(t *testing.T) {
	s := createTestStore(t, "same", "same")
	ctx := context.Background()

	_, err := s.Record(ctx, "a_flags.go", "spec", "content")
	require.NoError(t, err)

	_, err = s.Record(ctx, "a_flags.go", "spec", "content")
	require.Error(t, err)

	history, err := s.History(ctx, "")
	require.NoError(t, err)
	assert.Len(t, history, 1, "failed record is rolled back")
}

func TestUUIDv7Generator(t *testing.T) {
	id := UUIDv7Generator{}.Generate()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, UUIDv7Generator{}.Generate())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestDefaultGeneratorIsUUIDv7(t *testing.T) {
	s, err := Open(t.TempDir() + "/cache.db")
	require.NoError(t, err)
	defer s.Close()

	gen, err := s.Record(context.Background(), "a_flags.go", "spec", "content")
	require.NoError(t, err)

	parsed, err := uuid.Parse(gen.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}
