package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/chronoline/pkg/dataset"
	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "chronoline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func loadFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.Load(filepath.Join("..", "testdata", "people.json"))
	require.NoError(t, err)
	return d
}

func TestImportDataset_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	src := loadFixture(t)

	n, err := s.ImportDataset(ctx, src, "people.json")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got, err := s.Dataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	imp, err := s.LastImport(ctx)
	require.NoError(t, err)
	assert.Equal(t, "people.json", imp.Source)
	assert.Equal(t, 5, imp.Persons)
	assert.False(t, imp.ImportedAt.IsZero())
}

func TestImportDataset_Replaces(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.ImportDataset(ctx, loadFixture(t), "first")
	require.NoError(t, err)

	small := &dataset.Dataset{Persons: []timeline.Person{{ID: "x", Name: "X", BirthYear: 1, DeathYear: 2}}}
	_, err = s.ImportDataset(ctx, small, "second")
	require.NoError(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := s.Dataset(ctx)
	require.NoError(t, err)
	assert.Nil(t, got.Categories)
}

func TestPersons_Query(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.ImportDataset(ctx, loadFixture(t), "people.json")
	require.NoError(t, err)

	ids := func(ps []timeline.Person) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	got, err := s.Persons(ctx, Query{Category: "Science"})
	require.NoError(t, err)
	assert.Equal(t, []string{"archimedes", "newton"}, ids(got))

	got, err = s.Persons(ctx, Query{Country: "Sicily"})
	require.NoError(t, err)
	assert.Equal(t, []string{"archimedes"}, ids(got))

	got, err = s.Persons(ctx, Query{Country: "Greece"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pericles", "archimedes"}, ids(got))

	got, err = s.Persons(ctx, Query{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQuery_FilterMatchesPersons(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	d := loadFixture(t)
	_, err := s.ImportDataset(ctx, d, "people.json")
	require.NoError(t, err)

	for _, q := range []Query{
		{},
		{Category: "Politics"},
		{Country: "Greece"},
		{Country: "Sicily", Category: "Science"},
		{Category: "Science", Limit: 1},
		{Country: "Atlantis"},
	} {
		stored, err := s.Persons(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, stored, q.Filter(d.Persons), "query %+v", q)
	}
}

func TestPerson(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	_, err := s.ImportDataset(ctx, loadFixture(t), "people.json")
	require.NoError(t, err)

	p, err := s.Person(ctx, "augustus")
	require.NoError(t, err)
	require.NotNil(t, p.ReignEnd)
	assert.Equal(t, 14, *p.ReignEnd)

	_, err = s.Person(ctx, "caligula")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, apperr.IsNotFound(err))
}

func TestLastImport_Empty(t *testing.T) {
	s := openTestStore(t)
	_, err := s.LastImport(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
