package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

func intp(v int) *int { return &v }

func TestLoad_JSON(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "people.json"))
	require.NoError(t, err)

	assert.Len(t, d.Persons, 5)
	assert.Equal(t, []string{"Politics", "Science", "Art"}, d.Categories)

	aug, err := d.Person("augustus")
	require.NoError(t, err)
	assert.Equal(t, intp(-27), aug.ReignStart)
	assert.True(t, aug.HasReign())

	newton, err := d.Person("newton")
	require.NoError(t, err)
	assert.Equal(t, []timeline.Achievement{{Year: 1687, Label: "Principia"}, {Year: 1704, Label: "Opticks"}}, newton.Achievements)

	assert.Empty(t, Validate(d))
}

func TestLoad_YAMLDerivesOrderAndIDs(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	require.Len(t, d.Persons, 3)
	assert.Equal(t, []string{"Politics", "Science"}, d.Categories)
	assert.Equal(t, []string{"Greece", "Rome", "England"}, d.Countries)
	for _, p := range d.Persons {
		assert.NotEmpty(t, p.ID)
	}
	assert.Equal(t, StableID(d.Persons[0]), d.Persons[0].ID)

	again, err := Load(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)
	assert.Equal(t, d.Persons[0].ID, again.Persons[0].ID, "ids must be stable across loads")
}

func TestLoad_CSV(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "people.csv"))
	require.NoError(t, err)

	require.Len(t, d.Persons, 3)
	pericles := d.Persons[0]
	assert.Nil(t, pericles.ReignStart)
	assert.Equal(t, "Greece", pericles.PrimaryCountry())

	newton := d.Persons[2]
	// Four achievements in the file, truncated to the display limit.
	assert.Len(t, newton.Achievements, timeline.MaxAchievements)
	assert.Equal(t, timeline.Achievement{Year: 1705, Label: "Knighted"}, newton.Achievements[2])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	assert.True(t, apperr.Is(err, apperr.ErrCodeFileNotFound), "got %v", err)

	_, err = Load(filepath.Join("testdata", "people.xml"))
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidFormat), "got %v", err)

	_, err = Load("people")
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidFormat), "got %v", err)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing column", "name,birth\nA,1\n"},
		{"bad year", "name,birth,death\nA,one,2\n"},
		{"bad achievement", "name,birth,death,achievements\nA,1,2,x:y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidDataset), "got %v", err)
		})
	}
}

func TestReadJSON_Malformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"persons": [`))
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidDataset))
}

func TestParseAchievements(t *testing.T) {
	got, err := ParseAchievements(" 1687:Principia ; 1704 ;")
	require.NoError(t, err)
	assert.Equal(t, []timeline.Achievement{{Year: 1687, Label: "Principia"}, {Year: 1704}}, got)
	assert.Equal(t, "1687:Principia;1704", FormatAchievements(got))

	got, err = ParseAchievements("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWriteRoundTrip(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "people.json"))
	require.NoError(t, err)

	for _, format := range []Format{FormatJSON, FormatYAML, FormatCSV} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(src, &buf, format))

			got, err := Read(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, src.Persons, got.Persons)
		})
	}
}

func TestExport(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "people.csv"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Export(src, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestGroupOrder(t *testing.T) {
	d := &Dataset{
		Categories: []string{"Science", "Art"},
		Countries:  []string{"Greece/Athens", "Rome", "Greece"},
	}

	assert.Equal(t, timeline.GroupOrder{"Science", "Art"}, d.GroupOrder(timeline.GroupByCategory))
	assert.Equal(t, timeline.GroupOrder{"Greece", "Rome"}, d.GroupOrder(timeline.GroupByCountry))
	assert.Nil(t, d.GroupOrder(timeline.GroupByNone))
}

func TestClone_NormalizeLeavesOriginal(t *testing.T) {
	d := &Dataset{Persons: []timeline.Person{{Name: "A", BirthYear: 1900, DeathYear: 1950, Category: "Science"}}}

	c := d.Clone()
	c.Normalize()

	assert.Equal(t, []string{"Science"}, c.Categories)
	assert.NotEmpty(t, c.Persons[0].ID)
	assert.Nil(t, d.Categories)
	assert.Empty(t, d.Persons[0].ID)
}

func TestPerson_NotFound(t *testing.T) {
	d := &Dataset{}
	_, err := d.Person("nobody")
	assert.True(t, apperr.IsNotFound(err))
}

func TestValidate(t *testing.T) {
	d := &Dataset{
		Categories: []string{"Science"},
		Persons: []timeline.Person{
			{ID: "a", Name: "A", BirthYear: 1900, DeathYear: 1800, Category: "Science"},
			{ID: "a", Name: "Dup", BirthYear: 1900, DeathYear: 1950, Category: "Science"},
			{ID: "b", Name: "B", BirthYear: 1900, DeathYear: 1950, Category: "Art"},
			{ID: "c", Name: "C", BirthYear: 1900, DeathYear: 1950, Category: "Science",
				ReignStart: intp(1940), ReignEnd: intp(1960)},
			{ID: "d", Name: "D", BirthYear: 1900, DeathYear: 1950, Category: "Science",
				Achievements: []timeline.Achievement{{Year: 1990}}},
			{ID: "e", Name: "", BirthYear: 1900, DeathYear: 1950, Category: "Science", ReignStart: intp(1920)},
		},
	}

	byID := map[string][]string{}
	for _, w := range Validate(d) {
		byID[w.PersonID] = append(byID[w.PersonID], w.Message)
	}

	assert.Len(t, byID["a"], 2, "birth after death and duplicate id")
	require.Len(t, byID["b"], 1)
	assert.Contains(t, byID["b"][0], "not in the category order")
	require.Len(t, byID["c"], 1)
	assert.Contains(t, byID["c"][0], "outside life")
	require.Len(t, byID["d"], 1)
	assert.Contains(t, byID["d"][0], "achievement")
	assert.Len(t, byID["e"], 2, "empty name and half reign")
}
