package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateDividers_None(t *testing.T) {
	rows := []Row{{person("a", 0, 10, "X", "")}}
	assert.Empty(t, LocateDividers(rows, GroupByNone))
}

func TestLocateDividers_Offsets(t *testing.T) {
	persons := []Person{
		person("p1", 1600, 1680, "Politics", ""),
		person("s1", 1600, 1650, "Science", ""),
		person("s2", 1620, 1700, "Science", ""),
		person("a1", 1700, 1750, "Art", ""),
	}
	rows := Place(persons, GroupByCategory, GroupOrder{"Politics", "Science", "Art"})
	// Politics, spacer, Science, Science, spacer, Art
	require.Len(t, rows, 6)

	dividers := LocateDividers(rows, GroupByCategory)

	require.Len(t, dividers, 3)
	// Science starts after one row (70) and one spacer (20).
	assert.Equal(t, Divider{GroupLabel: "Politics", TopPixel: 90 - 5}, dividers[0])
	// Art starts after three rows (210) and two spacers (40).
	assert.Equal(t, Divider{GroupLabel: "Science", TopPixel: 250 - 5}, dividers[1])
	assert.Equal(t, Divider{GroupLabel: "Art", TopPixel: 250, Terminal: true}, dividers[2])
}

func TestLocateDividers_CountMatchesGroups(t *testing.T) {
	categories := GroupOrder{"A", "B", "C", "D"}
	for seed := uint64(1); seed <= 10; seed++ {
		persons := randomPersons(seed, 80, categories)
		rows := Place(persons, GroupByCategory, categories)

		groups := map[string]bool{}
		for _, r := range rows {
			if !r.IsSpacer() {
				groups[r[0].Category] = true
			}
		}

		dividers := LocateDividers(rows, GroupByCategory)
		assert.Equal(t, len(groups)-1, BoundaryCount(dividers), "seed %d", seed)
		require.NotEmpty(t, dividers)
		assert.True(t, dividers[len(dividers)-1].Terminal)
	}
}

func TestLocateDividers_SingleGroup(t *testing.T) {
	rows := Place([]Person{person("a", 0, 10, "", "Greece/Rome")}, GroupByCountry, GroupOrder{"Greece"})

	dividers := LocateDividers(rows, GroupByCountry)

	require.Len(t, dividers, 1)
	assert.Equal(t, "Greece", dividers[0].GroupLabel)
	assert.True(t, dividers[0].Terminal)
	assert.Zero(t, BoundaryCount(dividers))
}

func TestLocateDividers_Empty(t *testing.T) {
	assert.Empty(t, LocateDividers(nil, GroupByCategory))
}

func TestRowTops(t *testing.T) {
	rows := []Row{{person("a", 0, 1, "", "")}, {}, {person("b", 0, 1, "", "")}}

	tops, height := RowTops(rows)

	assert.Equal(t, []float64{0, 70, 90}, tops)
	assert.Equal(t, 160.0, height)
}
