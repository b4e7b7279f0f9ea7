package timeline_test

import (
	"fmt"

	"github.com/matzehuels/chronoline/pkg/timeline"
)

func ExampleBuild() {
	persons := []timeline.Person{
		{ID: "p1", Name: "Pericles", BirthYear: -100, DeathYear: -50, Category: "Politics"},
		{ID: "p2", Name: "Hypatia", BirthYear: -40, DeathYear: 10, Category: "Science"},
		{ID: "p3", Name: "Seneca", BirthYear: 50, DeathYear: 100, Category: "Politics"},
	}

	l := timeline.Build(persons, timeline.Options{
		Grouping: timeline.GroupByCategory,
		Order:    timeline.GroupOrder{"Politics", "Science"},
		Filter:   timeline.Filter{TimeRange: timeline.TimeRange{Start: -100, End: 100}},
	})

	fmt.Println("Years:", l.MinYear, "to", l.MaxYear)
	fmt.Println("Boundaries:", l.Boundaries)
	fmt.Println("Rows:", len(l.Rows))
	fmt.Println("First divider:", l.Dividers[0].GroupLabel)
	// Output:
	// Years: -100 to 100
	// Boundaries: [-100 0 100]
	// Rows: 3
	// First divider: Politics
}

func ExamplePlace() {
	persons := []timeline.Person{
		{ID: "P1", BirthYear: -100, DeathYear: -50},
		{ID: "P2", BirthYear: -40, DeathYear: 10},
		{ID: "P3", BirthYear: 50, DeathYear: 100},
	}

	// P2 starts within the 20-year buffer of P1 and needs a second row.
	for i, row := range timeline.Place(persons, timeline.GroupByNone, nil) {
		fmt.Print("row ", i, ":")
		for _, p := range row {
			fmt.Print(" ", p.ID)
		}
		fmt.Println()
	}
	// Output:
	// row 0: P1 P3
	// row 1: P2
}

func ExampleNewCompressedScale() {
	persons := []timeline.Person{
		{ID: "a", BirthYear: -480, DeathYear: -420},
		{ID: "b", BirthYear: -390, DeathYear: -320},
		{ID: "c", BirthYear: 10, DeathYear: 60},
	}
	boundaries := timeline.CenturyBoundaries(-480, 60)

	s := timeline.NewCompressedScale(-480, boundaries, timeline.EmptyCenturies(persons), 3, 50)

	fmt.Println("Gap:", timeline.GapLabel(s.Gaps()[0]))
	fmt.Println("Position(0):", s.Position(0))
	fmt.Println("Total width:", s.TotalWidth())
	// Output:
	// Gap: 300 BC – 0
	// Position(0): 620
	// Total width: 980
}
