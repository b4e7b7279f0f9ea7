package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ppy = 3.0

func TestCenturyBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     []int
	}{
		{"positive span", 1450, 1620, []int{1400, 1500, 1600, 1700}},
		{"exact centuries", 1400, 1600, []int{1400, 1500, 1600}},
		{"negative floor", -450, -120, []int{-500, -400, -300, -200, -100}},
		{"crossing zero", -50, 50, []int{-100, 0, 100}},
		{"single year", 1999, 1999, []int{1900, 2000}},
		{"zero", 0, 0, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CenturyBoundaries(tt.min, tt.max))
		})
	}
}

func TestEmptyCenturies(t *testing.T) {
	isEmpty := EmptyCenturies([]Person{
		person("a", -520, -480, "", ""),
		person("b", 1899, 1901, "", ""),
	})

	assert.False(t, isEmpty(-600))
	assert.False(t, isEmpty(-500))
	assert.True(t, isEmpty(-400))
	assert.False(t, isEmpty(1800))
	assert.False(t, isEmpty(1900))
	assert.True(t, isEmpty(2000))
}

func TestLinearScale_Properties(t *testing.T) {
	s := NewLinearScale(-500, CenturyBoundaries(-500, 2000), ppy, 50)

	assert.Equal(t, 50.0, s.Position(-500))
	assert.Equal(t, 50.0+300, s.Position(-400))
	for y := -600; y < 2100; y += 7 {
		assert.Equal(t, 0.0, s.Width(y, y))
		assert.LessOrEqual(t, s.Position(y), s.Position(y+1))
		assert.Equal(t, s.Position(y+13)-s.Position(y), s.Width(y, y+13))
	}
}

// compressionFixture has visible centuries -500, -400 and 0 with -300, -200
// and -100 empty.
func compressionFixture() (boundaries []int, isEmpty func(int) bool) {
	persons := []Person{
		person("a", -480, -420, "", ""),
		person("b", -390, -320, "", ""),
		person("c", 10, 60, "", ""),
	}
	return CenturyBoundaries(-480, 60), EmptyCenturies(persons)
}

func TestCompressedScale_WorkedExample(t *testing.T) {
	boundaries, isEmpty := compressionFixture()
	require.Equal(t, []int{-500, -400, -300, -200, -100, 0, 100}, boundaries)

	s := NewCompressedScale(-480, boundaries, isEmpty, ppy, 50)
	linear := NewLinearScale(-480, boundaries, ppy, 50)

	require.Len(t, s.Gaps(), 1)
	gap := s.Gaps()[0]
	assert.Equal(t, Gap{StartYear: -300, EndYear: 0, HiddenCenturies: []int{-300, -200, -100}}, gap)
	assert.Equal(t, ppy*10, s.GapWidth())
	assert.Equal(t, []int{-500, -400, 0}, s.VisibleCenturies())

	want := linear.Position(-400) + ppy*100 + ppy*10
	assert.Equal(t, want, s.Position(0))
	assert.Equal(t, ppy*10, s.Width(-300, 0))
}

func TestCompressedScale_Monotonic(t *testing.T) {
	boundaries, isEmpty := compressionFixture()
	s := NewCompressedScale(-480, boundaries, isEmpty, ppy, 50)

	assert.Equal(t, 50.0, s.Position(-480))
	for y := -520; y < 150; y++ {
		assert.LessOrEqualf(t, s.Position(y), s.Position(y+1), "year %d", y)
		assert.Equal(t, 0.0, s.Width(y, y))
	}
}

func TestCompressedScale_InsideGapIsInterpolated(t *testing.T) {
	boundaries, isEmpty := compressionFixture()
	s := NewCompressedScale(-480, boundaries, isEmpty, ppy, 50)

	start, end := s.Position(-300), s.Position(0)
	mid := s.Position(-150)
	assert.InDelta(t, (start+end)/2, mid, 1e-9)

	g, ok := s.GapAt(-150)
	require.True(t, ok)
	assert.Equal(t, -300, g.StartYear)
	_, ok = s.GapAt(0)
	assert.False(t, ok)
}

func TestCompressedScale_TotalWidth(t *testing.T) {
	boundaries, isEmpty := compressionFixture()
	s := NewCompressedScale(-480, boundaries, isEmpty, ppy, 50)

	// three visible centuries and one gap
	assert.Equal(t, 50+3*ppy*100+ppy*10, s.TotalWidth())
}

func TestCompressedScale_EquivalentWithoutGaps(t *testing.T) {
	boundaries := CenturyBoundaries(1400, 1700)
	never := func(int) bool { return false }

	s := NewCompressedScale(1400, boundaries, never, ppy, 50)
	linear := NewLinearScale(1400, boundaries, ppy, 50)

	assert.Empty(t, s.Gaps())
	for y := 1300; y < 1800; y += 3 {
		assert.Equal(t, linear.Position(y), s.Position(y))
	}
}

func TestCompressedScale_AllEmptyFallsBackToLinear(t *testing.T) {
	boundaries := CenturyBoundaries(0, 300)
	always := func(int) bool { return true }

	s := NewCompressedScale(0, boundaries, always, ppy, 50)

	assert.False(t, s.Compressed())
	assert.Equal(t, 50.0, s.Position(0))
}

func TestCompressedScale_MultipleGaps(t *testing.T) {
	persons := []Person{
		person("a", -950, -910, "", ""),
		person("b", 10, 50, "", ""),
		person("c", 1500, 1550, "", ""),
	}
	boundaries := CenturyBoundaries(-950, 1550)
	s := NewCompressedScale(-950, boundaries, EmptyCenturies(persons), ppy, 0)

	require.Len(t, s.Gaps(), 2)
	assert.Equal(t, -900, s.Gaps()[0].StartYear)
	assert.Equal(t, 0, s.Gaps()[0].EndYear)
	assert.Equal(t, 100, s.Gaps()[1].StartYear)
	assert.Equal(t, 1500, s.Gaps()[1].EndYear)

	// From the start of century -1000 to 1600: three visible centuries and two gaps.
	assert.Equal(t, 3*ppy*100+2*ppy*10, s.Position(1600)-s.Position(-1000))
}
