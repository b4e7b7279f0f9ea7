// Package timeline computes the layout of a life-span timeline.
//
// # Overview
//
// A timeline places each [Person] as a horizontal bar spanning its birth and
// death years. The layout engine is a pure function of its inputs: given the
// persons, a grouping mode, an ordered list of groups and a filter it produces
// a [Layout] holding the row assignment, the year-to-pixel [Scale], century
// boundaries, group dividers and repeated century labels. Nothing is cached or
// mutated; every change to the inputs is handled by calling [Build] again.
//
// # Stages
//
// [Build] runs the stages below, each of which is also exported:
//
//  1. [Filter.Apply] and [SortPersons]: select and order the persons
//  2. [ResolveRange]: derive the visible [Span] of years
//  3. [CenturyBoundaries]: list the century starts covering the span
//  4. [NewLinearScale] or [NewCompressedScale]: build the coordinate mapping
//  5. [Place]: assign persons to non-overlapping rows, one bucket per group
//  6. [LocateDividers]: emit the group dividers for the finished rows
//  7. [RepeatingLabels]: repeat century labels down the scrollable height
//
// # Row Placement
//
// [Place] uses first-fit interval scheduling. Each bar is widened by [Buffer]
// years on both sides before the overlap test so that neighbouring bars never
// touch. First-fit is not row-count optimal; it is deterministic and keeps
// persons in birth order within a row.
//
// # Gap Compression
//
// When empty centuries are hidden, runs of centuries that contain no person
// collapse into a [Gap] drawn [GapYears] visual years wide. The compressed
// [Scale.Position] stays monotonic: years inside a gap are interpolated across
// the compressed width.
//
// # Example
//
//	l := timeline.Build(persons, timeline.Options{
//	    Grouping: timeline.GroupByCategory,
//	    Order:    timeline.GroupOrder{"Science", "Politics"},
//	    Filter:   timeline.Filter{TimeRange: timeline.TimeRange{Start: -500, End: 2000}},
//	})
//	for i, row := range l.Rows {
//	    for _, p := range row {
//	        x := l.Scale.Position(p.BirthYear)
//	        w := l.Scale.Width(p.BirthYear, p.DeathYear)
//	        _ = l.RowTop(i)
//	        _, _ = x, w
//	    }
//	}
package timeline
