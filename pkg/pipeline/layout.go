package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/chronoline/pkg/dataset"
	"github.com/matzehuels/chronoline/pkg/timeline"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the timeline of d under opts. The group order comes
// from opts.Order when set and from the dataset otherwise. Options must have
// passed ValidateForLayout.
func GenerateLayout(d *dataset.Dataset, opts Options) timeline.Layout {
	mode := opts.GroupingMode()
	order := timeline.GroupOrder(opts.Order)
	if len(order) == 0 {
		order = d.GroupOrder(mode)
	}

	return timeline.Build(d.Persons, timeline.Options{
		Grouping:       mode,
		Order:          order,
		Filter:         opts.Filter(),
		PixelsPerYear:  opts.PixelsPerYear,
		LeftPadding:    *opts.LeftPadding,
		ViewportHeight: opts.ViewportHeight,
	})
}

// MarshalLayout serializes a layout for caching and the `layout` command.
func MarshalLayout(l timeline.Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout decodes a layout written by MarshalLayout and rebuilds its
// scale.
func UnmarshalLayout(data []byte) (timeline.Layout, error) {
	var l timeline.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return timeline.Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	l.Rescale()
	return l, nil
}
