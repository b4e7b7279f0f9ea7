package api

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
	"github.com/matzehuels/chronoline/pkg/pipeline"
)

// optionsFromQuery applies query parameters on top of base:
//
//	group=category|country|none  order=a,b  category=a,b  country=a,b
//	start=-500  end=1500  hide_empty=1  achievements=1
//	ppy=3  left_padding=50  viewport_height=800
//	theme=dark  title=...  no_grid=1  width=120  refresh=1
func optionsFromQuery(q url.Values, base pipeline.Options) (pipeline.Options, error) {
	opts := cloneOptions(base)

	if v := q.Get("group"); v != "" {
		opts.Grouping = v
	}
	if v := list(q, "order"); v != nil {
		opts.Order = v
	}
	if v := list(q, "category"); v != nil {
		opts.Categories = v
	}
	if v := list(q, "country"); v != nil {
		opts.Countries = v
	}

	ints := []struct {
		name string
		set  func(int)
	}{
		{"start", func(n int) { opts.Start = &n }},
		{"end", func(n int) { opts.End = &n }},
		{"width", func(n int) { opts.TextWidth = n }},
	}
	for _, p := range ints {
		if v := q.Get(p.name); v != "" {
			n, err := parseInt(p.name, v)
			if err != nil {
				return opts, err
			}
			p.set(n)
		}
	}

	floats := []struct {
		name string
		set  func(float64)
	}{
		{"ppy", func(f float64) { opts.PixelsPerYear = f }},
		{"left_padding", func(f float64) { opts.LeftPadding = &f }},
		{"viewport_height", func(f float64) { opts.ViewportHeight = f }},
	}
	for _, p := range floats {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, apperr.New(apperr.ErrCodeInvalidInput, "%s: not a number: %q", p.name, v)
			}
			p.set(f)
		}
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"hide_empty", &opts.HideEmptyCenturies},
		{"achievements", &opts.ShowAchievements},
		{"no_grid", &opts.NoGrid},
		{"refresh", &opts.Refresh},
	}
	for _, p := range bools {
		if v := q.Get(p.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, apperr.New(apperr.ErrCodeInvalidInput, "%s: not a boolean: %q", p.name, v)
			}
			*p.dst = b
		}
	}

	if v := q.Get("theme"); v != "" {
		opts.Theme = v
	}
	if v := q.Get("title"); v != "" {
		opts.Title = v
	}
	return opts, nil
}

// list reads a parameter given either repeated or comma-separated. It
// returns nil when the parameter is absent.
func list(q url.Values, name string) []string {
	var out []string
	for _, v := range q[name] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "%s: not an integer: %q", name, v)
	}
	return n, nil
}

// cloneOptions copies o so that a request can change it without touching
// the server defaults shared by other requests.
func cloneOptions(o pipeline.Options) pipeline.Options {
	o.Order = slices.Clone(o.Order)
	o.Categories = slices.Clone(o.Categories)
	o.Countries = slices.Clone(o.Countries)
	o.Formats = slices.Clone(o.Formats)
	if o.Start != nil {
		v := *o.Start
		o.Start = &v
	}
	if o.End != nil {
		v := *o.End
		o.End = &v
	}
	if o.LeftPadding != nil {
		v := *o.LeftPadding
		o.LeftPadding = &v
	}
	return o
}
