package chart

import (
	"net/url"

	"titipsini/internal/core"
)

// Legend records which channels are hidden. The zero value shows every
// channel. Legend values are immutable; Toggle returns a new one.
type Legend struct {
	hidden map[core.Channel]bool
}

// LegendEntry is one clickable legend item.
type LegendEntry struct {
	Channel core.Channel
	Label   string
	Color   string
	Visible bool
	// Query is the query string that renders the page with this entry flipped.
	Query string
}

// NewLegend returns a legend with the given channels hidden.
func NewLegend(hidden ...core.Channel) Legend {
	l := Legend{}
	for _, c := range hidden {
		if _, ok := core.ParseChannel(string(c)); !ok {
			continue
		}
		if l.hidden == nil {
			l.hidden = make(map[core.Channel]bool)
		}
		l.hidden[c] = true
	}
	return l
}

// ParseLegend reads repeated "hide" query parameters. Unknown channels are
// ignored.
func ParseLegend(q url.Values) Legend {
	var hidden []core.Channel
	for _, v := range q["hide"] {
		if c, ok := core.ParseChannel(v); ok {
			hidden = append(hidden, c)
		}
	}
	return NewLegend(hidden...)
}

func (l Legend) Visible(c core.Channel) bool {
	return !l.hidden[c]
}

// Toggle flips the visibility of c only.
func (l Legend) Toggle(c core.Channel) Legend {
	var hidden []core.Channel
	for _, ch := range core.Channels() {
		vis := l.Visible(ch)
		if ch == c {
			vis = !vis
		}
		if !vis {
			hidden = append(hidden, ch)
		}
	}
	return NewLegend(hidden...)
}

// Hidden lists hidden channels in plotting order.
func (l Legend) Hidden() []core.Channel {
	var out []core.Channel
	for _, c := range core.Channels() {
		if !l.Visible(c) {
			out = append(out, c)
		}
	}
	return out
}

// Query encodes the range and legend state, e.g. "hide=dokumen&range=week".
func (l Legend) Query(tr core.TimeRange) string {
	q := url.Values{}
	q.Set("range", tr.String())
	for _, c := range l.Hidden() {
		q.Add("hide", string(c))
	}
	return q.Encode()
}

// Entries returns the legend items with their toggle links.
func (l Legend) Entries(tr core.TimeRange) []LegendEntry {
	out := make([]LegendEntry, 0, len(core.Channels()))
	for _, c := range core.Channels() {
		out = append(out, LegendEntry{
			Channel: c,
			Label:   c.Label(),
			Color:   c.Color(),
			Visible: l.Visible(c),
			Query:   l.Toggle(c).Query(tr),
		})
	}
	return out
}
