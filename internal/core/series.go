package core

import (
	"strconv"
	"strings"
)

const (
	ChannelElektronik Channel = "elektronik"
	ChannelDokumen    Channel = "dokumen"
	ChannelPerhiasan  Channel = "perhiasan"
)

// Channel is one consigned-item category plotted on the dashboard chart.
type Channel string

// Channels returns the chart channels in plotting order.
func Channels() []Channel {
	return []Channel{ChannelElektronik, ChannelDokumen, ChannelPerhiasan}
}

// ParseChannel matches a channel name case-insensitively.
func ParseChannel(s string) (Channel, bool) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Channels() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

func (c Channel) Label() string {
	switch c {
	case ChannelElektronik:
		return "Elektronik"
	case ChannelDokumen:
		return "Dokumen"
	case ChannelPerhiasan:
		return "Perhiasan"
	default:
		return string(c)
	}
}

// Color is the stroke colour used for the channel's area.
func (c Channel) Color() string {
	switch c {
	case ChannelElektronik:
		return "#1d4ed8"
	case ChannelDokumen:
		return "#f59e0b"
	case ChannelPerhiasan:
		return "#10b981"
	default:
		return "#6b7280"
	}
}

// SeriesPoint is one x-axis bucket of the consignment chart.
type SeriesPoint struct {
	Label      string `json:"label"`
	Elektronik int64  `json:"elektronik"`
	Dokumen    int64  `json:"dokumen"`
	Perhiasan  int64  `json:"perhiasan"`
}

// Value returns the point's value for a channel.
func (p SeriesPoint) Value(c Channel) int64 {
	switch c {
	case ChannelElektronik:
		return p.Elektronik
	case ChannelDokumen:
		return p.Dokumen
	case ChannelPerhiasan:
		return p.Perhiasan
	default:
		return 0
	}
}

var (
	weekdayLabels = []string{"Sen", "Sel", "Rab", "Kam", "Jum", "Sab", "Min"}
	monthLabels   = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}
)

// WeekdayLabels returns Monday-first Indonesian day abbreviations.
func WeekdayLabels() []string {
	return append([]string(nil), weekdayLabels...)
}

// MonthLabels returns Indonesian month abbreviations, January first.
func MonthLabels() []string {
	return append([]string(nil), monthLabels...)
}

// FormatDay renders a date like "6 Apr 2025".
func FormatDay(d Date) string {
	if d.IsZero() {
		return ""
	}
	return strconv.Itoa(d.Day()) + " " + monthLabels[d.Month()-1] + " " + strconv.Itoa(d.Year())
}
