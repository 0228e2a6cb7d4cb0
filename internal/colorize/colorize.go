// Package colorize assigns deterministic ANSI colors to process keys for
// the console sink, the colorization collaborator named in spec.md.
package colorize

import (
	"hash/fnv"

	"github.com/fatih/color"
)

// palette mirrors the small set of readable foreground colors a terminal
// multiplexer typically rotates through for per-process log coloring.
var palette = []color.Attribute{
	color.FgGreen,
	color.FgYellow,
	color.FgBlue,
	color.FgMagenta,
	color.FgCyan,
	color.FgRed,
	color.FgHiGreen,
	color.FgHiYellow,
	color.FgHiBlue,
	color.FgHiMagenta,
	color.FgHiCyan,
}

// Assigner hands out a stable color per key, cached so repeated lookups
// for the same key are O(1) and callers see the same color across a run.
type Assigner struct {
	enabled bool
	cache   map[string]*color.Color
}

// NewAssigner creates an Assigner. When enabled is false, Color always
// returns a color.Color configured to emit no escape codes.
func NewAssigner(enabled bool) *Assigner {
	return &Assigner{enabled: enabled, cache: make(map[string]*color.Color)}
}

// Color returns the color assigned to key, deterministically derived from
// its hash so the same key always maps to the same palette entry within a
// process lifetime and across runs.
func (a *Assigner) Color(key string) *color.Color {
	if c, ok := a.cache[key]; ok {
		return c
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	attr := palette[int(h.Sum32())%len(palette)]

	c := color.New(attr)
	if !a.enabled {
		c.DisableColor()
	}
	a.cache[key] = c
	return c
}
