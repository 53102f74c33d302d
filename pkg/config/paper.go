package config

import (
	"sort"
	"strings"
)

// Paper is a named sheet size in portrait orientation.
type Paper struct {
	Width  Length
	Height Length
}

var paperPresets = map[string]Paper{
	"letter":  {In(8.5), In(11)},
	"legal":   {In(8.5), In(14)},
	"tabloid": {In(11), In(17)},
	"a5":      {MM(148), MM(210)},
	"a4":      {MM(210), MM(297)},
	"a3":      {MM(297), MM(420)},
	"a2":      {MM(420), MM(594)},
}

// LookupPaper returns the preset called name, ignoring case.
func LookupPaper(name string) (Paper, bool) {
	p, ok := paperPresets[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// PaperNames lists the known presets in sorted order.
func PaperNames() []string {
	names := make([]string, 0, len(paperPresets))
	for n := range paperPresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
