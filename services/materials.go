package services

import "strings"

// MaterialRatios holds the per-unit-quantity consumption multipliers for the
// five tracked materials. Sand, rubble and metal are in cubic metres, brick
// in numbers and cement in bags.
type MaterialRatios struct {
	Sand   float64
	Rubble float64
	Brick  float64
	Metal  float64
	Cement float64
}

type materialEntry struct {
	Keyword   string
	ShortDesc string
	Ratios    MaterialRatios
}

// materialTable maps item-description keywords to consumption norms. It is
// an ordered slice, not a map: classification is first-match-wins in
// declaration order, which matters when one description contains several
// keywords.
var materialTable = []materialEntry{
	{"soling", "Soling", MaterialRatios{Sand: 0.000, Rubble: 1.200, Brick: 0.00, Metal: 0.000, Cement: 0.000}},
	{"s.w. pipe", "9\" GSW Pipe", MaterialRatios{Sand: 0.000, Rubble: 0.000, Brick: 0.00, Metal: 0.000, Cement: 0.080}},
	{"m15", "P.C.C. 1:2:4", MaterialRatios{Sand: 0.445, Rubble: 0.000, Brick: 0.00, Metal: 1.030, Cement: 6.400}},
	{"inspection chamber", "I/C 90 x 45", MaterialRatios{Sand: 0.540, Rubble: 0.000, Brick: 527.00, Metal: 0.300, Cement: 3.530}},
	{"m-10", "P.C.C. 1:3:6", MaterialRatios{Sand: 0.470, Rubble: 0.000, Brick: 0.00, Metal: 0.940, Cement: 4.400}},
	{"shahabad stone flooring", "R/S Ladi", MaterialRatios{Sand: 0.022, Rubble: 0.000, Brick: 0.00, Metal: 0.000, Cement: 0.135}},
}

// ClassifyMaterial matches an item description against the consumption table
// using case-insensitive substring search. It returns the short label and
// the material ratios of the first matching keyword, or ok=false when the
// item carries no tracked material.
func ClassifyMaterial(description string) (shortDesc string, ratios MaterialRatios, ok bool) {
	lower := strings.ToLower(description)
	for _, entry := range materialTable {
		if strings.Contains(lower, entry.Keyword) {
			return entry.ShortDesc, entry.Ratios, true
		}
	}
	return "", MaterialRatios{}, false
}
