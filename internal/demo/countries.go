package demo

import "strings"

// countryProfile is a country that gets a fixed base rating and the
// highlighted map treatment in the demo dataset.
type countryProfile struct {
	Name       string
	BaseRating float64
}

// highlightedCountries maps ISO-3166-1 alpha-2 codes to their demo profile.
// Everything not listed here gets a random base rating from its region range.
var highlightedCountries = map[string]countryProfile{
	// Western Europe
	"GB": {Name: "United Kingdom", BaseRating: 4.2},
	"FR": {Name: "France", BaseRating: 4.1},
	"DE": {Name: "Germany", BaseRating: 4.3},
	"NL": {Name: "Netherlands", BaseRating: 4.4},
	"BE": {Name: "Belgium", BaseRating: 4.2},
	// Northern Europe
	"SE": {Name: "Sweden", BaseRating: 4.6},
	"NO": {Name: "Norway", BaseRating: 4.7},
	"FI": {Name: "Finland", BaseRating: 4.6},
	"DK": {Name: "Denmark", BaseRating: 4.5},
	"IE": {Name: "Ireland", BaseRating: 4.3},
	// Southern Europe
	"ES": {Name: "Spain", BaseRating: 4.0},
	"IT": {Name: "Italy", BaseRating: 3.9},
	"PT": {Name: "Portugal", BaseRating: 4.0},
	"GR": {Name: "Greece", BaseRating: 3.7},
	"HR": {Name: "Croatia", BaseRating: 3.9},
	// Eastern Europe
	"PL": {Name: "Poland", BaseRating: 3.8},
	"CZ": {Name: "Czech Republic", BaseRating: 4.0},
	"HU": {Name: "Hungary", BaseRating: 3.7},
	"RO": {Name: "Romania", BaseRating: 3.6},
	"BG": {Name: "Bulgaria", BaseRating: 3.5},
	// Other major countries
	"US": {Name: "United States", BaseRating: 4.3},
	"CA": {Name: "Canada", BaseRating: 4.5},
	"MX": {Name: "Mexico", BaseRating: 4.0},
	"BR": {Name: "Brazil", BaseRating: 4.0},
	"CN": {Name: "China", BaseRating: 3.8},
	"JP": {Name: "Japan", BaseRating: 4.5},
	"AU": {Name: "Australia", BaseRating: 4.7},
	"IN": {Name: "India", BaseRating: 4.1},
	"ZA": {Name: "South Africa", BaseRating: 3.7},
	"RU": {Name: "Russia", BaseRating: 3.6},
	"AF": {Name: "Afghanistan", BaseRating: 3.3},
}

// ratingRange bounds the random base rating for non-highlighted countries.
type ratingRange struct {
	Min, Max float64
}

var regionRatingRanges = map[string]ratingRange{
	"Africa":   {Min: 2.5, Max: 3.8},
	"Americas": {Min: 3.0, Max: 4.3},
	"Asia":     {Min: 2.8, Max: 4.1},
	"Europe":   {Min: 3.3, Max: 4.5},
	"Oceania":  {Min: 3.5, Max: 4.6},
}

// regionRatingRange resolves a feature's region name to a base-rating range
// by substring match, falling back to the Americas range for anything
// unrecognized.
func regionRatingRange(region string) ratingRange {
	for _, name := range []string{"Africa", "Asia", "Europe", "Oceania"} {
		if strings.Contains(region, name) {
			return regionRatingRanges[name]
		}
	}
	return regionRatingRanges["Americas"]
}

// countryToRegion maps European country codes to the four sidebar regions.
// Countries outside the table contribute to global stats only.
var countryToRegion = map[string]string{
	// Northern Europe
	"SE": "Northern Europe",
	"NO": "Northern Europe",
	"FI": "Northern Europe",
	"DK": "Northern Europe",
	"IE": "Northern Europe",
	"IS": "Northern Europe",
	// Western Europe
	"GB": "Western Europe",
	"FR": "Western Europe",
	"DE": "Western Europe",
	"NL": "Western Europe",
	"BE": "Western Europe",
	"LU": "Western Europe",
	"CH": "Western Europe",
	// Southern Europe
	"ES": "Southern Europe",
	"IT": "Southern Europe",
	"PT": "Southern Europe",
	"GR": "Southern Europe",
	"HR": "Southern Europe",
	"MT": "Southern Europe",
	"CY": "Southern Europe",
	// Eastern Europe
	"PL": "Eastern Europe",
	"CZ": "Eastern Europe",
	"HU": "Eastern Europe",
	"RO": "Eastern Europe",
	"BG": "Eastern Europe",
	"SK": "Eastern Europe",
	"SI": "Eastern Europe",
}

// sidebarRegions is the fixed display order of the regional averages.
var sidebarRegions = []string{
	"Northern Europe",
	"Western Europe",
	"Southern Europe",
	"Eastern Europe",
}
