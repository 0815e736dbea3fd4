package geo

import (
	"math"
	"math/rand/v2"
)

// Rating bounds for every generated or displayed series value.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// SeriesStrategy produces one rating per date from a base rating. The two
// implementations are intentionally separate: the bounded random walk used
// for country data and the sinusoidal variant used for neighborhood data
// do not reduce to a single formula.
type SeriesStrategy interface {
	Generate(base float64, dates []string) map[string]float64
}

// RandomWalk generates a series where each day's rating is the previous
// day's clamped rating plus a uniform step in [-Step, +Step]. The first
// date carries the clamped base rating unperturbed.
type RandomWalk struct {
	// Step is the maximum daily change. Zero means the default of 0.3.
	Step float64
}

// Generate implements SeriesStrategy.
func (s RandomWalk) Generate(base float64, dates []string) map[string]float64 {
	step := s.Step
	if step == 0 {
		step = 0.3
	}

	series := make(map[string]float64, len(dates))
	current := ClampRating(base)
	for i, d := range dates {
		if i > 0 {
			current = ClampRating(current + (rand.Float64()*2*step - step))
		}
		current = round3(current)
		series[d] = current
	}
	return series
}

// SeasonalNoise generates each day independently from a shared sinusoidal
// base: clamp(base + sin(i/3)*Amplitude + uniform(-Noise, +Noise)).
type SeasonalNoise struct {
	// Amplitude is the seasonal swing. Zero means the default of 0.3.
	Amplitude float64
	// Noise is the uniform jitter half-range. Zero means the default of 0.2.
	Noise float64
}

// Generate implements SeriesStrategy.
func (s SeasonalNoise) Generate(base float64, dates []string) map[string]float64 {
	amp := s.Amplitude
	if amp == 0 {
		amp = 0.3
	}
	noise := s.Noise
	if noise == 0 {
		noise = 0.2
	}

	series := make(map[string]float64, len(dates))
	for i, d := range dates {
		variation := math.Sin(float64(i)/3)*amp + (rand.Float64()*2*noise - noise)
		series[d] = round3(ClampRating(base + variation))
	}
	return series
}

// ClampRating clamps v to the displayable rating range [1.0, 5.0].
func ClampRating(v float64) float64 {
	return math.Max(MinRating, math.Min(MaxRating, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
