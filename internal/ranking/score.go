// Package ranking holds the "best" sort scoring.
package ranking

import "github.com/skyscout/skyscout/internal/models"

// DurationWeight converts duration minutes into price-equivalent units for
// the best-value score.
const DurationWeight = 0.5

// Score is the best-value sort key: lower is better.
func Score(f models.Flight) float64 {
	return f.Price + float64(f.Duration)*DurationWeight
}
