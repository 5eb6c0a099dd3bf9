package filter

import "github.com/skyscout/skyscout/internal/models"

// WithHighlight moves the flight with the given id to the front of an
// ordered view, keeping every other flight in its prior relative order.
// An empty or unknown id returns the input order unchanged. Membership is
// never affected; this is a presentation-only reordering.
func WithHighlight(flights []models.Flight, highlightedID string) []models.Flight {
	if highlightedID == "" {
		return flights
	}

	idx := -1
	for i, f := range flights {
		if f.ID == highlightedID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return flights
	}

	result := make([]models.Flight, 0, len(flights))
	result = append(result, flights[idx])
	result = append(result, flights[:idx]...)
	result = append(result, flights[idx+1:]...)
	return result
}
