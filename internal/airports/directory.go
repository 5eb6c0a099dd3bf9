package airports

import (
	"sync"

	"github.com/skyscout/skyscout/internal/models"
)

// Directory bundles the keyword cache with the seed airport list shown
// before the user has typed anything. One Directory is shared by every
// session store.
type Directory struct {
	Cache *Cache

	mu       sync.Mutex
	defaults []models.AirportLocation
	fetched  bool
}

func NewDirectory(maxCacheEntries int) *Directory {
	return &Directory{Cache: NewCache(maxCacheEntries)}
}

// SetDefaults records the seed airport list and marks it fetched.
func (d *Directory) SetDefaults(airports []models.AirportLocation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defaults = append([]models.AirportLocation(nil), airports...)
	d.fetched = true
}

// Defaults returns the seed airport list and whether it has been fetched.
func (d *Directory) Defaults() ([]models.AirportLocation, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.AirportLocation(nil), d.defaults...), d.fetched
}
