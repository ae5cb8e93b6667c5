package filestore

import (
	"sync"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

// dateLocks hands out one advisory mutex per DateKey. It only serializes
// writers inside this process; other processes still race last-write-wins.
type dateLocks struct {
	locks map[models.DateKey]*sync.Mutex
	mu    sync.Mutex
}

func newDateLocks() *dateLocks {
	return &dateLocks{locks: make(map[models.DateKey]*sync.Mutex)}
}

// lock blocks until the date is free and returns the matching unlock.
func (d *dateLocks) lock(date models.DateKey) func() {
	d.mu.Lock()
	m, ok := d.locks[date]
	if !ok {
		m = &sync.Mutex{}
		d.locks[date] = m
	}
	d.mu.Unlock()

	m.Lock()
	return m.Unlock
}
