// Package filestore persists day records as flat files, one per section or
// money value and date: {root}/{section}_{YYYY-MM-DD}.csv and
// {root}/{key}_{YYYY-MM-DD}.txt.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/internal/tabular"
)

const (
	manifestCacheKey = "manifest"
	manifestTTL      = 30 * time.Second
	pendingPattern   = ".pending-*"
)

// Store is the file backed record store.
type Store struct {
	root   string
	locks  *dateLocks
	cache  *gocache.Cache
	logger *zap.Logger

	// generation counts writes; a scan that overlapped one is not cached.
	generation atomic.Uint64
	// afterScan runs between reading the directory and caching the result.
	afterScan func()
}

// cachedManifest remembers the directory mtime the scan saw, so files added
// by another process invalidate it too.
type cachedManifest struct {
	manifest Manifest
	modTime  time.Time
}

// New creates the root directory (and parents) when missing.
func New(root string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if root == "" {
		return nil, errors.New("storage root must not be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}

	return &Store{
		root:   root,
		locks:  newDateLocks(),
		cache:  gocache.New(manifestTTL, 2*manifestTTL),
		logger: logger,
	}, nil
}

// Root returns the storage directory.
func (s *Store) Root() string {
	return s.root
}

// SectionPath is the deterministic file of a section table.
func (s *Store) SectionPath(date models.DateKey, section models.Section) string {
	return filepath.Join(s.root, fileName(string(section), date, tableExt))
}

// MoneyPath is the deterministic file of a money value.
func (s *Store) MoneyPath(date models.DateKey, key models.MoneyKey) string {
	return filepath.Join(s.root, fileName(string(key), date, moneyExt))
}

// Load returns the stored table, or def unchanged when the file is missing,
// empty or not valid CSV. Other read errors are returned.
func (s *Store) Load(ctx context.Context, date models.DateKey, section models.Section, def models.Table) (models.Table, error) {
	if err := ctx.Err(); err != nil {
		return models.Table{}, err
	}
	path := s.SectionPath(date, section)

	unlock := s.locks.lock(date)
	data, err := os.ReadFile(path)
	unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		s.logger.Debug("empty section file, using default", zap.String("path", path))
		return def, nil
	}

	table, err := tabular.DecodeBytes(data)
	if err != nil {
		s.logger.Warn("malformed section file, using default", zap.String("path", path), zap.Error(err))
		return def, nil
	}
	return table, nil
}

// Save overwrites the section file with the table.
func (s *Store) Save(ctx context.Context, date models.DateKey, section models.Section, table models.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := tabular.EncodeBytes(table)
	if err != nil {
		return fmt.Errorf("encode %s table: %w", section, err)
	}
	return s.write(date, s.SectionPath(date, section), data)
}

// LoadMoney returns the stored value, zero when missing or not a number.
func (s *Store) LoadMoney(ctx context.Context, date models.DateKey, key models.MoneyKey) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	path := s.MoneyPath(date, key)

	unlock := s.locks.lock(date)
	data, err := os.ReadFile(path)
	unlock()

	if errors.Is(err, fs.ErrNotExist) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("read %s: %w", path, err)
	}

	value, err := decimal.NewFromString(strings.TrimSpace(string(data)))
	if err != nil {
		s.logger.Debug("unparsable money file, using zero", zap.String("path", path), zap.Error(err))
		return decimal.Zero, nil
	}
	return value, nil
}

// SaveMoney overwrites the money file with the value's plain string form.
func (s *Store) SaveMoney(ctx context.Context, date models.DateKey, key models.MoneyKey, value decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(date, s.MoneyPath(date, key), []byte(value.String()))
}

// ListKnownDates returns every day with at least one stored record, most
// recent first.
func (s *Store) ListKnownDates(ctx context.Context) ([]models.DateKey, error) {
	manifest, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.Dates(), nil
}

// Records lists what is stored for one day.
func (s *Store) Records(ctx context.Context, date models.DateKey) ([]models.RecordKey, error) {
	manifest, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.RecordKey(nil), manifest[date]...), nil
}

// Manifest scans the root directory. The result is cached until a write
// through this store, a change of the directory mtime, or manifestTTL.
func (s *Store) Manifest(ctx context.Context) (Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.root, err)
	}
	if cached, ok := s.cache.Get(manifestCacheKey); ok {
		if c := cached.(cachedManifest); c.modTime.Equal(info.ModTime()) {
			return c.manifest, nil
		}
	}

	generation := s.generation.Load()
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}

	manifest := Manifest{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		date, key, ok := parseFileName(entry.Name())
		if !ok {
			continue
		}
		manifest.add(date, key)
	}

	if s.afterScan != nil {
		s.afterScan()
	}
	if s.generation.Load() == generation {
		s.cache.Set(manifestCacheKey, cachedManifest{manifest: manifest, modTime: info.ModTime()}, gocache.DefaultExpiration)
	}
	return manifest, nil
}

// write replaces path atomically: the data goes to a temporary file in the
// same directory which is then renamed over the target.
func (s *Store) write(date models.DateKey, path string, data []byte) error {
	unlock := s.locks.lock(date)
	defer unlock()

	tmp, err := os.CreateTemp(s.root, pendingPattern)
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	s.generation.Add(1)
	s.cache.Delete(manifestCacheKey)
	s.logger.Debug("record written", zap.String("path", path), zap.String("date", date.String()))
	return nil
}
