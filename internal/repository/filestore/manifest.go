package filestore

import (
	"sort"
	"strings"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

const (
	tableExt = ".csv"
	moneyExt = ".txt"
)

// Manifest maps every stored day to the records present for it.
type Manifest map[models.DateKey][]models.RecordKey

// Dates returns the stored days, most recent first.
func (m Manifest) Dates() []models.DateKey {
	out := make([]models.DateKey, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

func (m Manifest) add(date models.DateKey, key models.RecordKey) {
	for _, existing := range m[date] {
		if existing == key {
			return
		}
	}
	m[date] = append(m[date], key)
}

// parseFileName splits "{name}_{YYYY-MM-DD}.{csv|txt}". The date is the
// segment after the last underscore, so names may carry underscores
// themselves (money_paid). Anything else is not a record file.
func parseFileName(fileName string) (models.DateKey, models.RecordKey, bool) {
	var kind models.RecordKind
	var stem string
	switch {
	case strings.HasSuffix(fileName, tableExt):
		kind, stem = models.KindTable, strings.TrimSuffix(fileName, tableExt)
	case strings.HasSuffix(fileName, moneyExt):
		kind, stem = models.KindMoney, strings.TrimSuffix(fileName, moneyExt)
	default:
		return "", models.RecordKey{}, false
	}

	idx := strings.LastIndex(stem, "_")
	if idx <= 0 || idx == len(stem)-1 {
		return "", models.RecordKey{}, false
	}

	date, err := models.ParseDateKey(stem[idx+1:])
	if err != nil || date.String() != stem[idx+1:] {
		return "", models.RecordKey{}, false
	}
	return date, models.RecordKey{Name: stem[:idx], Kind: kind}, true
}

func fileName(name string, date models.DateKey, ext string) string {
	return name + "_" + date.String() + ext
}
