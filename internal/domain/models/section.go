package models

import (
	"errors"
	"fmt"
	"strings"
)

// Section enumerates the tabular record categories kept per day.
type Section string

const (
	SectionStock         Section = "stock"
	SectionAccommodation Section = "accommodation"
	SectionExpenses      Section = "expenses"
)

// MoneyKey enumerates the scalar money values kept per day.
type MoneyKey string

const (
	MoneyPaid     MoneyKey = "money_paid"
	MoneyInvested MoneyKey = "money_invested"
)

var (
	ErrUnknownSection  = errors.New("unknown section")
	ErrUnknownMoneyKey = errors.New("unknown money key")
)

// Sections returns every section in display order.
func Sections() []Section {
	return []Section{SectionStock, SectionAccommodation, SectionExpenses}
}

// MoneyKeys returns every money key in display order.
func MoneyKeys() []MoneyKey {
	return []MoneyKey{MoneyPaid, MoneyInvested}
}

// ParseSection maps a path or CLI value onto a Section.
func ParseSection(value string) (Section, error) {
	switch s := Section(strings.ToLower(strings.TrimSpace(value))); s {
	case SectionStock, SectionAccommodation, SectionExpenses:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, value)
	}
}

// ParseMoneyKey maps a path or CLI value onto a MoneyKey.
func ParseMoneyKey(value string) (MoneyKey, error) {
	switch k := MoneyKey(strings.ToLower(strings.TrimSpace(value))); k {
	case MoneyPaid, MoneyInvested:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMoneyKey, value)
	}
}

// Title is the human label used for sheet names and document headings.
func (s Section) Title() string {
	switch s {
	case SectionStock:
		return "Stock"
	case SectionAccommodation:
		return "Accommodation"
	case SectionExpenses:
		return "Expenses"
	default:
		return string(s)
	}
}

// Label is the human label for a money value.
func (k MoneyKey) Label() string {
	switch k {
	case MoneyPaid:
		return "Money Paid to Boss"
	case MoneyInvested:
		return "Money Invested"
	default:
		return string(k)
	}
}

// RecordKind distinguishes tabular files from scalar files.
type RecordKind string

const (
	KindTable RecordKind = "table"
	KindMoney RecordKind = "money"
)

// RecordKey names one persisted record of a day: a section table or a money value.
type RecordKey struct {
	Name string     `json:"name"`
	Kind RecordKind `json:"kind"`
}
