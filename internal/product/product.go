// Package product maps ocean product codes to the archive host, directory
// and filename that hold them.
package product

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrUnsupportedProduct = errors.New("unsupported product")
	ErrInvalidDate        = errors.New("invalid date")
)

// Group selects which archive host serves a product.
type Group int

const (
	Primary Group = iota
	Coastwatch
)

func (g Group) String() string {
	switch g {
	case Primary:
		return "primary"
	case Coastwatch:
		return "coastwatch"
	}
	return fmt.Sprintf("group(%d)", int(g))
}

// Granularity is the temporal resolution a product is published at.
type Granularity int

const (
	Annual Granularity = iota
	Monthly
	Daily
)

func (g Granularity) String() string {
	switch g {
	case Annual:
		return "annual"
	case Monthly:
		return "monthly"
	case Daily:
		return "daily"
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// Layout is the compact date layout requests at this granularity use.
func (g Granularity) Layout() string {
	switch g {
	case Annual:
		return "2006"
	case Monthly:
		return "200601"
	}
	return "20060102"
}

// Next returns the first date of the following period.
func (g Granularity) Next(t time.Time) time.Time {
	switch g {
	case Annual:
		return t.AddDate(1, 0, 0)
	case Monthly:
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

// Spec describes one product. Dir and File only read the date fields the
// product's granularity carries.
type Spec struct {
	Code        string
	Description string
	Group       Group
	Granularity Granularity
	Dir         func(t time.Time) string
	File        func(t time.Time) string
}

// Lookup returns the spec registered for code.
func Lookup(code string) (*Spec, error) {
	spec, ok := table[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProduct, code)
	}
	return spec, nil
}

// Codes returns every supported product code in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
