package product

import (
	"fmt"
	"time"

	"oceanfetch/config"
)

// Target is a resolved remote file.
type Target struct {
	Product     string
	Date        time.Time
	Granularity Granularity
	Host        string
	Dir         string
	File        string
}

// DateLabel formats the date the way requests for this product spell it.
func (t Target) DateLabel() string {
	return t.Date.Format(t.Granularity.Layout())
}

// Resolver turns product codes into targets using the hosts configured
// for each group.
type Resolver struct {
	hosts map[Group]string
}

func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		hosts: map[Group]string{
			Primary:    cfg.PrimaryHost,
			Coastwatch: cfg.CoastwatchHost,
		},
	}
}

// Resolve never touches the network; an unknown code fails with
// ErrUnsupportedProduct.
func (r *Resolver) Resolve(code string, date time.Time) (Target, error) {
	spec, err := Lookup(code)
	if err != nil {
		return Target{}, err
	}

	host, ok := r.hosts[spec.Group]
	if !ok || host == "" {
		return Target{}, fmt.Errorf("no host configured for %s group of product %s", spec.Group, code)
	}

	return Target{
		Product:     code,
		Date:        date,
		Granularity: spec.Granularity,
		Host:        host,
		Dir:         spec.Dir(date),
		File:        spec.File(date),
	}, nil
}

// ParseDate accepts YYYY, YYYYMM or YYYYMMDD and reports which of the
// three it was given.
func ParseDate(s string) (time.Time, Granularity, error) {
	var g Granularity
	switch len(s) {
	case 4:
		g = Annual
	case 6:
		g = Monthly
	case 8:
		g = Daily
	default:
		return time.Time{}, 0, fmt.Errorf("%w: %q is not YYYY, YYYYMM or YYYYMMDD", ErrInvalidDate, s)
	}

	t, err := time.Parse(g.Layout(), s)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return t, g, nil
}

// ParseDateFor parses s and checks that it is at least as fine as the
// granularity of code. Finer dates are truncated to the product's period.
func ParseDateFor(code, s string) (time.Time, error) {
	spec, err := Lookup(code)
	if err != nil {
		return time.Time{}, err
	}
	t, g, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if g < spec.Granularity {
		return time.Time{}, fmt.Errorf("%w: %s product %s needs a %s date, got %q",
			ErrInvalidDate, spec.Granularity, code, spec.Granularity.Layout(), s)
	}
	return Truncate(t, spec.Granularity), nil
}

// Truncate drops the date fields a granularity does not carry.
func Truncate(t time.Time, g Granularity) time.Time {
	switch g {
	case Annual:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case Monthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// JulianDay is the 1-indexed day of year, zero padded to three digits.
func JulianDay(t time.Time) string {
	return fmt.Sprintf("%03d", t.YearDay())
}

// SLAWindow returns the start and end dates encoded in sea level anomaly
// filenames: the day itself and the day after.
func SLAWindow(t time.Time) (string, string) {
	return t.Format("20060102"), t.AddDate(0, 0, 1).Format("20060102")
}
