package variable

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrEmptyDomain is returned when a domain update carries no values.
	ErrEmptyDomain = errors.New("domain must not be empty")

	// ErrDefaultNotInDomain is returned when a domain default is not a member
	// of the domain's value set.
	ErrDefaultNotInDomain = errors.New("default value is not a member of the domain")
)

// Domain is an ordered set of categorical values.
//
// External variables start with an empty domain and receive their values
// through Update before the sweep starts; the transition is validated rather
// than mutated in place.
type Domain struct {
	mu     sync.RWMutex
	values []string
	def    string
}

// NewDomain creates a validated domain.
func NewDomain(values []string, def string) (*Domain, error) {
	d := &Domain{}
	if err := d.Update(values, def); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the domain's values and default. The new set must be
// non-empty and must contain the default.
func (d *Domain) Update(values []string, def string) error {
	if len(values) == 0 {
		return ErrEmptyDomain
	}
	if !slices.Contains(values, def) {
		return fmt.Errorf("%w: %q", ErrDefaultNotInDomain, def)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = slices.Clone(values)
	d.def = def
	return nil
}

// Values returns a copy of the ordered value set.
func (d *Domain) Values() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.values)
}

// Default returns the domain's default value.
func (d *Domain) Default() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.def
}

// Empty reports whether the domain has no values yet.
func (d *Domain) Empty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.values) == 0
}
