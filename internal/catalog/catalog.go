// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog discovers candidate input files in a directory, derives a
// numeric sort key from each filename, and tracks which entries the user has
// selected for conversion.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/autobatch/pkg/types"
)

// Filter decides whether a directory entry name is a candidate input.
type Filter struct {
	// Suffix is matched literally and case-sensitively (e.g. ".txt").
	Suffix string
}

// Match reports whether name ends with the filter suffix. A name that is
// exactly the suffix matches.
func (f Filter) Match(name string) bool {
	return len(name) >= len(f.Suffix) && strings.HasSuffix(name, f.Suffix)
}

// ExtractKey returns the value of the first run of decimal digits in name,
// or 0 when name contains no digit. Leading non-digits are skipped; the
// scan stops at the first non-digit after the run starts. Very long runs
// wrap around silently.
func ExtractKey(name string) uint64 {
	var key uint64
	found := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= '0' && c <= '9' {
			key = key*10 + uint64(c-'0')
			found = true
		} else if found {
			break
		}
	}
	return key
}

// Entry is one discovered candidate file.
type Entry struct {
	Name     string
	Key      uint64
	Selected bool
}

// Catalog is the ordered list of candidate files for one run.
type Catalog struct {
	entries []Entry

	// Truncated is set when discovery stopped at the entry cap.
	Truncated bool
}

// New builds a catalog from names in the given order, deriving each key.
func New(names ...string) *Catalog {
	c := &Catalog{entries: make([]Entry, 0, len(names))}
	for _, n := range names {
		c.entries = append(c.entries, Entry{Name: n, Key: ExtractKey(n)})
	}
	return c
}

// Options controls discovery.
type Options struct {
	Filter Filter

	// MaxEntries caps the number of entries; 0 means unbounded.
	MaxEntries int

	// Warn receives advisory messages. Nil discards them.
	Warn io.Writer
}

// DefaultOptions returns options for .txt discovery with the default cap.
func DefaultOptions() Options {
	return Options{
		Filter:     Filter{Suffix: types.DefaultSuffix},
		MaxEntries: types.DefaultMaxEntries,
	}
}

// DiscoveryError reports that the input directory could not be read.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("opening directory %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Discover lists dir and returns a catalog of regular files whose names pass
// the filter, in directory listing order. Directories and other non-regular
// entries are skipped even when their names match. When MaxEntries is
// reached, the remaining files are dropped and a warning is written.
func Discover(dir string, opts Options) (*Catalog, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DiscoveryError{Dir: dir, Err: err}
	}

	warn := opts.Warn
	if warn == nil {
		warn = io.Discard
	}

	c := &Catalog{}
	for _, de := range dirEntries {
		name := de.Name()
		if !opts.Filter.Match(name) {
			continue
		}
		if !isRegular(dir, de) {
			continue
		}
		if opts.MaxEntries > 0 && len(c.entries) == opts.MaxEntries {
			c.Truncated = true
			fmt.Fprintf(warn, "warning: catalog limit of %d files reached; remaining files in %s ignored\n",
				opts.MaxEntries, dir)
			break
		}
		c.entries = append(c.entries, Entry{Name: name, Key: ExtractKey(name)})
	}
	return c, nil
}

// isRegular reports whether de is a regular file, following symlinks.
func isRegular(dir string, de os.DirEntry) bool {
	if de.Type().IsRegular() {
		return true
	}
	if de.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, de.Name()))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// SortByKey orders entries by ascending key. Entries with equal keys keep
// their discovery order.
func (c *Catalog) SortByKey() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].Key < c.entries[j].Key
	})
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Entry returns the entry at the 1-based index.
func (c *Catalog) Entry(index int) (Entry, bool) {
	if index < 1 || index > len(c.entries) {
		return Entry{}, false
	}
	return c.entries[index-1], true
}

// Apply marks the entries at the given 1-based indices as selected and
// returns how many indices were applied. Out-of-range indices are ignored.
func (c *Catalog) Apply(indices []int) int {
	n := 0
	for _, idx := range indices {
		if idx < 1 || idx > len(c.entries) {
			continue
		}
		c.entries[idx-1].Selected = true
		n++
	}
	return n
}

// SelectAll marks every entry as selected.
func (c *Catalog) SelectAll() {
	for i := range c.entries {
		c.entries[i].Selected = true
	}
}

// Selected returns the selected entries in catalog order.
func (c *Catalog) Selected() []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// SelectedCount returns the number of selected entries.
func (c *Catalog) SelectedCount() int {
	n := 0
	for _, e := range c.entries {
		if e.Selected {
			n++
		}
	}
	return n
}
