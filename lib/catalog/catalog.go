// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog maintains the vault index: the mapping from each
// user-visible file name to the identifier its envelope is stored
// under, plus whether the stored plaintext is compressed.
//
// The index is a JSON object keyed by name, as vault_index.json has
// always been written:
//
//	{
//	    "notes.txt": {
//	        "uuid": "3f0c6e1a9b2d4c7e8f1a2b3c4d5e6f70",
//	        "compressed": true
//	    }
//	}
//
// Entries written here add original_size, stored_size, checksum and
// added_at; all four are optional on read. Loading accepts JSONC
// (comments and trailing commas) so the file can be edited by hand.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/jsonc"

	"github.com/encryptify/encryptify/lib/atomicfile"
	"github.com/encryptify/encryptify/lib/digest"
)

var (
	// ErrCorrupt reports an index file that cannot be parsed or holds
	// an invalid entry.
	ErrCorrupt = errors.New("catalog: corrupt index")

	// ErrInvalidEntry reports an entry rejected by Put.
	ErrInvalidEntry = errors.New("catalog: invalid entry")
)

// Entry describes one stored file.
type Entry struct {
	// Name is the map key in the index, not a field of the value.
	Name string `json:"-"`

	// ID names the envelope file in the data directory. Always 32
	// lowercase hex characters, so it is safe to join onto a path.
	ID string `json:"uuid"`

	// Compressed reports whether the envelope's plaintext is a
	// Huffman container rather than the raw file.
	Compressed bool `json:"compressed"`

	OriginalSize int64 `json:"original_size,omitempty"`
	StoredSize   int64 `json:"stored_size,omitempty"`

	// Checksum is the hex BLAKE3-256 of the original file. Empty for
	// entries written before checksums were recorded.
	Checksum string `json:"checksum,omitempty"`

	AddedAt time.Time `json:"added_at,omitzero"`
}

// Validate checks that the entry can be stored.
func (e Entry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidEntry)
	}
	if !ValidID(e.ID) {
		return fmt.Errorf("%w: %q: id %q is not 32 lowercase hex characters", ErrInvalidEntry, e.Name, e.ID)
	}
	if e.OriginalSize < 0 || e.StoredSize < 0 {
		return fmt.Errorf("%w: %q: negative size", ErrInvalidEntry, e.Name)
	}
	if e.Checksum != "" {
		if _, err := digest.Parse(e.Checksum); err != nil {
			return fmt.Errorf("%w: %q: checksum: %v", ErrInvalidEntry, e.Name, err)
		}
	}
	return nil
}

// Catalog is an in-memory copy of an index file. Not safe for
// concurrent use.
type Catalog struct {
	path    string
	entries map[string]Entry
}

// Load reads the index at path. A missing or empty file yields an
// empty catalog that Save will create.
func Load(path string) (*Catalog, error) {
	catalog := &Catalog{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return catalog, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return catalog, nil
	}

	var raw map[string]Entry
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	for name, entry := range raw {
		entry.Name = name
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
		}
		catalog.entries[name] = entry
	}
	return catalog, nil
}

// Path returns the index file path.
func (c *Catalog) Path() string {
	return c.path
}

// Get returns the entry for name.
func (c *Catalog) Get(name string) (Entry, bool) {
	entry, ok := c.entries[name]
	return entry, ok
}

// Put adds or replaces the entry under entry.Name and returns the
// entry it replaced, if any.
func (c *Catalog) Put(entry Entry) (Entry, bool, error) {
	if err := entry.Validate(); err != nil {
		return Entry{}, false, err
	}
	previous, existed := c.entries[entry.Name]
	c.entries[entry.Name] = entry
	return previous, existed, nil
}

// Delete removes name and returns its entry.
func (c *Catalog) Delete(name string) (Entry, bool) {
	entry, ok := c.entries[name]
	if ok {
		delete(c.entries, name)
	}
	return entry, ok
}

// Entries returns all entries sorted by name.
func (c *Catalog) Entries() []Entry {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// HasID reports whether any entry uses id.
func (c *Catalog) HasID(id string) bool {
	for _, entry := range c.entries {
		if entry.ID == id {
			return true
		}
	}
	return false
}

// Save atomically rewrites the index file with 4-space indentation.
func (c *Catalog) Save() error {
	var encoded bytes.Buffer
	encoder := json.NewEncoder(&encoded)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := atomicfile.WriteFile(c.path, encoded.Bytes(), 0o600); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// NewID returns a random identifier: a version 4 UUID without dashes.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidID reports whether id is 32 lowercase hex characters.
func ValidID(id string) bool {
	if len(id) != 32 {
		return false
	}
	for i := range len(id) {
		switch c := id[i]; {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
