// Package cache persists the title -> Semantic Scholar ID mapping.
//
// The cache is a single JSON object on disk:
//
//	{
//	  "Attention Is All You Need": "204e3073870fae3d05bcbc2f6a8e263d9b72e776",
//	  "Some Obscure Workshop Paper": null
//	}
//
// A null value means a lookup was attempted and found nothing. A missing key
// means the title was never looked up. Every Set rewrites the whole document
// (temp file + rename), so the file on disk is always a complete document.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/matsen/zotrec/internal/paper"
)

// Cache is the in-memory view of the on-disk title cache.
// It is not safe for concurrent use; the resolution pipeline is sequential.
type Cache struct {
	path    string
	logger  zerolog.Logger
	lock    *flock.Flock
	entries map[string]paper.Match
}

// Stats summarises the cache contents.
type Stats struct {
	Total   int `json:"total"`
	Found   int `json:"found"`
	NoMatch int `json:"no_match"`
}

// Open loads the cache document at path and takes an advisory lock on
// path+".lock". A missing document yields an empty cache. A document that
// cannot be parsed returns a *CorruptError; the caller should treat that as
// fatal. A cache already locked by another process returns ErrLocked.
func Open(path string, logger zerolog.Logger) (*Cache, error) {
	if path == "" {
		return nil, errors.New("cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring cache lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	c := &Cache{
		path:    path,
		logger:  logger.With().Str("component", "cache").Logger(),
		lock:    lock,
		entries: make(map[string]paper.Match),
	}

	if err := c.load(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return c, nil
}

// Inspect reads the document at path without locking it or creating
// anything on disk. A missing file reports zero entries.
func Inspect(path string) (Stats, error) {
	entries, err := readDocument(path)
	if err != nil {
		return Stats{}, err
	}
	return statsOf(entries), nil
}

// Close releases the advisory lock.
func (c *Cache) Close() error {
	if c.lock == nil {
		return nil
	}
	return c.lock.Unlock()
}

// Path returns the location of the cache document.
func (c *Cache) Path() string {
	return c.path
}

// Contains reports whether a lookup for title was ever recorded.
func (c *Cache) Contains(title string) bool {
	_, ok := c.entries[title]
	return ok
}

// Get returns the recorded match for title. The boolean is false when the
// title was never looked up.
func (c *Cache) Get(title string) (paper.Match, bool) {
	m, ok := c.entries[title]
	return m, ok
}

// Set records the match for title and rewrites the document on disk.
// When Set returns nil the new entry is durable.
func (c *Cache) Set(title string, m paper.Match) error {
	prev, had := c.entries[title]
	c.entries[title] = m

	if err := c.save(); err != nil {
		// Keep memory consistent with what is on disk.
		if had {
			c.entries[title] = prev
		} else {
			delete(c.entries, title)
		}
		return fmt.Errorf("persisting cache: %w", err)
	}

	c.logger.Debug().Str("title", title).Str("paper_id", m.String()).Msg("cached title")
	return nil
}

// Len returns the number of cached titles.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Titles returns all cached titles in sorted order.
func (c *Cache) Titles() []string {
	titles := make([]string, 0, len(c.entries))
	for t := range c.entries {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}

// Stats counts found and no-match entries.
func (c *Cache) Stats() Stats {
	return statsOf(c.entries)
}

func statsOf(entries map[string]paper.Match) Stats {
	s := Stats{Total: len(entries)}
	for _, m := range entries {
		if m.Found {
			s.Found++
		} else {
			s.NoMatch++
		}
	}
	return s
}

// PurgeMisses removes every no-match entry so the titles are looked up again
// on the next run. Returns the number of entries removed.
func (c *Cache) PurgeMisses() (int, error) {
	kept := make(map[string]paper.Match, len(c.entries))
	for t, m := range c.entries {
		if m.Found {
			kept[t] = m
		}
	}
	removed := len(c.entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	old := c.entries
	c.entries = kept
	if err := c.save(); err != nil {
		c.entries = old
		return 0, fmt.Errorf("persisting cache: %w", err)
	}
	return removed, nil
}

// load reads the document from disk into memory.
func (c *Cache) load() error {
	entries, err := readDocument(c.path)
	if err != nil {
		return err
	}
	c.entries = entries

	c.logger.Debug().Int("entry_count", len(c.entries)).Str("path", c.path).Msg("loaded title cache")
	return nil
}

// readDocument parses the document at path. A missing or empty file is an
// empty cache.
func readDocument(path string) (map[string]paper.Match, error) {
	entries := make(map[string]paper.Match)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil // fresh start
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	if len(data) == 0 {
		return entries, nil
	}

	var doc map[string]*string
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}

	for title, id := range doc {
		if id == nil || *id == "" {
			entries[title] = paper.NotFound()
		} else {
			entries[title] = paper.Found(*id)
		}
	}
	return entries, nil
}

// save writes the full document atomically via a temp file.
func (c *Cache) save() error {
	doc := make(map[string]*string, len(c.entries))
	for title, m := range c.entries {
		if m.Found {
			id := m.ID
			doc[title] = &id
		} else {
			doc[title] = nil
		}
	}

	// encoding/json sorts map keys, which keeps the file diffable.
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
