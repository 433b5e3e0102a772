// Package answers holds the curated answer database: for every letter and
// category a short list of words known to be acceptable. The validator uses it
// for instant acceptance and the bots draw their answers from it.
package answers

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lox/wordstop/internal/randutil"
)

//go:embed data/answers.json
var embedded []byte

// Database is an immutable letter -> category -> words index. It is safe for
// concurrent use once constructed.
type Database struct {
	words map[string]map[string][]string
	index map[string]struct{}
}

// Default returns the database compiled into the binary.
func Default() *Database {
	db, err := Parse(embedded)
	if err != nil {
		panic("answers: embedded database is invalid: " + err.Error())
	}
	return db
}

// Load reads a JSON database of the form {"A": {"ANIMAL": ["Ant", ...]}}.
func Load(r io.Reader) (*Database, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return Parse(raw)
}

// LoadFile reads a JSON database from disk.
func LoadFile(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open answers file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Parse builds a Database from raw JSON.
func Parse(raw []byte) (*Database, error) {
	var doc map[string]map[string][]string
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	db := &Database{
		words: make(map[string]map[string][]string, len(doc)),
		index: make(map[string]struct{}),
	}
	for letter, categories := range doc {
		l := strings.ToUpper(strings.TrimSpace(letter))
		if len(l) != 1 || l[0] < 'A' || l[0] > 'Z' {
			return nil, fmt.Errorf("invalid letter key %q", letter)
		}
		byCategory := make(map[string][]string, len(categories))
		for category, list := range categories {
			c := normalizeCategory(category)
			words := make([]string, 0, len(list))
			for _, w := range list {
				w = strings.TrimSpace(w)
				if w == "" {
					continue
				}
				if !strings.EqualFold(w[:1], l) {
					return nil, fmt.Errorf("word %q under letter %s does not start with it", w, l)
				}
				words = append(words, w)
				db.index[key(l, c, w)] = struct{}{}
			}
			byCategory[c] = words
		}
		db.words[l] = byCategory
	}
	return db, nil
}

// Lookup returns the curated words for a letter and category. The returned
// slice must not be modified.
func (d *Database) Lookup(letter, category string) []string {
	byCategory, ok := d.words[strings.ToUpper(letter)]
	if !ok {
		return nil
	}
	return byCategory[normalizeCategory(category)]
}

// Contains reports whether text (trimmed, case-insensitive) is a curated
// answer for the letter and category.
func (d *Database) Contains(letter, category, text string) bool {
	_, ok := d.index[key(strings.ToUpper(letter), normalizeCategory(category), text)]
	return ok
}

// Random draws a curated word uniformly, or "" when the list is empty.
func (d *Database) Random(rng randutil.Source, letter, category string) string {
	list := d.Lookup(letter, category)
	if len(list) == 0 {
		return ""
	}
	return list[rng.IntN(len(list))]
}

// Categories lists every category present for at least one letter, sorted.
func (d *Database) Categories() []string {
	seen := make(map[string]struct{})
	for _, byCategory := range d.words {
		for c := range byCategory {
			seen[c] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Size returns the number of curated entries.
func (d *Database) Size() int {
	return len(d.index)
}

func normalizeCategory(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

func key(letter, category, text string) string {
	return letter + "|" + category + "|" + strings.ToLower(strings.TrimSpace(text))
}
