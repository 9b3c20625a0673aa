// Package catalog holds the fixed set of synthetic voice personas and
// provides attribute filtering, fuzzy search, and AI casting
// recommendations over it.
package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Persona is one catalog entry. Personas are loaded once at startup and
// never mutated.
type Persona struct {
	// Name is the stable unique key, also the cloud voice identifier.
	Name string

	// Tagline is a short presentation blurb.
	Tagline string

	// Analysis is the structured description of the voice.
	Analysis Analysis
}

// Analysis describes a persona's vocal profile.
type Analysis struct {
	Gender          string
	Pitch           string
	Characteristics []string
	Description     string
}

// Criteria selects personas by attribute. Zero-value fields match
// anything.
type Criteria struct {
	Gender string
	Pitch  string
}

// Catalog is an immutable persona collection.
type Catalog struct {
	personas []Persona
	byName   map[string]int
}

// New builds a catalog from personas. Later duplicates of a name are
// dropped.
func New(personas []Persona) *Catalog {
	c := &Catalog{byName: make(map[string]int, len(personas))}
	for _, p := range personas {
		if _, ok := c.byName[p.Name]; ok {
			continue
		}
		c.byName[p.Name] = len(c.personas)
		c.personas = append(c.personas, p)
	}
	return c
}

// Default returns the built-in persona catalog.
func Default() *Catalog {
	return New(builtinPersonas)
}

// All returns every persona in catalog order.
func (c *Catalog) All() []Persona {
	out := make([]Persona, len(c.personas))
	copy(out, c.personas)
	return out
}

// Len returns the persona count.
func (c *Catalog) Len() int {
	return len(c.personas)
}

// Lookup finds a persona by its exact name, case-insensitively.
func (c *Catalog) Lookup(name string) (Persona, bool) {
	if i, ok := c.byName[name]; ok {
		return c.personas[i], true
	}
	for _, p := range c.personas {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Persona{}, false
}

// Filter returns the personas matching every set criterion.
func (c *Catalog) Filter(crit Criteria) []Persona {
	var out []Persona
	for _, p := range c.personas {
		if crit.Gender != "" && !strings.EqualFold(p.Analysis.Gender, crit.Gender) {
			continue
		}
		if crit.Pitch != "" && !strings.EqualFold(p.Analysis.Pitch, crit.Pitch) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Search fuzzy-matches query against persona names and characteristics,
// best matches first. An empty query returns the whole catalog.
func (c *Catalog) Search(query string) []Persona {
	if strings.TrimSpace(query) == "" {
		return c.All()
	}

	haystack := make([]string, len(c.personas))
	for i, p := range c.personas {
		haystack[i] = p.Name + " " + strings.Join(p.Analysis.Characteristics, " ")
	}

	matches := fuzzy.Find(query, haystack)
	out := make([]Persona, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.personas[m.Index])
	}
	return out
}
