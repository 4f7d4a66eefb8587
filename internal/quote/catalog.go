package quote

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"rcpro-configurator/internal/format"
)

//go:embed covers.yaml
var defaultCatalog []byte

// Cover is one catalog entry.
type Cover struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
}

// Catalog lists covers in display order along with their explanations.
type Catalog struct {
	Covers           []Cover  `yaml:"covers"`
	DefaultSelection []string `yaml:"default_selection"`

	index map[string]int
}

// Line is a cover ready for display.
type Line struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Premium     float64 `json:"premium"`
	Cost        string  `json:"cost"`
	Selected    bool    `json:"selected"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded cover catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from path. An empty path yields the embedded one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return ReadCatalog(f)
}

// ReadCatalog decodes a YAML catalog.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c.index = make(map[string]int, len(c.Covers))
	for i, cover := range c.Covers {
		if cover.ID == "" {
			return nil, fmt.Errorf("decode catalog: cover %d has no id", i)
		}
		if _, dup := c.index[cover.ID]; dup {
			return nil, fmt.Errorf("decode catalog: duplicate cover %q", cover.ID)
		}
		c.index[cover.ID] = i
	}

	return &c, nil
}

// Description returns the explanation for id, or "" when unknown.
func (c *Catalog) Description(id string) string {
	if i, ok := c.index[id]; ok {
		return c.Covers[i].Description
	}
	return ""
}

// InitialSelection returns the covers pre-selected for a new user.
func (c *Catalog) InitialSelection() Selection {
	return NewSelection(c.DefaultSelection...)
}

// Lines builds display lines for every cover in quotes: catalog covers first,
// in catalog order, then unknown covers sorted by id. Nil quotes give no lines.
func (c *Catalog) Lines(quotes CoverQuotes, covers Selection) []Line {
	if len(quotes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(quotes))
	for id := range quotes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, iKnown := c.index[ids[i]]
		pj, jKnown := c.index[ids[j]]
		switch {
		case iKnown && jKnown:
			return pi < pj
		case iKnown != jKnown:
			return iKnown
		default:
			return ids[i] < ids[j]
		}
	})

	lines := make([]Line, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, Line{
			ID:          id,
			Title:       format.CamelToSentenceCase(id),
			Description: c.Description(id),
			Premium:     quotes[id],
			Cost:        format.Currency(quotes[id]),
			Selected:    covers.Has(id),
		})
	}
	return lines
}
