// Package catalog turns the built-in manufacturer priority table into data: a
// deployment can ship its own maker list as JSON without rebuilding. A loaded
// catalog is validated against a schema at startup; a bad file is a startup
// error, never a silent fallback to the defaults.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hiraoka-dev/millsheet-renamer/internal/millsheet"
)

// Catalog is an ordered manufacturer table; order is match priority.
type Catalog struct {
	Makers []millsheet.Maker `json:"makers"`
}

// Default returns the built-in table.
func Default() *Catalog {
	return &Catalog{Makers: millsheet.DefaultMakers()}
}

// Load reads a maker catalog from a JSON file. The file must validate
// against the catalog schema: a non-empty makers array where every maker has
// a name and at least one variant.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := validateCatalogJSON(data); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}
