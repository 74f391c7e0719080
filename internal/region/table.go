package region

import (
	_ "embed"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultTableYAML []byte

// tableConfig is the YAML shape of a region taxonomy.
type tableConfig struct {
	PostcodeAreas map[string]string `yaml:"postcode_areas"`
	Places        []struct {
		Region string   `yaml:"region"`
		Names  []string `yaml:"names"`
	} `yaml:"places"`
}

// placeEntry pairs a region with its place-name keywords. Order matters:
// the first region with a matching keyword wins.
type placeEntry struct {
	region   Region
	keywords []string
}

// Table holds the static lookup tables the classifier matches against.
type Table struct {
	postcodes map[string]Region
	places    []placeEntry
	cities    map[string]Region
}

// LoadTable parses a YAML taxonomy into a Table.
func LoadTable(data []byte) (*Table, error) {
	var cfg tableConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, eris.Wrap(err, "region: parse taxonomy")
	}
	if len(cfg.PostcodeAreas) == 0 && len(cfg.Places) == 0 {
		return nil, eris.New("region: taxonomy is empty")
	}

	t := &Table{
		postcodes: make(map[string]Region, len(cfg.PostcodeAreas)),
		cities:    make(map[string]Region),
	}
	for prefix, name := range cfg.PostcodeAreas {
		t.postcodes[strings.ToUpper(strings.TrimSpace(prefix))] = Region(name)
	}
	for _, p := range cfg.Places {
		entry := placeEntry{region: Region(p.Region)}
		for _, kw := range p.Names {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			entry.keywords = append(entry.keywords, kw)
			if _, ok := t.cities[kw]; !ok {
				t.cities[kw] = entry.region
			}
		}
		t.places = append(t.places, entry)
	}
	return t, nil
}

// LoadTableFile reads a YAML taxonomy from disk, for deployments that
// override the built-in tables.
func LoadTableFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: read taxonomy %s", path)
	}
	return LoadTable(data)
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := LoadTable(defaultTableYAML)
	if err != nil {
		panic(err)
	}
	return t
})

// Default returns the built-in UK taxonomy.
func Default() *Table {
	return defaultTable()
}
