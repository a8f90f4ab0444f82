// Package data loads static tables used at boot.
package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PresetArena is one arena registered automatically at boot, before any
// lobby server connects.
type PresetArena struct {
	Name  string `yaml:"name"`
	Seats uint64 `yaml:"seats_per_match"`
}

// ArenaTable holds the boot-time arena presets.
type ArenaTable struct {
	arenas []PresetArena
}

// All returns the presets in file order.
func (t *ArenaTable) All() []PresetArena {
	return t.arenas
}

// Count returns the number of presets loaded.
func (t *ArenaTable) Count() int {
	return len(t.arenas)
}

type arenaListFile struct {
	Arenas []PresetArena `yaml:"arenas"`
}

// LoadArenaTable loads the arena preset list from a YAML file. Presets
// follow the same rule as AddArena over the wire: a nameless arena or a
// zero seat count is rejected, here as a load error.
func LoadArenaTable(path string) (*ArenaTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read arena_list: %w", err)
	}
	var f arenaListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse arena_list: %w", err)
	}

	t := &ArenaTable{arenas: make([]PresetArena, 0, len(f.Arenas))}
	for _, a := range f.Arenas {
		if a.Name == "" {
			return nil, fmt.Errorf("arena_list: arena with empty name")
		}
		if a.Seats == 0 {
			return nil, fmt.Errorf("arena_list: arena %q: seats_per_match must be positive", a.Name)
		}
		t.arenas = append(t.arenas, a)
	}
	return t, nil
}
