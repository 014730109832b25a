package commands

import (
	"path/filepath"

	"github.com/marmos91/pipearchive/pkg/config"
	"github.com/marmos91/pipearchive/pkg/registry"
)

// dirOf and baseOf split a user-supplied archive path the way
// archive.OpenInfo wants it: a directory and a file name within it.
func dirOf(path string) string {
	return filepath.Dir(path)
}

func baseOf(path string) string {
	return filepath.Base(path)
}

// memoryRegistries holds the in-memory registry created for each
// configuration, so every command run against the same configuration in
// this process sees the records written by the others.
var memoryRegistries = map[*config.Config]registry.Registry{}

// openRegistry opens the registry configured by cfg, honoring the
// in-memory escape hatch used by tests and ephemeral CI invocations.
func openRegistry(cfg *config.Config) (registry.Registry, error) {
	if cfg.Registry.InMemory {
		reg, ok := memoryRegistries[cfg]
		if !ok {
			reg = registry.NewMemory()
			memoryRegistries[cfg] = reg
		}
		return reg, nil
	}
	return registry.NewBadger(cfg.Registry.Path)
}
