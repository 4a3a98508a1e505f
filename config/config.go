// ABOUTME: TOML load/save for evolve.Parameters
// ABOUTME: Watches the config file with fsnotify for live reconfiguration

// Package config loads and saves evolve.Parameters as TOML, the same way
// the teacher's config.go loads GAConfig, and watches a parameters file
// for live reconfiguration the way view.go watches a playlist file
// (spec.md's AMBIENT STACK: "Configuration"/"Live reconfiguration").
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"

	"github.com/sthamann/lagrangian-evolve/evolve"
)

// fileParameters is the TOML-tagged mirror of evolve.Parameters; kept
// separate from evolve.Parameters itself so the search engine's core data
// model carries no serialization-framework struct tags (spec.md's core
// has no wire format of its own).
type fileParameters struct {
	PopulationSize     int     `toml:"population_size"`
	EliteCount         int     `toml:"elite_count"`
	MutationRate       float64 `toml:"mutation_rate"`
	MutationSigma      float64 `toml:"mutation_sigma"`
	MutationRateGauge  float64 `toml:"mutation_rate_gauge"`
	MutationSigmaGauge float64 `toml:"mutation_sigma_gauge"`
	MutationRateGrav   float64 `toml:"mutation_rate_grav"`
	MutationSigmaGrav  float64 `toml:"mutation_sigma_grav"`
	CrossoverRate      float64 `toml:"crossover_rate"`
	GaugeRange         float64 `toml:"gauge_range"`
	GravRange          float64 `toml:"grav_range"`
	MaxGenerations     int     `toml:"max_generations"`
	UsePrecise         bool    `toml:"use_precise"`
	AdaptivePatience   bool    `toml:"adaptive_patience"`
}

func toFile(p evolve.Parameters) fileParameters {
	return fileParameters{
		PopulationSize:     p.PopulationSize,
		EliteCount:         p.EliteCount,
		MutationRate:       p.MutationRate,
		MutationSigma:      p.MutationSigma,
		MutationRateGauge:  p.MutationRateGauge,
		MutationSigmaGauge: p.MutationSigmaGauge,
		MutationRateGrav:   p.MutationRateGrav,
		MutationSigmaGrav:  p.MutationSigmaGrav,
		CrossoverRate:      p.CrossoverRate,
		GaugeRange:         p.GaugeRange,
		GravRange:          p.GravRange,
		MaxGenerations:     p.MaxGenerations,
		UsePrecise:         p.UsePrecise,
		AdaptivePatience:   p.AdaptivePatience,
	}
}

func fromFile(f fileParameters) evolve.Parameters {
	return evolve.Parameters{
		PopulationSize:     f.PopulationSize,
		EliteCount:         f.EliteCount,
		MutationRate:       f.MutationRate,
		MutationSigma:      f.MutationSigma,
		MutationRateGauge:  f.MutationRateGauge,
		MutationSigmaGauge: f.MutationSigmaGauge,
		MutationRateGrav:   f.MutationRateGrav,
		MutationSigmaGrav:  f.MutationSigmaGrav,
		CrossoverRate:      f.CrossoverRate,
		GaugeRange:         f.GaugeRange,
		GravRange:          f.GravRange,
		MaxGenerations:     f.MaxGenerations,
		UsePrecise:         f.UsePrecise,
		AdaptivePatience:   f.AdaptivePatience,
	}
}

// Load reads Parameters from a TOML file. A missing file is not an error:
// it returns evolve.DefaultParameters(), matching LoadConfig's
// fall-back-to-defaults behavior in the teacher.
func Load(path string) (evolve.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return evolve.DefaultParameters(), nil
		}
		return evolve.DefaultParameters(), fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var f fileParameters
	if err := toml.Unmarshal(data, &f); err != nil {
		return evolve.DefaultParameters(), fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return fromFile(f), nil
}

// Save writes Parameters to path as TOML, creating parent directories as
// needed.
func Save(path string, p evolve.Parameters) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(toFile(p)); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// Watcher watches a parameters file for writes and reloads it into a
// shared parameters bundle, the reconfigure path spec.md §6 asks the core
// to accept (grounded on view.go's waitForFileChange, generalized from a
// one-shot tea.Cmd into a long-lived goroutine since this module has no
// UI event loop to drive it).
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
}

// NewWatcher starts watching path. Callers must call Run to begin
// applying reloads and Close to release the underlying OS resources.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: failed to create watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config: failed to watch %s: %w", path, err)
	}

	return &Watcher{watcher: w, path: path}, nil
}

// Run blocks, applying each write to path onto shared until the watcher
// is closed. onErr, if non-nil, receives load errors without stopping the
// watch loop (a malformed reconfigure file is not fatal to a running
// search, per spec.md §7's "local recoveries are silent to external
// observers").
func (w *Watcher) Run(shared *evolve.SharedParameters, onErr func(error)) {
	target, err := filepath.Abs(w.path)
	if err != nil {
		target = w.path
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			eventPath, _ := filepath.Abs(event.Name)
			if eventPath != target || event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}

			time.Sleep(100 * time.Millisecond) // debounce atomic writes
			p, err := Load(w.path)
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				continue
			}
			shared.Set(p)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if onErr != nil {
				onErr(err)
			}
		}
	}
}

// Close releases the watcher's OS resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
