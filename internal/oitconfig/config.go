// Package oitconfig loads, validates, and saves the TOML configuration
// file (spec §6) and parses the Procfile it points at.
//
// Grounded directly on original_source/src/config.rs for the field list
// and validate() rules.
package oitconfig

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/go-errors/errors"
)

// Config is the root TOML document.
type Config struct {
	Procfile          string                   `toml:"procfile"`
	Processes         map[string]ProcessConfig `toml:"processes"`
	LogFiles          []LogFileConfig          `toml:"log_files"`
	Filters           FilterConfig             `toml:"filters"`
	BatchWindowMs     *int64                   `toml:"batch_window_ms,omitempty"`
	MaxLogBufferMB    *int                     `toml:"max_log_buffer_mb,omitempty"`
	HiddenProcesses   []string                 `toml:"hidden_processes"`
	IgnoredProcesses  []string                 `toml:"ignored_processes"`
	StartProcesses    []string                 `toml:"start_processes"`
	DisableAutoUpdate *bool                    `toml:"disable_auto_update,omitempty"`
	CompactMode       *bool                    `toml:"compact_mode,omitempty"`
	Colors            map[string]string        `toml:"colors"`
	ProcessColoring   *bool                    `toml:"process_coloring,omitempty"`
	ContextCopySeconds *float64                `toml:"context_copy_seconds,omitempty"`
	Groups            map[string][]string      `toml:"groups"`

	// ConfigPath is not serialized; it records where this Config was
	// loaded from so a relative Procfile path resolves against the config
	// file's own directory. Relative log-file paths resolve against the
	// Procfile's directory instead.
	ConfigPath string `toml:"-"`
}

// ProcessConfig is per-process configuration keyed under [processes.<name>].
type ProcessConfig struct {
	LogFile string        `toml:"log_file,omitempty"`
	Status  *StatusConfig `toml:"status,omitempty"`
}

// LogFileConfig names an extra file to tail, outside the Procfile's
// supervised processes.
type LogFileConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// StatusConfig configures a process's oitstatus.Matcher.
type StatusConfig struct {
	Default     string             `toml:"default,omitempty"`
	Color       string             `toml:"color,omitempty"`
	Transitions []StatusTransition `toml:"transitions"`
}

// StatusTransition is one row of a StatusConfig's transition table.
type StatusTransition struct {
	Pattern string `toml:"pattern"`
	Label   string `toml:"label"`
	Color   string `toml:"color,omitempty"`
}

// FilterConfig is the persisted include/exclude filter set.
type FilterConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Defaults applied when the corresponding config field is unset (spec §6).
const (
	DefaultBatchWindowMs  int64 = 100
	DefaultMaxLogBufferMB int   = 50
)

// EffectiveBatchWindowMs returns the configured batch window, or the
// spec-defined default of 100ms when unset.
func (c *Config) EffectiveBatchWindowMs() int64 {
	if c.BatchWindowMs != nil {
		return *c.BatchWindowMs
	}
	return DefaultBatchWindowMs
}

// EffectiveMaxLogBufferMB returns the configured ring buffer byte cap in
// megabytes, or the spec-defined default when unset.
func (c *Config) EffectiveMaxLogBufferMB() int {
	if c.MaxLogBufferMB != nil {
		return *c.MaxLogBufferMB
	}
	return DefaultMaxLogBufferMB
}

// Load reads and parses the TOML config file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Errorf("failed to load config at %s: %s", path, err.Error())
	}
	cfg.ConfigPath = path
	return &cfg, nil
}

// Save writes cfg to path as pretty-printed TOML.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Errorf("failed to open config at %s for writing: %s", path, err.Error())
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return errors.Errorf("failed to encode config: %s", err.Error())
	}
	return nil
}

// UpdateFilters replaces the persisted filter set from the live set of
// in-memory oitfilter.Filter values (by pattern/kind, not imported
// directly to avoid a dependency cycle between oitconfig and oitfilter).
func (c *Config) UpdateFilters(includes, excludes []string) {
	c.Filters.Include = includes
	c.Filters.Exclude = excludes
}

// Validate checks cross-field invariants against the known process names
// (spec §6 / original_source's validate()): log-file/process-name
// collisions, duplicate log-file names, unknown names in start_processes,
// and group-name collisions or empty/unknown group membership.
func (c *Config) Validate(processNames []string) error {
	processSet := make(map[string]struct{}, len(processNames))
	for _, n := range processNames {
		processSet[n] = struct{}{}
	}

	logFileNames := make(map[string]struct{})
	for _, lf := range c.LogFiles {
		if _, ok := processSet[lf.Name]; ok {
			return errors.Errorf("log file name '%s' conflicts with a process name", lf.Name)
		}
		if _, dup := logFileNames[lf.Name]; dup {
			return errors.Errorf("duplicate log file name '%s'", lf.Name)
		}
		logFileNames[lf.Name] = struct{}{}
	}

	for _, name := range c.StartProcesses {
		if _, ok := processSet[name]; !ok {
			return errors.Errorf("start_processes contains unknown process '%s'", name)
		}
	}

	for groupName, members := range c.Groups {
		if _, ok := processSet[groupName]; ok {
			return errors.Errorf("group name '%s' conflicts with a process name", groupName)
		}
		if _, ok := logFileNames[groupName]; ok {
			return errors.Errorf("group name '%s' conflicts with a log file name", groupName)
		}
		if len(members) == 0 {
			return errors.Errorf("group '%s' cannot be empty", groupName)
		}
		for _, member := range members {
			if _, ok := processSet[member]; !ok {
				return errors.Errorf("group '%s' contains unknown process '%s'", groupName, member)
			}
		}
	}

	return nil
}
