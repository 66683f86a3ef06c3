package oitconfig

import (
	"os"
	"sort"
	"strings"

	"github.com/go-errors/errors"
)

// Procfile is a parsed Procfile: a flat map of process name to the shell
// command that starts it.
//
// Grounded directly on original_source/src/procfile.rs, including its
// exact line-numbered error semantics.
type Procfile struct {
	processes map[string]string
}

// LoadProcfile reads and parses the Procfile at path.
func LoadProcfile(path string) (*Procfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("failed to read Procfile at %s: %s", path, err.Error())
	}
	return ParseProcfile(string(content))
}

// ParseProcfile parses Procfile content of the form "name: command" per
// line, skipping blank lines and lines starting with '#'.
func ParseProcfile(content string) (*Procfile, error) {
	processes := make(map[string]string)

	for i, rawLine := range strings.Split(content, "\n") {
		lineNum := i + 1
		line := strings.TrimSpace(rawLine)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, errors.Errorf("invalid Procfile syntax on line %d: expected 'name: command'", lineNum)
		}

		name := strings.TrimSpace(line[:idx])
		command := strings.TrimSpace(line[idx+1:])

		if name == "" {
			return nil, errors.Errorf("empty process name on line %d", lineNum)
		}
		if command == "" {
			return nil, errors.Errorf("empty command for process '%s' on line %d", name, lineNum)
		}
		if _, exists := processes[name]; exists {
			return nil, errors.Errorf("duplicate process name '%s' on line %d", name, lineNum)
		}

		processes[name] = command
	}

	if len(processes) == 0 {
		return nil, errors.Errorf("Procfile contains no process definitions")
	}

	return &Procfile{processes: processes}, nil
}

// ProcessNames returns every process name, sorted.
func (p *Procfile) ProcessNames() []string {
	names := make([]string, 0, len(p.processes))
	for name := range p.processes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetCommand returns the command for name and whether it was found.
func (p *Procfile) GetCommand(name string) (string, bool) {
	cmd, ok := p.processes[name]
	return cmd, ok
}
