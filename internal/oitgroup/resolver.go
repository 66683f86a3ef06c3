// Package oitgroup resolves a CLI/IPC target name to the concrete list of
// process names it refers to (spec §4.x groups table): a configured
// group, the literal "all", or the name itself.
//
// Grounded directly on original_source/src/group.rs.
package oitgroup

// Resolver resolves names against a fixed set of groups and process
// names, both captured at construction time.
type Resolver struct {
	groups        map[string][]string
	processNames  []string
}

// New returns a Resolver over groups (group name -> member process
// names) and the full list of known process names.
func New(groups map[string][]string, processNames []string) *Resolver {
	return &Resolver{groups: groups, processNames: processNames}
}

// Resolve returns the process names name refers to: group members if
// name is a configured group, every process name if name == "all",
// otherwise the single-element list [name].
func (r *Resolver) Resolve(name string) []string {
	if members, ok := r.groups[name]; ok {
		out := make([]string, len(members))
		copy(out, members)
		return out
	}
	if name == "all" {
		out := make([]string, len(r.processNames))
		copy(out, r.processNames)
		return out
	}
	return []string{name}
}

// IsGroup reports whether name is a configured group name.
func (r *Resolver) IsGroup(name string) bool {
	_, ok := r.groups[name]
	return ok
}
