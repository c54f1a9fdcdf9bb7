package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Registry maps command names and aliases to commands. Lookups ignore case.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	names    map[string]*Command
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		names:    make(map[string]*Command),
	}
}

// Register adds cmd under its name and aliases. A name already taken by another
// command is an error.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil || cmd.Name == "" || cmd.Run == nil {
		return fmt.Errorf("command must have a name and a run function")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := lo.Map(append([]string{cmd.Name}, cmd.Aliases...), func(name string, _ int) string {
		return strings.ToLower(name)
	})
	for _, key := range keys {
		if _, taken := r.names[key]; taken {
			return fmt.Errorf("command name %q is already registered", key)
		}
	}

	r.commands[strings.ToLower(cmd.Name)] = cmd
	for _, key := range keys {
		r.names[key] = cmd
	}
	return nil
}

// MustRegister is Register for wiring at start-up
func (r *Registry) MustRegister(cmds ...*Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

// Lookup finds a command by name or alias
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.names[strings.ToLower(name)]
	return cmd, ok
}

// Commands returns every registered command sorted by category, then name
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	cmds := lo.Values(r.commands)
	r.mu.RUnlock()

	sort.Slice(cmds, func(i, j int) bool {
		if cmds[i].Category != cmds[j].Category {
			return cmds[i].Category < cmds[j].Category
		}
		return cmds[i].Name < cmds[j].Name
	})
	return cmds
}
