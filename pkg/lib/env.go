package lib

import (
	"os"
	"sort"
	"strings"
)

// Env holds environment data for a Cmd. The zero value is usable and means
// "no extra variables". Merging operations treat the argument as the winner
// when both sides define the same key.
type Env map[string]string

// NewEnv constructs an Env from a map, copying it so later mutations of the
// argument don't leak into the container.
func NewEnv(data map[string]string) Env {
	env := make(Env, len(data))
	for k, v := range data {
		env[k] = v
	}
	return env
}

// EmptyEnv constructs an empty Env.
func EmptyEnv() Env {
	return make(Env)
}

// EnvFromPairs constructs an Env from key/value pairs. A later pair wins when
// the same key appears more than once.
func EnvFromPairs(pairs [][2]string) Env {
	env := make(Env, len(pairs))
	for _, pair := range pairs {
		env[pair[0]] = pair[1]
	}
	return env
}

// OneEnv constructs an Env with a single entry.
func OneEnv(k, v string) Env {
	return Env{k: v}
}

// ParentEnv snapshots the environment of the current process.
func ParentEnv() Env {
	vars := os.Environ()
	env := make(Env, len(vars))
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env[k] = v
	}
	return env
}

// Insert adds one entry by mutating the receiver and returns it for chaining.
func (env Env) Insert(k, v string) Env {
	env[k] = v
	return env
}

// InsertCloned returns a copy of the receiver with one extra entry. The
// receiver is left untouched.
func (env Env) InsertCloned(k, v string) Env {
	cloned := NewEnv(env)
	cloned[k] = v
	return cloned
}

// Extend merges other into the receiver, mutating it. Entries from other win
// on key collisions.
func (env Env) Extend(other Env) Env {
	for k, v := range other {
		env[k] = v
	}
	return env
}

// ExtendCloned merges two containers into a new one. Neither argument is
// mutated. Entries from other win on key collisions.
func (env Env) ExtendCloned(other Env) Env {
	cloned := NewEnv(env)
	return cloned.Extend(other)
}

// Get retrieves a value by key.
func (env Env) Get(k string) (string, bool) {
	v, ok := env[k]
	return v, ok
}

// Slice renders the container as "KEY=VALUE" pairs sorted by key, the form
// expected by exec.Cmd.Env.
func (env Env) Slice() []string {
	kvs := make([]string, 0, len(env))
	for k, v := range env {
		kvs = append(kvs, k+"="+v)
	}
	sort.Strings(kvs)
	return kvs
}

// PathVar returns the PATH value of the current process.
func PathVar() (string, bool) {
	return os.LookupEnv("PATH")
}

// ExtendPath appends dir to the PATH value of the current process and returns
// the combined value using the platform list separator. The PATH of the
// current process itself is not modified.
func ExtendPath(dir string) string {
	path, ok := PathVar()
	if !ok || path == "" {
		return dir
	}
	return path + string(os.PathListSeparator) + dir
}
