package template

// OrderedMap is an insertion-ordered string-to-string map, used for each
// of Environment's three tiers; Keys() returns names in the order they
// were first Set rather than Go's randomized map iteration order.
type OrderedMap struct {
	keys   []string
	values map[string]string
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]string)}
}

// Set inserts or overwrites name. Overwriting an existing key keeps its
// original position in Keys().
func (m *OrderedMap) Set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value for name and whether it was present.
func (m *OrderedMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of entries.
func (m *OrderedMap) Len() int { return len(m.keys) }

// Environment is the three-tier variable lookup described in
// SPEC_FULL.md §3.1: system (Env), Profile, and Dotfile ordered maps.
type Environment struct {
	Env     *OrderedMap
	Profile *OrderedMap
	Dotfile *OrderedMap
}

// NewEnvironment returns an Environment with three empty tiers.
func NewEnvironment() *Environment {
	return &Environment{Env: NewOrderedMap(), Profile: NewOrderedMap(), Dotfile: NewOrderedMap()}
}

func (e *Environment) tier(p Prefix) *OrderedMap {
	switch p {
	case PrefixEnv:
		return e.Env
	case PrefixProfile:
		return e.Profile
	case PrefixDotfile:
		return e.Dotfile
	}
	return nil
}

// Lookup searches the tiers named by ps, in the fixed order Env, Profile,
// Dotfile (SPEC_FULL.md §4.3): the first present key wins.
func (e *Environment) Lookup(ps PrefixSet, name string) (string, bool) {
	eff := ps.Effective()
	order := [3]Prefix{PrefixEnv, PrefixProfile, PrefixDotfile}
	for _, p := range order {
		if !eff.Has(p) {
			continue
		}
		if v, ok := e.tier(p).Get(name); ok {
			return v, true
		}
	}
	return "", false
}

// Exists reports whether any tier named by ps contains name — used for
// Condition evaluation, independent of whether the default-prefix lookup
// would also need to fail for an undefined-variable error.
func (e *Environment) Exists(ps PrefixSet, name string) bool {
	_, ok := e.Lookup(ps, name)
	return ok
}
