package script

import (
	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkscript/big"
	"github.com/privacybydesign/zkscript/expcache"
	"github.com/privacybydesign/zkscript/group"
)

// Decomposition records that the product of the values of four square commitments must
// equal the value of an original commitment modulo the modulus of Group.
type Decomposition struct {
	Group    GroupID
	Original string
	Squares  [4]string
}

// Environment is the evaluation context of one proof session: values, declared types,
// privacy flags, registered representations and the groups and caches they are
// evaluated with. An Environment is not safe for concurrent use; the caches it
// refers to are.
type Environment struct {
	groups *group.Table

	values  map[string]*big.Int
	types   map[string]Type
	private map[string]bool
	memo    map[Key]Type

	reps           []*Representation
	repIndex       map[string]int
	runtimeReps    []*Representation
	runtimeIndex   map[string]int
	decompositions []Decomposition

	fixed *expcache.FixedBaseCache
	multi *expcache.MultiBaseCache
}

func NewEnvironment(groups *group.Table) *Environment {
	env := &Environment{groups: groups}
	env.Reset()
	return env
}

// Reset clears all session state. The group table and caches are kept.
func (env *Environment) Reset() {
	env.values = map[string]*big.Int{}
	env.types = map[string]Type{}
	env.private = map[string]bool{}
	env.memo = map[Key]Type{}
	env.reps = nil
	env.repIndex = map[string]int{}
	env.runtimeReps = nil
	env.runtimeIndex = map[string]int{}
	env.decompositions = nil
}

func (env *Environment) Groups() *group.Table {
	return env.groups
}

// Declare sets the type and privacy of a variable. Redeclaring a variable with
// another type is an error.
func (env *Environment) Declare(name string, t Type, private bool) error {
	if name == "" {
		return typeError("invalid declaration: empty name")
	}
	switch t.Kind {
	case Integer:
		if t.Group != NoGroup {
			return typeError("invalid declaration of %s: integers have no group", name)
		}
	case Modulus, Exponent, Element:
		if _, ok := env.groups.Get(t.Group); !ok {
			return typeError("invalid declaration of %s: unknown group %q", name, t.Group)
		}
	default:
		return typeError("invalid declaration of %s: unknown kind %d", name, t.Kind)
	}
	if old, ok := env.types[name]; ok && old != t {
		return typeError("invalid declaration of %s: declared %v before, now %v", name, old, t)
	}
	env.types[name] = t
	env.private[name] = private
	return nil
}

// SetValue binds a value to a declared variable.
func (env *Environment) SetValue(name string, v *big.Int) error {
	if _, ok := env.types[name]; !ok {
		return lookupError("variable", name)
	}
	env.values[name] = new(big.Int).Set(v)
	return nil
}

func (env *Environment) Value(name string) (*big.Int, error) {
	v, ok := env.values[name]
	if !ok {
		return nil, lookupError("variable", name)
	}
	return v, nil
}

func (env *Environment) Type(name string) (Type, bool) {
	t, ok := env.types[name]
	return t, ok
}

func (env *Environment) IsPrivate(name string) bool {
	return env.private[name]
}

// PublicValues returns the values of all public variables.
func (env *Environment) PublicValues() map[string]*big.Int {
	pub := map[string]*big.Int{}
	for name, v := range env.values {
		if !env.private[name] {
			pub[name] = v
		}
	}
	return pub
}

func (env *Environment) Group(id GroupID) (group.Group, error) {
	g, ok := env.groups.Get(id)
	if !ok {
		return nil, lookupError("group", string(id))
	}
	return g, nil
}

func (env *Environment) Modulus(id GroupID) (*big.Int, error) {
	g, err := env.Group(id)
	if err != nil {
		return nil, err
	}
	return g.Modulus(), nil
}

// AddRepresentation registers rep for the Sigma protocol, after type checking it.
func (env *Environment) AddRepresentation(rep *Representation) error {
	if _, ok := env.repIndex[rep.left]; ok {
		return errors.Errorf("representation of %s already registered", rep.left)
	}
	if err := rep.TypeCheck(env); err != nil {
		return err
	}
	env.repIndex[rep.left] = len(env.reps)
	env.reps = append(env.reps, rep)
	return nil
}

// Representations returns the registered representations in order of registration.
func (env *Environment) Representations() []*Representation {
	return env.reps
}

func (env *Environment) Representation(left string) (*Representation, bool) {
	i, ok := env.repIndex[left]
	if !ok {
		return nil, false
	}
	return env.reps[i], true
}

// AddRuntimeRepresentation registers a representation whose value the verifier
// computes itself before checking decompositions.
func (env *Environment) AddRuntimeRepresentation(rep *Representation) error {
	if _, ok := env.runtimeIndex[rep.left]; ok {
		return errors.Errorf("runtime representation of %s already registered", rep.left)
	}
	if err := rep.TypeCheck(env); err != nil {
		return err
	}
	env.runtimeIndex[rep.left] = len(env.runtimeReps)
	env.runtimeReps = append(env.runtimeReps, rep)
	return nil
}

func (env *Environment) RuntimeRepresentations() []*Representation {
	return env.runtimeReps
}

func (env *Environment) AddDecomposition(d Decomposition) error {
	if _, err := env.Group(d.Group); err != nil {
		return err
	}
	env.decompositions = append(env.decompositions, d)
	return nil
}

func (env *Environment) Decompositions() []Decomposition {
	return env.decompositions
}

// Commit computes the value of rep, stores it as a public element under rep's left-hand
// side and registers rep.
func (env *Environment) Commit(rep *Representation) (*big.Int, error) {
	if err := rep.TypeCheck(env); err != nil {
		return nil, err
	}
	v, err := rep.Value(env)
	if err != nil {
		return nil, err
	}
	if err = env.Declare(rep.left, ElementType(rep.group), false); err != nil {
		return nil, err
	}
	if err = env.SetValue(rep.left, v); err != nil {
		return nil, err
	}
	if err = env.AddRepresentation(rep); err != nil {
		return nil, err
	}
	return v, nil
}

// ComputeRuntime evaluates every runtime representation and stores its value as a
// public element.
func (env *Environment) ComputeRuntime() error {
	for _, rep := range env.runtimeReps {
		v, err := rep.Value(env)
		if err != nil {
			return err
		}
		if err = env.Declare(rep.left, ElementType(rep.group), false); err != nil {
			return err
		}
		if err = env.SetValue(rep.left, v); err != nil {
			return err
		}
	}
	return nil
}

// SetCaches attaches exponentiation caches. Either may be nil.
func (env *Environment) SetCaches(fixed *expcache.FixedBaseCache, multi *expcache.MultiBaseCache) {
	env.fixed = fixed
	env.multi = multi
}

func (env *Environment) FixedBaseCache() *expcache.FixedBaseCache {
	return env.fixed
}

func (env *Environment) MultiBaseCache() *expcache.MultiBaseCache {
	return env.multi
}

// Precompute builds fixed-base tables for every identifier used as a base, and
// multi-base tables for every list of 2 to 4 identifier bases, of all registered
// representations. Tables that already exist are kept.
func (env *Environment) Precompute() error {
	reps := append(append([]*Representation(nil), env.reps...), env.runtimeReps...)
	for _, rep := range reps {
		modulus, err := env.Modulus(rep.group)
		if err != nil {
			return err
		}
		names, bases, err := rep.identifierBases(env)
		if err != nil {
			return err
		}
		if bases == nil {
			continue
		}
		if env.fixed != nil {
			for i := range names {
				if err = env.fixed.Store(names[i], bases[i], modulus); err != nil {
					return err
				}
			}
		}
		if env.multi != nil && len(names) >= 2 && len(names) <= expcache.MaxMultiBases {
			if err = env.multi.Store(names, bases, modulus); err != nil {
				return err
			}
		}
	}
	return nil
}

// StripPrivates returns the view of the environment that may be handed to a verifier:
// private values are removed and groups are replaced by their public views. Types,
// representations and caches are shared.
func (env *Environment) StripPrivates() *Environment {
	pub := &Environment{
		groups:         env.groups.Public(),
		values:         map[string]*big.Int{},
		types:          map[string]Type{},
		private:        map[string]bool{},
		memo:           map[Key]Type{},
		reps:           append([]*Representation(nil), env.reps...),
		repIndex:       map[string]int{},
		runtimeReps:    append([]*Representation(nil), env.runtimeReps...),
		runtimeIndex:   map[string]int{},
		decompositions: append([]Decomposition(nil), env.decompositions...),
		fixed:          env.fixed,
		multi:          env.multi,
	}
	for name, v := range env.values {
		if !env.private[name] {
			pub.values[name] = v
		}
	}
	for name, t := range env.types {
		pub.types[name] = t
		pub.private[name] = env.private[name]
	}
	for k, t := range env.memo {
		pub.memo[k] = t
	}
	for k, i := range env.repIndex {
		pub.repIndex[k] = i
	}
	for k, i := range env.runtimeIndex {
		pub.runtimeIndex[k] = i
	}
	return pub
}
