package aircraft

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/brunoga/deep"
)

var ErrUnknownAircraft = errors.New("unknown aircraft")

// maxBaseDepth bounds Base chains, tail -> type is the usual depth of 1.
const maxBaseDepth = 8

// Catalog looks up specs by name.
type Catalog interface {
	Spec(ctx context.Context, name string) (Spec, error)
	Names(ctx context.Context) ([]string, error)
}

// Resolve looks name up in cat, layers it over its Base chain and builds the
// resulting profile.
func Resolve(ctx context.Context, cat Catalog, name string) (*Profile, error) {
	spec, err := Flatten(ctx, cat, name)
	if err != nil {
		return nil, err
	}
	return spec.Build()
}

// Flatten returns the merged spec of name and all of its bases.
func Flatten(ctx context.Context, cat Catalog, name string) (Spec, error) {
	var chain []Spec
	seen := map[string]bool{}
	for next := name; next != ""; {
		if seen[next] || len(chain) >= maxBaseDepth {
			return Spec{}, fmt.Errorf("%w: base chain of %s is cyclic or too deep", ErrInvalidSpec, name)
		}
		seen[next] = true
		s, err := cat.Spec(ctx, next)
		if err != nil {
			return Spec{}, err
		}
		chain = append(chain, s)
		next = s.Base
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	merged := Merge(chain...)
	if len(chain) > 1 {
		merged.Base = chain[0].Name
	}
	return merged, nil
}

// Static is an in-memory catalog, safe for concurrent use. Specs are copied
// on the way in and out.
type Static struct {
	mu    sync.RWMutex
	specs map[string]Spec
}

func NewStatic(specs ...Spec) *Static {
	s := &Static{specs: make(map[string]Spec, len(specs))}
	for _, sp := range specs {
		s.specs[sp.Name] = deep.MustCopy(sp)
	}
	return s
}

// Builtin returns a catalog with the built-in type specs.
func Builtin() *Static {
	return NewStatic(CRJ200())
}

func (s *Static) Put(spec Spec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs[spec.Name] = deep.MustCopy(spec)
}

func (s *Static) Spec(_ context.Context, name string) (Spec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.specs[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownAircraft, name)
	}
	return deep.MustCopy(sp), nil
}

func (s *Static) Names(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.specs))
	for n := range s.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Chain consults catalogs in order and returns the first match.
type Chain []Catalog

func (c Chain) Spec(ctx context.Context, name string) (Spec, error) {
	for _, cat := range c {
		s, err := cat.Spec(ctx, name)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrUnknownAircraft) {
			return Spec{}, err
		}
	}
	return Spec{}, fmt.Errorf("%w: %s", ErrUnknownAircraft, name)
}

func (c Chain) Names(ctx context.Context) ([]string, error) {
	set := map[string]bool{}
	for _, cat := range c {
		names, err := cat.Names(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			set[n] = true
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}
