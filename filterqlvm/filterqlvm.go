// Package filterqlvm filters in-memory records. Filters compile once into
// predicates, which are memoized in a bounded LRU cache keyed by the
// exact filter text.
package filterqlvm

import (
	"fmt"
	"iter"
	"slices"
	"time"

	u "github.com/araddon/gou"
	lru "github.com/hashicorp/golang-lru"

	"github.com/lytics/odataql/filterqlvm/compiler"
	"github.com/lytics/odataql/value"
	"github.com/lytics/odataql/vm"
)

// DefaultCacheSize is the number of compiled filters kept per VM.
const DefaultCacheSize = 256

// Predicate reports whether a record matches. It never panics: a panic
// while evaluating a record is logged and counts as no match.
type Predicate func(row any) bool

// Option configures a VM.
type Option func(*config)

type config struct {
	cacheSize  int
	converters []value.Converter
	globLike   bool
}

// WithCacheSize bounds the compiled filter cache.
func WithCacheSize(n int) Option {
	return func(c *config) { c.cacheSize = n }
}

// WithConverters prepends literal converters ahead of the domain chain.
func WithConverters(cs ...value.Converter) Option {
	return func(c *config) { c.converters = append(c.converters, cs...) }
}

// WithGlobLike makes like match % and * wildcards against the whole
// value instead of testing for a literal substring.
func WithGlobLike() Option {
	return func(c *config) { c.globLike = true }
}

// WithDateMath recognizes quoted relative dates ('now-7d') evaluated
// against now when a filter is compiled. Cached predicates keep the
// instant they were compiled with.
func WithDateMath(now func() time.Time) Option {
	return func(c *config) {
		c.converters = append(c.converters, value.DateMathConverter(now))
	}
}

// VM compiles and caches in-memory predicates. It is safe for concurrent
// use.
type VM struct {
	interp *vm.Interpreter[compiler.Accessor]
	cache  *lru.Cache
}

// New creates a VM.
func New(opts ...Option) (*VM, error) {
	cfg := &config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}
	cache, err := lru.NewWithEvict(cfg.cacheSize, func(key, _ any) {
		u.Debugf("evicted compiled filter %q", key)
	})
	if err != nil {
		return nil, fmt.Errorf("filter cache: %w", err)
	}
	dom := compiler.NewDomain(cfg.converters...)
	if cfg.globLike {
		dom = dom.WithGlobLike()
	}
	return &VM{
		interp: vm.NewInterpreter[compiler.Accessor](dom),
		cache:  cache,
	}, nil
}

// Compile returns the predicate for a filter, compiling it on a cache
// miss. Compile errors are never cached.
func (m *VM) Compile(filter string) (Predicate, error) {
	if p, ok := m.cache.Get(filter); ok {
		return p.(Predicate), nil
	}
	u.Debugf("compiling filter %q", filter)
	acc, err := m.interp.Compile(filter)
	if err != nil {
		return nil, err
	}
	pred := newPredicate(filter, acc)
	m.cache.Add(filter, pred)
	return pred, nil
}

// Eval compiles a filter and returns the raw value it produces for one
// record, for filters whose result is not a plain boolean.
func (m *VM) Eval(filter string, row any) (value.Value, error) {
	acc, err := m.interp.Compile(filter)
	if err != nil {
		return nil, err
	}
	return acc(row), nil
}

// Matches compiles (or fetches) a filter and applies it to one record.
func (m *VM) Matches(filter string, row any) (bool, error) {
	pred, err := m.Compile(filter)
	if err != nil {
		return false, err
	}
	return pred(row), nil
}

// CacheLen is the number of compiled filters currently cached.
func (m *VM) CacheLen() int { return m.cache.Len() }

// Purge drops every cached filter.
func (m *VM) Purge() { m.cache.Purge() }

func newPredicate(filter string, acc compiler.Accessor) Predicate {
	return func(row any) (matched bool) {
		defer func() {
			if r := recover(); r != nil {
				u.Warnf("filter %q panicked on %T: %v", filter, row, r)
				matched = false
			}
		}()
		return value.Truthy(acc(row))
	}
}

// Filter returns the rows matching filter, lazily and in order. The
// sequence may be ranged over any number of times.
func Filter[R any](m *VM, filter string, rows []R) (iter.Seq[R], error) {
	return FilterSeq(m, filter, slices.Values(rows))
}

// FilterSeq is Filter over an arbitrary sequence; it is restartable
// whenever rows is.
func FilterSeq[R any](m *VM, filter string, rows iter.Seq[R]) (iter.Seq[R], error) {
	pred, err := m.Compile(filter)
	if err != nil {
		return nil, err
	}
	return func(yield func(R) bool) {
		for row := range rows {
			if pred(row) && !yield(row) {
				return
			}
		}
	}, nil
}

// Apply collects Filter into a slice.
func Apply[R any](m *VM, filter string, rows []R) ([]R, error) {
	seq, err := Filter(m, filter, rows)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}
