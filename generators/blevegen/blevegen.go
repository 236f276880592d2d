// Package blevegen compiles filters into bleve search queries.
//
// Only conditions translate: arithmetic and functions have no query form
// and are rejected. Columns a schema does not know match nothing instead
// of failing the filter.
package blevegen

import (
	"fmt"

	u "github.com/araddon/gou"
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/vm"
)

// Generator builds bleve queries. It is safe for concurrent use.
type Generator struct {
	interp *vm.Interpreter[any]
}

// Option configures a Generator.
type Option func(*domain)

// WithSchema maps filter columns to index fields.
func WithSchema(s gentypes.SchemaColumns) Option {
	return func(d *domain) { d.schema = s }
}

func NewGenerator(opts ...Option) *Generator {
	d := &domain{}
	for _, opt := range opts {
		opt(d)
	}
	return &Generator{interp: vm.NewInterpreter[any](d)}
}

// Compile returns the query for a filter.
func (g *Generator) Compile(filter string) (query.Query, error) {
	out, err := g.interp.Compile(filter)
	if err != nil {
		return nil, err
	}
	switch q := out.(type) {
	case query.Query:
		return q, nil
	case missingField:
		return MatchNone(), nil
	}
	return nil, fmt.Errorf("filter %q is not a condition: %T", filter, out)
}

// Walk wraps Compile in a Payload.
func (g *Generator) Walk(filter string) (*gentypes.Payload, error) {
	q, err := g.Compile(filter)
	if err != nil {
		return nil, err
	}
	return &gentypes.Payload{Filter: q}, nil
}

// SearchRequest builds a request for the first size hits of a filter.
func (g *Generator) SearchRequest(filter string, size int) (*bleve.SearchRequest, error) {
	p, err := g.Walk(filter)
	if err != nil {
		return nil, err
	}
	p.Size = &size
	return Request(p)
}

// Request turns a Payload into a search request. A nil filter matches
// every document, a nil size keeps bleve's default page.
func Request(p *gentypes.Payload) (*bleve.SearchRequest, error) {
	q := MatchAll()
	if p.Filter != nil {
		fq, ok := p.Filter.(query.Query)
		if !ok {
			return nil, fmt.Errorf("payload filter is not a bleve query: %T", p.Filter)
		}
		q = fq
	}
	req := bleve.NewSearchRequest(q)
	if p.Size != nil {
		req.Size = *p.Size
	}
	req.Fields = p.Fields
	if len(p.Sort) > 0 {
		order := make([]string, 0, len(p.Sort))
		for _, s := range p.Sort {
			for field, so := range s {
				if so.Order == "desc" {
					field = "-" + field
				}
				order = append(order, field)
			}
		}
		req.SortBy(order)
	}
	u.Debugf("bleve request size=%d sort=%v", req.Size, req.Sort)
	return req, nil
}
