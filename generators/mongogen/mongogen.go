// Package mongogen compiles filters into MongoDB query documents. Nothing
// is evaluated locally: the result is handed to the server as is.
package mongogen

import (
	"fmt"

	u "github.com/araddon/gou"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/vm"
)

// Generator builds query documents. It is safe for concurrent use.
type Generator struct {
	interp *vm.Interpreter[any]
}

// Option configures a Generator.
type Option func(*domain)

// WithSchema restricts filters to the columns of s and renames them to
// their store fields.
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

// Compile returns the query document for a filter.
func (g *Generator) Compile(filter string) (bson.M, error) {
	out, err := g.interp.Compile(filter)
	if err != nil {
		return nil, err
	}
	doc, ok := out.(bson.M)
	if !ok {
		return nil, fmt.Errorf("filter %q did not produce a query document: %T", filter, out)
	}
	u.Debugf("mongo filter %q: %v", filter, doc)
	return doc, nil
}

// Walk wraps Compile in a Payload.
func (g *Generator) Walk(filter string) (*gentypes.Payload, error) {
	doc, err := g.Compile(filter)
	if err != nil {
		return nil, err
	}
	return &gentypes.Payload{Filter: doc}, nil
}

// ExtJSON renders a document as relaxed MongoDB Extended JSON.
func ExtJSON(doc any) (string, error) {
	by, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", err
	}
	return string(by), nil
}
