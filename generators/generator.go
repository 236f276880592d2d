package generators

import (
	"github.com/lytics/odataql/generators/blevegen"
	"github.com/lytics/odataql/generators/gentypes"
	"github.com/lytics/odataql/generators/mongogen"
)

type (
	// Generator walks a filter and generates a store query payload.
	Generator interface {
		Walk(filter string) (*gentypes.Payload, error)
	}

	// SearchBackend indicates which store to generate queries for
	SearchBackend int
)

func (b SearchBackend) String() string {
	switch b {
	case BackendMongo:
		return "mongo"
	case BackendBleve:
		return "bleve"
	}
	return "unknown"
}

const (
	// BackendMongo generates MongoDB query documents
	BackendMongo SearchBackend = iota
	// BackendBleve generates bleve search queries
	BackendBleve
)

var (
	_ Generator = (*mongogen.Generator)(nil)
	_ Generator = (*blevegen.Generator)(nil)
)

// NewGenerator creates a new query generator for the specified backend.
// A nil mapper accepts every column as is.
func NewGenerator(backend SearchBackend, mapper gentypes.SchemaColumns) Generator {
	switch backend {
	case BackendBleve:
		if mapper == nil {
			return blevegen.NewGenerator()
		}
		return blevegen.NewGenerator(blevegen.WithSchema(mapper))
	default:
		if mapper == nil {
			return mongogen.NewGenerator()
		}
		return mongogen.NewGenerator(mongogen.WithSchema(mapper))
	}
}
