// Package api models the driver's machine-readable API description.
//
// The driver binary reports its public surface as a JSON document (the
// "API JSON"): an array of interface descriptors, each listing members
// (methods, properties, events) with typed signatures. This package parses
// that document into Go structs and validates it; pkg/gen consumes the
// result to emit Go source.
//
// The model is deliberately close to the wire format. Type descriptors are
// recursive: a [Type] may be a scalar name, a generic with Templates
// (Array<T>, Map<K,V>), a union of alternatives, or an anonymous object
// shape carrying Properties.
//
// # Usage
//
//	f, _ := os.Open("api.json")
//	schema, err := api.Load(f)
//	if err != nil {
//	    // malformed or invalid description
//	}
//	page, ok := schema.Interface("Page")
package api
