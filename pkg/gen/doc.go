// Package gen turns a driver API description into Go source.
//
// The generator is a single-pass tree-to-text transformer:
//
//  1. A [Resolver] maps schema type descriptors to Go types using a fixed
//     scalar table plus per-path overrides for ambiguous shapes.
//  2. [Generator.Build] walks the schema once, producing an object graph
//     that mirrors the output: interfaces containing methods containing
//     params, options structs containing fields, enums for closed string
//     unions.
//  3. Each node serializes itself to Go syntax; files are formatted with
//     go/format before being returned.
//
// The generator is purely functional: the same description and config
// always produce byte-identical output, and nothing is written anywhere
// except the returned file map. A type appearing at the same schema path
// must resolve to the same Go type on every run; a conflicting resolution
// or an unrecognized union shape aborts generation with a structured
// error. The generator runs at build time only, so failing loudly beats
// guessing.
package gen
