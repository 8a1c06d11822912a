// Package gen turns an annotation store snapshot into the typed
// intermediate representation of a schema compiler, and derives the
// bidirectional relation graph the renderers consume.
//
// # Architecture
//
// The compilation pipeline follows this flow:
//
//	Annotation store (compiler/load)
//	        ↓
//	   IR (entities + enums)
//	        ↓
//	   RelationGraph (one / many / many-through)
//	        ↓
//	   Renderers (compiler/gen/declgen)
//
// Both builders are pure, synchronous folds over immutable input. They
// never fail: incomplete per-model annotation degrades to omission or a
// documented fallback, deferring the authoring-state-or-bug judgment to a
// validation pass over their output.
//
// Relation naming is part of the output contract. One relations strip
// exactly one trailing "Id" from the foreign-key field name; many and
// many-through relations lower-camel and pluralize the entity name with a
// fixed heuristic. Changing either rule changes generated output
// byte-for-byte.
package gen
