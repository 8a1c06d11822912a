package declgen

import (
	"fmt"
	"strings"

	"github.com/syssam/strata/compiler/gen"
)

// RelationQuery builds the relation-inclusive SELECT for the given entity:
// its own columns plus a LEFT JOIN per relation. One relations join the
// target table directly on the foreign key, Many relations join the
// reverse foreign key, and ManyThrough relations join the junction table
// first and the far table through it. Joined tables are aliased by
// relation name; when two relations share a name (a child holding two
// foreign keys to the same target yields two same-named reverse
// relations), later aliases get a numeric suffix so the joins never
// collide.
func RelationQuery(ir *gen.IR, graph gen.RelationGraph, e *gen.EntityDef) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s.%s", e.TableName, f.ColumnName)
	}
	fmt.Fprintf(&b, " FROM %s", e.TableName)

	used := map[string]int{}
	alias := func(name string) string {
		used[name]++
		if n := used[name]; n > 1 {
			return fmt.Sprintf("%s_%d", name, n)
		}
		return name
	}
	// Same-named reverse relations map onto the child's reference fields
	// positionally.
	reverse := map[string]int{}
	for _, r := range graph.Relations(e.Name) {
		switch {
		case r.One():
			writeOneJoin(&b, ir, e, r, alias(r.Name))
		case r.Many():
			nth := reverse[r.Entity]
			reverse[r.Entity]++
			writeManyJoin(&b, ir, e, r, alias(r.Name), nth)
		case r.ManyThrough():
			writeThroughJoin(&b, ir, e, r, alias(r.Name+"_via"), alias(r.Name))
		}
	}
	return b.String()
}

func writeOneJoin(b *strings.Builder, ir *gen.IR, e *gen.EntityDef, r *gen.Relation, alias string) {
	target, ok := ir.Entity(r.ToEntity)
	if !ok {
		return
	}
	fmt.Fprintf(b, " LEFT JOIN %s AS %s ON %s.%s = %s.%s",
		target.TableName, alias,
		e.TableName, column(e, r.FromField),
		alias, column(target, r.ToField))
}

// writeManyJoin joins the nth child field referencing the holder, matching
// the insertion order of the holder's reverse relations for that child.
func writeManyJoin(b *strings.Builder, ir *gen.IR, e *gen.EntityDef, r *gen.Relation, alias string, nth int) {
	child, ok := ir.Entity(r.Entity)
	if !ok {
		return
	}
	idx := 0
	for _, f := range child.Fields {
		if f.References == nil || f.References.Entity != e.Name {
			continue
		}
		if idx != nth {
			idx++
			continue
		}
		fmt.Fprintf(b, " LEFT JOIN %s AS %s ON %s.%s = %s.%s",
			child.TableName, alias,
			alias, f.ColumnName,
			e.TableName, column(e, f.References.Field))
		return
	}
}

func writeThroughJoin(b *strings.Builder, ir *gen.IR, e *gen.EntityDef, r *gen.Relation, viaAlias, alias string) {
	junction, ok := ir.Entity(r.Junction.Entity)
	if !ok {
		return
	}
	far, ok := ir.Entity(r.ToEntity)
	if !ok {
		return
	}
	fmt.Fprintf(b, " LEFT JOIN %s AS %s ON %s.%s = %s.%s",
		junction.TableName, viaAlias,
		viaAlias, column(junction, r.Junction.FromField),
		e.TableName, column(e, r.FromField))
	fmt.Fprintf(b, " LEFT JOIN %s AS %s ON %s.%s = %s.%s",
		far.TableName, alias,
		alias, column(far, r.ToField),
		viaAlias, column(junction, r.Junction.ToField))
}

// column resolves the column name of a field, falling back to the field
// name when the entity does not carry it.
func column(e *gen.EntityDef, field string) string {
	if f, ok := e.Field(field); ok {
		return f.ColumnName
	}
	return field
}
