package gen

// Rel is the relation type of a graph entry.
type Rel int

// Relation types.
const (
	Unk         Rel = iota // Unknown.
	One                    // Foreign-key-holder side, points to one entity.
	Many                   // Reverse collection side of a one relation.
	ManyThrough            // Many-to-many mediated by a junction entity.
)

// String returns the relation type name.
func (r Rel) String() string {
	s := "Unknown"
	switch r {
	case One:
		s = "One"
	case Many:
		s = "Many"
	case ManyThrough:
		s = "ManyThrough"
	}
	return s
}

type (
	// Relation is one entry of the relation graph. Rel discriminates the
	// variant: One carries From/To and Optional, Many carries Entity, and
	// ManyThrough carries From/To and Junction.
	Relation struct {
		// Rel holds the relation type.
		Rel Rel
		// Name of the relation, derived by the naming rules below.
		Name string
		// FromEntity/FromField is the near endpoint of One and
		// ManyThrough relations.
		FromEntity string
		FromField  string
		// ToEntity/ToField is the far endpoint of One and ManyThrough
		// relations.
		ToEntity string
		ToField  string
		// Optional mirrors the nullability of the foreign-key field of a
		// One relation.
		Optional bool
		// Entity is the collection element entity of a Many relation.
		Entity string
		// Junction describes the bridging entity of a ManyThrough
		// relation.
		Junction *JunctionRef
	}

	// JunctionRef names the junction entity and its two foreign-key
	// fields as seen from one endpoint.
	JunctionRef struct {
		Entity    string
		FromField string
		ToField   string
	}
)

// One indicates if this is a One relation.
func (r Relation) One() bool { return r.Rel == One }

// Many indicates if this is a Many relation.
func (r Relation) Many() bool { return r.Rel == Many }

// ManyThrough indicates if this is a ManyThrough relation.
func (r Relation) ManyThrough() bool { return r.Rel == ManyThrough }

// Target returns the entity the relation leads to: the collection element
// entity of a Many relation, and the far endpoint otherwise.
func (r Relation) Target() string {
	if r.Rel == Many {
		return r.Entity
	}
	return r.ToEntity
}

// RelationGraph maps every entity name to its ordered relation list.
// Every entity of the input collection is a key, even with an empty list;
// key absence never means "no relations".
type RelationGraph map[string][]*Relation

// Relations returns the ordered relation list of the named entity.
func (g RelationGraph) Relations(entity string) []*Relation {
	return g[entity]
}

// NewRelationGraph derives the deduplicated, bidirectional relation graph
// from a fully populated entity collection. It is a pure fold over
// immutable input: two passes, direct foreign keys first, junctions
// second, each preserving field and entity iteration order. It never
// fails; dangling references simply have no effect, since only entities
// present in the input own a relation list.
func NewRelationGraph(entities []*EntityDef) RelationGraph {
	g := make(RelationGraph, len(entities))
	for _, e := range entities {
		g[e.Name] = []*Relation{}
	}
	// Pass 1: direct foreign keys.
	for _, e := range entities {
		for _, f := range e.Fields {
			if f.References == nil {
				continue
			}
			g[e.Name] = append(g[e.Name], &Relation{
				Rel:        One,
				Name:       oneRelationName(f.Name),
				FromEntity: e.Name,
				FromField:  f.Name,
				ToEntity:   f.References.Entity,
				ToField:    f.References.Field,
				Optional:   f.Nullable,
			})
			// A junction holder contributes no reverse collection; its
			// targets are reached through the many-through relation
			// instead, keeping a single relation path per logical target.
			if e.IsJunction {
				continue
			}
			if _, ok := g[f.References.Entity]; ok {
				g[f.References.Entity] = append(g[f.References.Entity], &Relation{
					Rel:    Many,
					Name:   plural(camel(e.Name)),
					Entity: e.Name,
				})
			}
		}
	}
	// Pass 2: junctions.
	for _, e := range entities {
		if !e.IsJunction {
			continue
		}
		refs := e.ReferenceFields()
		if len(refs) != 2 {
			continue // malformed junction, no through relation
		}
		a, b := refs[0], refs[1]
		appendThrough(g, e, a, b)
		appendThrough(g, e, b, a)
	}
	return g
}

// appendThrough appends the many-through relation seen from the target of
// the near foreign-key field, pointing at the target of the far one.
func appendThrough(g RelationGraph, junction *EntityDef, near, far *FieldDef) {
	if _, ok := g[near.References.Entity]; !ok {
		return
	}
	g[near.References.Entity] = append(g[near.References.Entity], &Relation{
		Rel:        ManyThrough,
		Name:       plural(camel(far.References.Entity)),
		FromEntity: near.References.Entity,
		FromField:  near.References.Field,
		ToEntity:   far.References.Entity,
		ToField:    far.References.Field,
		Junction: &JunctionRef{
			Entity:    junction.Name,
			FromField: near.Name,
			ToField:   far.Name,
		},
	})
}
