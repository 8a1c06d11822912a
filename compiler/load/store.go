// Package load defines the read contract of the annotation store consumed
// by the IR builder, together with Snapshot, the canonical in-memory
// implementation populated by the declaration layer.
package load

// Store is the read-only view of a fully populated annotation store.
// Implementations must not mutate the returned descriptors while a build
// is in progress; the builders never mutate them.
type Store interface {
	// Models returns the model descriptors in store iteration order.
	// Builders preserve this order in their output, so callers that need
	// stable output must supply a stable store.
	Models() []*Model
}

type (
	// Model is the per-model slice of the annotation store. A model
	// without entity metadata or without a resolved primary-key table
	// name is an incomplete definition and is skipped by the IR builder.
	Model struct {
		// Name is the declaration name of the model.
		Name string `json:"name,omitempty"`
		// Entity holds the entity annotation, if the model carries one.
		Entity *EntityMeta `json:"entity,omitempty"`
		// PrimaryKey holds the primary-key annotation, if present.
		PrimaryKey *PrimaryKeyMeta `json:"primary_key,omitempty"`
		// Junction indicates the model exists solely to bridge a
		// many-to-many relationship.
		Junction bool `json:"junction,omitempty"`
		// Properties in declaration order.
		Properties []*Property `json:"properties,omitempty"`
		// Uniques are the composite unique definitions of the model.
		Uniques []*UniqueSpec `json:"uniques,omitempty"`
		// Indexes are the index definitions of the model.
		Indexes []*IndexSpec `json:"indexes,omitempty"`
		// ForeignKeys are the composite foreign-key definitions of the model.
		ForeignKeys []*ForeignKeySpec `json:"foreign_keys,omitempty"`
	}

	// EntityMeta is the entity annotation of a model.
	EntityMeta struct {
		Name    string `json:"name,omitempty"`
		Service string `json:"service,omitempty"`
	}

	// PrimaryKeyMeta is the primary-key annotation of a model.
	PrimaryKeyMeta struct {
		TableName string `json:"table_name,omitempty"`
	}

	// Property is the per-property slice of the annotation store.
	Property struct {
		Name string `json:"name,omitempty"`
		// Type is the declared type of the property.
		Type *TypeRef `json:"type,omitempty"`
		// Optional is the declared optionality of the property. The IR
		// builder overrides it for primary-key members.
		Optional bool `json:"optional,omitempty"`
		// PrimaryKey flags the property as a primary-key member.
		PrimaryKey bool `json:"primary_key,omitempty"`
		Unique     bool `json:"unique,omitempty"`
		CreatedAt  bool `json:"created_at,omitempty"`
		UpdatedAt  bool `json:"updated_at,omitempty"`
		// UUID holds the uuid annotation. It takes precedence over the
		// declared type during resolution.
		UUID *UUIDSpec `json:"uuid,omitempty"`
		// Ref is the reference-target of the property, if it declares a
		// foreign key.
		Ref *Reference `json:"ref,omitempty"`
		// Check is the check-expression annotation, if any.
		Check      string   `json:"check,omitempty"`
		MinValue   *float64 `json:"min_value,omitempty"`
		MaxValue   *float64 `json:"max_value,omitempty"`
		Visibility string   `json:"visibility,omitempty"`
		// Default is the raw declared default. Extraction to an IR
		// default is best-effort and happens in the builder.
		Default any `json:"default,omitempty"`
	}

	// TypeRef describes the declared type of a property. Scalar types may
	// chain to a base scalar; enumerable types carry their value set.
	TypeRef struct {
		Name string `json:"name,omitempty"`
		// Length of a varchar type. Zero means unspecified.
		Length int `json:"length,omitempty"`
		// Values of an enumerable type.
		Values []string `json:"values,omitempty"`
		// Base is the base-scalar chain of a derived scalar type.
		Base *TypeRef `json:"base,omitempty"`
	}

	// UUIDSpec is the uuid annotation of a property.
	UUIDSpec struct {
		Encoding     string `json:"encoding,omitempty"`
		AutoGenerate bool   `json:"auto_generate,omitempty"`
	}

	// Reference is the target of a foreign-key declaration: a property
	// addressed by its owning model.
	Reference struct {
		Model    string `json:"model,omitempty"`
		Property string `json:"property,omitempty"`
	}

	// EnumMember is a default value referring to a member of an
	// enumerable type.
	EnumMember struct {
		Enum   string `json:"enum,omitempty"`
		Member string `json:"member,omitempty"`
	}

	// UniqueSpec is a composite unique definition of a model.
	UniqueSpec struct {
		Name       string   `json:"name,omitempty"`
		Properties []string `json:"properties,omitempty"`
	}

	// IndexSpec is an index definition of a model.
	IndexSpec struct {
		Name       string   `json:"name,omitempty"`
		Properties []string `json:"properties,omitempty"`
		Unique     bool     `json:"unique,omitempty"`
	}

	// ForeignKeySpec is a composite foreign-key definition of a model.
	ForeignKeySpec struct {
		Name             string   `json:"name,omitempty"`
		Properties       []string `json:"properties,omitempty"`
		TargetModel      string   `json:"target_model,omitempty"`
		TargetProperties []string `json:"target_properties,omitempty"`
	}
)

// Enumerable reports if the declared type carries an enum value set.
func (t *TypeRef) Enumerable() bool {
	return t != nil && len(t.Values) > 0
}

// Snapshot is an immutable in-memory annotation store. It is both the
// value the declaration layer hands to the builders and the double used
// by package tests.
type Snapshot struct {
	models []*Model
}

// NewSnapshot creates a snapshot over the given models. The slice is
// copied; the model descriptors themselves are shared and must not be
// mutated afterwards.
func NewSnapshot(models ...*Model) *Snapshot {
	s := &Snapshot{models: make([]*Model, len(models))}
	copy(s.models, models)
	return s
}

// Models returns the model descriptors in snapshot order.
func (s *Snapshot) Models() []*Model {
	return s.models
}

// Model returns the descriptor with the given declaration name.
func (s *Snapshot) Model(name string) (*Model, bool) {
	for _, m := range s.models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

var _ Store = (*Snapshot)(nil)
