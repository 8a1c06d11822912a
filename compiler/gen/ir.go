package gen

// The following types form the intermediate representation produced by
// the IR builder and consumed by the relation graph builder and the
// downstream renderers.
type (
	// IR is the complete output of one build over an annotation store.
	IR struct {
		// Entities in store iteration order.
		Entities []*EntityDef
		// Enums deduplicated by name across the whole entity collection,
		// in first-encounter order.
		Enums []*EnumDef
	}

	// EntityDef represents one logical record type mapping to a single
	// storage table.
	EntityDef struct {
		// Name of the entity as declared by its entity annotation.
		Name string
		// Service that owns the entity.
		Service string
		// TableName of the backing table.
		TableName string
		// PrimaryKey of the entity.
		PrimaryKey PrimaryKeyDef
		// Fields of the entity, in declaration order. Never empty.
		Fields []*FieldDef
		// ForeignKeys are the composite, entity-level foreign keys.
		ForeignKeys []*ForeignKeyDef
		// IsJunction indicates the entity exists solely to bridge a
		// many-to-many relationship via exactly two foreign keys.
		IsJunction bool
		// Indexes of the entity.
		Indexes []*IndexDef
		// UniqueConstraints are the composite unique constraints.
		UniqueConstraints []*UniqueConstraintDef
	}

	// FieldDef holds the information of a single entity field.
	FieldDef struct {
		// Name of the field as declared.
		Name string
		// ColumnName is the snake_case derivation of Name.
		ColumnName string
		// Type of the field.
		Type FieldType
		// Nullable indicates the column accepts NULL. Primary-key members
		// are never nullable.
		Nullable bool
		// UUID holds the uuid annotation, if any.
		UUID *UUIDDef
		// References is the foreign-key target, if the field declares one.
		References *ReferenceDef
		// CreatedAt/UpdatedAt timestamp flags.
		CreatedAt bool
		UpdatedAt bool
		// Visibility of the field, if restricted.
		Visibility string
		// Default value of the field. Nil means no default.
		Default any
		// Constraints of the field. Nil when no constraint sub-field is
		// set; its presence, not emptiness, is the signal.
		Constraints *ConstraintsDef
	}

	// UUIDDef is the uuid annotation of a field.
	UUIDDef struct {
		Encoding     string
		AutoGenerate bool
	}

	// ReferenceDef is a one-directional foreign-key declaration.
	ReferenceDef struct {
		// Entity is the name of the referenced entity.
		Entity string
		// Field is the simple name of the referenced field.
		Field string
	}

	// ConstraintsDef groups the optional value constraints of a field.
	ConstraintsDef struct {
		MinValue *float64
		MaxValue *float64
		Check    string
		Unique   bool
	}

	// PrimaryKeyDef describes the primary key of an entity.
	PrimaryKeyDef struct {
		TableName string
		// Columns are field names, in declaration order.
		Columns []string
		// IsComposite is true when the key spans more than one column.
		IsComposite bool
	}

	// ForeignKeyDef is a composite, entity-level foreign key.
	ForeignKeyDef struct {
		Name           string
		Columns        []string
		ForeignEntity  string
		ForeignColumns []string
	}

	// IndexDef describes a table index.
	IndexDef struct {
		Name    string
		Columns []string
		Unique  bool
	}

	// UniqueConstraintDef is a composite unique constraint.
	UniqueConstraintDef struct {
		Name    string
		Columns []string
	}

	// EnumDef describes one deduplicated enum type.
	EnumDef struct {
		// Name is the derived enum name (lower-camel type name + "Enum").
		Name string
		// SQLName is the snake_case derivation of Name.
		SQLName string
		// Values of the enum, from the first-encountered declaration.
		Values []string
	}
)

// Kind is the discriminator of the closed FieldType variant.
type Kind uint8

// Field type kinds.
const (
	TypeText Kind = iota
	TypeVarchar
	TypeInteger
	TypeBigInt
	TypeReal
	TypeDoublePrecision
	TypeBoolean
	TypeTimestamp
	TypeUUID
	TypeEnum
)

// String returns the kind name. The switch is exhaustive over the closed
// kind set; a new kind must be added here.
func (k Kind) String() string {
	switch k {
	case TypeText:
		return "text"
	case TypeVarchar:
		return "varchar"
	case TypeInteger:
		return "integer"
	case TypeBigInt:
		return "bigint"
	case TypeReal:
		return "real"
	case TypeDoublePrecision:
		return "doublePrecision"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamp"
	case TypeUUID:
		return "uuid"
	case TypeEnum:
		return "enum"
	}
	return "invalid"
}

// FieldType is the resolved type of a field: a closed tagged variant over
// the fixed kind set. Length is set for varchar, Encoding for uuid, and
// Enum/Values for enum kinds.
type FieldType struct {
	Kind     Kind
	Length   int
	Encoding string
	Enum     string
	Values   []string
}

// String returns a short display form of the field type.
func (t FieldType) String() string {
	switch t.Kind {
	case TypeEnum:
		return "enum(" + t.Enum + ")"
	default:
		return t.Kind.String()
	}
}

// IsEnum reports if the field resolves to an enum type.
func (f FieldDef) IsEnum() bool { return f.Type.Kind == TypeEnum }

// IsUUID reports if the field resolves to a uuid type.
func (f FieldDef) IsUUID() bool { return f.Type.Kind == TypeUUID }

// HasReference reports if the field declares a foreign key.
func (f FieldDef) HasReference() bool { return f.References != nil }

// Field returns the field with the given name.
func (e EntityDef) Field(name string) (*FieldDef, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// ReferenceFields returns the fields declaring a foreign key, in
// declaration order.
func (e EntityDef) ReferenceFields() []*FieldDef {
	var fields []*FieldDef
	for _, f := range e.Fields {
		if f.HasReference() {
			fields = append(fields, f)
		}
	}
	return fields
}

// StructName returns the struct name denoting the entity in generated code.
func (e EntityDef) StructName() string { return pascal(e.Name) }

// TableConstant returns the constant name holding the table name.
func (e EntityDef) TableConstant() string { return pascal(e.Name) + "Table" }

// ColumnsVar returns the variable name holding the column list.
func (e EntityDef) ColumnsVar() string { return pascal(e.Name) + "Columns" }

// RelationsVar returns the variable name holding the relation descriptors.
func (e EntityDef) RelationsVar() string { return pascal(e.Name) + "Relations" }

// QueryConstant returns the constant name holding the relation-inclusive
// query text.
func (e EntityDef) QueryConstant() string { return pascal(e.Name) + "WithRelationsSQL" }

// StructField returns the struct member of the field in generated code.
func (f FieldDef) StructField() string { return pascal(f.Name) }

// GoName returns the Go type name of the enum in generated code.
func (d EnumDef) GoName() string { return pascal(d.Name) }

// ValueConstant returns the constant name of the given enum value.
func (d EnumDef) ValueConstant(value string) string {
	return d.GoName() + pascal(value)
}

// Entity returns the entity with the given name.
func (ir IR) Entity(name string) (*EntityDef, bool) {
	for _, e := range ir.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
