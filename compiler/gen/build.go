package gen

import (
	"github.com/google/uuid"

	"github.com/syssam/strata/compiler/load"
)

// scalarKinds is the fixed scalar lookup table for declared type names.
// Unrecognized names recurse through the base-scalar chain and finally
// fall back to text.
var scalarKinds = map[string]Kind{
	"text":            TypeText,
	"string":          TypeText,
	"varchar":         TypeVarchar,
	"int":             TypeInteger,
	"integer":         TypeInteger,
	"bigint":          TypeBigInt,
	"int64":           TypeBigInt,
	"real":            TypeReal,
	"float":           TypeReal,
	"double":          TypeDoublePrecision,
	"doublePrecision": TypeDoublePrecision,
	"float64":         TypeDoublePrecision,
	"bool":            TypeBoolean,
	"boolean":         TypeBoolean,
	"timestamp":       TypeTimestamp,
	"datetime":        TypeTimestamp,
	"uuid":            TypeUUID,
}

// NewIR builds the typed entity and enum model from a fully populated
// annotation store. It never fails: models with incomplete annotation are
// skipped, dangling references are dropped, and unrecognized scalar types
// degrade to text. The judgment whether such gaps are authoring state or
// bugs belongs to a later validation pass over the returned IR.
func NewIR(store load.Store) *IR {
	b := &irBuilder{
		ir:     &IR{},
		models: make(map[string]*load.Model),
		enums:  make(map[string]*EnumDef),
	}
	for _, m := range store.Models() {
		b.models[m.Name] = m
	}
	for _, m := range store.Models() {
		if m.Entity == nil || m.PrimaryKey == nil || m.PrimaryKey.TableName == "" {
			continue // incomplete definition, not an error
		}
		b.ir.Entities = append(b.ir.Entities, b.entity(m))
	}
	return b.ir
}

type irBuilder struct {
	ir     *IR
	models map[string]*load.Model
	enums  map[string]*EnumDef
}

func (b *irBuilder) entity(m *load.Model) *EntityDef {
	e := &EntityDef{
		Name:       m.Entity.Name,
		Service:    m.Entity.Service,
		TableName:  m.PrimaryKey.TableName,
		IsJunction: m.Junction,
		Fields:     make([]*FieldDef, 0, len(m.Properties)),
	}
	var pkCols []string
	for _, p := range m.Properties {
		if p.PrimaryKey {
			pkCols = append(pkCols, p.Name)
		}
	}
	e.PrimaryKey = PrimaryKeyDef{
		TableName:   m.PrimaryKey.TableName,
		Columns:     pkCols,
		IsComposite: len(pkCols) > 1,
	}
	for _, p := range m.Properties {
		e.Fields = append(e.Fields, b.field(p))
	}
	for _, u := range m.Uniques {
		e.UniqueConstraints = append(e.UniqueConstraints, &UniqueConstraintDef{
			Name:    u.Name,
			Columns: append([]string(nil), u.Properties...),
		})
	}
	for _, idx := range m.Indexes {
		e.Indexes = append(e.Indexes, &IndexDef{
			Name:    idx.Name,
			Columns: append([]string(nil), idx.Properties...),
			Unique:  idx.Unique,
		})
	}
	for _, fk := range m.ForeignKeys {
		e.ForeignKeys = append(e.ForeignKeys, &ForeignKeyDef{
			Name:           fk.Name,
			Columns:        append([]string(nil), fk.Properties...),
			ForeignEntity:  b.entityName(fk.TargetModel),
			ForeignColumns: append([]string(nil), fk.TargetProperties...),
		})
	}
	return e
}

func (b *irBuilder) field(p *load.Property) *FieldDef {
	f := &FieldDef{
		Name:       p.Name,
		ColumnName: snake(p.Name),
		Type:       b.fieldType(p),
		Nullable:   p.Optional && !p.PrimaryKey,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Visibility: p.Visibility,
	}
	if p.UUID != nil {
		f.UUID = &UUIDDef{Encoding: p.UUID.Encoding, AutoGenerate: p.UUID.AutoGenerate}
	}
	if p.Ref != nil {
		f.References = b.reference(p.Ref)
	}
	if v, ok := defaultValue(p.Default); ok {
		f.Default = v
	}
	if p.Unique || p.Check != "" || p.MinValue != nil || p.MaxValue != nil {
		f.Constraints = &ConstraintsDef{
			MinValue: p.MinValue,
			MaxValue: p.MaxValue,
			Check:    p.Check,
			Unique:   p.Unique,
		}
	}
	return f
}

// fieldType resolves the declared type of a property. A uuid annotation
// takes precedence, then enumerable declared types, then the scalar
// lookup table through the base-scalar chain, and finally text.
func (b *irBuilder) fieldType(p *load.Property) FieldType {
	if p.UUID != nil {
		return FieldType{Kind: TypeUUID, Encoding: p.UUID.Encoding}
	}
	if p.Type.Enumerable() {
		def := b.enum(p.Type)
		return FieldType{Kind: TypeEnum, Enum: def.Name, Values: def.Values}
	}
	for t := p.Type; t != nil; t = t.Base {
		if k, ok := scalarKinds[t.Name]; ok {
			ft := FieldType{Kind: k}
			if k == TypeVarchar {
				ft.Length = p.Type.Length
			}
			return ft
		}
	}
	return FieldType{Kind: TypeText}
}

// enum registers the enum derived from the declared type on first sight
// and returns the registered definition. First-encountered values win.
func (b *irBuilder) enum(t *load.TypeRef) *EnumDef {
	name := lowerFirst(t.Name) + "Enum"
	if def, ok := b.enums[name]; ok {
		return def
	}
	def := &EnumDef{
		Name:    name,
		SQLName: snake(name),
		Values:  append([]string(nil), t.Values...),
	}
	b.enums[name] = def
	b.ir.Enums = append(b.ir.Enums, def)
	return def
}

// reference resolves a reference target to the entity metadata of its
// owning model. Unresolvable targets are dropped silently in favor of
// partial, still-being-authored stores.
func (b *irBuilder) reference(ref *load.Reference) *ReferenceDef {
	m, ok := b.models[ref.Model]
	if !ok || m.Entity == nil {
		return nil
	}
	return &ReferenceDef{Entity: m.Entity.Name, Field: ref.Property}
}

// entityName maps a model name to its entity name when the model is
// resolvable, and otherwise passes the name through verbatim. Composite
// foreign keys are copied without cross-model validation.
func (b *irBuilder) entityName(model string) string {
	if m, ok := b.models[model]; ok && m.Entity != nil {
		return m.Entity.Name
	}
	return model
}

// defaultValue extracts a declared default best-effort: literals pass
// through, uuid values collapse to their string form, and enum-member
// references collapse to the member value. Anything else means no default.
func defaultValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false
	case string, bool, int, int64, float64:
		return v, true
	case uuid.UUID:
		return v.String(), true
	case load.EnumMember:
		return v.Member, true
	case *load.EnumMember:
		return v.Member, true
	default:
		return nil, false
	}
}
