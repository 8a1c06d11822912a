// Package declgen renders the compiled IR and relation graph into Go
// declarations: one file per entity with its row struct, table and column
// constants, relation descriptors, and a relation-inclusive query.
package declgen

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/strata/compiler/gen"
)

const uuidPkg = "github.com/google/uuid"

// Generator renders declarations for one compilation snapshot.
type Generator struct {
	ir      *gen.IR
	graph   gen.RelationGraph
	cfg     *gen.Config
	workers int
}

// NewGenerator creates a generator over a fully built IR and its relation
// graph. The graph must have been derived from the same entity collection.
func NewGenerator(ir *gen.IR, graph gen.RelationGraph, cfg *gen.Config) (*Generator, error) {
	if cfg == nil || cfg.Target == "" {
		return nil, gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	return &Generator{
		ir:      ir,
		graph:   graph,
		cfg:     cfg,
		workers: runtime.GOMAXPROCS(0),
	}, nil
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Generate writes all declaration files with parallel execution and
// streaming writes.
func (g *Generator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return err
	}

	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	for _, e := range g.ir.Entities {
		e := e
		errg.Go(func() error {
			return g.writeFile(g.entityFile(e), strings.ToLower(e.Name)+".go")
		})
	}
	errg.Go(func() error {
		return g.writeFile(g.relationFile(), "relation.go")
	})
	if len(g.ir.Enums) > 0 {
		errg.Go(func() error {
			return g.writeFile(g.enumFile(), "enums.go")
		})
	}
	return errg.Wait()
}

// pkg returns the output package name.
func (g *Generator) pkg() string {
	if g.cfg.Package != "" {
		return filepath.Base(g.cfg.Package)
	}
	return filepath.Base(g.cfg.Target)
}

// newFile creates a Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.pkg())
	header := g.cfg.Header
	if header == "" {
		header = "Code generated by strata. DO NOT EDIT."
	}
	f.HeaderComment(header)
	return f
}

// writeFile renders a Jennifer file directly to disk.
func (g *Generator) writeFile(f *jen.File, filename string) error {
	out, err := os.Create(filepath.Join(g.cfg.Target, filename))
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Render(out)
}

// relationFile emits the shared relation descriptor types.
func (g *Generator) relationFile() *jen.File {
	f := g.newFile()
	f.Comment("RelationKind discriminates relation descriptors.")
	f.Type().Id("RelationKind").Int()
	f.Const().Defs(
		jen.Id("RelationOne").Id("RelationKind").Op("=").Iota(),
		jen.Id("RelationMany"),
		jen.Id("RelationManyThrough"),
	)
	f.Comment("RelationDesc describes one relation of an entity.")
	f.Type().Id("RelationDesc").Struct(
		jen.Id("Name").String(),
		jen.Id("Kind").Id("RelationKind"),
		jen.Id("Target").String(),
		jen.Id("Junction").String(),
	)
	return f
}

// enumFile emits one string type plus value constants per enum.
func (g *Generator) enumFile() *jen.File {
	f := g.newFile()
	for _, d := range g.ir.Enums {
		f.Commentf("%s is the %q enum.", d.GoName(), d.SQLName)
		f.Type().Id(d.GoName()).String()
		defs := make([]jen.Code, 0, len(d.Values))
		for _, v := range d.Values {
			defs = append(defs, jen.Id(d.ValueConstant(v)).Id(d.GoName()).Op("=").Lit(v))
		}
		f.Const().Defs(defs...)
	}
	return f
}

// entityFile emits the declarations of a single entity.
func (g *Generator) entityFile(e *gen.EntityDef) *jen.File {
	f := g.newFile()

	f.Const().Id(e.TableConstant()).Op("=").Lit(e.TableName)

	cols := make([]jen.Code, 0, len(e.Fields))
	for _, fd := range e.Fields {
		cols = append(cols, jen.Lit(fd.ColumnName))
	}
	f.Commentf("%s holds all table columns in declaration order.", e.ColumnsVar())
	f.Var().Id(e.ColumnsVar()).Op("=").Index().String().Values(cols...)

	f.Commentf("%s is the model entity of the %q table.", e.StructName(), e.TableName)
	fields := make([]jen.Code, 0, len(e.Fields))
	for _, fd := range e.Fields {
		fields = append(fields, jen.Id(fd.StructField()).Add(g.goType(fd)))
	}
	f.Type().Id(e.StructName()).Struct(fields...)

	rels := g.graph.Relations(e.Name)
	if len(rels) > 0 {
		vals := make([]jen.Code, 0, len(rels))
		for _, r := range rels {
			v := jen.Dict{
				jen.Id("Name"):   jen.Lit(r.Name),
				jen.Id("Kind"):   jen.Id(relationKind(r)),
				jen.Id("Target"): jen.Lit(r.Target()),
			}
			if r.Junction != nil {
				v[jen.Id("Junction")] = jen.Lit(r.Junction.Entity)
			}
			vals = append(vals, jen.Values(v))
		}
		f.Commentf("%s lists the relations of %s in graph order.", e.RelationsVar(), e.StructName())
		f.Var().Id(e.RelationsVar()).Op("=").Index().Id("RelationDesc").Values(vals...)
	}

	f.Commentf("%s fetches %q rows with their relations joined in.", e.QueryConstant(), e.TableName)
	f.Const().Id(e.QueryConstant()).Op("=").Lit(RelationQuery(g.ir, g.graph, e))

	return f
}

func relationKind(r *gen.Relation) string {
	switch {
	case r.Many():
		return "RelationMany"
	case r.ManyThrough():
		return "RelationManyThrough"
	default:
		return "RelationOne"
	}
}

// goType maps a field type to its Go representation. Nullable fields are
// pointers, mirroring declared optionality.
func (g *Generator) goType(fd *gen.FieldDef) jen.Code {
	base := g.baseType(fd)
	if fd.Nullable {
		return jen.Op("*").Add(base)
	}
	return base
}

func (g *Generator) baseType(fd *gen.FieldDef) jen.Code {
	switch {
	case fd.IsUUID():
		return jen.Qual(uuidPkg, "UUID")
	case fd.IsEnum():
		return jen.Id(enumGoName(g.ir, fd.Type.Enum))
	}
	switch fd.Type.Kind {
	case gen.TypeText, gen.TypeVarchar:
		return jen.String()
	case gen.TypeInteger:
		return jen.Int()
	case gen.TypeBigInt:
		return jen.Int64()
	case gen.TypeReal:
		return jen.Float32()
	case gen.TypeDoublePrecision:
		return jen.Float64()
	case gen.TypeBoolean:
		return jen.Bool()
	case gen.TypeTimestamp:
		return jen.Qual("time", "Time")
	}
	return jen.String()
}

func enumGoName(ir *gen.IR, name string) string {
	for _, d := range ir.Enums {
		if d.Name == name {
			return d.GoName()
		}
	}
	return "string"
}
