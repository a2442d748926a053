// Package gen is the static, AST-driven counterpart to the reflect-based
// derivation in the root package: instead of building a Visitor/Serialize
// implementation at run time from a cached reflect.Type, it parses a Go
// source file with go/parser, walks its declarations with go/ast, and
// emits the source of a sibling "_flatjson.go" file containing hand-shaped Go source for
// each annotated struct — the literal analogue of what a derive macro
// would expand to, realized as a standalone source-to-source tool instead
// of a compiler plugin, since Go has neither macros nor derive attributes.
package gen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"reflect"
	"sort"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// recordAnnotation is the comment marker that opts a struct into
// generation: a doc comment line of the exact form "flatjson:generate"
// immediately above the type declaration.
const recordAnnotation = "flatjson:generate"

// Record describes one struct selected for generation.
type Record struct {
	Name   string
	Fields []RecordField
}

// RecordField is one field of a generated record, after resolving its
// `json` and `flatjson` tags the same way reflect.go's buildStructPlan
// does.
type RecordField struct {
	GoName     string
	WireName   string
	GoType     string
	OmitEmpty  bool
	IsPointer  bool
	HasDefault bool
	DefaultKey string
}

// Package holds everything discovered by Parse, ready for Generate.
type Package struct {
	Name    string
	Records []Record
}

// Parse reads a single Go source file and returns the records annotated
// for generation, sorted by type name.
func Parse(filename string, src []byte) (*Package, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "flatjson/gen: parsing %s", filename)
	}

	pkg := &Package{Name: file.Name.Name}

	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		if !hasAnnotation(gd.Doc) {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			rec, err := buildRecord(ts.Name.Name, st)
			if err != nil {
				return nil, err
			}
			pkg.Records = append(pkg.Records, rec)
		}
	}

	sort.Slice(pkg.Records, func(i, j int) bool {
		return pkg.Records[i].Name < pkg.Records[j].Name
	})
	return pkg, nil
}

func hasAnnotation(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.Contains(c.Text, recordAnnotation) {
			return true
		}
	}
	return false
}

func buildRecord(name string, st *ast.StructType) (Record, error) {
	rec := Record{Name: name}
	for _, f := range st.Fields.List {
		if len(f.Names) == 0 {
			continue // embedded field: not part of the derived-shape contract
		}
		typ, err := exprString(f.Type)
		if err != nil {
			return Record{}, err
		}
		wireName, omitempty, hasDefault, defaultKey := tagOptions(f.Tag)
		if wireName == "-" {
			continue
		}
		for _, n := range f.Names {
			if !n.IsExported() {
				continue
			}
			name := wireName
			if name == "" {
				name = n.Name
			}
			rec.Fields = append(rec.Fields, RecordField{
				GoName:     n.Name,
				WireName:   name,
				GoType:     typ,
				OmitEmpty:  omitempty,
				IsPointer:  strings.HasPrefix(typ, "*"),
				HasDefault: hasDefault,
				DefaultKey: defaultKey,
			})
		}
	}
	return rec, nil
}

// tagOptions resolves a field's `json` wire name/omitempty the same way it
// reads a field's `flatjson:"default"` / `flatjson:"default=key"` option:
// bare `default` means the field's own zero value covers a missing key,
// `default=key` names a function the generated code calls directly.
// Without either, a missing key is a type-shape error at Finish.
func tagOptions(tag *ast.BasicLit) (name string, omitempty, hasDefault bool, defaultKey string) {
	if tag == nil {
		return "", false, false, ""
	}
	raw := strings.Trim(tag.Value, "`")
	if v, ok := tagValue(raw, "json"); ok {
		parts := strings.Split(v, ",")
		name = parts[0]
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				omitempty = true
			}
		}
	}
	if v, ok := tagValue(raw, "flatjson"); ok {
		for _, opt := range strings.Split(v, ",") {
			switch {
			case opt == "default":
				hasDefault = true
			case strings.HasPrefix(opt, "default="):
				hasDefault = true
				defaultKey = strings.TrimPrefix(opt, "default=")
			}
		}
	}
	return name, omitempty, hasDefault, defaultKey
}

// tagValue extracts the quoted content of the struct tag key named key,
// e.g. tagValue(`json:"x,omitempty" flatjson:"default"`, "flatjson")
// returns ("default", true).
func tagValue(raw, key string) (string, bool) {
	return reflect.StructTag(raw).Lookup(key)
}

func exprString(e ast.Expr) (string, error) {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name, nil
	case *ast.StarExpr:
		inner, err := exprString(t.X)
		return "*" + inner, err
	case *ast.ArrayType:
		inner, err := exprString(t.Elt)
		return "[]" + inner, err
	case *ast.SelectorExpr:
		pkg, err := exprString(t.X)
		return pkg + "." + t.Sel.Name, err
	case *ast.MapType:
		k, err := exprString(t.Key)
		if err != nil {
			return "", err
		}
		v, err := exprString(t.Value)
		return "map[" + k + "]" + v, err
	default:
		return "", fmt.Errorf("flatjson/gen: unsupported field type expression %T", e)
	}
}

var genTemplate = template.Must(template.New("flatjson_gen").Parse(`// Code generated by flatjsongen. DO NOT EDIT.

package {{.Name}}

import "github.com/mcvoid/flatjson"

{{range .Records}}
func (v {{.Name}}) Begin() flatjson.Fragment {
	return flatjson.FragMapValue(&{{.Name}}Producer{v: v})
}

type {{.Name}}Producer struct {
	v {{.Name}}
	i int
}

func (p *{{.Name}}Producer) Next() (string, flatjson.Serialize, bool) {
	switch p.i {
{{range $idx, $f := .Fields}}	case {{$idx}}:
		p.i++
		return {{printf "%q" $f.WireName}}, flatjson.Wrap(p.v.{{$f.GoName}}), true
{{end}}	}
	return "", nil, false
}

func Begin{{.Name}}(out *{{.Name}}) flatjson.Visitor {
	return &{{.Name}}Place{out: out}
}

type {{.Name}}Place struct {
	flatjson.RejectVisitor
	out *{{.Name}}
}

func (p *{{.Name}}Place) Map() (flatjson.MapBuilder, error) {
	return &{{.Name}}Builder{out: p.out}, nil
}

type {{.Name}}Builder struct {
	out  *{{.Name}}
	seen [{{len .Fields}}]bool
}

func (b *{{.Name}}Builder) Key(k string) (flatjson.Visitor, error) {
	switch k {
{{range $idx, $f := .Fields}}	case {{printf "%q" $f.WireName}}:
		b.seen[{{$idx}}] = true
		return flatjson.PlaceFor(&b.out.{{$f.GoName}}), nil
{{end}}	}
	return flatjson.Ignore, nil
}

func (b *{{.Name}}Builder) Finish() error {
{{range $idx, $f := .Fields}}	if !b.seen[{{$idx}}] {
{{if $f.IsPointer}}		// {{$f.GoName}} is a pointer: absence leaves its own nil default.
{{else if $f.DefaultKey}}		b.out.{{$f.GoName}} = {{$f.DefaultKey}}()
{{else if $f.HasDefault}}		// {{$f.GoName}} defaults to its zero value.
{{else}}		return flatjson.ErrDecode
{{end}}	}
{{end}}	return nil
}
{{end}}
`))

// Generate renders pkg's generated companion file.
func Generate(pkg *Package) ([]byte, error) {
	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, pkg); err != nil {
		return nil, errors.Wrap(err, "flatjson/gen: executing template")
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "flatjson/gen: gofmt of generated source")
	}
	return formatted, nil
}
