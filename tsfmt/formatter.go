// Package tsfmt renders elaborated types in TypeScript syntax.
package tsfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/brimdata/tstype"
)

type Formatter struct {
	tab     int
	indent  int
	newline string
	builder strings.Builder
}

// NewFormatter returns a Formatter.  If pretty is positive, members of
// object types are written one per line indented by pretty spaces.
func NewFormatter(pretty int) *Formatter {
	var newline string
	if pretty > 0 {
		newline = "\n"
	}
	return &Formatter{
		tab:     pretty,
		newline: newline,
	}
}

func (f *Formatter) Format(t tstype.Type) string {
	f.builder.Reset()
	f.indent = 0
	f.formatType(t)
	return f.builder.String()
}

// FormatType renders t on a single line.
func FormatType(t tstype.Type) string {
	return NewFormatter(0).Format(t)
}

// String renders a Type or a module surface.
func String(p any) string {
	switch p := p.(type) {
	case tstype.Type:
		return FormatType(p)
	case *tstype.ModuleTypeData:
		return FormatSurface(p)
	default:
		panic(fmt.Sprintf("tsfmt.String takes a tstype.Type or *tstype.ModuleTypeData: %T", p))
	}
}

// FormatSurface renders the names exported by d, types first, in sorted
// order and separated by semicolons.
func FormatSurface(d *tstype.ModuleTypeData) string {
	if d.Empty() {
		return "{}"
	}
	f := NewFormatter(0)
	var b strings.Builder
	b.WriteString("{")
	for _, name := range d.TypeNames() {
		for _, t := range d.Types[name] {
			fmt.Fprintf(&b, " type %s = %s;", name, f.Format(t))
		}
	}
	for _, name := range d.VarNames() {
		fmt.Fprintf(&b, " var %s: %s;", name, f.Format(d.Vars[name]))
	}
	b.WriteString(" }")
	return b.String()
}

func (f *Formatter) build(s string) {
	f.builder.WriteString(s)
}

func (f *Formatter) buildf(s string, args ...any) {
	f.builder.WriteString(fmt.Sprintf(s, args...))
}

func (f *Formatter) formatType(t tstype.Type) {
	switch t := t.(type) {
	case nil:
		f.build("any")
	case *tstype.Keyword:
		f.build(t.Keyword.String())
	case *tstype.Lit:
		f.formatLit(t)
	case *tstype.Union:
		f.formatList(t.Types, " | ", needsParensInUnion)
	case *tstype.Intersection:
		f.formatList(t.Types, " & ", needsParensInIntersection)
	case *tstype.Array:
		f.formatOperand(t.Elem, needsParensInPostfix)
		f.build("[]")
	case *tstype.Tuple:
		f.formatTuple(t)
	case *tstype.Function:
		f.formatTypeParams(t.TypeParams)
		f.formatParams(t.Params)
		f.build(" => ")
		f.formatType(t.Return)
	case *tstype.Constructor:
		if t.Abstract {
			f.build("abstract ")
		}
		f.build("new ")
		f.formatTypeParams(t.TypeParams)
		f.formatParams(t.Params)
		f.build(" => ")
		f.formatType(t.Return)
	case *tstype.TypeLit:
		f.formatMembers(t.Members)
	case *tstype.Interface:
		f.buildf("interface %s", t.Name)
		f.formatTypeParams(t.TypeParams)
		for k, ref := range t.Extends {
			if k == 0 {
				f.build(" extends ")
			} else {
				f.build(", ")
			}
			f.build(strings.Join(ref.Name, "."))
			f.formatTypeArgs(ref.TypeArgs)
		}
		f.build(" ")
		f.formatMembers(t.Body)
	case *tstype.Alias:
		f.buildf("type %s", t.Name)
		f.formatTypeParams(t.TypeParams)
		f.build(" = ")
		f.formatType(t.Target)
	case *tstype.Conditional:
		f.formatOperand(t.Check, needsParensInConditional)
		f.build(" extends ")
		f.formatOperand(t.Extends, needsParensInConditional)
		f.build(" ? ")
		f.formatType(t.True)
		f.build(" : ")
		f.formatType(t.False)
	case *tstype.Mapped:
		f.formatMapped(t)
	case *tstype.Operator:
		f.buildf("%s ", t.Op)
		f.formatOperand(t.Type, needsParensInPostfix)
	case *tstype.IndexedAccess:
		f.formatOperand(t.Object, needsParensInPostfix)
		f.build("[")
		f.formatType(t.Index)
		f.build("]")
	case *tstype.Query:
		f.build("typeof ")
		if t.Import != nil {
			f.formatType(t.Import)
		} else {
			f.build(strings.Join(t.Name, "."))
		}
		f.formatTypeArgs(t.TypeArgs)
	case *tstype.Optional:
		f.formatOperand(t.Type, needsParensInPostfix)
		f.build("?")
	case *tstype.Rest:
		f.build("...")
		f.formatOperand(t.Type, needsParensInPostfix)
	case *tstype.Infer:
		f.build("infer ")
		f.formatParam(t.Param)
	case *tstype.Import:
		f.buildf("import(%s)", strconv.Quote(t.Arg))
		for _, q := range t.Qualifier {
			f.build("." + q)
		}
		f.formatTypeArgs(t.TypeArgs)
	case *tstype.Ref:
		f.build(strings.Join(t.Name, "."))
		f.formatTypeArgs(t.TypeArgs)
	case *tstype.Tpl:
		f.formatTpl(t)
	case *tstype.Predicate:
		if t.Asserts {
			f.build("asserts ")
		}
		if t.This {
			f.build("this")
		} else {
			f.build(t.ParamName)
		}
		if t.Type != nil {
			f.build(" is ")
			f.formatType(t.Type)
		}
	case *tstype.Symbol:
		f.build("Symbol." + t.Name)
	case *tstype.Intrinsic:
		f.build("intrinsic")
	case *tstype.Param:
		f.build(t.Name)
	case *tstype.This:
		f.build("this")
	case *tstype.Module:
		f.buildf("typeof import(%s)", strconv.Quote(t.Name))
	default:
		panic(fmt.Sprintf("tsfmt: unknown type %T", t))
	}
}

func (f *Formatter) formatLit(t *tstype.Lit) {
	switch t.Lit {
	case tstype.LitString:
		f.build(strconv.Quote(t.Value))
	case tstype.LitBigInt:
		f.build(t.Value + "n")
	default:
		f.build(t.Value)
	}
}

func (f *Formatter) formatList(types []tstype.Type, sep string, parens func(tstype.Type) bool) {
	for k, t := range types {
		if k > 0 {
			f.build(sep)
		}
		f.formatOperand(t, parens)
	}
}

func (f *Formatter) formatOperand(t tstype.Type, parens func(tstype.Type) bool) {
	if parens(t) {
		f.build("(")
		f.formatType(t)
		f.build(")")
		return
	}
	f.formatType(t)
}

func needsParensInUnion(t tstype.Type) bool {
	switch t.(type) {
	case *tstype.Function, *tstype.Constructor, *tstype.Conditional:
		return true
	}
	return false
}

func needsParensInIntersection(t tstype.Type) bool {
	_, ok := t.(*tstype.Union)
	return ok || needsParensInUnion(t)
}

func needsParensInPostfix(t tstype.Type) bool {
	switch t.(type) {
	case *tstype.Operator, *tstype.Infer:
		return true
	}
	return needsParensInIntersection(t) || isIntersection(t)
}

func needsParensInConditional(t tstype.Type) bool {
	switch t.(type) {
	case *tstype.Function, *tstype.Constructor, *tstype.Conditional:
		return true
	}
	return false
}

func isIntersection(t tstype.Type) bool {
	_, ok := t.(*tstype.Intersection)
	return ok
}

func (f *Formatter) formatTuple(t *tstype.Tuple) {
	f.build("[")
	for k, elem := range t.Elems {
		if k > 0 {
			f.build(", ")
		}
		if elem.Label == "" {
			f.formatType(elem.Type)
			continue
		}
		// A labeled element carries its ? and ... on the label.
		switch typ := elem.Type.(type) {
		case *tstype.Optional:
			f.buildf("%s?: ", elem.Label)
			f.formatType(typ.Type)
		case *tstype.Rest:
			f.buildf("...%s: ", elem.Label)
			f.formatType(typ.Type)
		default:
			f.buildf("%s: ", elem.Label)
			f.formatType(typ)
		}
	}
	f.build("]")
}

func (f *Formatter) formatTypeArgs(args []tstype.Type) {
	if len(args) == 0 {
		return
	}
	f.build("<")
	f.formatList(args, ", ", func(tstype.Type) bool { return false })
	f.build(">")
}

func (f *Formatter) formatTypeParams(d *tstype.TypeParamDecl) {
	if d == nil || len(d.Params) == 0 {
		return
	}
	f.build("<")
	for k, p := range d.Params {
		if k > 0 {
			f.build(", ")
		}
		f.formatParam(p)
	}
	f.build(">")
}

func (f *Formatter) formatParam(p *tstype.Param) {
	f.build(p.Name)
	if p.Constraint != nil {
		f.build(" extends ")
		f.formatType(p.Constraint)
	}
	if p.Default != nil {
		f.build(" = ")
		f.formatType(p.Default)
	}
}

func (f *Formatter) formatParams(params []tstype.FnParam) {
	f.build("(")
	for k, p := range params {
		if k > 0 {
			f.build(", ")
		}
		if p.Rest {
			f.build("...")
		}
		f.build(p.Name)
		if !p.Required && !p.Rest {
			f.build("?")
		}
		f.build(": ")
		f.formatType(p.Type)
	}
	f.build(")")
}

func (f *Formatter) formatMembers(members []tstype.TypeElement) {
	if len(members) == 0 {
		f.build("{}")
		return
	}
	f.build("{")
	f.indent += f.tab
	for k, m := range members {
		if f.tab > 0 {
			f.build(f.newline)
			f.build(strings.Repeat(" ", f.indent))
		} else {
			f.build(" ")
		}
		f.formatElement(m)
		if f.tab > 0 || k < len(members)-1 {
			f.build(";")
		}
	}
	f.indent -= f.tab
	if f.tab > 0 {
		f.build(f.newline)
		f.build(strings.Repeat(" ", f.indent))
	} else {
		f.build(" ")
	}
	f.build("}")
}

func (f *Formatter) formatElement(e tstype.TypeElement) {
	switch e := e.(type) {
	case *tstype.CallSignature:
		f.formatTypeParams(e.TypeParams)
		f.formatParams(e.Params)
		f.formatReturn(e.Return)
	case *tstype.ConstructSignature:
		f.build("new ")
		f.formatTypeParams(e.TypeParams)
		f.formatParams(e.Params)
		f.formatReturn(e.Return)
	case *tstype.PropertySignature:
		f.formatModifiers(e.Static, e.Readonly)
		switch {
		case e.Accessor.Getter:
			f.build("get ")
			f.formatKey(e.Key)
			f.build("()")
			f.formatReturn(e.Type)
		case e.Accessor.Setter:
			f.build("set ")
			f.formatKey(e.Key)
			f.build("(value: ")
			f.formatType(e.Type)
			f.build(")")
		default:
			f.formatKey(e.Key)
			if e.Optional {
				f.build("?")
			}
			f.build(": ")
			f.formatType(e.Type)
		}
	case *tstype.MethodSignature:
		f.formatModifiers(e.Static, e.Readonly)
		f.formatKey(e.Key)
		if e.Optional {
			f.build("?")
		}
		f.formatTypeParams(e.TypeParams)
		f.formatParams(e.Params)
		f.formatReturn(e.Return)
	case *tstype.IndexSignature:
		f.formatModifiers(e.Static, e.Readonly)
		f.build("[")
		for k, p := range e.Params {
			if k > 0 {
				f.build(", ")
			}
			f.buildf("%s: ", p.Name)
			f.formatType(p.Type)
		}
		f.build("]: ")
		f.formatType(e.Type)
	default:
		panic(fmt.Sprintf("tsfmt: unknown type element %T", e))
	}
}

func (f *Formatter) formatModifiers(static, readonly bool) {
	if static {
		f.build("static ")
	}
	if readonly {
		f.build("readonly ")
	}
}

func (f *Formatter) formatReturn(t tstype.Type) {
	if t == nil {
		return
	}
	f.build(": ")
	f.formatType(t)
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func (f *Formatter) formatKey(k tstype.Key) {
	switch {
	case k.Computed != nil:
		f.build("[")
		f.formatType(k.Computed)
		f.build("]")
	case k.Numeric, identifier.MatchString(k.Name):
		f.build(k.Name)
	default:
		f.build(strconv.Quote(k.Name))
	}
}

func (f *Formatter) formatMapped(t *tstype.Mapped) {
	f.build("{ ")
	f.build(modifier(t.Readonly, "readonly"))
	if t.Readonly != tstype.ModifierNone {
		f.build(" ")
	}
	f.buildf("[%s in ", t.Param.Name)
	f.formatType(t.Param.Constraint)
	if t.NameType != nil {
		f.build(" as ")
		f.formatType(t.NameType)
	}
	f.build("]")
	f.build(modifier(t.Optional, "?"))
	f.build(": ")
	f.formatType(t.Type)
	f.build(" }")
}

func modifier(m tstype.Modifier, s string) string {
	switch m {
	case tstype.ModifierTrue:
		return s
	case tstype.ModifierPlus:
		return "+" + s
	case tstype.ModifierMinus:
		return "-" + s
	}
	return ""
}

var tplEscaper = strings.NewReplacer("`", "\\`", "${", "\\${", "\\", "\\\\")

func (f *Formatter) formatTpl(t *tstype.Tpl) {
	f.build("`")
	for k, q := range t.Quasis {
		f.build(tplEscaper.Replace(q))
		if k < len(t.Types) {
			f.build("${")
			f.formatType(t.Types[k])
			f.build("}")
		}
	}
	f.build("`")
}
