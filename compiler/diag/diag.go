// Package diag holds the diagnostics produced while elaborating a module.
package diag

import (
	"fmt"
	"strings"
)

type Code int

const (
	DuplicateName Code = iota + 1
	DuplicateMember
	DuplicateParam
	NoSuchType
	NoSuchTypeButVarExists
	InvalidInterfaceName
	IntrinsicIsBuiltinOnly
	StaticMemberCannotUseTypeParamOfClass
	ImplicitAny
	MixedOptionalMethod
	NoSuchProperty
	ModuleNotFound
	ExportNotFound
	LoadFailed
	ConflictingAmbientModule
)

var codes = [...]struct {
	name   string
	format string
}{
	DuplicateName:                         {"DuplicateName", "Duplicate identifier '%s'."},
	DuplicateMember:                       {"DuplicateMember", "Duplicate identifier '%s'."},
	DuplicateParam:                        {"DuplicateParam", "Duplicate parameter name '%s'."},
	NoSuchType:                            {"NoSuchType", "Cannot find name '%s'."},
	NoSuchTypeButVarExists:                {"NoSuchTypeButVarExists", "'%s' refers to a value, but is being used as a type here."},
	InvalidInterfaceName:                  {"InvalidInterfaceName", "Interface name cannot be '%s'."},
	IntrinsicIsBuiltinOnly:                {"IntrinsicIsBuiltinOnly", "The 'intrinsic' keyword can only be used to declare compiler provided intrinsic types."},
	StaticMemberCannotUseTypeParamOfClass: {"StaticMemberCannotUseTypeParamOfClass", "Static members cannot reference class type parameter '%s'."},
	ImplicitAny:                           {"ImplicitAny", "'%s' implicitly has an 'any' type."},
	MixedOptionalMethod:                   {"MixedOptionalMethod", "Overload signatures of '%s' must all be optional or required."},
	NoSuchProperty:                        {"NoSuchProperty", "Property '%s' does not exist on type."},
	ModuleNotFound:                        {"ModuleNotFound", "Cannot find module '%s'."},
	ExportNotFound:                        {"ExportNotFound", "Module has no exported member '%s'."},
	LoadFailed:                            {"LoadFailed", "Failed to load module '%s'."},
	ConflictingAmbientModule:              {"ConflictingAmbientModule", "Ambient module '%s' conflicts with a previous declaration."},
}

func (c Code) String() string {
	if c > 0 && int(c) < len(codes) {
		return codes[c].name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// LookupCode returns the code with the given name or zero.
func LookupCode(name string) Code {
	for i, c := range codes {
		if c.name == name && i != 0 {
			return Code(i)
		}
	}
	return 0
}

func (c Code) message(name string) string {
	if c <= 0 || int(c) >= len(codes) {
		return name
	}
	f := codes[c].format
	if strings.Contains(f, "%s") {
		return fmt.Sprintf(f, name)
	}
	return f
}

// Diagnostic is a problem found at a source span.  Name is the identifier
// or module name the diagnostic is about, if any.
type Diagnostic struct {
	Code Code
	Msg  string
	Name string
	Pos  int
	End  int
	file *File
}

func (d *Diagnostic) Error() string {
	if !d.file.HasText() {
		if d.file != nil && d.file.Name != "" {
			return fmt.Sprintf("%s: %s", d.file.Name, d.Msg)
		}
		return d.Msg
	}
	start := d.file.Position(d.Pos)
	if !start.IsValid() {
		return fmt.Sprintf("%s: %s", d.file.Name, d.Msg)
	}
	end := d.file.Position(d.End)
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s\n", d.file.Name, start.Line, start.Column, d.Msg)
	line := d.file.LineOfPos(d.Pos)
	b.WriteString(line)
	b.WriteByte('\n')
	if end.IsValid() && end.Offset > start.Offset {
		formatSpanError(&b, line, start, end)
	} else {
		formatPointError(&b, start)
	}
	return b.String()
}

func formatSpanError(b *strings.Builder, line string, start, end Position) {
	b.WriteString(strings.Repeat(" ", start.Column-1))
	n := end.Column - start.Column
	if start.Line != end.Line {
		n = len(line) - start.Column + 1
	}
	b.WriteString(strings.Repeat("~", max(n, 1)))
}

func formatPointError(b *strings.Builder, start Position) {
	b.WriteString(strings.Repeat(" ", start.Column-1))
	b.WriteString("^")
}
