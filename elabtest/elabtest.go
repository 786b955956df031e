// Package elabtest runs formulaic whole-program elaboration tests.
//
// A test is defined in a YAML file holding the modules of a program as
// syntax trees, an optional driver configuration and the expected output.
//
//	config:
//	  no_implicit_any: true
//
//	modules:
//	  - path: /src/a.ts
//	    decls:
//	      - kind: TypeAliasDecl
//	        export: true
//	        name: A
//	        type: {kind: KeywordType, name: string}
//
//	output: |
//	  /src/a.ts
//	    A: type A = string
//
// The output lists each file module in path order with its exports and
// diagnostics, then each ambient module, then the warnings of the run.
// If checking fails, the error field holds the expected error message.
//
// Test files for a package reside in a testdata subdirectory and are run
// by a Go test calling Run:
//
//	func TestElab(t *testing.T) { elabtest.Run(t, "testdata/elab") }
//
// Each file runs as a parallel subtest named for the file.  Tests can be
// skipped by setting the skip field to a non-empty string.
package elabtest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brimdata/tstype/compiler/ast"
	"github.com/brimdata/tstype/driver"
	"github.com/brimdata/tstype/tsfmt"
	"github.com/goccy/go-yaml"
	yamlparser "github.com/goccy/go-yaml/parser"
	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap/zaptest"
)

type Bundle struct {
	TestName string
	FileName string
	Test     *Test
	Error    error
}

func Load(dirname string) ([]Bundle, error) {
	entries, err := os.ReadDir(dirname)
	if err != nil {
		return nil, err
	}
	var bundles []Bundle
	for _, e := range entries {
		filename := e.Name()
		testname, ok := strings.CutSuffix(filename, ".yaml")
		if !ok {
			continue
		}
		filename = filepath.Join(dirname, filename)
		test, err := FromYAMLFile(filename)
		bundles = append(bundles, Bundle{testname, filename, test, err})
	}
	return bundles, nil
}

// Run runs the tests in the directory named dirname.
func Run(t *testing.T, dirname string) {
	bundles, err := Load(dirname)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range bundles {
		t.Run(b.TestName, func(t *testing.T) {
			t.Parallel()
			if b.Error != nil {
				t.Fatalf("%s: %s", b.FileName, b.Error)
			}
			b.Test.Run(t, b.FileName)
		})
	}
}

// Test defines an elaboration test.
type Test struct {
	Skip   string        `yaml:"skip,omitempty"`
	Config driver.Config `yaml:"config,omitempty"`
	// Modules holds the syntax tree of each module in the form accepted
	// by ast.UnmarshalObject.
	Modules []any  `yaml:"modules"`
	Output  string `yaml:"output,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

// FromYAMLFile loads a Test from the YAML file named filename.
func FromYAMLFile(filename string) (*Test, error) {
	f, err := yamlparser.ParseFile(filename, 0)
	if err != nil {
		return nil, err
	}
	if len(f.Docs) != 1 {
		return nil, errors.New("file must contain one YAML document")
	}
	test := Test{Config: driver.DefaultConfig()}
	if err := yaml.NodeToValue(f.Docs[0].Body, &test, yaml.DisallowUnknownField()); err != nil {
		return nil, err
	}
	return &test, nil
}

func (e *Test) modules() ([]*ast.Module, error) {
	if len(e.Modules) == 0 {
		return nil, errors.New("modules field missing")
	}
	var modules []*ast.Module
	for k, m := range e.Modules {
		module, err := ast.UnmarshalObject(m)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", k, err)
		}
		if module.Path == "" {
			return nil, fmt.Errorf("module %d: path missing", k)
		}
		modules = append(modules, module)
	}
	return modules, nil
}

func (e *Test) Run(t *testing.T, filename string) {
	if e.Skip != "" {
		t.Skip("skipping test:", e.Skip)
	}
	modules, err := e.modules()
	if err != nil {
		t.Fatalf("%s: bad yaml format: %s", filename, err)
	}
	d := driver.New(e.Config, zaptest.NewLogger(t))
	var out, errStr string
	p, err := d.Check(t.Context(), modules)
	if err != nil {
		errStr = strings.TrimSuffix(err.Error(), "\n") + "\n"
	} else {
		out = Render(p)
	}
	if err := errors.Join(compare("output", e.Output, out), compare("error", e.Error, errStr)); err != nil {
		t.Fatalf("%s: %s", filename, err)
	}
}

// Render lists the exports and diagnostics of each module of p followed
// by the warnings of the run.
func Render(p *driver.Program) string {
	var b strings.Builder
	for _, path := range p.Paths() {
		b.WriteString(path + "\n")
		if m, ok := p.Module(path); ok {
			renderModule(&b, m)
		}
	}
	for _, name := range p.AmbientNames() {
		fmt.Fprintf(&b, "declare module %q\n", name)
		if m, ok := p.Ambient(name); ok {
			renderModule(&b, m)
		}
	}
	for _, err := range p.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", err)
	}
	return b.String()
}

func renderModule(b *strings.Builder, m *driver.ModuleResult) {
	f := tsfmt.NewFormatter(0)
	exports := m.Exports
	for _, name := range exports.TypeNames() {
		for _, t := range exports.Types[name] {
			fmt.Fprintf(b, "  %s: %s\n", name, f.Format(t))
		}
	}
	for _, name := range exports.VarNames() {
		fmt.Fprintf(b, "  var %s: %s\n", name, f.Format(exports.Vars[name]))
	}
	if m.Path != m.Name {
		// Diagnostics of ambient modules belong to their file.
		return
	}
	for _, d := range m.Diagnostics.Diagnostics() {
		fmt.Fprintf(b, "  %s %d-%d: %s\n", d.Code, d.Pos, d.End, d.Msg)
	}
}

func compare(name, expected, actual string) error {
	if expected == actual {
		return nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		FromFile: "expected",
		B:        difflib.SplitLines(actual),
		ToFile:   "actual",
		Context:  5,
	})
	if err != nil {
		panic("elabtest: " + err.Error())
	}
	return fmt.Errorf("expected and actual %s differ:\n%s", name, diff)
}
