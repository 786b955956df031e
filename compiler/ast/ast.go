// Package ast declares the types used to represent the type-level syntax of
// TypeScript modules: type expressions, type members, binding patterns and
// the declarations that carry them.
package ast

// This module is derived from the GO AST design pattern in
// https://golang.org/pkg/go/ast/
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

type Node interface {
	Pos() int // Position of first character belonging to the node.
	End() int // Position of first character immediately after the node.
}

type ID struct {
	Name string `json:"name"`
	Loc  `json:"loc"`
}

// UnpackString lets an ID be written as a bare string in fixtures.
func (i *ID) UnpackString(s string) error {
	i.Name = s
	return nil
}

// Text is an opaque source fragment, such as an initializer expression,
// that the type layer carries but does not interpret.
type Text struct {
	Text string `json:"text"`
	Loc  `json:"loc"`
}

// Module is the root of a parsed module.  Text is the module's source and
// may be empty; it is only used to render diagnostics.
type Module struct {
	Path  string `json:"path"`
	Text  string `json:"text,omitempty"`
	Decls []Decl `json:"decls"`
}

// Names returns the names of an entity path such as a.b.c.
func Names(ids []*ID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, id.Name)
	}
	return names
}

// Span returns the location covering an entity path.
func Span(ids []*ID) Loc {
	if len(ids) == 0 {
		return Loc{}
	}
	return Loc{ids[0].First, ids[len(ids)-1].Last}
}
