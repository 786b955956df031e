// Package unpack decodes JSON into Go values whose interface-typed fields
// hold concrete types chosen by a "kind" discriminator.  A Reflector is
// built from template values; the name of each template's type is the
// kind value that selects it.
package unpack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const KindKey = "kind"

// StringUnpacker is implemented by types that may be written as a bare
// JSON string.
type StringUnpacker interface {
	UnpackString(string) error
}

var stringUnpacker = reflect.TypeFor[StringUnpacker]()

type Reflector struct {
	kinds map[string]reflect.Type
}

func New(templates ...any) *Reflector {
	r := &Reflector{kinds: make(map[string]reflect.Type)}
	for _, t := range templates {
		r.Add(t)
	}
	return r
}

// Add registers the type of template under its type name.
func (r *Reflector) Add(template any) *Reflector {
	typ := reflect.TypeOf(template)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	r.kinds[typ.Name()] = typ
	return r
}

// Unmarshal decodes buf into the value pointed to by result.
func (r *Reflector) Unmarshal(buf []byte, result any) error {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	out := reflect.ValueOf(result)
	if out.Kind() != reflect.Pointer || out.IsNil() {
		return errors.New("unpack: result must be a non-nil pointer")
	}
	return r.decode(v, out.Elem(), "")
}

func (r *Reflector) decode(in any, out reflect.Value, path string) error {
	if in == nil {
		out.SetZero()
		return nil
	}
	if s, ok := in.(string); ok && out.Kind() != reflect.String && out.Kind() != reflect.Interface {
		target := out
		if out.Kind() == reflect.Pointer {
			target = reflect.New(out.Type().Elem())
		}
		if target.Type().Implements(stringUnpacker) {
			if err := target.Interface().(StringUnpacker).UnpackString(s); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			out.Set(target)
			return nil
		}
		if target.CanAddr() && target.Addr().Type().Implements(stringUnpacker) {
			return target.Addr().Interface().(StringUnpacker).UnpackString(s)
		}
	}
	switch out.Kind() {
	case reflect.Interface:
		return r.decodeInterface(in, out, path)
	case reflect.Pointer:
		elem := reflect.New(out.Type().Elem())
		if err := r.decode(in, elem.Elem(), path); err != nil {
			return err
		}
		out.Set(elem)
		return nil
	case reflect.Struct:
		obj, ok := in.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object for %s", path, out.Type())
		}
		return r.decodeStruct(obj, out, path)
	case reflect.Slice:
		arr, ok := in.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array for %s", path, out.Type())
		}
		slice := reflect.MakeSlice(out.Type(), len(arr), len(arr))
		for i, v := range arr {
			if err := r.decode(v, slice.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		out.Set(slice)
		return nil
	case reflect.Map:
		obj, ok := in.(map[string]any)
		if !ok || out.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s: cannot decode %T into %s", path, in, out.Type())
		}
		m := reflect.MakeMapWithSize(out.Type(), len(obj))
		for k, v := range obj {
			elem := reflect.New(out.Type().Elem()).Elem()
			if err := r.decode(v, elem, path+"."+k); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(k).Convert(out.Type().Key()), elem)
		}
		out.Set(m)
		return nil
	}
	return decodeScalar(in, out, path)
}

func (r *Reflector) decodeInterface(in any, out reflect.Value, path string) error {
	obj, ok := in.(map[string]any)
	if !ok {
		if out.NumMethod() == 0 {
			out.Set(reflect.ValueOf(in))
			return nil
		}
		return fmt.Errorf("%s: expected object for %s", path, out.Type())
	}
	kind, ok := obj[KindKey].(string)
	if !ok {
		return fmt.Errorf("%s: missing %q field for %s", path, KindKey, out.Type())
	}
	typ, ok := r.kinds[kind]
	if !ok {
		return fmt.Errorf("%s: unknown kind %q", path, kind)
	}
	val := reflect.New(typ)
	if !val.Type().Implements(out.Type()) {
		return fmt.Errorf("%s: kind %q is not a %s", path, kind, out.Type())
	}
	if err := r.decodeStruct(obj, val.Elem(), path); err != nil {
		return err
	}
	out.Set(val)
	return nil
}

func (r *Reflector) decodeStruct(obj map[string]any, out reflect.Value, path string) error {
	seen := make(map[string]bool, len(obj))
	if err := r.decodeFields(obj, out, path, seen); err != nil {
		return err
	}
	for k := range obj {
		if !seen[k] {
			return fmt.Errorf("%s: unknown field %q in %s", path, k, out.Type())
		}
	}
	return nil
}

func (r *Reflector) decodeFields(obj map[string]any, out reflect.Value, path string, seen map[string]bool) error {
	typ := out.Type()
	for i := range typ.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := jsonName(field)
		if !ok {
			continue
		}
		if name == "" {
			// Untagged embedded struct: its fields are promoted.
			if err := r.decodeFields(obj, out.Field(i), path, seen); err != nil {
				return err
			}
			continue
		}
		v, ok := obj[name]
		if !ok {
			continue
		}
		seen[name] = true
		if err := r.decode(v, out.Field(i), path+"."+name); err != nil {
			return err
		}
	}
	return nil
}

func jsonName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			return "", true
		}
		return field.Name, true
	}
	return name, true
}

func decodeScalar(in any, out reflect.Value, path string) error {
	switch out.Kind() {
	case reflect.String:
		switch v := in.(type) {
		case string:
			out.SetString(v)
		case json.Number:
			out.SetString(v.String())
		case bool:
			out.SetString(strconv.FormatBool(v))
		default:
			return fmt.Errorf("%s: cannot decode %T into string", path, in)
		}
	case reflect.Bool:
		v, ok := in.(bool)
		if !ok {
			return fmt.Errorf("%s: cannot decode %T into bool", path, in)
		}
		out.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := in.(json.Number)
		if !ok {
			return fmt.Errorf("%s: cannot decode %T into %s", path, in, out.Type())
		}
		v, err := n.Int64()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := in.(json.Number)
		if !ok {
			return fmt.Errorf("%s: cannot decode %T into %s", path, in, out.Type())
		}
		v, err := strconv.ParseUint(n.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out.SetUint(v)
	case reflect.Float32, reflect.Float64:
		n, ok := in.(json.Number)
		if !ok {
			return fmt.Errorf("%s: cannot decode %T into %s", path, in, out.Type())
		}
		v, err := n.Float64()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out.SetFloat(v)
	default:
		return fmt.Errorf("%s: unsupported type %s", path, out.Type())
	}
	return nil
}
