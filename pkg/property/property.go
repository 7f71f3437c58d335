// Package property reads and writes dotted property paths such as
// "address.city" on structs, maps and pointers.
//
// Struct fields match a path segment by their `click` tag, or otherwise by a
// case-insensitive comparison with the field name.
package property

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a path segment names no field or key.
var ErrNotFound = errors.New("property not found")

// Get returns the value at path in obj. Nil pointers along the path yield
// (nil, nil).
func Get(obj any, path string) (any, error) {
	v := reflect.ValueOf(obj)
	for _, seg := range strings.Split(path, ".") {
		v = indirect(v)
		if !v.IsValid() {
			return nil, nil
		}
		next, err := child(v, seg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		v = next
	}
	v = indirect(v)
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

// GetString is Get formatted as a string; nil values yield "".
func GetString(obj any, path string) (string, error) {
	v, err := Get(obj, path)
	if err != nil || v == nil {
		return "", err
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return fmt.Sprint(v), nil
}

// Set assigns value to path in obj, which must be a pointer or a map.
// Nil intermediate pointers and maps are allocated. String values are
// converted to the target kind.
func Set(obj any, path string, value any) error {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer && v.Kind() != reflect.Map {
		return fmt.Errorf("%s: cannot set on non-pointer %T", path, obj)
	}
	segs := strings.Split(path, ".")
	return set(v, segs, value, path)
}

func set(v reflect.Value, segs []string, value any, path string) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			if !v.CanSet() {
				return fmt.Errorf("%s: nil pointer", path)
			}
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	seg := segs[0]
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s: unsupported map key %s", path, v.Type().Key())
		}
		if v.IsNil() {
			if !v.CanSet() {
				return fmt.Errorf("%s: nil map", path)
			}
			v.Set(reflect.MakeMap(v.Type()))
		}
		key := reflect.ValueOf(seg).Convert(v.Type().Key())
		if len(segs) == 1 {
			elem, err := convert(value, v.Type().Elem())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			v.SetMapIndex(key, elem)
			return nil
		}
		// Map elements are not addressable, so work on a copy.
		cur := v.MapIndex(key)
		cp := reflect.New(v.Type().Elem()).Elem()
		if cur.IsValid() {
			cp.Set(cur)
		}
		if cp.Kind() == reflect.Interface {
			if cp.IsNil() {
				cp.Set(reflect.ValueOf(map[string]any{}))
			}
			inner := cp.Elem()
			if err := set(inner, segs[1:], value, path); err != nil {
				return err
			}
		} else if err := set(cp, segs[1:], value, path); err != nil {
			return err
		}
		v.SetMapIndex(key, cp)
		return nil

	case reflect.Struct:
		f, ok := field(v, seg)
		if !ok {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		if !f.CanSet() {
			return fmt.Errorf("%s: field %s is not settable", path, seg)
		}
		if len(segs) == 1 {
			elem, err := convert(value, f.Type())
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			f.Set(elem)
			return nil
		}
		return set(f, segs[1:], value, path)

	case reflect.Interface:
		if v.IsNil() {
			return fmt.Errorf("%s: nil interface", path)
		}
		return set(v.Elem(), segs, value, path)
	}
	return fmt.Errorf("%s: cannot descend into %s", path, v.Kind())
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func child(v reflect.Value, seg string) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Struct:
		if f, ok := field(v, seg); ok {
			return f, nil
		}
		// Fall back to a zero-argument getter method.
		if m := method(v, seg); m.IsValid() {
			return m.Call(nil)[0], nil
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			mv := v.MapIndex(reflect.ValueOf(seg).Convert(v.Type().Key()))
			if mv.IsValid() {
				return mv, nil
			}
			return reflect.Value{}, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("segment %q: %w", seg, ErrNotFound)
}

// field finds the exported struct field matching seg.
func field(v reflect.Value, seg string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if tag := sf.Tag.Get("click"); tag != "" {
			if tag == "-" {
				continue
			}
			if tag == seg {
				return v.Field(i), true
			}
			continue
		}
		if strings.EqualFold(sf.Name, seg) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func method(v reflect.Value, seg string) reflect.Value {
	candidates := []reflect.Value{v}
	if v.CanAddr() {
		candidates = append(candidates, v.Addr())
	}
	for _, c := range candidates {
		t := c.Type()
		for i := 0; i < t.NumMethod(); i++ {
			m := t.Method(i)
			if !strings.EqualFold(m.Name, seg) && !strings.EqualFold(m.Name, "Get"+seg) {
				continue
			}
			if m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
				return c.Method(i)
			}
		}
	}
	return reflect.Value{}
}

// convert adapts value to type t, parsing strings for scalar kinds.
func convert(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if t.Kind() == reflect.Pointer {
		inner, err := convert(value, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, nil
	}
	s, isString := value.(string)
	if !isString {
		if v.Type().ConvertibleTo(t) && v.Kind() != reflect.String && t.Kind() != reflect.String {
			return v.Convert(t), nil
		}
		s = fmt.Sprint(value)
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(s)
	case reflect.Bool:
		if s == "" {
			return out, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			// Checkbox values arrive as "on".
			b = strings.EqualFold(s, "on")
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return out, nil
		}
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return out, nil
		}
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return out, nil
		}
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	case reflect.Interface:
		out.Set(reflect.ValueOf(s))
	default:
		return reflect.Value{}, fmt.Errorf("cannot convert %T to %s", value, t)
	}
	return out, nil
}
