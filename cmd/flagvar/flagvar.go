// Copyright 2018 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flagvar registers the tagged fields of a struct as flags on a
// pflag.FlagSet. A tag carries the flag's name, an optional literal default
// and its usage message, so that a command's options can be declared
// alongside the configuration type that consumes them.
package flagvar

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var pflagValueType = reflect.TypeOf((*pflag.Value)(nil)).Elem()

// consume reads up to sep or the end of t, honouring \ escapes. The
// returned remainder starts with sep when sep was found.
func consume(t string, sep rune) (value, remaining string) {
	var sb strings.Builder
	escaped := false
	for i, r := range t {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		if !escaped && r == sep {
			return sb.String(), t[i:]
		}
		escaped = false
		sb.WriteRune(r)
	}
	return sb.String(), ""
}

type tagField struct {
	name       string
	allowEmpty bool
	expectMore bool
}

func (f tagField) parse(t string) (value, remaining string, err error) {
	if len(t) > 0 && t[0] == '\'' {
		value, remaining = consume(t[1:], '\'')
		if len(remaining) == 0 {
			return "", "", fmt.Errorf("missing close quote (') for %v", f.name)
		}
		remaining = remaining[1:]
	} else if len(t) > 0 {
		value, remaining = consume(t, ',')
	}
	if !f.allowEmpty && len(value) == 0 {
		return "", "", fmt.Errorf("empty field for %v", f.name)
	}
	if !f.expectMore {
		if len(remaining) > 0 {
			return "", "", fmt.Errorf("spurious text after %v", f.name)
		}
		return value, "", nil
	}
	if len(remaining) == 0 {
		return "", "", fmt.Errorf("more fields expected after %v", f.name)
	}
	if remaining[0] == ',' {
		remaining = remaining[1:]
	}
	return value, remaining, nil
}

// ParseFlagTag parses a tag of the form:
//
//	<name>,<default-value>,<usage>
//
// <default-value> may be empty but <name> and <usage> must be present.
// Any field may be quoted with ' if it needs to contain a comma and
// individual characters may be escaped with \. Default values are
// subject to ExpandEnv, so $HOME/.config may be used for example.
func ParseFlagTag(t string) (name, value, usage string, err error) {
	if len(t) == 0 {
		err = fmt.Errorf("empty or missing tag")
		return
	}
	var remaining string
	if name, remaining, err = (tagField{"<name>", false, true}).parse(t); err != nil {
		return
	}
	if value, remaining, err = (tagField{"<default-value>", true, true}).parse(remaining); err != nil {
		return
	}
	usage, _, err = (tagField{"<usage>", false, false}).parse(remaining)
	return
}

// ExpandEnv is like os.ExpandEnv except that $HOME defaults to the
// value of os.UserHomeDir when it is not set in the environment.
func ExpandEnv(e string) string {
	return os.Expand(e, func(v string) string {
		if val, ok := os.LookupEnv(v); ok {
			return val
		}
		if v == "HOME" {
			if h, err := os.UserHomeDir(); err == nil {
				return h
			}
		}
		return ""
	})
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	stringsType  = reflect.TypeOf([]string(nil))
)

func isBuiltin(typ reflect.Type) bool {
	if typ == durationType || typ == stringsType {
		return true
	}
	if typ.PkgPath() != "" {
		return false
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Uint, reflect.Bool, reflect.Float64, reflect.String:
		return true
	}
	return false
}

// parseLiteral converts literal into a value of the builtin type typ.
func parseLiteral(typ reflect.Type, literal string) (interface{}, error) {
	if len(literal) == 0 {
		if typ == stringsType {
			return []string(nil), nil
		}
		return reflect.Zero(typ).Interface(), nil
	}
	if typ == durationType {
		return time.ParseDuration(literal)
	}
	if typ == stringsType {
		return strings.Split(literal, ":"), nil
	}
	switch typ.Kind() {
	case reflect.Int:
		v, err := strconv.ParseInt(literal, 10, 64)
		return int(v), err
	case reflect.Uint:
		v, err := strconv.ParseUint(literal, 10, 64)
		return uint(v), err
	case reflect.Bool:
		return strconv.ParseBool(literal)
	case reflect.Float64:
		return strconv.ParseFloat(literal, 64)
	}
	return literal, nil
}

// defaultFor returns the initial value for a flag of builtin type: a
// computed value default takes precedence over the tag's literal.
func defaultFor(typ reflect.Type, literal string, computed interface{}) (value interface{}, usageDefault string, err error) {
	if computed != nil {
		cv := reflect.ValueOf(computed)
		if !cv.Type().ConvertibleTo(typ) {
			return nil, "", fmt.Errorf("value default of type %T is not assignable", computed)
		}
		return cv.Convert(typ).Interface(), "", nil
	}
	if expanded := ExpandEnv(literal); expanded != literal {
		usageDefault = literal
		literal = expanded
	}
	value, err = parseLiteral(typ, literal)
	return
}

func registerValue(fs *pflag.FlagSet, field reflect.Value, name, literal, usage string) error {
	addr := field.Addr()
	if !addr.Type().Implements(pflagValueType) {
		return fmt.Errorf("does not implement pflag.Value")
	}
	pv := addr.Interface().(pflag.Value)
	if len(literal) > 0 {
		if err := pv.Set(literal); err != nil {
			return fmt.Errorf("failed to set initial default value for pflag.Value: %v", err)
		}
	}
	fs.Var(pv, name, usage)
	fs.Lookup(name).DefValue = literal
	return nil
}

func registerTyped(fs *pflag.FlagSet, field reflect.Value, initial interface{}, name, usage string) {
	ptr := field.Addr().Interface()
	switch dv := initial.(type) {
	case int:
		fs.IntVar(ptr.(*int), name, dv, usage)
	case uint:
		fs.UintVar(ptr.(*uint), name, dv, usage)
	case bool:
		fs.BoolVar(ptr.(*bool), name, dv, usage)
	case float64:
		fs.Float64Var(ptr.(*float64), name, dv, usage)
	case string:
		fs.StringVar(ptr.(*string), name, dv, usage)
	case time.Duration:
		fs.DurationVar(ptr.(*time.Duration), name, dv, usage)
	case []string:
		fs.StringSliceVar(ptr.(*[]string), name, dv, usage)
	default:
		panic(fmt.Sprintf("flag %v: unsupported type %T", name, initial))
	}
}

func structValue(structWithFlags interface{}) (reflect.Type, reflect.Value, error) {
	typ := reflect.TypeOf(structWithFlags)
	val := reflect.ValueOf(structWithFlags)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		val = reflect.Indirect(val)
	}
	if !val.CanAddr() {
		return nil, reflect.Value{}, fmt.Errorf("%T is not addressable", structWithFlags)
	}
	if typ.Kind() != reflect.Struct {
		return nil, reflect.Value{}, fmt.Errorf("%T is not a pointer to a struct", structWithFlags)
	}
	return typ, val, nil
}

// RegisterFlagsInStruct registers every field of structWithFlags that
// carries the named tag as a flag on fs. Supported field types are int,
// uint, bool, float64, string, time.Duration, []string and any type whose
// pointer implements pflag.Value. Literal defaults for []string fields are
// colon separated.
//
// valueDefaults supplies computed defaults that override the tag's literal
// and usageDefaults supplies the default shown in help output in place of
// the actual one. Both are keyed by flag name.
//
// Untagged embedded structs are traversed, embedded pointers are not.
func RegisterFlagsInStruct(fs *pflag.FlagSet, tag string, structWithFlags interface{}, valueDefaults map[string]interface{}, usageDefaults map[string]string) error {
	if err := registerStruct(fs, tag, structWithFlags, valueDefaults); err != nil {
		return err
	}
	for k := range valueDefaults {
		if fs.Lookup(k) == nil {
			return fmt.Errorf("flag %v does not exist but specified as a value default", k)
		}
	}
	for k, v := range usageDefaults {
		f := fs.Lookup(k)
		if f == nil {
			return fmt.Errorf("flag %v does not exist but specified as a usage default", k)
		}
		f.DefValue = v
	}
	return nil
}

func registerStruct(fs *pflag.FlagSet, tag string, structWithFlags interface{}, valueDefaults map[string]interface{}) error {
	typ, val, err := structValue(structWithFlags)
	if err != nil {
		return err
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tags, ok := sf.Tag.Lookup(tag)
		if !ok {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				if err := registerStruct(fs, tag, val.Field(i).Addr().Interface(), valueDefaults); err != nil {
					return err
				}
			}
			continue
		}
		name, literal, usage, err := ParseFlagTag(tags)
		if err != nil {
			return fmt.Errorf("field %v: failed to parse tag: %v", sf.Name, tags)
		}
		if fs.Lookup(name) != nil {
			return fmt.Errorf("flag %v already defined for this flag set", name)
		}
		errPrefix := fmt.Sprintf("field: %v of type %v for flag %v", sf.Name, sf.Type, name)
		if sf.Type.Kind() == reflect.Ptr {
			return fmt.Errorf("%v: field can't be a pointer", errPrefix)
		}
		if !isBuiltin(sf.Type) {
			if computed, ok := valueDefaults[name]; ok {
				literal = fmt.Sprint(computed)
			}
			if err := registerValue(fs, val.Field(i), name, literal, usage); err != nil {
				return fmt.Errorf("%v: %v", errPrefix, err)
			}
			continue
		}
		initial, usageDefault, err := defaultFor(sf.Type, literal, valueDefaults[name])
		if err != nil {
			return fmt.Errorf("%v: failed to set initial default value: %v", errPrefix, err)
		}
		registerTyped(fs, val.Field(i), initial, name, usage)
		if len(usageDefault) > 0 {
			fs.Lookup(name).DefValue = usageDefault
		}
	}
	return nil
}
