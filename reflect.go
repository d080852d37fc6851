// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package clcsim

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom components built using reflection must implement.
// See MakePart.
type Updater interface {
	Update(*Circuit)
}

// MakePart wraps an Updater into a custom component.
// Input/output pins are identified by field tags.
//
// The field tag must be `hw:"in"` or `hw:"out"` to identify input and output
// pins. By default, the pin name is the field name in lowercase. A specific
// field name can be forced by adding it in the tag: `hw:"in,pin_name"`.
// Pin fields must be exported and of type int. Buses must be arrays of int.
//
// t must be a pointer to a struct. Each time the part is mounted, a copy of
// *t is made before its pin fields are set, so that untagged fields of t act
// as the part's configuration. A nil pointer yields zero configuration.
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		panic(errors.Errorf("unsupported type %q: must be a pointer to a struct", typ))
	}
	typ = typ.Elem()

	sp := &PartSpec{
		Name: typ.Name(),
	}

	walkPins(typ, func(f reflect.StructField, pin string, isInput bool) {
		pins := []string{pin}
		if f.Type.Kind() == reflect.Array {
			pins = IO(pin + "[" + strconv.Itoa(f.Type.Len()) + "]")
		}
		if isInput {
			sp.Inputs = append(sp.Inputs, pins...)
		} else {
			sp.Outputs = append(sp.Outputs, pins...)
		}
	})

	var tmpl reflect.Value
	if v := reflect.ValueOf(t); !v.IsNil() {
		tmpl = v.Elem()
	}
	sp.Mount = mountPart(typ, tmpl)
	return sp
}

// walkPins calls fn for every field tagged as a pin.
func walkPins(typ reflect.Type, fn func(f reflect.StructField, pin string, isInput bool)) {
	n := typ.NumField()
	for i := 0; i < n; i++ {
		var isInput bool
		f := typ.Field(i)
		pin := strings.ToLower(f.Name)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		tv := strings.Split(tag, ",")
		if len(tv) > 2 {
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}
		if len(tv) == 2 && tv[1] != "" {
			pin = tv[1]
		}
		switch tv[0] {
		case "in":
			isInput = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %q in %q", tag, f.Name, typ.Name()))
		}
		if f.PkgPath != "" {
			panic(errors.Errorf("pin field %q in %q must be exported", f.Name, typ.Name()))
		}
		ft := f.Type
		if k := ft.Kind(); k != reflect.Int && (k != reflect.Array || ft.Elem().Kind() != reflect.Int) {
			panic(errors.Errorf("unsupported type %q for field %q in %q", k, f.Name, typ.Name()))
		}
		fn(f, pin, isInput)
	}
}

func mountPart(typ reflect.Type, tmpl reflect.Value) MountFn {
	return func(s *Socket) []Component {
		v := reflect.New(typ)
		e := v.Elem()
		if tmpl.IsValid() {
			e.Set(tmpl)
		}
		walkPins(typ, func(f reflect.StructField, pin string, _ bool) {
			fv := e.FieldByIndex(f.Index)
			if fv.Kind() == reflect.Array {
				for i := 0; i < fv.Len(); i++ {
					fv.Index(i).SetInt(int64(s.Pin(BusPinName(pin, i))))
				}
				return
			}
			fv.SetInt(int64(s.Pin(pin)))
		})
		comp := v.Interface().(Updater)
		return []Component{comp.Update}
	}
}
