package pod

import (
	"fmt"
	"reflect"
	"strings"
)

// Compact renders a POD struct on one line, e.g. "CharacterStats {Vigor:10, Level:1}".
// Fields tagged `pod:"hex"` are printed in hexadecimal.
func Compact[T any](v T) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "<nil pointer>"
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("%v", v)
	}
	rt := rv.Type()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s {", rt.Name())
	first := true
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false

		fv := rv.Field(i)
		if f.Tag.Get("pod") == "hex" && fv.CanUint() {
			fmt.Fprintf(&sb, "%s:0x%X", f.Name, fv.Uint())
		} else {
			fmt.Fprintf(&sb, "%s:%v", f.Name, fv.Interface())
		}
	}
	sb.WriteString("}")
	return sb.String()
}
