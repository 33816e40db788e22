package obslog

import (
	"fmt"
	"reflect"
)

// summaryReflect handles the slice/map/struct cases generically so callers
// never need to hand-write a String() method just to keep a log line small.
func summaryReflect(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("%s(len=%d)", rv.Type().Name(), rv.Len())
	case reflect.Map:
		return fmt.Sprintf("%s(keys=%d)", rv.Type().Name(), rv.Len())
	case reflect.Ptr:
		if rv.IsNil() {
			return "<nil>"
		}
		return fmt.Sprintf("*%s", summaryReflect(rv.Elem().Interface()))
	case reflect.Struct:
		return fmt.Sprintf("%s{...}", rv.Type().Name())
	default:
		return fmt.Sprintf("%v", v)
	}
}
