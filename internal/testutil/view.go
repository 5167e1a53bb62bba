package testutil

import "reflect"

// Fields flattens a view model struct into a map keyed by field name.
// Embedded structs are flattened too, so BaseVM fields appear at the top
// level. Handlers keep their view models unexported; tests read them
// through this.
func Fields(v any) map[string]any {
	out := map[string]any{}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return out
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return out
	}
	collect(rv, out)
	return out
}

func collect(rv reflect.Value, out map[string]any) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		fv := rv.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct {
			collect(fv, out)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if _, taken := out[f.Name]; !taken {
			out[f.Name] = fv.Interface()
		}
	}
}

// Slice converts any slice value to []any.
func Slice(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
