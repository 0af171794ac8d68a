package helpers

import "reflect"

// StructToMap returns a dictionary mapping fieldNames to values. Unexported fields are skipped.
func StructToMap(s any) (map[string]any, error) {
	result := map[string]any{}

	rowType := reflect.Indirect(reflect.ValueOf(s))

	for i := 0; i < rowType.Type().NumField(); i = i + 1 {
		fieldType := rowType.Type().Field(i)
		if !fieldType.IsExported() {
			continue
		}
		result[fieldType.Name] = rowType.Field(i).Interface()
	}

	return result, nil
}

// StructToKeysAndValues flattens a struct into the alternating key/value list accepted by logr.
func StructToKeysAndValues(s any) []any {
	m, err := StructToMap(s)
	if err != nil {
		return nil
	}
	rowType := reflect.Indirect(reflect.ValueOf(s)).Type()
	kv := make([]any, 0, 2*len(m))
	// Iterate over the fields rather than the map so the order is stable.
	for i := 0; i < rowType.NumField(); i++ {
		name := rowType.Field(i).Name
		if v, ok := m[name]; ok {
			kv = append(kv, name, v)
		}
	}
	return kv
}
