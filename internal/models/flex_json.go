package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// sampleFieldMap caches JSON tag -> struct field index mappings
var (
	sampleFieldMap     map[string]int
	sampleFieldMapOnce sync.Once
)

func getSampleFieldMap() map[string]int {
	sampleFieldMapOnce.Do(func() {
		t := reflect.TypeOf(TrainingSample{})
		sampleFieldMap = make(map[string]int, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("json")
			if tag == "" || tag == "-" {
				continue
			}
			name := strings.Split(tag, ",")[0]
			sampleFieldMap[name] = i
		}
	})
	return sampleFieldMap
}

// UnmarshalJSON implements flexible JSON unmarshaling that accepts both
// string-encoded and native JSON types. Historical corpus files encode the
// win flag as 0/1 and some exporters quote every numeric; this coerces
// those to the correct Go types transparently.
func (s *TrainingSample) UnmarshalJSON(data []byte) error {
	// Alias prevents infinite recursion
	type Alias TrainingSample
	a := (*Alias)(s)

	// Fast path: try standard unmarshal (works when all types match natively)
	if err := json.Unmarshal(data, a); err == nil {
		return nil
	}

	// Slow path: field-by-field with coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	fieldMap := getSampleFieldMap()
	v := reflect.ValueOf(a).Elem()

	for key, rawVal := range raw {
		idx, ok := fieldMap[key]
		if !ok {
			continue
		}

		fv := v.Field(idx)
		if !fv.CanSet() {
			continue
		}

		// Try direct unmarshal first
		ptr := reflect.New(fv.Type())
		if err := json.Unmarshal(rawVal, ptr.Interface()); err == nil {
			fv.Set(ptr.Elem())
			continue
		}

		rawVal = bytes.TrimSpace(rawVal)
		if len(rawVal) == 0 {
			continue
		}

		if rawVal[0] == '"' {
			// Value is a JSON string but target is numeric/bool — coerce
			var str string
			if err := json.Unmarshal(rawVal, &str); err != nil {
				continue
			}
			if str == "" {
				continue
			}
			coerceStringToField(fv, str)
			continue
		}

		// Numeric value into a bool field (win encoded as 0/1)
		if fv.Kind() == reflect.Bool {
			if n, err := strconv.ParseFloat(string(rawVal), 64); err == nil {
				fv.SetBool(n != 0)
			}
		}
	}

	return nil
}

// coerceStringToField converts a string value to the field's native type.
func coerceStringToField(fv reflect.Value, s string) {
	switch fv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetFloat(n)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// ParseFloat handles "28.5" → truncate to int
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetInt(int64(n))
		}
	case reflect.Bool:
		if b, err := strconv.ParseBool(s); err == nil {
			fv.SetBool(b)
		} else if n, err := strconv.ParseFloat(s, 64); err == nil {
			fv.SetBool(n != 0)
		}
	case reflect.String:
		fv.SetString(s)
	}
}
