// SPDX-License-Identifier: GPL-3.0-or-later

package rowsvc

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/netdata/netdata/go/datagrid/pkg/gridapi"
)

// Lookuper is implemented by data that resolves its own keys.
type Lookuper interface {
	Lookup(key string) (any, bool)
}

// Lookup resolves a key path against datum, one key at a time.
// Raw JSON documents resolve the remaining path in a single gjson query.
func Lookup(datum any, key gridapi.Key) (any, bool) {
	cur := datum
	for i, k := range key {
		switch v := cur.(type) {
		case json.RawMessage:
			return lookupJSON(gjson.ParseBytes(v), key[i:])
		case []byte:
			return lookupJSON(gjson.ParseBytes(v), key[i:])
		case gjson.Result:
			return lookupJSON(v, key[i:])
		}

		next, ok := lookupOne(cur, k)
		if !ok {
			return nil, false
		}
		cur = next
	}

	if res, ok := cur.(gjson.Result); ok {
		return res.Value(), true
	}
	return cur, true
}

func lookupOne(cur any, key string) (any, bool) {
	switch v := cur.(type) {
	case nil:
		return nil, false
	case Lookuper:
		return v.Lookup(key)
	case map[string]any:
		val, ok := v[key]
		return val, ok
	case map[string]string:
		val, ok := v[key]
		return val, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(v) {
			return nil, false
		}
		return v[i], true
	}
	return lookupReflect(reflect.ValueOf(cur), key)
}

func lookupReflect(rv reflect.Value, key string) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		return lookupField(rv, key)
	}
	return nil, false
}

func lookupField(rv reflect.Value, key string) (any, bool) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			n, _, _ := strings.Cut(tag, ",")
			if n == "-" {
				continue
			}
			if n != "" {
				name = n
			}
		}
		if name == key || f.Name == key {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}

func lookupJSON(doc gjson.Result, key gridapi.Key) (any, bool) {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = escapePathKey(k)
	}
	res := doc.Get(strings.Join(parts, "."))
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

const gjsonPathChars = `.*?|#@\!=<>%"`

// escapePathKey makes a key literal inside a gjson path.
func escapePathKey(k string) string {
	if !strings.ContainsAny(k, gjsonPathChars) {
		return k
	}
	var sb strings.Builder
	for _, r := range k {
		if strings.ContainsRune(gjsonPathChars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
