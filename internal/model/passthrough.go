package model

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// splitExtras returns every top-level key of obj not listed in known,
// keeping the raw JSON of each value.
func splitExtras(obj []byte, known ...string) map[string]json.RawMessage {
	var extras map[string]json.RawMessage
	gjson.ParseBytes(obj).ForEach(func(key, value gjson.Result) bool {
		for _, k := range known {
			if key.String() == k {
				return true
			}
		}
		if extras == nil {
			extras = make(map[string]json.RawMessage)
		}
		extras[key.String()] = json.RawMessage(value.Raw)
		return true
	})
	return extras
}

// mergeExtras writes extras into the encoded object base. Keys already
// present in base win.
func mergeExtras(base []byte, extras map[string]json.RawMessage) ([]byte, error) {
	out := base
	for key, raw := range extras {
		path := escapePath(key)
		if gjson.GetBytes(out, path).Exists() {
			continue
		}
		var err error
		out, err = sjson.SetRawBytes(out, path, raw)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, `.`, `\.`, `*`, `\*`, `?`, `\?`, `|`, `\|`, `#`, `\#`, `@`, `\@`)

func escapePath(key string) string {
	return pathEscaper.Replace(key)
}
