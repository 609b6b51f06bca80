package verifier

import (
	"net/url"
	"sort"
	"strings"
)

const (
	hashKey     = "hash"
	authDateKey = "auth_date"
	userKey     = "user"
)

// parseFields splits the raw payload on '&' and every pair on its first '='.
// Keys and values are percent-decoded after splitting, so decoded values may
// contain '=' or '&'. Pairs without '=' or with undecodable parts are dropped.
// A repeated key keeps its last value.
func parseFields(payload string) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(payload, "&") {
		rawKey, rawValue, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		key, err := url.QueryUnescape(rawKey)
		if err != nil || key == "" {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}

		fields[key] = value
	}
	return fields
}

// CheckString builds the data-check-string: key=value lines sorted by key.
// Callers must remove the hash field beforehand.
func CheckString(fields map[string]string) string {
	keys := sortedKeys(fields)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(fields[k])
	}
	return b.String()
}

func sortedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
