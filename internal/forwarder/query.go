package forwarder

import (
	"net/url"
	"strings"
)

// QueryParam is one query parameter in caller order
type QueryParam struct {
	Key   string
	Value string
}

// QueryFromURL parses a raw query string into params in the order they
// appear. Pairs that fail to unescape are skipped.
func QueryFromURL(rawQuery string) []QueryParam {
	var params []QueryParam
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		v, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		params = append(params, QueryParam{Key: k, Value: v})
	}
	return params
}

// BuildURL appends params to target, dropping params whose key or value is
// blank. Parameter order is preserved.
func BuildURL(target string, params []QueryParam) string {
	var b strings.Builder
	b.WriteString(target)

	sep := byte('?')
	if strings.Contains(target, "?") {
		sep = '&'
	}

	for _, p := range params {
		if strings.TrimSpace(p.Key) == "" || strings.TrimSpace(p.Value) == "" {
			continue
		}
		b.WriteByte(sep)
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
		sep = '&'
	}
	return b.String()
}
