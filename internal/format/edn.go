package format

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes v as EDN. Map keys become keywords when they are valid
// keyword names and strings otherwise; numbers that are whole print as ints.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	e := &ednWriter{pretty: pretty}
	e.value(x, 0)
	e.b.WriteByte('\n')
	_, err = io.WriteString(w, e.b.String())
	return err
}

type ednWriter struct {
	b      strings.Builder
	pretty bool
}

func (e *ednWriter) value(v any, depth int) {
	switch t := v.(type) {
	case nil:
		e.b.WriteString("nil")
	case bool:
		e.b.WriteString(strconv.FormatBool(t))
	case string:
		e.b.WriteString(strconv.Quote(t))
	case float64:
		if t == float64(int64(t)) {
			e.b.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			e.b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		e.seq('[', ']', len(t), depth, func(i int) { e.value(t[i], depth+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), depth, func(i int) {
			e.key(keys[i])
			e.b.WriteByte(' ')
			e.value(t[keys[i]], depth+1)
		})
	default:
		e.b.WriteString(strconv.Quote(fmt.Sprint(t)))
	}
}

func (e *ednWriter) seq(open, close byte, n, depth int, item func(int)) {
	e.b.WriteByte(open)
	if n == 0 {
		e.b.WriteByte(close)
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case e.pretty:
			e.b.WriteByte('\n')
			e.b.WriteString(strings.Repeat("  ", depth+1))
		case i > 0:
			e.b.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty {
		e.b.WriteByte('\n')
		e.b.WriteString(strings.Repeat("  ", depth))
	}
	e.b.WriteByte(close)
}

func (e *ednWriter) key(k string) {
	if kw, ok := ednKeyword(k); ok {
		e.b.WriteByte(':')
		e.b.WriteString(kw)
		return
	}
	e.b.WriteString(strconv.Quote(k))
}

func ednKeyword(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "-")
	if s == "" || strings.ContainsAny(s[:1], "0123456789:") {
		return "", false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune("-_.*+!?<>=/", r):
		default:
			return "", false
		}
	}
	return s, true
}
