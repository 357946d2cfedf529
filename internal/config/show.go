package config

import (
	"fmt"
	"os"
	"time"
)

// Origin reports which layer supplied the value of key: "flag", "env:NAME",
// "file" or "default".
func (r *Resolved) Origin(key string) string {
	if _, ok := r.overrides[key]; ok {
		return "flag"
	}
	if o, ok := Lookup(key); ok {
		for _, name := range o.Env() {
			if os.Getenv(name) != "" {
				return "env:" + name
			}
		}
	}
	if r.v.InConfig(key) {
		return "file"
	}
	return "default"
}

// Value returns the resolved value of key formatted for display.
func (r *Resolved) Value(key string) string {
	raw := r.v.Get(key)
	if o, ok := Lookup(key); ok && o.Secret {
		return mask(fmt.Sprint(raw))
	}
	if d, ok := raw.(time.Duration); ok {
		return d.String()
	}
	return fmt.Sprint(raw)
}

// Rows renders every option as KEY, VALUE, SOURCE, DESCRIPTION.
func (r *Resolved) Rows() [][]string {
	rows := make([][]string, 0, len(Options))
	for _, o := range Options {
		rows = append(rows, []string{o.Key, r.Value(o.Key), r.Origin(o.Key), o.Description})
	}
	return rows
}

func mask(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) <= 8:
		return "****"
	default:
		return s[:4] + "****" + s[len(s)-2:]
	}
}
