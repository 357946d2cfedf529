package model

import "strings"

// Source is a platform whose hot-search list can be analyzed.
type Source struct {
	ID   string
	Name string
	Icon string
}

// Sources lists the supported platforms in display order.
var Sources = []Source{
	{ID: "weibo", Name: "微博", Icon: "🔥"},
	{ID: "douyin", Name: "抖音", Icon: "🎵"},
	{ID: "wechat", Name: "微信", Icon: "💬"},
}

// LookupSource finds a source by ID (case-insensitive).
func LookupSource(id string) (Source, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range Sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// SourceIDs returns the IDs of all supported sources.
func SourceIDs() []string {
	ids := make([]string, len(Sources))
	for i, s := range Sources {
		ids[i] = s.ID
	}
	return ids
}
