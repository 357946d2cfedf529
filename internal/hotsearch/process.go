package hotsearch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/keycool/hotsearch/internal/model"
)

// fetchTimeLayout matches an ISO-8601 local timestamp with microseconds.
const fetchTimeLayout = "2006-01-02T15:04:05.000000"

// Field names differ per endpoint; the first non-empty candidate wins.
var (
	titleFields       = []string{"word", "title", "hotword"}
	hotValueFields    = []string{"hotnum", "hot", "hotwordnum", "num"}
	descriptionFields = []string{"desc", "description", "hottag"}
)

const (
	defaultTitle    = "未知话题"
	defaultHotValue = "N/A"
)

// Process turns a valid envelope into the topics artifact. The result may be
// a bare list or an object holding the list under "list". Ranks follow the
// upstream order.
func Process(source string, resp *Response, now time.Time) (*model.TopicsFile, error) {
	items, err := resultItems(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", source, err)
	}

	topics := make([]model.RawTopic, 0, len(items))
	for _, item := range items {
		topics = append(topics, model.RawTopic{
			Rank:        len(topics) + 1,
			Title:       text(pick(item, titleFields), defaultTitle),
			HotValue:    hotValue(pick(item, hotValueFields)),
			URL:         text(pick(item, []string{"url"}), ""),
			Description: plainText(text(pick(item, descriptionFields), "")),
		})
	}

	return &model.TopicsFile{
		FetchTime:  now.Format(fetchTimeLayout),
		Source:     source,
		APICode:    resp.Code,
		APIMessage: resp.Msg,
		Topics:     topics,
		TotalCount: len(topics),
		Timestamp:  now.Format(model.TimestampLayout),
	}, nil
}

func resultItems(raw json.RawMessage) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var result any
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	var list []any
	switch v := result.(type) {
	case []any:
		list = v
	case map[string]any:
		inner, ok := v["list"].([]any)
		if !ok && v["list"] != nil {
			return nil, fmt.Errorf("result.list is %T, not a list", v["list"])
		}
		list = inner
	default:
		return nil, fmt.Errorf("result is %T, not a list", result)
	}

	items := make([]map[string]any, 0, len(list))
	for _, entry := range list {
		if obj, ok := entry.(map[string]any); ok {
			items = append(items, obj)
		}
	}
	return items, nil
}

// pick returns the first present, non-null, non-empty value among keys.
func pick(item map[string]any, keys []string) any {
	for _, key := range keys {
		v, ok := item[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func text(v any, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}

func hotValue(v any) any {
	if v == nil {
		return defaultHotValue
	}
	return v
}

// plainText reduces an HTML fragment to its text content.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" || string(name) == "p" {
				b.WriteByte(' ')
			}
		}
	}
}
