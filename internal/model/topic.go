package model

// TimestampLayout is the fixed timestamp format used in artifact filenames
// (YYYYMMDD_HHMMSS). Lexicographic order of such names is chronological.
const TimestampLayout = "20060102_150405"

// DisplayTimeLayout is how timestamps are shown in reports.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// RawTopic is one entry of an upstream hot-search list.
type RawTopic struct {
	Rank        int    `json:"rank"`        // 1-based, assigned by ingestion order
	Title       string `json:"title"`       // Never empty
	HotValue    any    `json:"hot_value"`   // Text or number, platform-specific unit
	URL         string `json:"url"`         // May be empty
	Description string `json:"description"` // May be empty
}

// TopicsFile is the artifact written by a fetch run and read by the analyzer.
type TopicsFile struct {
	FetchTime  string     `json:"fetch_time"` // ISO-8601
	Source     string     `json:"source"`
	APICode    *int       `json:"api_code"`
	APIMessage *string    `json:"api_message"`
	Topics     []RawTopic `json:"topics"`
	TotalCount int        `json:"total_count"`
	Timestamp  string     `json:"timestamp"`
}

// Head returns at most n topics from the start of the list.
func (f *TopicsFile) Head(n int) []RawTopic {
	if n < 0 || n >= len(f.Topics) {
		return f.Topics
	}
	return f.Topics[:n]
}
