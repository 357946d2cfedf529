package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/keycool/hotsearch/internal/model"
)

// reconcile decodes the model's records and keeps only those that answer a
// topic we asked about: unknown ranks, repeated ranks and records of the
// wrong shape are dropped. Grades are recomputed from the total score so
// they always agree with the configured thresholds.
func reconcile(records []json.RawMessage, input []model.RawTopic, limit int, grades model.GradeThresholds) ([]model.ScoredTopic, []string) {
	titles := make(map[int]string, len(input))
	for _, t := range input {
		titles[t.Rank] = t.Title
	}

	seen := make(map[int]bool, len(records))
	out := make([]model.ScoredTopic, 0, len(records))
	var dropped []string

	for i, raw := range records {
		var topic model.ScoredTopic
		if err := json.Unmarshal(raw, &topic); err != nil {
			dropped = append(dropped, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}

		rank := int(topic.Rank)
		title, known := titles[rank]
		switch {
		case !known:
			dropped = append(dropped, fmt.Sprintf("record %d: rank %d was not requested", i+1, rank))
			continue
		case seen[rank]:
			dropped = append(dropped, fmt.Sprintf("record %d: duplicate rank %d", i+1, rank))
			continue
		}
		seen[rank] = true

		if topic.Title == "" {
			topic.Title = title
		}
		topic.Grade = grades.For(int(topic.TotalScore)).Label()
		out = append(out, topic)
	}

	if limit > 0 && len(out) > limit {
		for _, t := range out[limit:] {
			dropped = append(dropped, fmt.Sprintf("rank %d: over the topic limit of %d", int(t.Rank), limit))
		}
		out = out[:limit]
	}
	return out, dropped
}
