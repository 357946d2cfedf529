package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScoredTopic is one analyzed topic as returned by the completion endpoint.
type ScoredTopic struct {
	Rank        LooseInt    `json:"rank"`
	Title       string      `json:"title"`
	Scores      Scores      `json:"scores"`
	TotalScore  LooseInt    `json:"total_score"`
	Grade       string      `json:"grade"`
	ProductIdea ProductIdea `json:"product_idea"`
}

// Scores holds the six rubric dimensions. The first four are "interesting"
// dimensions capped at 20, the last two "useful" dimensions capped at 10.
type Scores struct {
	Novelty       LooseInt `json:"novelty"`
	Resonance     LooseInt `json:"resonance"`
	Viral         LooseInt `json:"viral"`
	Entertainment LooseInt `json:"entertainment"`
	Practical     LooseInt `json:"practical"`
	Market        LooseInt `json:"market"`
}

// Sum adds up all six dimensions. It is not required to match TotalScore.
func (s Scores) Sum() int {
	return int(s.Novelty + s.Resonance + s.Viral + s.Entertainment + s.Practical + s.Market)
}

// ProductIdea is the product concept generated for a topic.
type ProductIdea struct {
	Name             LooseText `json:"name"`
	Features         LooseText `json:"features"`
	TargetUsers      LooseText `json:"target_users"`
	ValueProposition LooseText `json:"value_proposition"`
}

// LooseInt decodes JSON integers, floats (rounded) and numeric strings such
// as "85" or "85分".
type LooseInt int

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSuffix(strings.TrimSpace(unquoted), "分")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*n = LooseInt(math.Round(f))
	return nil
}

// LooseText decodes a JSON string, or a list of strings joined with "、".
type LooseText string

func (t *LooseText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = LooseText(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = LooseText(strings.Join(list, "、"))
		return nil
	}
	if string(data) == "null" {
		return nil
	}
	*t = LooseText(strings.TrimSpace(string(data)))
	return nil
}
