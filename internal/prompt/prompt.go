// Package prompt builds the scoring instruction sent to the completion
// endpoint.
package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/keycool/hotsearch/internal/model"
)

// Request is everything the prompt depends on.
type Request struct {
	Source model.Source
	Topics []model.RawTopic
	Rubric model.Rubric
	Grades model.GradeThresholds
}

// Build renders the prompt. The output is a pure function of req.
func Build(req Request) (string, error) {
	if len(req.Topics) == 0 {
		return "", errors.New("no topics to analyze")
	}

	topicsJSON, err := encodeTopics(req.Topics)
	if err != nil {
		return "", fmt.Errorf("encode topics: %w", err)
	}

	r := req.Rubric
	return fmt.Sprintf(`你是一个专业的产品创意分析师。请分析以下%s热搜话题。

## 评分标准（总分%d分）

**有趣度（%d分）**：
- 新颖性（%d分）：话题的独特性和意外性
- 情感共鸣（%d分）：公众参与度和情感投入
- 传播潜力（%d分）：话题的可分享性
- 娱乐价值（%d分）：趣味性和吸引力

**有用度（%d分）**：
- 实用价值（%d分）：是否解决实际问题
- 市场潜力（%d分）：商业化和变现机会

## 话题数据
%s

## 输出要求
为每个话题生成 JSON 格式的分析结果，包含：
- rank: 排名（数字）
- title: 话题标题（字符串）
- scores: 各维度评分对象，包含 novelty, resonance, viral, entertainment, practical, market
- total_score: 总分（数字）
- grade: 等级，"%s"(>=%d分)/"%s"(>=%d分)/"%s"(<%d分)
- product_idea: 产品创意对象，包含：
  - name: 产品名称
  - features: 核心功能（字符串描述）
  - target_users: 目标用户（字符串描述）
  - value_proposition: 价值主张（字符串描述）

请只返回 JSON 数组，不要添加任何其他文字说明或 markdown 标记。`,
		req.Source.Name,
		r.Interesting()+r.Useful(),
		r.Interesting(), r.Novelty, r.Resonance, r.Viral, r.Entertainment,
		r.Useful(), r.Practical, r.Market,
		topicsJSON,
		model.GradeExcellent.Label(), req.Grades.Excellent,
		model.GradeGood.Label(), req.Grades.Good,
		model.GradeAverage.Label(), req.Grades.Good,
	), nil
}

// encodeTopics renders topics as indented JSON without escaping CJK or HTML
// characters.
func encodeTopics(topics []model.RawTopic) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(topics); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
