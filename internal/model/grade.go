package model

// Grade is the coarse rating derived from a topic's total score.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeAverage   Grade = "average"
)

// Label returns the label shown in reports and asked of the model.
func (g Grade) Label() string {
	switch g {
	case GradeExcellent:
		return "优秀"
	case GradeGood:
		return "良好"
	default:
		return "普通"
	}
}

// GradeThresholds are the minimum total scores for the upper grades.
type GradeThresholds struct {
	Excellent int `mapstructure:"excellent" yaml:"excellent"`
	Good      int `mapstructure:"good" yaml:"good"`
}

// For grades a total score.
func (t GradeThresholds) For(score int) Grade {
	switch {
	case score >= t.Excellent:
		return GradeExcellent
	case score >= t.Good:
		return GradeGood
	default:
		return GradeAverage
	}
}
