package benchmark

import (
	"fmt"
	"strings"
)

// rubricCheck is one weighted entry in a task type's checklist. A satisfied
// check contributes weight*maxScore to the item's score.
type rubricCheck struct {
	name      string
	weight    float64
	satisfied func(result map[string]any) bool
}

// truthy reports whether a checklist value counts as satisfied: a true
// boolean, a non-empty string, a non-zero number, or a non-empty
// collection. Subjects report flags in whatever shape is natural, so a
// string strategy name or a 1 counts the same as true.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case float32:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case map[string]float64:
		return len(t) > 0
	default:
		return false
	}
}

// flagSet reports whether the result carries key as a truthy value.
func flagSet(key string) func(map[string]any) bool {
	return func(result map[string]any) bool {
		return truthy(result[key])
	}
}

// collectionNonEmpty reports whether the result carries key as a non-empty
// list or map. Dataset decoding produces []any and map[string]any, but
// programmatic subjects may hand back typed values, so lengths of the
// common shapes are checked.
func collectionNonEmpty(key string) func(map[string]any) bool {
	return func(result map[string]any) bool {
		switch v := result[key].(type) {
		case []any:
			return len(v) > 0
		case []string:
			return len(v) > 0
		case map[string]any:
			return len(v) > 0
		case map[string]float64:
			return len(v) > 0
		default:
			return false
		}
	}
}

// rubrics maps a task type to its weighted checklist. Adding a task type
// means adding an entry here; the scoring dispatch does not change.
var rubrics = map[string][]rubricCheck{
	"data_preprocessing": {
		{"data_cleaned", 0.3, flagSet("data_cleaned")},
		{"missing_values_handled", 0.2, flagSet("missing_values_handled")},
		{"outliers_handled", 0.2, flagSet("outliers_handled")},
		{"data_validated", 0.3, flagSet("data_validated")},
	},
	"feature_engineering": {
		{"new_features", 0.4, collectionNonEmpty("new_features")},
		{"feature_selection_performed", 0.3, flagSet("feature_selection_performed")},
		{"feature_scaling_applied", 0.3, flagSet("feature_scaling_applied")},
	},
	"model_training": {
		{"model_trained", 0.4, flagSet("model_trained")},
		{"hyperparameter_tuning", 0.3, flagSet("hyperparameter_tuning")},
		{"cross_validation_used", 0.3, flagSet("cross_validation_used")},
	},
	"model_evaluation": {
		{"metrics", 0.5, collectionNonEmpty("metrics")},
		{"performance_analysis", 0.3, flagSet("performance_analysis")},
		{"business_impact_considered", 0.2, flagSet("business_impact_considered")},
	},
	"deployment": {
		{"deployment_strategy", 0.4, flagSet("deployment_strategy")},
		{"monitoring_setup", 0.3, flagSet("monitoring_setup")},
		{"rollback_plan", 0.3, flagSet("rollback_plan")},
	},
}

// scoreRubric scores a task result against the rubric for its type. Task
// types without a registered rubric fall back to the generic checklist:
// a completed flag earns 0.8 of max, partial_completion earns 0.5, and
// anything else earns 0. A missing result scores 0 regardless of type.
// The returned score never exceeds maxScore.
func scoreRubric(taskType string, maxScore float64, taskResult map[string]any) float64 {
	if taskResult == nil {
		return 0
	}

	checks, ok := rubrics[taskType]
	if !ok {
		return scoreGeneric(maxScore, taskResult)
	}

	score := 0.0
	for _, check := range checks {
		if check.satisfied(taskResult) {
			score += check.weight * maxScore
		}
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

func scoreGeneric(maxScore float64, taskResult map[string]any) float64 {
	if truthy(taskResult["completed"]) {
		return maxScore * 0.8
	}
	if truthy(taskResult["partial_completion"]) {
		return maxScore * 0.5
	}
	return 0
}

// evaluationNotes summarizes error, warning, and recommendation entries a
// subject attached to its task result.
func evaluationNotes(taskResult map[string]any) string {
	if taskResult == nil {
		return ""
	}

	var notes []string
	if v, ok := taskResult["error"]; ok && v != nil {
		notes = append(notes, fmt.Sprintf("Error: %v", v))
	}
	if v, ok := taskResult["warnings"]; ok && v != nil {
		notes = append(notes, fmt.Sprintf("Warnings: %v", v))
	}
	if v, ok := taskResult["recommendations"]; ok && v != nil {
		notes = append(notes, fmt.Sprintf("Recommendations: %v", v))
	}

	if len(notes) == 0 {
		return "No specific notes"
	}
	return strings.Join(notes, "; ")
}
