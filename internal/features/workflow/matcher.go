package workflow

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// EvaluateWorkflow decides whether a workflow fires for the given fact bundle.
// Every rule group must pass under its own match type. Evaluation is pure: no
// I/O, no mutation of facts.
func EvaluateWorkflow(wf *Workflow, facts Facts) (bool, error) {
	for _, rule := range wf.Rules {
		ok, err := evaluateRule(rule, facts)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluateRule(rule WorkflowRule, facts Facts) (bool, error) {
	if len(rule.Properties) == 0 {
		return false, fmt.Errorf("rule %q has no properties", rule.ID)
	}

	switch rule.MatchType {
	case MatchAll:
		for _, prop := range rule.Properties {
			ok, err := evaluateProperty(prop, facts)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	case MatchAny:
		var lastErr error
		for _, prop := range rule.Properties {
			ok, err := evaluateProperty(prop, facts)
			if err != nil {
				lastErr = err
				continue
			}
			if ok {
				return true, nil
			}
		}
		return false, lastErr

	default:
		return false, fmt.Errorf("unknown match type %q on rule %q", rule.MatchType, rule.ID)
	}
}

func evaluateProperty(prop RuleProperty, facts Facts) (bool, error) {
	factValue, exists := resolveFactValue(prop, facts)
	if !exists {
		// Absent fact fields fail the condition rather than erroring, so a
		// workflow written against optional fields degrades to "no match".
		return false, nil
	}
	return compare(prop.Operator, factValue, prop.Value)
}

// resolveFactValue looks the property up in the fact bundle. A resource that
// parses as a UUID is a custom-field reference resolved against the ticket's
// custom field map instead of a built-in fact.
func resolveFactValue(prop RuleProperty, facts Facts) (interface{}, bool) {
	if _, err := uuid.Parse(prop.Resource); err == nil {
		ticket, ok := facts["ticket"]
		if !ok {
			return nil, false
		}
		custom, ok := ticket["custom_fields"].(map[string]interface{})
		if !ok {
			if custom, ok = ticket["customFields"].(map[string]interface{}); !ok {
				return nil, false
			}
		}
		v, ok := custom[prop.Field]
		return v, ok
	}

	resource, ok := facts[prop.Resource]
	if !ok {
		return nil, false
	}
	v, ok := resource[prop.Field]
	return v, ok
}

// compare applies one operator. Scalar operators use the first element of the
// stored value array; in/not_in/between consume the whole array.
func compare(op Operator, factValue interface{}, values []interface{}) (bool, error) {
	var scalar interface{}
	if len(values) > 0 {
		scalar = values[0]
	}

	switch op {
	case OperatorEquals:
		return stringify(factValue) == stringify(scalar), nil

	case OperatorNotEquals:
		return stringify(factValue) != stringify(scalar), nil

	case OperatorContains:
		return strings.Contains(stringify(factValue), stringify(scalar)), nil

	case OperatorGreaterThan, OperatorLessThan, OperatorGTE, OperatorLTE:
		fv, err := toFloat(factValue)
		if err != nil {
			return false, err
		}
		cv, err := toFloat(scalar)
		if err != nil {
			return false, err
		}
		switch op {
		case OperatorGreaterThan:
			return fv > cv, nil
		case OperatorLessThan:
			return fv < cv, nil
		case OperatorGTE:
			return fv >= cv, nil
		default:
			return fv <= cv, nil
		}

	case OperatorBetween:
		if len(values) < 2 {
			return false, fmt.Errorf("between operator requires [min, max], got %d value(s)", len(values))
		}
		fv, err := toFloat(factValue)
		if err != nil {
			return false, err
		}
		min, err := toFloat(values[0])
		if err != nil {
			return false, err
		}
		max, err := toFloat(values[1])
		if err != nil {
			return false, err
		}
		return fv >= min && fv <= max, nil

	case OperatorIn:
		for _, v := range values {
			if stringify(factValue) == stringify(v) {
				return true, nil
			}
		}
		return false, nil

	case OperatorNotIn:
		for _, v := range values {
			if stringify(factValue) == stringify(v) {
				return false, nil
			}
		}
		return true, nil

	case OperatorStartsWith, "startsWith":
		return strings.HasPrefix(stringify(factValue), stringify(scalar)), nil

	case OperatorEndsWith, "endsWith":
		return strings.HasSuffix(stringify(factValue), stringify(scalar)), nil

	default:
		return false, fmt.Errorf("unknown operator: %s", op)
	}
}

func stringify(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
