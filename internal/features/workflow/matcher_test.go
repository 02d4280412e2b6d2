package workflow

import "testing"

func ticketFacts(fields map[string]interface{}) Facts {
	return Facts{"ticket": fields}
}

func TestCompareOperators(t *testing.T) {
	tests := []struct {
		name    string
		op      Operator
		fact    interface{}
		values  []interface{}
		want    bool
		wantErr bool
	}{
		{name: "equals match", op: OperatorEquals, fact: "high", values: []interface{}{"high"}, want: true},
		{name: "equals mismatch", op: OperatorEquals, fact: "low", values: []interface{}{"high"}, want: false},
		{name: "equals across numeric types", op: OperatorEquals, fact: 5, values: []interface{}{"5"}, want: true},
		{name: "not equals", op: OperatorNotEquals, fact: "low", values: []interface{}{"high"}, want: true},
		{name: "contains", op: OperatorContains, fact: "urgent billing issue", values: []interface{}{"billing"}, want: true},
		{name: "gt true", op: OperatorGreaterThan, fact: 10, values: []interface{}{5}, want: true},
		{name: "gt false on equal", op: OperatorGreaterThan, fact: 5, values: []interface{}{5}, want: false},
		{name: "gte on equal", op: OperatorGTE, fact: 5, values: []interface{}{5}, want: true},
		{name: "lt with string numbers", op: OperatorLessThan, fact: "3", values: []interface{}{"4"}, want: true},
		{name: "lte false", op: OperatorLTE, fact: 10, values: []interface{}{9}, want: false},
		{name: "gt non-numeric fact", op: OperatorGreaterThan, fact: "abc", values: []interface{}{5}, wantErr: true},
		{name: "between inside", op: OperatorBetween, fact: 5, values: []interface{}{1, 10}, want: true},
		{name: "between lower boundary", op: OperatorBetween, fact: 1, values: []interface{}{1, 10}, want: true},
		{name: "between upper boundary", op: OperatorBetween, fact: 10, values: []interface{}{1, 10}, want: true},
		{name: "between outside", op: OperatorBetween, fact: 11, values: []interface{}{1, 10}, want: false},
		{name: "between missing max", op: OperatorBetween, fact: 5, values: []interface{}{1}, wantErr: true},
		{name: "in match", op: OperatorIn, fact: "open", values: []interface{}{"new", "open"}, want: true},
		{name: "in miss", op: OperatorIn, fact: "closed", values: []interface{}{"new", "open"}, want: false},
		{name: "not in", op: OperatorNotIn, fact: "closed", values: []interface{}{"new", "open"}, want: true},
		{name: "starts with", op: OperatorStartsWith, fact: "REF-1234", values: []interface{}{"REF-"}, want: true},
		{name: "starts with camel alias", op: Operator("startsWith"), fact: "REF-1234", values: []interface{}{"REF-"}, want: true},
		{name: "ends with", op: OperatorEndsWith, fact: "report.xlsx", values: []interface{}{".xlsx"}, want: true},
		{name: "ends with camel alias", op: Operator("endsWith"), fact: "report.xlsx", values: []interface{}{".csv"}, want: false},
		{name: "unknown operator", op: Operator("regex"), fact: "x", values: []interface{}{"y"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compare(tt.op, tt.fact, tt.values)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("compare(%s) error = nil, want error", tt.op)
				}
				return
			}
			if err != nil {
				t.Fatalf("compare(%s) unexpected error: %v", tt.op, err)
			}
			if got != tt.want {
				t.Errorf("compare(%s, %v, %v) = %v, want %v", tt.op, tt.fact, tt.values, got, tt.want)
			}
		})
	}
}

func TestEvaluateWorkflowMatchAll(t *testing.T) {
	wf := &Workflow{
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"high"}},
				{Resource: "ticket", Field: "status", Operator: OperatorEquals, Value: []interface{}{"open"}},
			},
		}},
	}

	facts := ticketFacts(map[string]interface{}{"priority": "high", "status": "open"})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || !ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want true, nil", ok, err)
	}

	facts = ticketFacts(map[string]interface{}{"priority": "high", "status": "closed"})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want false, nil", ok, err)
	}
}

func TestEvaluateWorkflowMatchAny(t *testing.T) {
	wf := &Workflow{
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAny,
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"urgent"}},
				{Resource: "ticket", Field: "channel", Operator: OperatorEquals, Value: []interface{}{"phone"}},
			},
		}},
	}

	facts := ticketFacts(map[string]interface{}{"priority": "low", "channel": "phone"})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || !ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want true, nil", ok, err)
	}

	facts = ticketFacts(map[string]interface{}{"priority": "low", "channel": "email"})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want false, nil", ok, err)
	}
}

func TestEvaluateWorkflowAllRuleGroupsMustPass(t *testing.T) {
	wf := &Workflow{
		Rules: []WorkflowRule{
			{
				ID:        "r1",
				MatchType: MatchAll,
				Properties: []RuleProperty{
					{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"high"}},
				},
			},
			{
				ID:        "r2",
				MatchType: MatchAll,
				Properties: []RuleProperty{
					{Resource: "customer", Field: "plan", Operator: OperatorEquals, Value: []interface{}{"enterprise"}},
				},
			},
		},
	}

	facts := Facts{
		"ticket":   {"priority": "high"},
		"customer": {"plan": "free"},
	}
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want false, nil", ok, err)
	}

	facts["customer"]["plan"] = "enterprise"
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || !ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want true, nil", ok, err)
	}
}

func TestEvaluateWorkflowMissingFactFieldIsNoMatch(t *testing.T) {
	wf := &Workflow{
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "nonexistent", Operator: OperatorEquals, Value: []interface{}{"x"}},
			},
		}},
	}

	ok, err := EvaluateWorkflow(wf, ticketFacts(map[string]interface{}{"priority": "high"}))
	if err != nil {
		t.Fatalf("missing field should not error, got %v", err)
	}
	if ok {
		t.Error("missing field should fail the condition")
	}
}

func TestEvaluateWorkflowCustomFieldResource(t *testing.T) {
	const fieldDefID = "3f2c29a2-8f64-4f0e-9c36-70b8a3e4d911"
	wf := &Workflow{
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: fieldDefID, Field: "region", Operator: OperatorEquals, Value: []interface{}{"emea"}},
			},
		}},
	}

	facts := ticketFacts(map[string]interface{}{
		"custom_fields": map[string]interface{}{"region": "emea"},
	})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || !ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want true, nil", ok, err)
	}

	// camelCase storage also resolves
	facts = ticketFacts(map[string]interface{}{
		"customFields": map[string]interface{}{"region": "emea"},
	})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || !ok {
		t.Fatalf("EvaluateWorkflow with camelCase = %v, %v; want true, nil", ok, err)
	}

	// absent custom field fails without error
	facts = ticketFacts(map[string]interface{}{})
	if ok, err := EvaluateWorkflow(wf, facts); err != nil || ok {
		t.Fatalf("EvaluateWorkflow = %v, %v; want false, nil", ok, err)
	}
}

func TestEvaluateWorkflowMalformedRules(t *testing.T) {
	tests := []struct {
		name string
		rule WorkflowRule
	}{
		{
			name: "empty properties",
			rule: WorkflowRule{ID: "r1", MatchType: MatchAll},
		},
		{
			name: "unknown match type",
			rule: WorkflowRule{
				ID:        "r1",
				MatchType: MatchType("most"),
				Properties: []RuleProperty{
					{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"high"}},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := &Workflow{Rules: []WorkflowRule{tt.rule}}
			if _, err := EvaluateWorkflow(wf, ticketFacts(map[string]interface{}{"priority": "high"})); err == nil {
				t.Fatal("want error for malformed rule")
			}
		})
	}
}
