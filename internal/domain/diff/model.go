package diff

// Divergence is one field-level difference between matched steps.
type Divergence struct {
	Step     int    `json:"step"`
	Activity string `json:"activity"`
	Field    string `json:"field"`
	ValueA   any    `json:"value_a"`
	ValueB   any    `json:"value_b"`
	Note     string `json:"note"`
}

// StructuralDifferences summarizes which activities ran and in what order.
type StructuralDifferences struct {
	ActivitiesOnlyInA       []string `json:"activities_only_in_a"`
	ActivitiesOnlyInB       []string `json:"activities_only_in_b"`
	DifferentExecutionOrder bool     `json:"different_execution_order"`
}

// SignalDifferences lists signal names received by only one execution.
type SignalDifferences struct {
	SignalsOnlyInA []string `json:"signals_only_in_a"`
	SignalsOnlyInB []string `json:"signals_only_in_b"`
}

// Report is the divergence report between two histories.
type Report struct {
	Divergences           []Divergence          `json:"divergences"`
	StructuralDifferences StructuralDifferences `json:"structural_differences"`
	Signals               SignalDifferences     `json:"signals"`
}

// Identical reports whether the report found no difference at all.
func (r Report) Identical() bool {
	return len(r.Divergences) == 0 &&
		len(r.StructuralDifferences.ActivitiesOnlyInA) == 0 &&
		len(r.StructuralDifferences.ActivitiesOnlyInB) == 0 &&
		!r.StructuralDifferences.DifferentExecutionOrder &&
		len(r.Signals.SignalsOnlyInA) == 0 &&
		len(r.Signals.SignalsOnlyInB) == 0
}

// ExecutionRef identifies one side of a comparison.
type ExecutionRef struct {
	WorkflowID   string `json:"workflow_id"`
	Status       string `json:"status"`
	WorkflowType string `json:"workflow_type"`
}

// Comparison is a Report together with the identity of both executions.
type Comparison struct {
	ExecutionA       ExecutionRef `json:"execution_a"`
	ExecutionB       ExecutionRef `json:"execution_b"`
	SameWorkflowType bool         `json:"same_workflow_type"`
	Report
}
