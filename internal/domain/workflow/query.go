package workflow

import "strings"

var statusNames = map[string]string{
	"running":    "Running",
	"completed":  "Completed",
	"failed":     "Failed",
	"timed_out":  "TimedOut",
	"cancelled":  "Canceled",
	"terminated": "Terminated",
}

// BuildListQuery builds a visibility query from list filters.
func BuildListQuery(req ListRequest) string {
	if req.Query != "" {
		return req.Query
	}

	var clauses []string
	if req.WorkflowType != "" {
		clauses = append(clauses, "WorkflowType = '"+escape(req.WorkflowType)+"'")
	}
	if req.WorkflowID != "" {
		clauses = append(clauses, "WorkflowId = '"+escape(req.WorkflowID)+"'")
	}
	if req.Status != "" && req.Status != "all" {
		status, ok := statusNames[req.Status]
		if !ok {
			status = req.Status
		}
		clauses = append(clauses, "ExecutionStatus = '"+status+"'")
	}
	if req.StartTimeFrom != "" {
		clauses = append(clauses, "StartTime >= '"+req.StartTimeFrom+"'")
	}
	if req.StartTimeTo != "" {
		clauses = append(clauses, "StartTime <= '"+req.StartTimeTo+"'")
	}
	return strings.Join(clauses, " AND ")
}

// BuildSearchQuery scopes query to workflowType unless it already names one.
func BuildSearchQuery(workflowType, query string) string {
	if strings.Contains(query, "WorkflowType") {
		return query
	}
	return "WorkflowType = '" + escape(workflowType) + "' AND " + query
}

func escape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
