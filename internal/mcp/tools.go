package mcp

// ToolDefinition describes one tool exposed to clients.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func enumProp(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func limitProp(description string, fallback int) map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": description,
		"minimum":     1,
		"maximum":     50,
		"default":     fallback,
	}
}

var namespaceProp = stringProp("Temporal namespace to query (defaults to the configured namespace)")

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "list_workflows",
			Description: "List and search Temporal workflow executions. Filter by workflow type, ID, status, time range, or raw visibility query. Use this to find specific executions for investigation.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"namespace":       namespaceProp,
					"workflow_type":   stringProp("Filter by workflow type name"),
					"workflow_id":     stringProp("Filter by exact workflow ID"),
					"status":          enumProp("Filter by execution status", "running", "completed", "failed", "timed_out", "cancelled", "terminated", "all"),
					"query":           stringProp("Raw Temporal visibility query for advanced filtering; overrides the other filters"),
					"start_time_from": stringProp("Only executions started after this ISO time"),
					"start_time_to":   stringProp("Only executions started before this ISO time"),
					"limit":           limitProp("Number of results (max 50)", 10),
				},
			},
		},
		{
			Name:        "get_workflow_history",
			Description: "Get the execution history of a Temporal workflow. Returns a timeline of activities with their inputs, outputs, durations, and any failures. Use detail_level 'summary' for overview, 'standard' for full payloads, 'full' for raw events.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"workflow_id":  stringProp("Workflow execution ID"),
					"namespace":    namespaceProp,
					"run_id":       stringProp("Run ID (defaults to latest run)"),
					"detail_level": enumProp("Level of detail", "summary", "standard", "full"),
					"event_types": map[string]any{
						"type":        "array",
						"description": "Filter to specific event types, e.g. ActivityTaskFailed",
						"items":       map[string]any{"type": "string"},
					},
				},
				"required": []string{"workflow_id"},
			},
		},
		{
			Name:        "get_workflow_stack_trace",
			Description: "Get the current stack trace and pending activities of a running Temporal workflow. Shows where the workflow is blocked and what it's waiting for.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"workflow_id": stringProp("Workflow execution ID"),
					"namespace":   namespaceProp,
					"run_id":      stringProp("Run ID (defaults to latest run)"),
				},
				"required": []string{"workflow_id"},
			},
		},
		{
			Name:        "compare_executions",
			Description: "Compare two Temporal workflow executions to find where they diverge. Identifies data differences in activity inputs/outputs, structural differences (different activities executed), and signal differences. Ideal for investigating why one execution succeeded and another failed.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"workflow_id_a": stringProp(`Workflow ID of the "good" execution`),
					"workflow_id_b": stringProp(`Workflow ID of the "bad" execution`),
					"namespace":     namespaceProp,
					"run_id_a":      stringProp("Run ID for execution A"),
					"run_id_b":      stringProp("Run ID for execution B"),
				},
				"required": []string{"workflow_id_a", "workflow_id_b"},
			},
		},
		{
			Name:        "describe_task_queue",
			Description: "Describe a Temporal task queue to check worker health. Shows active pollers, their versions, last access times, and processing rates. Useful for diagnosing infrastructure issues and version mismatches.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_queue":      stringProp("Task queue name"),
					"namespace":       namespaceProp,
					"task_queue_type": enumProp("Type of task queue", "workflow", "activity"),
				},
				"required": []string{"task_queue"},
			},
		},
		{
			Name:        "search_workflow_data",
			Description: "Search and aggregate Temporal workflow data using visibility queries. Count affected workflows, list them, or get a sample. Useful for detecting widespread silent failures.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"workflow_type": stringProp("Workflow type to search"),
					"query":         stringProp("Temporal visibility query"),
					"namespace":     namespaceProp,
					"aggregate":     enumProp("Aggregation mode", "count", "list", "sample"),
					"limit":         limitProp("Max results", 20),
				},
				"required": []string{"workflow_type", "query"},
			},
		},
		{
			Name:        "temporal_connection",
			Description: "Check or change the Temporal server connection. Use action 'status' to see current connection info, or 'connect' to switch to a different server or namespace.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"action":        enumProp("'status' to check the current connection, 'connect' to establish a new one", "status", "connect"),
					"address":       stringProp("Temporal server address (e.g., localhost:7233)"),
					"namespace":     stringProp("Default namespace for this connection"),
					"api_key":       stringProp("API key for Temporal Cloud authentication"),
					"tls_cert_path": stringProp("Path to TLS client certificate"),
					"tls_key_path":  stringProp("Path to TLS client key"),
				},
			},
		},
	}
}
