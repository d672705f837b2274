package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `temporal-xray inspects Temporal workflow executions. It is read-only: it never signals, cancels or starts workflows.

Core concepts:
- Execution: one run of a workflow, named by workflow_id and optionally run_id (defaults to the latest run).
- Timeline: the activities an execution ran, in scheduling order, each with input, output, duration, attempts and failure.
- Divergence: the first point where two executions of the same workflow disagree on an activity's data.

Investigation loop:
1) Find executions: list_workflows (by type, status, time range) or search_workflow_data (count/sample/list over a visibility query).
2) Read one: get_workflow_history with detail_level "summary" first; escalate to "standard" for full payloads or "full" for raw events.
3) Stuck workflows: get_workflow_stack_trace shows where a running workflow is blocked and its pending activities.
4) Good vs bad: compare_executions with the succeeding run as A and the failing run as B.
5) Infrastructure: describe_task_queue for pollers and worker build ids; temporal_connection to check or switch the server.

Docs:
- xray://docs/index
- xray://docs/payloads
- xray://docs/comparison
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "xray://docs/index",
		Name:        "docs_index",
		Title:       "temporal-xray docs index",
		Description: "Entry point: the tools, what each returns, and when to reach for it.",
		Content: `# temporal-xray: Agent Docs Index

## Tools

- ` + "`list_workflows`" + `: visibility listing with ` + "`has_more`" + ` paging hint. A raw ` + "`query`" + ` overrides every other filter.
- ` + "`get_workflow_history`" + `: execution summary. ` + "`event_types`" + ` narrows the timeline (e.g. ` + "`ActivityTaskFailed`" + `).
- ` + "`get_workflow_stack_trace`" + `: running executions only; the stack trace comes from the built-in ` + "`__stack_trace`" + ` query.
- ` + "`compare_executions`" + `: divergences, structural differences and signal differences between two executions.
- ` + "`describe_task_queue`" + `: pollers, last access times, rates and active worker build ids.
- ` + "`search_workflow_data`" + `: ` + "`count`" + ` for blast radius, ` + "`sample`" + ` for a few examples, ` + "`list`" + ` for summaries.
- ` + "`temporal_connection`" + `: ` + "`status`" + ` or ` + "`connect`" + ` to another address or namespace.

## Detail levels

- ` + "`summary`" + `: payloads over 10KB are replaced by a truncation marker with a preview.
- ` + "`standard`" + `: full decoded payloads.
- ` + "`full`" + `: standard plus every raw event.

Histories over 10,000 events carry a warning; prefer ` + "`event_types`" + ` filters for those.
`,
	},
	{
		URI:         "xray://docs/payloads",
		Name:        "docs_payloads",
		Title:       "Payload decoding",
		Description: "How inputs and outputs are rendered: JSON, truncation, protobuf and encrypted markers.",
		Content: `# Payload decoding

Payloads with ` + "`json/plain`" + ` encoding are decoded to JSON values. Text that is not valid JSON is returned as a string.

Markers replace values that cannot be shown:

- ` + "`{\"_truncated\": true, \"preview\": ..., \"fullSizeBytes\": n}`" + `: over the summary size limit.
- ` + "`{\"_type\": \"protobuf\", \"messageType\": ...}`" + `: binary or JSON protobuf encodings.
- ` + "`{\"_type\": \"encrypted\"}`" + `: encrypted by a payload codec; decode it client side.

Multiple payloads are returned as a list; a single payload is returned as its value.
`,
	},
	{
		URI:         "xray://docs/comparison",
		Name:        "docs_comparison",
		Title:       "Reading a comparison",
		Description: "How compare_executions aligns activities and reports differences.",
		Content: `# Reading a comparison

Activities are aligned by type: each activity in A is paired with the first unused activity of the same type in B.

- ` + "`divergences`" + `: for each aligned pair, every differing leaf of input and output, then status and retry count differences. Field paths look like ` + "`input.order.items[2].sku`" + `.
- ` + "`structural_differences`" + `: activity types present on one side only, and whether the order differs.
- ` + "`signals`" + `: signal names present on one side only.

An empty report means the executions match on every compared field.
Put the succeeding execution in A so that ` + "`value_b`" + ` shows the failing data.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
