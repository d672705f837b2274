package testserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/temporal-xray/internal/domain/event"
	"github.com/rpggio/temporal-xray/internal/domain/history"
	"github.com/rpggio/temporal-xray/internal/domain/payload"
	"github.com/rpggio/temporal-xray/internal/domain/workflow"
	"github.com/rpggio/temporal-xray/internal/repository/mocks"
	"github.com/rpggio/temporal-xray/internal/testserver"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func jsonPayload(doc string) []payload.Payload {
	return []payload.Payload{{
		Metadata: map[string][]byte{"encoding": []byte("json/plain")},
		Data:     []byte(doc),
	}}
}

// orderHistory is a closed execution that ran one Charge activity.
func orderHistory(chargeResult string) []event.RawEvent {
	at := func(id int64, kind event.Kind, offset time.Duration, attrs event.Attributes) event.RawEvent {
		return event.RawEvent{ID: id, Type: kind.Code(), Time: t0.Add(offset), Attributes: attrs}
	}
	return []event.RawEvent{
		at(1, event.KindWorkflowExecutionStarted, 0, event.Attributes{WorkflowType: "OrderWorkflow", TaskQueue: "orders", Input: jsonPayload(`{"orderId":"o-1"}`)}),
		at(2, event.KindActivityTaskScheduled, time.Second, event.Attributes{ActivityID: "1", ActivityType: "Charge", Input: jsonPayload(`{"amount":10}`)}),
		at(3, event.KindActivityTaskStarted, time.Second, event.Attributes{ScheduledEventID: 2, Attempt: 1}),
		at(4, event.KindActivityTaskCompleted, 2*time.Second, event.Attributes{ScheduledEventID: 2, Result: jsonPayload(chargeResult)}),
		at(5, event.KindWorkflowExecutionCompleted, 3*time.Second, event.Attributes{Result: jsonPayload(`"done"`)}),
	}
}

func newProviders(t *testing.T) (*mocks.HistoryProvider, *mocks.WorkflowProvider) {
	t.Helper()
	hp := &mocks.HistoryProvider{}
	hp.On("ResolveNamespace", "").Return("default")
	wp := &mocks.WorkflowProvider{}
	wp.On("ResolveNamespace", "").Return("default")
	return hp, wp
}

func expectClosed(hp *mocks.HistoryProvider, workflowID, runID, chargeResult string) {
	hp.On("DescribeExecution", mock.Anything, "default", workflowID, "").
		Return(&history.Execution{Namespace: "default", WorkflowID: workflowID, RunID: runID, Status: history.StatusCompleted}, nil)
	hp.On("FetchHistory", mock.Anything, "default", workflowID, runID).
		Return(orderHistory(chargeResult), nil).Once()
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}

func connect(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: ts.Token}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestFunctional_ToolsListed(t *testing.T) {
	hp, wp := newProviders(t)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})
	session := connect(t, ts)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 7)

	resources, err := session.ListResources(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, resources.Resources)
}

func TestFunctional_HistoryIsCachedAfterFirstFetch(t *testing.T) {
	hp, wp := newProviders(t)
	expectClosed(hp, "order-1", "run-1", `{"status":"ok"}`)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})
	session := connect(t, ts)

	for i := 0; i < 2; i++ {
		text, isErr := callTool(t, session, "get_workflow_history", map[string]any{"workflow_id": "order-1", "detail_level": "standard"})
		require.False(t, isErr, text)

		var h history.WorkflowHistory
		require.NoError(t, json.Unmarshal([]byte(text), &h))
		require.Equal(t, "run-1", h.RunID)
		require.Equal(t, history.StatusCompleted, h.Status)
		require.Len(t, h.Timeline, 1)
		require.Equal(t, "Charge", h.Timeline[0].Activity)
	}

	// The second call is served from the sqlite cache.
	hp.AssertNumberOfCalls(t, "FetchHistory", 1)
}

func TestFunctional_CompareExecutions(t *testing.T) {
	hp, wp := newProviders(t)
	expectClosed(hp, "good", "run-a", `{"status":"ok"}`)
	expectClosed(hp, "bad", "run-b", `{"status":"declined"}`)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})
	session := connect(t, ts)

	text, isErr := callTool(t, session, "compare_executions", map[string]any{"workflow_id_a": "good", "workflow_id_b": "bad"})
	require.False(t, isErr, text)

	var cmp struct {
		Divergences []struct {
			Activity string `json:"activity"`
			Field    string `json:"field"`
			ValueA   any    `json:"value_a"`
			ValueB   any    `json:"value_b"`
		} `json:"divergences"`
		SameWorkflowType bool `json:"same_workflow_type"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &cmp))
	require.True(t, cmp.SameWorkflowType)
	require.Len(t, cmp.Divergences, 1)
	require.Equal(t, "Charge", cmp.Divergences[0].Activity)
	require.Equal(t, "output.status", cmp.Divergences[0].Field)
	require.Equal(t, "declined", cmp.Divergences[0].ValueB)
}

func TestFunctional_NotFoundIsToolError(t *testing.T) {
	hp, wp := newProviders(t)
	hp.On("DescribeExecution", mock.Anything, "default", "missing", "").Return(nil, history.ErrExecutionNotFound)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})
	session := connect(t, ts)

	text, isErr := callTool(t, session, "get_workflow_history", map[string]any{"workflow_id": "missing"})
	require.True(t, isErr)
	require.Contains(t, text, "No workflow found with ID 'missing'")
}

func TestFunctional_ConnectionUnavailable(t *testing.T) {
	hp, wp := newProviders(t)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})
	session := connect(t, ts)

	text, isErr := callTool(t, session, "temporal_connection", map[string]any{"action": "status"})
	require.False(t, isErr)
	require.Contains(t, text, `"connected": false`)

	text, isErr = callTool(t, session, "temporal_connection", map[string]any{"action": "connect", "address": "nowhere:7233"})
	require.True(t, isErr)
	require.Contains(t, text, "TEMPORAL_UNAVAILABLE")
}

func TestFunctional_RPCListWorkflows(t *testing.T) {
	hp, wp := newProviders(t)
	wp.On("ListExecutions", mock.Anything, "default", "WorkflowType = 'OrderWorkflow'", 10).
		Return([]workflow.Summary{{WorkflowID: "order-1", Status: "COMPLETED"}}, false, nil)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","method":"list_workflows","params":{"workflow_type":"OrderWorkflow"},"id":1}`)
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.Token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Result workflow.ListResult `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Result.TotalCount)
	require.Equal(t, "order-1", out.Result.Workflows[0].WorkflowID)
}

func TestFunctional_Authentication(t *testing.T) {
	hp, wp := newProviders(t)
	ts := testserver.New(t, "token", "ops", testserver.Providers{History: hp, Workflows: wp})

	resp, err := http.Post(ts.Server.URL+"/rpc", "application/json", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"list_workflows","id":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.NoError(t, ts.AddAPIKey("second", "oncall"))
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"temporal_connection","id":2}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer second")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
