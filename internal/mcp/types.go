package mcp

type ListWorkflowsParams struct {
	Namespace     string `json:"namespace,omitempty"`
	WorkflowType  string `json:"workflow_type,omitempty"`
	WorkflowID    string `json:"workflow_id,omitempty"`
	Status        string `json:"status,omitempty"`
	Query         string `json:"query,omitempty"`
	StartTimeFrom string `json:"start_time_from,omitempty"`
	StartTimeTo   string `json:"start_time_to,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

type GetWorkflowHistoryParams struct {
	Namespace   string   `json:"namespace,omitempty"`
	WorkflowID  string   `json:"workflow_id"`
	RunID       string   `json:"run_id,omitempty"`
	DetailLevel string   `json:"detail_level,omitempty"`
	EventTypes  []string `json:"event_types,omitempty"`
}

type GetWorkflowStackTraceParams struct {
	Namespace  string `json:"namespace,omitempty"`
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id,omitempty"`
}

type CompareExecutionsParams struct {
	Namespace   string `json:"namespace,omitempty"`
	WorkflowIDA string `json:"workflow_id_a"`
	WorkflowIDB string `json:"workflow_id_b"`
	RunIDA      string `json:"run_id_a,omitempty"`
	RunIDB      string `json:"run_id_b,omitempty"`
}

type DescribeTaskQueueParams struct {
	Namespace     string `json:"namespace,omitempty"`
	TaskQueue     string `json:"task_queue"`
	TaskQueueType string `json:"task_queue_type,omitempty"`
}

type SearchWorkflowDataParams struct {
	Namespace    string `json:"namespace,omitempty"`
	WorkflowType string `json:"workflow_type"`
	Query        string `json:"query"`
	Aggregate    string `json:"aggregate,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

type TemporalConnectionParams struct {
	Action      string `json:"action,omitempty"`
	Address     string `json:"address,omitempty"`
	Namespace   string `json:"namespace,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
	TLSCertPath string `json:"tls_cert_path,omitempty"`
	TLSKeyPath  string `json:"tls_key_path,omitempty"`
}
