package handlers

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ToolInfo describes one MCP tool on the root endpoint.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RootResponse describes the service for humans poking at it with curl.
type RootResponse struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	MCPEndpoint string     `json:"mcp_endpoint"`
	Transport   string     `json:"transport"`
	Tools       []ToolInfo `json:"tools"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
