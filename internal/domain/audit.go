package domain

import "time"

// AuditLog records every API request for diagnostics.
type AuditLog struct {
	ID        int64     `json:"id"         db:"id"`
	Action    string    `json:"action"     db:"action"`
	Resource  string    `json:"resource"   db:"resource"`
	Details   string    `json:"details"    db:"details"` // JSON blob
	IP        string    `json:"ip"         db:"ip"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Audit action constants.
const (
	AuditActionRequest  = "http_request"
	AuditActionRAGQuery = "rag_query"
	AuditActionSyncRun  = "sync_run"
	AuditActionMCPCall  = "mcp_call"
)
