package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names what the admin did.
type AuditEventType string

const (
	AuditSignIn  AuditEventType = "sign_in"
	AuditSignOut AuditEventType = "sign_out"

	AuditRecordCreate AuditEventType = "record_create"
	AuditRecordUpdate AuditEventType = "record_update"
	AuditRecordDelete AuditEventType = "record_delete"

	AuditLanguageChange AuditEventType = "language_change"
)

// AuditEvent is one line of the audit trail, written as JSON.
type AuditEvent struct {
	Timestamp int64          `json:"ts"` // Unix milliseconds
	EventType AuditEventType `json:"event"`
	Resource  string         `json:"resource,omitempty"`
	Target    string         `json:"target,omitempty"`
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	Message   string         `json:"msg,omitempty"`
}

// =============================================================================
// AUDIT LOGGER
// =============================================================================

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger appends admin actions to <data dir>/logs/<date>_audit.log.
// It writes nothing unless debug mode is on.
type AuditLogger struct {
	resource string
}

// InitAudit opens the audit log. Initialize calls it in debug mode.
func InitAudit() error {
	if !IsDebugMode() || logsDir == "" {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(logsDir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file
	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// Audit returns an audit logger with no resource scope.
func Audit() *AuditLogger {
	return &AuditLogger{}
}

// AuditFor returns an audit logger scoped to one resource, e.g. "banner".
func AuditFor(resource string) *AuditLogger {
	return &AuditLogger{resource: resource}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsDebugMode() {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.Resource == "" {
		event.Resource = a.resource
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile == nil {
		return
	}
	auditFile.Write(append(data, '\n'))
}

// =============================================================================
// CONVENIENCE METHODS
// =============================================================================

// SignIn records a sign-in attempt for email.
func (a *AuditLogger) SignIn(email string, err error) {
	a.Log(outcome(AuditEvent{EventType: AuditSignIn, Target: email}, err))
}

// SignOut records a sign-out. The local session is cleared even when err is set.
func (a *AuditLogger) SignOut(err error) {
	a.Log(outcome(AuditEvent{EventType: AuditSignOut}, err))
}

// Mutation records a create, update or delete of the scoped resource.
func (a *AuditLogger) Mutation(eventType AuditEventType, message string, err error) {
	a.Log(outcome(AuditEvent{EventType: eventType, Message: message}, err))
}

// LanguageChange records a language preference change.
func (a *AuditLogger) LanguageChange(lang string, err error) {
	a.Log(outcome(AuditEvent{EventType: AuditLanguageChange, Target: lang}, err))
}

func outcome(e AuditEvent, err error) AuditEvent {
	e.Success = err == nil
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
