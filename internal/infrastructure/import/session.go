package csvimport

import (
	"time"

	"github.com/google/uuid"
)

// EntityType names what an import session creates
type EntityType string

// EntityProducts is the catalog bulk-onboarding import
const EntityProducts EntityType = "products"

// ImportState tracks an import session through its lifecycle
type ImportState string

const (
	StateCreated   ImportState = "created"
	StateImporting ImportState = "importing"
	StateCompleted ImportState = "completed"
	StateFailed    ImportState = "failed"
)

// ImportSession identifies one upload and what became of it. Sessions
// are logged, not persisted: the session id ties a result reported to
// the client back to the server logs for that upload.
type ImportSession struct {
	ID          uuid.UUID   `json:"id"`
	TenantID    uuid.UUID   `json:"tenant_id"`
	UserID      uuid.UUID   `json:"user_id"`
	EntityType  EntityType  `json:"entity_type"`
	FileName    string      `json:"file_name"`
	FileSize    int64       `json:"file_size"`
	State       ImportState `json:"state"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// NewImportSession starts a session for an uploaded file
func NewImportSession(tenantID, userID uuid.UUID, entityType EntityType, fileName string, fileSize int64) *ImportSession {
	now := time.Now()
	return &ImportSession{
		ID:         uuid.New(),
		TenantID:   tenantID,
		UserID:     userID,
		EntityType: entityType,
		FileName:   fileName,
		FileSize:   fileSize,
		State:      StateCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// UpdateState moves the session forward, stamping completion when it
// reaches a terminal state
func (s *ImportSession) UpdateState(state ImportState) {
	s.State = state
	s.UpdatedAt = time.Now()
	if state == StateCompleted || state == StateFailed {
		now := time.Now()
		s.CompletedAt = &now
	}
}

// IsTerminal reports whether the session can no longer change state
func (s *ImportSession) IsTerminal() bool {
	return s.State == StateCompleted || s.State == StateFailed
}
