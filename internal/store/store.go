package store

import (
	"context"
	"encoding/json"

	"homeflow/api/internal/models"
)

// Store holds users and their workflows. Implementations must be safe for
// concurrent use; handlers run on parallel goroutines.
type Store interface {
	Register(ctx context.Context, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	GetUser(ctx context.Context, userID string) (models.User, error)

	GetWorkflow(ctx context.Context, userID string) (models.Workflow, error)
	SelectProperty(ctx context.Context, userID string, property json.RawMessage) (models.Workflow, error)
	ListDocuments(ctx context.Context, userID string) ([]models.Document, error)
	AppendDocument(ctx context.Context, userID string, doc models.Document) (models.Workflow, error)
}
