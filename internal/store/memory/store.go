package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"homeflow/api/internal/auth"
	"homeflow/api/internal/models"
	"homeflow/api/internal/store"

	"github.com/google/uuid"
)

// Store keeps users and workflows in process memory. Everything is discarded
// on restart. A single mutex guards all maps; handlers run in parallel
// goroutines, so multi-step mutations must not interleave.
type Store struct {
	mu        sync.Mutex
	hasher    auth.PasswordHasher
	users     map[string]models.User // keyed by user id
	byEmail   map[string]string      // email -> user id
	workflows map[string]*models.Workflow
}

func NewStore(hasher auth.PasswordHasher) *Store {
	if hasher == nil {
		hasher = auth.Plaintext{}
	}
	return &Store{
		hasher:    hasher,
		users:     make(map[string]models.User),
		byEmail:   make(map[string]string),
		workflows: make(map[string]*models.Workflow),
	}
}

func (s *Store) Register(ctx context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, store.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return models.User{}, store.ErrEmailTaken
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: stored,
		Created:  time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	s.workflows[user.ID] = emptyWorkflow()
	return user, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.TrimSpace(email)]
	if !ok {
		return models.User{}, store.ErrInvalidCredentials
	}
	user := s.users[id]
	if !s.hasher.Compare(user.Password, password) {
		return models.User{}, store.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetWorkflow(ctx context.Context, userID string) (models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWorkflow(s.workflow(userID)), nil
}

func (s *Store) SelectProperty(ctx context.Context, userID string, property json.RawMessage) (models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf := s.workflow(userID)
	wf.SelectedProperty = property
	return cloneWorkflow(wf), nil
}

func (s *Store) ListDocuments(ctx context.Context, userID string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Document{}, s.workflow(userID).Documents...), nil
}

func (s *Store) AppendDocument(ctx context.Context, userID string, doc models.Document) (models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wf := s.workflow(userID)
	wf.Documents = append(wf.Documents, doc)
	return cloneWorkflow(wf), nil
}

// workflow returns the user's workflow, lazily creating an empty one. Callers
// must hold s.mu.
func (s *Store) workflow(userID string) *models.Workflow {
	wf, ok := s.workflows[userID]
	if !ok {
		wf = emptyWorkflow()
		s.workflows[userID] = wf
	}
	return wf
}

func emptyWorkflow() *models.Workflow {
	return &models.Workflow{Steps: []string{}, Documents: []models.Document{}}
}

// cloneWorkflow copies the slices so callers never share backing arrays with
// the store.
func cloneWorkflow(wf *models.Workflow) models.Workflow {
	return models.Workflow{
		SelectedProperty: wf.SelectedProperty,
		Steps:            append([]string{}, wf.Steps...),
		Documents:        append([]models.Document{}, wf.Documents...),
	}
}
