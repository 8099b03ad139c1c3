package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"homeflow/api/internal/auth"
	"homeflow/api/internal/models"
	"homeflow/api/internal/store"
)

func TestRegisterAndLogin(t *testing.T) {
	st := NewStore(auth.Plaintext{})
	ctx := context.Background()

	user, err := st.Register(ctx, "alice@example.com", "pw123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected a user id")
	}

	got, err := st.Login(ctx, "alice@example.com", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned user %q, want %q", got.ID, user.ID)
	}

	if _, err := st.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := st.Login(ctx, "nobody@example.com", "pw123"); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	st := NewStore(auth.Plaintext{})
	ctx := context.Background()

	if _, err := st.Register(ctx, "bob@example.com", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := st.Register(ctx, "bob@example.com", "other"); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	st := NewStore(auth.Plaintext{})
	ctx := context.Background()

	if _, err := st.Register(ctx, "", "pw"); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing email, got %v", err)
	}
	if _, err := st.Register(ctx, "carol@example.com", ""); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing password, got %v", err)
	}
}

func TestRegisterCreatesEmptyWorkflow(t *testing.T) {
	st := NewStore(auth.Plaintext{})
	ctx := context.Background()

	user, err := st.Register(ctx, "dave@example.com", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	wf, err := st.GetWorkflow(ctx, user.ID)
	if err != nil {
		t.Fatalf("get workflow: %v", err)
	}
	if wf.Steps == nil || len(wf.Steps) != 0 {
		t.Fatalf("expected empty steps, got %v", wf.Steps)
	}
	if wf.Documents == nil || len(wf.Documents) != 0 {
		t.Fatalf("expected empty documents, got %v", wf.Documents)
	}
	if wf.SelectedProperty != nil {
		t.Fatalf("expected no selected property, got %s", wf.SelectedProperty)
	}
}

func TestGetWorkflowLazyInit(t *testing.T) {
	st := NewStore(auth.Plaintext{})

	wf, err := st.GetWorkflow(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("get workflow: %v", err)
	}
	if wf.Documents == nil || wf.Steps == nil {
		t.Fatalf("expected initialized slices, got %+v", wf)
	}
}

func TestSelectPropertyIsolation(t *testing.T) {
	st := NewStore(auth.Plaintext{})
	ctx := context.Background()

	alice, _ := st.Register(ctx, "alice@example.com", "pw")
	bob, _ := st.Register(ctx, "bob@example.com", "pw")

	payload := json.RawMessage(`{"id":"p1"}`)
	wf, err := st.SelectProperty(ctx, alice.ID, payload)
	if err != nil {
		t.Fatalf("select property: %v", err)
	}
	if string(wf.SelectedProperty) != `{"id":"p1"}` {
		t.Fatalf("unexpected selected property: %s", wf.SelectedProperty)
	}

	other, _ := st.GetWorkflow(ctx, bob.ID)
	if other.SelectedProperty != nil {
		t.Fatalf("bob's workflow leaked alice's selection: %s", other.SelectedProperty)
	}
}

func TestAppendDocumentOrder(t *testing.T) {
	st := NewStore(auth.Plaintext{})
	ctx := context.Background()

	user, _ := st.Register(ctx, "erin@example.com", "pw")

	for _, name := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		if _, err := st.AppendDocument(ctx, user.ID, models.Document{Name: name, Step: "inspection"}); err != nil {
			t.Fatalf("append %s: %v", name, err)
		}
	}

	docs, err := st.ListDocuments(ctx, user.ID)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, want := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		if docs[i].Name != want {
			t.Fatalf("document %d = %q, want %q", i, docs[i].Name, want)
		}
	}
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	st := NewStore(auth.Bcrypt{Cost: 4})
	ctx := context.Background()

	user, err := st.Register(ctx, "frank@example.com", "hunter2")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "hunter2" {
		t.Fatalf("password stored in plaintext despite bcrypt hasher")
	}
	if _, err := st.Login(ctx, "frank@example.com", "hunter2"); err != nil {
		t.Fatalf("login with hashed password: %v", err)
	}
	if _, err := st.Login(ctx, "frank@example.com", "hunter3"); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
