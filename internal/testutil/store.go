package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BuzzLyutic/taskhub/internal/model"
)

// MockDocumentStore is a testify mock of repo.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) List(ctx context.Context) ([]model.DocumentRef, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.DocumentRef), args.Error(1)
}

func (m *MockDocumentStore) Read(ctx context.Context, ref model.DocumentRef) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) Write(ctx context.Context, ref model.DocumentRef, text string) error {
	args := m.Called(ctx, ref, text)
	return args.Error(0)
}

// Refs builds document refs from ids.
func Refs(ids ...string) []model.DocumentRef {
	refs := make([]model.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = model.DocumentRef{ID: id}
	}
	return refs
}
