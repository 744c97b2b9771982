package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/journeydemo/internal/adapter/driven/memory"
	"github.com/ericfisherdev/journeydemo/internal/domain/model"
)

// --- Mock implementations ---

type mockVerificationAPI struct {
	schema      model.Document
	schemaErr   error
	submitResp  model.Document
	submitErr   error
	schemaCalls int
	submitCalls int
	lastCreds   model.APICredentials
	lastPayload model.Document
}

func (m *mockVerificationAPI) FetchJourneySchema(_ context.Context, creds model.APICredentials) (model.Document, error) {
	m.schemaCalls++
	m.lastCreds = creds
	return m.schema, m.schemaErr
}

func (m *mockVerificationAPI) SubmitApplication(_ context.Context, creds model.APICredentials, payload model.Document) (model.Document, error) {
	m.submitCalls++
	m.lastCreds = creds
	m.lastPayload = payload
	return m.submitResp, m.submitErr
}

type mockCredentialSource struct {
	set   model.CredentialSet
	saved []model.CredentialSet
	err   error
}

func (m *mockCredentialSource) Load() model.CredentialSet { return m.set }

func (m *mockCredentialSource) Save(set model.CredentialSet) error {
	m.saved = append(m.saved, set)
	return m.err
}

type publishedEvent struct {
	Event string
	Data  any
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (m *mockPublisher) Publish(event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{Event: event, Data: data})
}

// failingStore wraps a memory store and fails reads or writes on demand.
type failingStore struct {
	*memory.Store
	getErr   error
	setErr   error
	setCalls int
}

func (f *failingStore) Get(ctx context.Context, ns model.Namespace, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Store.Get(ctx, ns, key)
}

func (f *failingStore) Set(ctx context.Context, ns model.Namespace, key string, value []byte) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	return f.Store.Set(ctx, ns, key, value)
}

var errStore = errors.New("store unavailable")

func completeSet() model.CredentialSet {
	return model.CredentialSet{
		SDKKey:       "sdk-key",
		JourneyToken: "J-abc",
		APIToken:     "api-token",
		APISecret:    "api-secret",
		BaseURL:      "https://sandbox.alloy.co",
	}
}
