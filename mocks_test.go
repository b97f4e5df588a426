package authsync

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// fakeCredential implements Credential
type fakeCredential struct {
	id    string
	email string
	name  string
}

func (f fakeCredential) ID() string          { return f.id }
func (f fakeCredential) Email() string       { return f.email }
func (f fakeCredential) DisplayName() string { return f.name }

// MockDocumentStore implements DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, collection, key string) (map[string]any, error) {
	args := m.Called(ctx, collection, key)
	doc, _ := args.Get(0).(map[string]any)
	return doc, args.Error(1)
}

func (m *MockDocumentStore) Set(ctx context.Context, collection, key string, doc map[string]any) error {
	args := m.Called(ctx, collection, key, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection, key string, fields map[string]any) error {
	args := m.Called(ctx, collection, key, fields)
	return args.Error(0)
}

func (m *MockDocumentStore) Query(ctx context.Context, collection, field string, value any) ([]map[string]any, error) {
	args := m.Called(ctx, collection, field, value)
	docs, _ := args.Get(0).([]map[string]any)
	return docs, args.Error(1)
}

func (m *MockDocumentStore) List(ctx context.Context, collection string) ([]map[string]any, error) {
	args := m.Called(ctx, collection)
	docs, _ := args.Get(0).([]map[string]any)
	return docs, args.Error(1)
}

// MockCookieJar implements CookieJar
type MockCookieJar struct {
	mock.Mock
}

func (m *MockCookieJar) SetCookie(name, value string, ttl time.Duration) error {
	args := m.Called(name, value, ttl)
	return args.Error(0)
}

func (m *MockCookieJar) DeleteCookie(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// MockActivitySink implements ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// recordingNavigator captures guard navigations.
type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// fakeProvider implements IdentityProvider with scriptable behavior and a
// buffered event channel under test control.
type fakeProvider struct {
	events     chan CredentialEvent
	signInFn   func(email, password string) (Credential, error)
	signUpFn   func(name, email, password string) (Credential, error)
	signOutErr error
	tokenFn    func(cred Credential) (string, error)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		events: make(chan CredentialEvent, 16),
	}
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (Credential, error) {
	if f.signInFn != nil {
		return f.signInFn(email, password)
	}
	cred := fakeCredential{id: "uid-" + email, email: email}
	f.emit(CredentialEvent{Credential: cred})
	return cred, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, name, email, password string) (Credential, error) {
	if f.signUpFn != nil {
		return f.signUpFn(name, email, password)
	}
	cred := fakeCredential{id: "uid-" + email, email: email, name: name}
	f.emit(CredentialEvent{Credential: cred})
	return cred, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.emit(CredentialEvent{})
	return nil
}

func (f *fakeProvider) Token(ctx context.Context, cred Credential) (string, error) {
	if f.tokenFn != nil {
		return f.tokenFn(cred)
	}
	return "token-" + cred.ID(), nil
}

func (f *fakeProvider) Events() <-chan CredentialEvent {
	return f.events
}

func (f *fakeProvider) emit(evt CredentialEvent) {
	f.events <- evt
}

func (f *fakeProvider) close() {
	close(f.events)
}

// MockConfig implements Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	return m.Called().Int(0)
}

func (m *MockConfig) GetCookieName() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetCookieDuration() int {
	return m.Called().Int(0)
}

func (m *MockConfig) GetIssuer() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	audience, _ := args.Get(0).([]string)
	return audience
}

func (m *MockConfig) GetProtectedPrefixes() []string {
	args := m.Called()
	prefixes, _ := args.Get(0).([]string)
	return prefixes
}

func (m *MockConfig) GetLoginPath() string {
	return m.Called().String(0)
}

func (m *MockConfig) GetUnauthorizedPath() string {
	return m.Called().String(0)
}
