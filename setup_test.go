package authsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModuleConfig() *MockConfig {
	cfg := &MockConfig{}
	cfg.On("GetSigningKey").Return("test-signing-key")
	cfg.On("GetTokenExpiration").Return(2)
	cfg.On("GetIssuer").Return("test-issuer")
	cfg.On("GetAudience").Return([]string{"test:audience"})
	cfg.On("GetCookieName").Return("custom-auth")
	cfg.On("GetCookieDuration").Return(2)
	cfg.On("GetProtectedPrefixes").Return([]string{"/members"})
	cfg.On("GetLoginPath").Return("/custom/login")
	cfg.On("GetUnauthorizedPath").Return("/custom/unauthorized")
	return cfg
}

func TestNewRequiresDependencies(t *testing.T) {
	provider := newFakeProvider()
	docs := &MockDocumentStore{}
	jar := &MockCookieJar{}
	cfg := newModuleConfig()

	_, err := New(nil, docs, jar, cfg)
	assert.Error(t, err)

	_, err = New(provider, nil, jar, cfg)
	assert.Error(t, err)

	_, err = New(provider, docs, nil, cfg)
	assert.Error(t, err)

	_, err = New(provider, docs, jar, nil)
	assert.Error(t, err)
}

func TestNewWiresComponentsFromConfig(t *testing.T) {
	module, err := New(newFakeProvider(), &MockDocumentStore{}, &MockCookieJar{}, newModuleConfig())
	require.NoError(t, err)

	assert.Equal(t, "custom-auth", module.Bridge.CookieName())

	token, err := module.Tokens.Generate(fakeCredential{id: "u1", email: "ada@example.com", name: "Ada"})
	require.NoError(t, err)

	claims, err := module.Tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UID)
	assert.Equal(t, "test-issuer", claims.Issuer)

	auther, err := module.HTTPAuthenticator()
	require.NoError(t, err)
	assert.NotNil(t, auther)

	assert.NotNil(t, module.EdgeFilter())
}

func TestModuleGuardsUseConfiguredPaths(t *testing.T) {
	module, err := New(newFakeProvider(), &MockDocumentStore{}, &MockCookieJar{}, newModuleConfig())
	require.NoError(t, err)

	decision := module.AuthGuard(nil).Decide(AuthState{AuthReady: true})
	assert.Equal(t, GuardRedirect, decision.Outcome)
	assert.Equal(t, "/custom/login", decision.Target)

	decision = module.RoleGuard(nil, RoleAdmin).Decide(AuthState{
		AuthReady:       true,
		IsAuthenticated: true,
		Session:         &Session{ID: "u1"},
		Profile:         &Profile{UID: "u1", Role: RoleBuyer},
	})
	assert.Equal(t, GuardRedirect, decision.Outcome)
	assert.Equal(t, "/custom/unauthorized", decision.Target)

	decision = module.ReverseGuard(nil).Decide(AuthState{
		AuthReady:       true,
		IsAuthenticated: true,
		Session:         &Session{ID: "u1"},
		Profile:         &Profile{UID: "u1", Role: RoleProvider},
	})
	assert.Equal(t, GuardRedirect, decision.Outcome)
	assert.Equal(t, FreelancerDashboardPath, decision.Target)
}
