package authsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStoreInitialState(t *testing.T) {
	store := NewAuthStore()

	state := store.GetState()
	assert.Nil(t, state.Session)
	assert.Nil(t, state.Profile)
	assert.False(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.False(t, state.AuthReady)
	assert.Empty(t, state.Error)
}

func TestAuthStoreSignedInTransition(t *testing.T) {
	store := NewAuthStore()

	session := &Session{ID: "u1", Email: "ada@example.com", DisplayName: "Ada"}
	profile := &Profile{UID: "u1", Email: "ada@example.com", Name: "Ada", Role: RoleAdmin}

	store.applySignedIn(session, profile)

	state := store.GetState()
	require.NotNil(t, state.Session)
	assert.Equal(t, "u1", state.Session.ID)
	require.NotNil(t, state.Profile)
	assert.Equal(t, RoleAdmin, state.Profile.Role)
	assert.True(t, state.IsAuthenticated)
	assert.True(t, state.AuthReady)
}

func TestAuthStoreSignedInWithoutProfile(t *testing.T) {
	store := NewAuthStore()

	store.applySignedIn(&Session{ID: "u1"}, nil)

	state := store.GetState()
	assert.True(t, state.IsAuthenticated)
	assert.Nil(t, state.Profile)
	assert.True(t, state.AuthReady)
}

func TestAuthStoreSignedOutTransition(t *testing.T) {
	store := NewAuthStore()
	store.applySignedIn(&Session{ID: "u1"}, &Profile{UID: "u1", Role: RoleBuyer})

	store.applySignedOut()

	state := store.GetState()
	assert.Nil(t, state.Session)
	assert.Nil(t, state.Profile)
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.AuthReady, "AuthReady stays set after the first resolution")
}

func TestAuthStoreAuthReadyOnSignedOutFirstEvent(t *testing.T) {
	store := NewAuthStore()

	store.applySignedOut()

	assert.True(t, store.GetState().AuthReady)
}

func TestAuthStoreActionLifecycle(t *testing.T) {
	store := NewAuthStore()

	store.beginAction()
	assert.True(t, store.GetState().IsLoading)
	assert.Empty(t, store.GetState().Error)

	store.endAction("invalid email or password")
	state := store.GetState()
	assert.False(t, state.IsLoading)
	assert.Equal(t, "invalid email or password", state.Error)

	// starting a new action clears the previous error
	store.beginAction()
	assert.Empty(t, store.GetState().Error)
}

func TestAuthStoreClearError(t *testing.T) {
	store := NewAuthStore()
	store.beginAction()
	store.endAction("boom")

	store.ClearError()

	state := store.GetState()
	assert.Empty(t, state.Error)
	assert.False(t, state.IsLoading)
}

func TestAuthStoreSubscribe(t *testing.T) {
	store := NewAuthStore()

	var got []AuthState
	unsubscribe := store.Subscribe(func(state AuthState) {
		got = append(got, state)
	})

	store.applySignedIn(&Session{ID: "u1"}, nil)
	require.Len(t, got, 1)
	assert.True(t, got[0].IsAuthenticated)

	unsubscribe()
	store.applySignedOut()
	assert.Len(t, got, 1, "no notifications after unsubscribe")
}

func TestAuthStoreGetStateReturnsCopies(t *testing.T) {
	store := NewAuthStore()
	store.applySignedIn(&Session{ID: "u1"}, &Profile{UID: "u1", Role: RoleBuyer})

	state := store.GetState()
	state.Session.ID = "mutated"
	state.Profile.Role = RoleAdmin

	fresh := store.GetState()
	assert.Equal(t, "u1", fresh.Session.ID)
	assert.Equal(t, RoleBuyer, fresh.Profile.Role)
}
