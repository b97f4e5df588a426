package authsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTokenBridgeRefresh(t *testing.T) {
	provider := newFakeProvider()
	jar := &MockCookieJar{}
	jar.On("SetCookie", "auth-token", "token-u1", DefaultCookieDuration).Return(nil)

	bridge := NewTokenBridge(provider, jar)
	bridge.Refresh(context.Background(), fakeCredential{id: "u1"})

	jar.AssertExpectations(t)
}

func TestTokenBridgeRefreshCustomNameAndTTL(t *testing.T) {
	provider := newFakeProvider()
	jar := &MockCookieJar{}
	jar.On("SetCookie", "session", "token-u1", time.Hour).Return(nil)

	bridge := NewTokenBridge(provider, jar,
		WithBridgeCookieName("session"),
		WithBridgeCookieTTL(time.Hour),
	)
	bridge.Refresh(context.Background(), fakeCredential{id: "u1"})

	jar.AssertExpectations(t)
}

func TestTokenBridgeRefreshTokenErrorIsNonFatal(t *testing.T) {
	provider := newFakeProvider()
	provider.tokenFn = func(cred Credential) (string, error) {
		return "", errors.New("provider unavailable")
	}
	jar := &MockCookieJar{}

	bridge := NewTokenBridge(provider, jar)
	bridge.Refresh(context.Background(), fakeCredential{id: "u1"})

	jar.AssertNotCalled(t, "SetCookie", mock.Anything, mock.Anything, mock.Anything)
}

func TestTokenBridgeRefreshCookieErrorIsNonFatal(t *testing.T) {
	provider := newFakeProvider()
	jar := &MockCookieJar{}
	jar.On("SetCookie", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("write failed"))

	bridge := NewTokenBridge(provider, jar)

	assert.NotPanics(t, func() {
		bridge.Refresh(context.Background(), fakeCredential{id: "u1"})
	})
}

func TestTokenBridgeClear(t *testing.T) {
	provider := newFakeProvider()
	jar := &MockCookieJar{}
	jar.On("DeleteCookie", "auth-token").Return(nil)

	bridge := NewTokenBridge(provider, jar)
	bridge.Clear()

	jar.AssertExpectations(t)
}

func TestTokenBridgeNilCredential(t *testing.T) {
	provider := newFakeProvider()
	jar := &MockCookieJar{}

	bridge := NewTokenBridge(provider, jar)
	bridge.Refresh(context.Background(), nil)

	jar.AssertNotCalled(t, "SetCookie", mock.Anything, mock.Anything, mock.Anything)
}
