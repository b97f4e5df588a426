// Package authsync keeps a marketplace application's view of "who is signed
// in, with what role" consistent across three boundaries: the external
// identity provider that owns credentials, the document store that owns the
// role-bearing profile, and the edge layer that can only see a cookie.
//
// The core pieces are the Listener (single consumer of provider credential
// events), the TokenBridge (mirrors the bearer token into the auth cookie),
// the ProfileSynchronizer (resolves or provisions the persisted profile), and
// the AuthStore (the one mutable state container guards subscribe to).
package authsync
