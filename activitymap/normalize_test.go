package activitymap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authsync "github.com/workbridge/go-authsync"
)

func TestNormalizeDefaults(t *testing.T) {
	occurred := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got := Normalize(authsync.ActivityEvent{
		EventType:  authsync.ActivityEventLoginSuccess,
		Actor:      authsync.ActorRef{ID: "u1", Type: "user"},
		UserID:     "u1",
		OccurredAt: occurred,
	})

	assert.Equal(t, "u1", got.ActorID)
	assert.Equal(t, "auth.login.success", got.Verb)
	assert.Equal(t, "user", got.ObjectType)
	assert.Equal(t, "u1", got.ObjectID)
	assert.Equal(t, "auth", got.Channel)
	assert.Equal(t, occurred, got.OccurredAt)
	assert.Equal(t, "user", got.Metadata[MetadataKeyActorType])
}

func TestNormalizeActorFallback(t *testing.T) {
	got := Normalize(authsync.ActivityEvent{
		EventType: authsync.ActivityEventLogout,
	})
	assert.Equal(t, "system", got.ActorID)

	got = Normalize(authsync.ActivityEvent{
		EventType: authsync.ActivityEventLogout,
	}, WithActorFallback("cron"))
	assert.Equal(t, "cron", got.ActorID)

	got = Normalize(authsync.ActivityEvent{
		EventType: authsync.ActivityEventLogout,
		UserID:    "u2",
	})
	assert.Equal(t, "u2", got.ActorID)
}

func TestNormalizeRoleTransitionMetadata(t *testing.T) {
	got := Normalize(authsync.ActivityEvent{
		EventType: authsync.ActivityEventRoleChanged,
		Actor:     authsync.ActorRef{ID: "admin-1", Type: "user"},
		UserID:    "u1",
		FromRole:  authsync.RoleBuyer,
		ToRole:    authsync.RoleAdmin,
	})

	assert.Equal(t, "buyer", got.Metadata[MetadataKeyFromRole])
	assert.Equal(t, "admin", got.Metadata[MetadataKeyToRole])
}

func TestNormalizeKeepsExistingMetadata(t *testing.T) {
	event := authsync.ActivityEvent{
		EventType: authsync.ActivityEventRegisterSuccess,
		UserID:    "u1",
		Metadata:  map[string]any{"source": "web", MetadataKeyActorType: "service"},
		Actor:     authsync.ActorRef{ID: "u1", Type: "user"},
	}

	got := Normalize(event)

	assert.Equal(t, "web", got.Metadata["source"])
	assert.Equal(t, "service", got.Metadata[MetadataKeyActorType], "existing actor type wins")
	assert.Equal(t, map[string]any{"source": "web", MetadataKeyActorType: "service"}, event.Metadata, "input not mutated")
}

func TestNormalizeOptions(t *testing.T) {
	got := Normalize(authsync.ActivityEvent{
		EventType: authsync.ActivityEventProfileCreated,
		UserID:    "u1",
	},
		WithDefaultChannel("audit"),
		WithDefaultObjectType("profile"),
		WithObjectIDResolver(func(event authsync.ActivityEvent) string {
			return "profile:" + event.UserID
		}),
	)

	assert.Equal(t, "audit", got.Channel)
	assert.Equal(t, "profile", got.ObjectType)
	assert.Equal(t, "profile:u1", got.ObjectID)
}

func TestNormalizeDefaultsOccurredAt(t *testing.T) {
	before := time.Now().UTC()
	got := Normalize(authsync.ActivityEvent{EventType: authsync.ActivityEventLogout})
	assert.False(t, got.OccurredAt.Before(before))
}

func TestSinkWrapsRecordedEvents(t *testing.T) {
	var recorded []authsync.ActivityEvent
	capture := authsync.ActivitySinkFunc(func(_ context.Context, event authsync.ActivityEvent) error {
		recorded = append(recorded, event)
		return nil
	})

	sink := Sink(capture)
	err := sink.Record(context.Background(), authsync.ActivityEvent{
		EventType: authsync.ActivityEventRoleChanged,
		Actor:     authsync.ActorRef{ID: "admin-1", Type: "user"},
		UserID:    "u1",
		FromRole:  authsync.RoleBuyer,
		ToRole:    authsync.RoleProvider,
	})

	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "buyer", recorded[0].Metadata[MetadataKeyFromRole])
	assert.Equal(t, "provider", recorded[0].Metadata[MetadataKeyToRole])
	assert.False(t, recorded[0].OccurredAt.IsZero())
}

func TestSinkNilNext(t *testing.T) {
	sink := Sink(nil)
	assert.NoError(t, sink.Record(context.Background(), authsync.ActivityEvent{}))
}
