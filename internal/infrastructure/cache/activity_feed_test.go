package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRedisActivityFeed_PushAndList(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	feed := NewRedisActivityFeed(client, 50)
	ctx := context.Background()
	channelID := uuid.New()

	older := ActivityEntry{
		Type:       "liked",
		ActorID:    uuid.New().String(),
		TargetKind: "video",
		TargetID:   uuid.New().String(),
		OccurredAt: time.Now().Add(-time.Minute).Truncate(time.Millisecond).UTC(),
	}
	newer := ActivityEntry{
		Type:       "subscribed",
		ActorID:    uuid.New().String(),
		TargetID:   channelID.String(),
		OccurredAt: time.Now().Truncate(time.Millisecond).UTC(),
	}

	if err := feed.Push(ctx, channelID, older); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if err := feed.Push(ctx, channelID, newer); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	entries, err := feed.List(ctx, channelID, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}
	if entries[0] != newer {
		t.Errorf("entries[0] = %+v, want most recent %+v", entries[0], newer)
	}
	if entries[1] != older {
		t.Errorf("entries[1] = %+v, want %+v", entries[1], older)
	}
}

func TestRedisActivityFeed_TrimsToMaxEntries(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	feed := NewRedisActivityFeed(client, 3)
	ctx := context.Background()
	channelID := uuid.New()

	for i := 0; i < 5; i++ {
		entry := ActivityEntry{
			Type:       "liked",
			ActorID:    fmt.Sprintf("actor-%d", i),
			TargetKind: "tweet",
			TargetID:   uuid.New().String(),
			OccurredAt: time.Now().UTC(),
		}
		if err := feed.Push(ctx, channelID, entry); err != nil {
			t.Fatalf("Push failed: %v", err)
		}
	}

	entries, err := feed.List(ctx, channelID, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("List returned %d entries, want 3", len(entries))
	}
	// Oldest two pushes were trimmed away.
	if entries[0].ActorID != "actor-4" || entries[2].ActorID != "actor-2" {
		t.Errorf("unexpected survivors: %+v", entries)
	}
}

func TestRedisActivityFeed_ListLimit(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	feed := NewRedisActivityFeed(client, 50)
	ctx := context.Background()
	channelID := uuid.New()

	for i := 0; i < 4; i++ {
		entry := ActivityEntry{
			Type:       "subscribed",
			ActorID:    uuid.New().String(),
			TargetID:   channelID.String(),
			OccurredAt: time.Now().UTC(),
		}
		if err := feed.Push(ctx, channelID, entry); err != nil {
			t.Fatalf("Push failed: %v", err)
		}
	}

	entries, err := feed.List(ctx, channelID, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("List returned %d entries, want 2", len(entries))
	}
}

func TestRedisActivityFeed_ListEmptyFeed(t *testing.T) {
	_, client, cleanup := setupTestRedis(t)
	defer cleanup()

	feed := NewRedisActivityFeed(client, 50)

	entries, err := feed.List(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List on empty feed returned %d entries, want 0", len(entries))
	}
}
