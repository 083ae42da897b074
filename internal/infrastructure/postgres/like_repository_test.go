package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/takumi-dev/cliptube/internal/domain/model"
)

func TestLikeRepository_Toggle(t *testing.T) {
	userID := uuid.New()
	videoID := uuid.New()

	tests := []struct {
		name      string
		mockFn    func(mock pgxmock.PgxPoolIface)
		wantLiked bool
		wantErr   error
	}{
		{
			name: "insert leg creates the edge",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(userID, "video", videoID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
			wantLiked: true,
			wantErr:   nil,
		},
		{
			name: "existing edge falls through to the delete leg",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(userID, "video", videoID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectExec("DELETE FROM likes").
					WithArgs(userID, "video", videoID).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			wantLiked: false,
			wantErr:   nil,
		},
		{
			name: "concurrent removal still converges on absent",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(userID, "video", videoID, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 0))
				mock.ExpectExec("DELETE FROM likes").
					WithArgs(userID, "video", videoID).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			wantLiked: false,
			wantErr:   nil,
		},
		{
			name: "insert error",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec("INSERT INTO likes").
					WithArgs(userID, "video", videoID, pgxmock.AnyArg()).
					WillReturnError(errors.New("connection refused"))
			},
			wantLiked: false,
			wantErr:   errors.New("failed to insert like"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewLikeRepository(mock)
			liked, err := repo.Toggle(context.Background(), userID, model.TargetVideo, videoID)

			if tt.wantErr != nil {
				if err == nil {
					t.Errorf("Toggle() expected error, got nil")
					return
				}
				if !containsError(err, tt.wantErr) {
					t.Errorf("Toggle() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("Toggle() unexpected error = %v", err)
				return
			}

			if liked != tt.wantLiked {
				t.Errorf("Toggle() = %v, want %v", liked, tt.wantLiked)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestLikeRepository_Count(t *testing.T) {
	tweetID := uuid.New()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"count"}).AddRow(int64(42))
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("tweet", tweetID).
		WillReturnRows(rows)

	repo := NewLikeRepository(mock)
	count, err := repo.Count(context.Background(), model.TargetTweet, tweetID)
	if err != nil {
		t.Fatalf("Count() unexpected error = %v", err)
	}
	if count != 42 {
		t.Errorf("Count() = %d, want 42", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLikeRepository_ListLikedVideoIDs(t *testing.T) {
	userID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"target_id"}).
		AddRow(first).
		AddRow(second)
	mock.ExpectQuery("SELECT target_id FROM likes").
		WithArgs(userID).
		WillReturnRows(rows)

	repo := NewLikeRepository(mock)
	ids, err := repo.ListLikedVideoIDs(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListLikedVideoIDs() unexpected error = %v", err)
	}

	want := []uuid.UUID{first, second}
	if len(ids) != len(want) {
		t.Fatalf("ListLikedVideoIDs() returned %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ListLikedVideoIDs()[%d] = %v, want %v", i, ids[i], want[i])
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLikeRepository_TopLikedTweets(t *testing.T) {
	now := time.Now()
	ownerID := uuid.New()
	topID := uuid.New()
	runnerUpID := uuid.New()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "owner_id", "content", "created_at", "updated_at",
		"u_id", "username", "email", "avatar_url", "like_count",
	}).
		AddRow(topID, ownerID, "most liked", now, now, ownerID, "alice", "alice@example.com", "", int64(9)).
		AddRow(runnerUpID, ownerID, "second", now, now, ownerID, "alice", "alice@example.com", "", int64(3))
	mock.ExpectQuery("SELECT .* FROM likes l").
		WithArgs(10).
		WillReturnRows(rows)

	repo := NewLikeRepository(mock)
	ranked, err := repo.TopLikedTweets(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopLikedTweets() unexpected error = %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("TopLikedTweets() returned %d entries, want 2", len(ranked))
	}
	if ranked[0].Tweet.ID != topID || ranked[0].LikeCount != 9 {
		t.Errorf("TopLikedTweets()[0] = %+v, want tweet %v with 9 likes", ranked[0], topID)
	}
	if ranked[1].Tweet.ID != runnerUpID || ranked[1].LikeCount != 3 {
		t.Errorf("TopLikedTweets()[1] = %+v, want tweet %v with 3 likes", ranked[1], runnerUpID)
	}
	if ranked[0].Tweet.Owner.Username != "alice" {
		t.Errorf("TopLikedTweets() owner = %q, want alice", ranked[0].Tweet.Owner.Username)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
