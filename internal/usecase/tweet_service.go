package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// TweetPage is one page of the tweet listing together with the normalized
// page and limit that produced it.
type TweetPage struct {
	Tweets []*model.TweetWithOwner
	Page   int
	Limit  int
}

// TweetService manages short text posts.
type TweetService interface {
	// Create posts a new tweet owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, content string) (*model.Tweet, error)

	// Get retrieves a tweet with its owner profile.
	Get(ctx context.Context, tweetID uuid.UUID) (*model.TweetWithOwner, error)

	// List returns a page of all tweets, newest first, along with the page
	// and limit actually applied.
	List(ctx context.Context, page, limit int) (*TweetPage, error)

	// ListByOwner returns all of ownerID's tweets, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TweetWithOwner, error)

	// Update replaces the content. Only the owner may update.
	Update(ctx context.Context, tweetID, callerID uuid.UUID, content string) (*model.TweetWithOwner, error)

	// Delete removes the tweet. Only the owner may delete.
	Delete(ctx context.Context, tweetID, callerID uuid.UUID) error
}

type tweetService struct {
	tweets repository.TweetRepository
}

// NewTweetService creates a new TweetService instance.
func NewTweetService(tweets repository.TweetRepository) TweetService {
	return &tweetService{tweets: tweets}
}

func (s *tweetService) Create(ctx context.Context, ownerID uuid.UUID, content string) (*model.Tweet, error) {
	tweet, err := model.NewTweet(ownerID, content)
	if err != nil {
		return nil, err
	}

	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}

	return tweet, nil
}

func (s *tweetService) Get(ctx context.Context, tweetID uuid.UUID) (*model.TweetWithOwner, error) {
	return s.tweets.GetByID(ctx, tweetID)
}

func (s *tweetService) List(ctx context.Context, page, limit int) (*TweetPage, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = defaultPageSize
	}
	if err := validatePagination(page, limit); err != nil {
		return nil, err
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	tweets, err := s.tweets.ListAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	return &TweetPage{Tweets: tweets, Page: page, Limit: limit}, nil
}

func (s *tweetService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TweetWithOwner, error) {
	return s.tweets.ListByOwner(ctx, ownerID)
}

// Update re-validates the content through the model constructor rules before
// persisting.
func (s *tweetService) Update(ctx context.Context, tweetID, callerID uuid.UUID, content string) (*model.TweetWithOwner, error) {
	tweet, err := s.getOwned(ctx, tweetID, callerID)
	if err != nil {
		return nil, err
	}

	if _, err := model.NewTweet(callerID, content); err != nil {
		return nil, err
	}

	if err := s.tweets.UpdateContent(ctx, tweetID, content); err != nil {
		return nil, err
	}

	tweet.Content = content
	return tweet, nil
}

func (s *tweetService) Delete(ctx context.Context, tweetID, callerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, tweetID, callerID); err != nil {
		return err
	}
	return s.tweets.Delete(ctx, tweetID)
}

func (s *tweetService) getOwned(ctx context.Context, tweetID, callerID uuid.UUID) (*model.TweetWithOwner, error) {
	tweet, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return tweet, nil
}
