package usecase

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
	"github.com/takumi-dev/cliptube/internal/infrastructure/cache"
)

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	createFn             func(ctx context.Context, user *model.User) error
	getByIDFn            func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByUsernameFn      func(ctx context.Context, username string) (*model.User, error)
	getProfilesFn        func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.PublicProfile, error)
	updateProfileFn      func(ctx context.Context, user *model.User) error
	updatePasswordHashFn func(ctx context.Context, id uuid.UUID, hash string) error
	setRefreshTokenFn    func(ctx context.Context, id uuid.UUID, token string) error
	rotateRefreshTokenFn func(ctx context.Context, id uuid.UUID, current, next string) error
	appendWatchHistoryFn func(ctx context.Context, id uuid.UUID, videoID uuid.UUID) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.PublicProfile, error) {
	if m.getProfilesFn != nil {
		return m.getProfilesFn(ctx, ids)
	}
	return map[uuid.UUID]model.PublicProfile{}, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	if m.updatePasswordHashFn != nil {
		return m.updatePasswordHashFn(ctx, id, hash)
	}
	return nil
}

func (m *mockUserRepository) SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	if m.setRefreshTokenFn != nil {
		return m.setRefreshTokenFn(ctx, id, token)
	}
	return nil
}

func (m *mockUserRepository) RotateRefreshToken(ctx context.Context, id uuid.UUID, current, next string) error {
	if m.rotateRefreshTokenFn != nil {
		return m.rotateRefreshTokenFn(ctx, id, current, next)
	}
	return nil
}

func (m *mockUserRepository) AppendWatchHistory(ctx context.Context, id uuid.UUID, videoID uuid.UUID) error {
	if m.appendWatchHistoryFn != nil {
		return m.appendWatchHistoryFn(ctx, id, videoID)
	}
	return nil
}

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn         func(ctx context.Context, video *model.Video) error
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*model.VideoWithOwner, error)
	incrementViewsFn func(ctx context.Context, id uuid.UUID) error
	listFn           func(ctx context.Context, opts repository.ListVideosOptions) ([]*model.VideoWithOwner, error)
	listByIDsFn      func(ctx context.Context, ids []uuid.UUID) ([]*model.VideoWithOwner, error)
	listByOwnerFn    func(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error)
	listTrendingFn   func(ctx context.Context, limit int) ([]*model.VideoWithOwner, error)
	updateFn         func(ctx context.Context, video *model.Video) error
	deleteFn         func(ctx context.Context, id uuid.UUID) error
	ownerStatsFn     func(ctx context.Context, ownerID uuid.UUID) (int64, int64, error)
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VideoWithOwner, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) List(ctx context.Context, opts repository.ListVideosOptions) ([]*model.VideoWithOwner, error) {
	if m.listFn != nil {
		return m.listFn(ctx, opts)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.VideoWithOwner, error) {
	if m.listByIDsFn != nil {
		return m.listByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Video, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockVideoRepository) ListTrending(ctx context.Context, limit int) ([]*model.VideoWithOwner, error) {
	if m.listTrendingFn != nil {
		return m.listTrendingFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) OwnerStats(ctx context.Context, ownerID uuid.UUID) (int64, int64, error) {
	if m.ownerStatsFn != nil {
		return m.ownerStatsFn(ctx, ownerID)
	}
	return 0, 0, nil
}

// mockLikeRepository provides a configurable mock for LikeRepository.
type mockLikeRepository struct {
	toggleFn            func(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error)
	existsFn            func(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error)
	countFn             func(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error)
	countForVideosFn    func(ctx context.Context, videoIDs []uuid.UUID) (int64, error)
	listLikedVideoIDsFn func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	topLikedTweetsFn    func(ctx context.Context, limit int) ([]model.RankedTweet, error)
}

func (m *mockLikeRepository) Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, userID, kind, targetID)
	}
	return false, nil
}

func (m *mockLikeRepository) Exists(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, userID, kind, targetID)
	}
	return false, nil
}

func (m *mockLikeRepository) Count(ctx context.Context, kind model.TargetKind, targetID uuid.UUID) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, kind, targetID)
	}
	return 0, nil
}

func (m *mockLikeRepository) CountForVideos(ctx context.Context, videoIDs []uuid.UUID) (int64, error) {
	if m.countForVideosFn != nil {
		return m.countForVideosFn(ctx, videoIDs)
	}
	return 0, nil
}

func (m *mockLikeRepository) ListLikedVideoIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if m.listLikedVideoIDsFn != nil {
		return m.listLikedVideoIDsFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockLikeRepository) TopLikedTweets(ctx context.Context, limit int) ([]model.RankedTweet, error) {
	if m.topLikedTweetsFn != nil {
		return m.topLikedTweetsFn(ctx, limit)
	}
	return nil, nil
}

// mockSubscriptionRepository provides a configurable mock for SubscriptionRepository.
type mockSubscriptionRepository struct {
	toggleFn                 func(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	existsFn                 func(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	countSubscribersFn       func(ctx context.Context, channelID uuid.UUID) (int64, error)
	listSubscribersFn        func(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error)
	listSubscribedChannelsFn func(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error)
}

func (m *mockSubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, subscriberID, channelID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, subscriberID, channelID)
	}
	return false, nil
}

func (m *mockSubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	if m.countSubscribersFn != nil {
		return m.countSubscribersFn(ctx, channelID)
	}
	return 0, nil
}

func (m *mockSubscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]model.PublicProfile, error) {
	if m.listSubscribersFn != nil {
		return m.listSubscribersFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]model.PublicProfile, error) {
	if m.listSubscribedChannelsFn != nil {
		return m.listSubscribedChannelsFn(ctx, subscriberID)
	}
	return nil, nil
}

// mockTweetRepository provides a configurable mock for TweetRepository.
type mockTweetRepository struct {
	createFn        func(ctx context.Context, tweet *model.Tweet) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.TweetWithOwner, error)
	listAllFn       func(ctx context.Context, page, limit int) ([]*model.TweetWithOwner, error)
	listByOwnerFn   func(ctx context.Context, ownerID uuid.UUID) ([]*model.TweetWithOwner, error)
	updateContentFn func(ctx context.Context, id uuid.UUID, content string) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	if m.createFn != nil {
		return m.createFn(ctx, tweet)
	}
	return nil
}

func (m *mockTweetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TweetWithOwner, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrTweetNotFound
}

func (m *mockTweetRepository) ListAll(ctx context.Context, page, limit int) ([]*model.TweetWithOwner, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, page, limit)
	}
	return nil, nil
}

func (m *mockTweetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.TweetWithOwner, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTweetRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	if m.updateContentFn != nil {
		return m.updateContentFn(ctx, id, content)
	}
	return nil
}

func (m *mockTweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockCommentRepository provides a configurable mock for CommentRepository.
type mockCommentRepository struct {
	createFn        func(ctx context.Context, comment *model.Comment) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	listByVideoFn   func(ctx context.Context, videoID uuid.UUID, page, limit int) ([]*model.CommentWithOwner, error)
	updateContentFn func(ctx context.Context, id uuid.UUID, content string) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) ([]*model.CommentWithOwner, error) {
	if m.listByVideoFn != nil {
		return m.listByVideoFn(ctx, videoID, page, limit)
	}
	return nil, nil
}

func (m *mockCommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	if m.updateContentFn != nil {
		return m.updateContentFn(ctx, id, content)
	}
	return nil
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockPlaylistRepository provides a configurable mock for PlaylistRepository.
type mockPlaylistRepository struct {
	createFn      func(ctx context.Context, playlist *model.Playlist) error
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*model.Playlist, error)
	listByOwnerFn func(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error)
	updateFn      func(ctx context.Context, playlist *model.Playlist) error
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	if m.createFn != nil {
		return m.createFn(ctx, playlist)
	}
	return nil
}

func (m *mockPlaylistRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Playlist, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrPlaylistNotFound
}

func (m *mockPlaylistRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Playlist, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockPlaylistRepository) Update(ctx context.Context, playlist *model.Playlist) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, playlist)
	}
	return nil
}

func (m *mockPlaylistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockMediaStorage provides a configurable mock for MediaStorage.
type mockMediaStorage struct {
	uploadFn                       func(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	deleteFn                       func(ctx context.Context, key string) error
	existsFn                       func(ctx context.Context, key string) (bool, error)
}

func (m *mockMediaStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, size, contentType)
	}
	return "http://example.com/media/" + key, nil
}

func (m *mockMediaStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download/" + key, nil
}

func (m *mockMediaStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockMediaStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

// mockEventQueue provides a configurable mock for EventQueue.
type mockEventQueue struct {
	publishEngagementEventFn  func(ctx context.Context, event repository.EngagementEvent) error
	consumeEngagementEventsFn func(ctx context.Context, handler func(event repository.EngagementEvent) error) error
}

func (m *mockEventQueue) PublishEngagementEvent(ctx context.Context, event repository.EngagementEvent) error {
	if m.publishEngagementEventFn != nil {
		return m.publishEngagementEventFn(ctx, event)
	}
	return nil
}

func (m *mockEventQueue) ConsumeEngagementEvents(ctx context.Context, handler func(event repository.EngagementEvent) error) error {
	if m.consumeEngagementEventsFn != nil {
		return m.consumeEngagementEventsFn(ctx, handler)
	}
	return nil
}

func (m *mockEventQueue) Close() error {
	return nil
}

// mockCountCache provides a configurable mock for cache.CountCache.
type mockCountCache struct {
	getFn    func(ctx context.Context, key string) (int64, error)
	setFn    func(ctx context.Context, key string, count int64, ttl time.Duration) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockCountCache) Get(ctx context.Context, key string) (int64, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return -1, nil
}

func (m *mockCountCache) Set(ctx context.Context, key string, count int64, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, count, ttl)
	}
	return nil
}

func (m *mockCountCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

// mockActivityFeed provides a configurable mock for cache.ActivityFeed.
type mockActivityFeed struct {
	pushFn func(ctx context.Context, channelID uuid.UUID, entry cache.ActivityEntry) error
	listFn func(ctx context.Context, channelID uuid.UUID, limit int) ([]cache.ActivityEntry, error)
}

func (m *mockActivityFeed) Push(ctx context.Context, channelID uuid.UUID, entry cache.ActivityEntry) error {
	if m.pushFn != nil {
		return m.pushFn(ctx, channelID, entry)
	}
	return nil
}

func (m *mockActivityFeed) List(ctx context.Context, channelID uuid.UUID, limit int) ([]cache.ActivityEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, channelID, limit)
	}
	return nil, nil
}
