package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/takumi-dev/cliptube/internal/domain/model"
	"github.com/takumi-dev/cliptube/internal/domain/repository"
)

// CommentPage is one page of a video's comments together with the
// normalized page and limit that produced it.
type CommentPage struct {
	Comments []*model.CommentWithOwner
	Page     int
	Limit    int
}

// CommentService manages comments attached to videos.
type CommentService interface {
	// Create posts a comment on videoID. The video must exist.
	Create(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*model.Comment, error)

	// ListByVideo returns a page of the video's comments, newest first,
	// along with the page and limit actually applied.
	ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) (*CommentPage, error)

	// Update replaces the content. Only the owner may update.
	Update(ctx context.Context, commentID, callerID uuid.UUID, content string) (*model.Comment, error)

	// Delete removes the comment. Only the owner may delete.
	Delete(ctx context.Context, commentID, callerID uuid.UUID) error
}

type commentService struct {
	comments repository.CommentRepository
	videos   repository.VideoRepository
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(comments repository.CommentRepository, videos repository.VideoRepository) CommentService {
	return &commentService{comments: comments, videos: videos}
}

// Create checks the video exists so comments cannot attach to nothing.
func (s *commentService) Create(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*model.Comment, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment, err := model.NewComment(videoID, ownerID, content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *commentService) ListByVideo(ctx context.Context, videoID uuid.UUID, page, limit int) (*CommentPage, error) {
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

	comments, err := s.comments.ListByVideo(ctx, videoID, page, limit)
	if err != nil {
		return nil, err
	}

	return &CommentPage{Comments: comments, Page: page, Limit: limit}, nil
}

func (s *commentService) Update(ctx context.Context, commentID, callerID uuid.UUID, content string) (*model.Comment, error) {
	comment, err := s.getOwned(ctx, commentID, callerID)
	if err != nil {
		return nil, err
	}

	if content == "" {
		return nil, model.ErrEmptyContent
	}

	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}

	comment.Content = content
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, commentID, callerID uuid.UUID) error {
	if _, err := s.getOwned(ctx, commentID, callerID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *commentService) getOwned(ctx context.Context, commentID, callerID uuid.UUID) (*model.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != callerID {
		return nil, ErrForbidden
	}
	return comment, nil
}
