package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
)

type BlogRepository interface {
	ListPublished(ctx context.Context, category string, limit, offset int) ([]domain.BlogPost, error)
	CountPublished(ctx context.Context, category string) (int64, error)
	Featured(ctx context.Context, limit int) ([]domain.BlogPost, error)
	Recent(ctx context.Context, limit int) ([]domain.BlogPost, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementShares(ctx context.Context, id uuid.UUID) (int64, error)
	ListAll(ctx context.Context) ([]domain.BlogPost, error)
	SlugTaken(ctx context.Context, slug string, except uuid.UUID) (bool, error)
	Create(ctx context.Context, post *domain.BlogPost) error
	Update(ctx context.Context, post *domain.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BlogPost, error)
}

type CommentRepository interface {
	ListApproved(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) error
	SetModeration(ctx context.Context, id uuid.UUID, approved, spam bool) error
}

type ListPostsInput struct {
	Page     int
	Limit    int
	Category string
}

type FeaturedPosts struct {
	Featured []domain.BlogPost `json:"featured"`
	Recent   []domain.BlogPost `json:"recent"`
}

type PostWithComments struct {
	Post     domain.BlogPost  `json:"post"`
	Comments []domain.Comment `json:"comments"`
}

type CommentInput struct {
	Slug            string
	Name            string
	Email           string
	Content         string
	ParentCommentID string
	IPAddress       string
	UserAgent       string
}

type PostInput struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Excerpt         string   `json:"excerpt"`
	Content         string   `json:"content"`
	Category        string   `json:"category"`
	FeaturedImage   string   `json:"featuredImage"`
	Tags            []string `json:"tags"`
	Author          string   `json:"author"`
	MetaDescription string   `json:"metaDescription"`
	MetaKeywords    []string `json:"metaKeywords"`
	IsPublished     *bool    `json:"isPublished"`
	IsFeatured      *bool    `json:"isFeatured"`
}

type BlogService interface {
	ListPosts(ctx context.Context, input ListPostsInput) (*domain.PostPage, error)
	Featured(ctx context.Context, limit int) (*FeaturedPosts, error)
	GetPost(ctx context.Context, slug string) (*PostWithComments, error)
	Share(ctx context.Context, slug, platform string) (int64, error)
	Comment(ctx context.Context, input CommentInput) (*domain.Comment, error)

	ListAll(ctx context.Context) ([]domain.BlogPost, error)
	Create(ctx context.Context, input PostInput) (*domain.BlogPost, error)
	Update(ctx context.Context, id string, input PostInput) (*domain.BlogPost, error)
	Delete(ctx context.Context, id string) error
	ModerateComment(ctx context.Context, id string, approved, spam bool) error
}
