package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryMemes        Category = "memes"
	CategoryAnalysis     Category = "analysis"
	CategoryBehindScenes Category = "behind-scenes"
	CategoryUpdates      Category = "updates"
	CategoryNews         Category = "news"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMemes, CategoryAnalysis, CategoryBehindScenes, CategoryUpdates, CategoryNews:
		return true
	}
	return false
}

type BlogPost struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content,omitempty"`
	Excerpt         string     `json:"excerpt"`
	FeaturedImage   string     `json:"featuredImage"`
	Category        Category   `json:"category"`
	Tags            []string   `json:"tags"`
	Author          string     `json:"author"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	MetaKeywords    []string   `json:"metaKeywords,omitempty"`
	ViewCount       int64      `json:"viewCount"`
	ShareCount      int64      `json:"shareCount"`
	IsPublished     bool       `json:"isPublished"`
	IsFeatured      bool       `json:"isFeatured"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Comment struct {
	ID              uuid.UUID  `json:"id"`
	BlogPostID      uuid.UUID  `json:"blogPostId"`
	Name            string     `json:"name"`
	Email           string     `json:"-"`
	Content         string     `json:"content"`
	IsApproved      bool       `json:"isApproved"`
	IsSpam          bool       `json:"-"`
	Likes           int64      `json:"likes"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty"`
	IsReply         bool       `json:"isReply"`
	IPAddress       string     `json:"-"`
	UserAgent       string     `json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		TotalPosts:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

type PostPage struct {
	Posts      []BlogPost `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)
	htmlTags    = regexp.MustCompile(`<[^>]*>`)
)

// Slugify derives a URL slug from a post title.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

const excerptLength = 300

// ExcerptFrom strips markup from content and keeps the first 300 characters.
func ExcerptFrom(content string) string {
	text := []rune(htmlTags.ReplaceAllString(content, ""))
	if len(text) > excerptLength {
		text = text[:excerptLength]
	}
	return strings.TrimSpace(string(text)) + "..."
}
