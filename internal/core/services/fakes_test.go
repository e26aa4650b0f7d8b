package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/fanvote/internal/core/domain"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

// memStore backs the contestant and vote repositories with the same
// admission guarantees the Postgres implementation gives.
type memStore struct {
	mu          sync.Mutex
	contestants map[uuid.UUID]*domain.Contestant
	votes       []domain.Vote
	guards      map[string]bool
	failWith    error
	// failListing breaks only the roster reads, leaving writes intact.
	failListing error
}

func newMemStore(contestants ...domain.Contestant) *memStore {
	s := &memStore{
		contestants: make(map[uuid.UUID]*domain.Contestant),
		guards:      make(map[string]bool),
	}
	for i := range contestants {
		c := contestants[i]
		s.contestants[c.ID] = &c
	}
	return s
}

func contestant(name string, votes int64, active bool) domain.Contestant {
	return domain.Contestant{ID: uuid.New(), Name: name, Votes: votes, IsActive: active}
}

func (s *memStore) votesFor(id uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contestants[id].Votes
}

func (s *memStore) ledgerSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	c, ok := s.contestants[id]
	if !ok {
		return nil, domain.ErrContestantNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *memStore) sorted(activeOnly bool) []domain.Contestant {
	list := make([]domain.Contestant, 0, len(s.contestants))
	for _, c := range s.contestants {
		if activeOnly && !c.IsActive {
			continue
		}
		list = append(list, *c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Votes != list[j].Votes {
			return list[i].Votes > list[j].Votes
		}
		return list[i].Name < list[j].Name
	})
	return list
}

func (s *memStore) ListActive(context.Context) ([]domain.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	if s.failListing != nil {
		return nil, s.failListing
	}
	return s.sorted(true), nil
}

func (s *memStore) ListAll(context.Context) ([]domain.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.sorted(false), nil
}

func (s *memStore) TopActive(_ context.Context, limit int) ([]domain.TopContestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var top []domain.TopContestant
	for _, c := range s.sorted(true) {
		if len(top) == limit {
			break
		}
		top = append(top, domain.TopContestant{ID: c.ID, Name: c.Name, Votes: c.Votes})
	}
	return top, nil
}

func (s *memStore) CountActive(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sorted(true))), nil
}

func (s *memStore) Create(_ context.Context, c *domain.Contestant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *c
	s.contestants[c.ID] = &copied
	return nil
}

func (s *memStore) Update(_ context.Context, c *domain.Contestant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.contestants[c.ID]
	if !ok {
		return domain.ErrContestantNotFound
	}
	copied := *c
	copied.Votes = existing.Votes
	s.contestants[c.ID] = &copied
	c.Votes = existing.Votes
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contestants[id]; !ok {
		return domain.ErrContestantNotFound
	}
	delete(s.contestants, id)
	return nil
}

func (s *memStore) DecrementVotes(_ context.Context, id uuid.UUID) (*domain.Contestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contestants[id]
	if !ok {
		return nil, domain.ErrContestantNotFound
	}
	c.Votes = max(0, c.Votes-1)
	copied := *c
	return &copied, nil
}

func (s *memStore) HasVoted(_ context.Context, dayKey string, contestantID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	for _, v := range s.votes {
		if v.DayKey == dayKey && v.ContestantID == contestantID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) countByDayKey(dayKey string) int {
	n := 0
	for _, v := range s.votes {
		if v.DayKey == dayKey && v.IsValid {
			n++
		}
	}
	return n
}

func (s *memStore) CountByDayKey(_ context.Context, dayKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	return s.countByDayKey(dayKey), nil
}

func (s *memStore) ListByDayKey(_ context.Context, dayKey string) ([]domain.VotedContestant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var voted []domain.VotedContestant
	for _, v := range s.votes {
		if v.DayKey != dayKey {
			continue
		}
		name := ""
		if c, ok := s.contestants[v.ContestantID]; ok {
			name = c.Name
		}
		voted = append(voted, domain.VotedContestant{ContestantID: v.ContestantID, ContestantName: name, VoteTime: v.VoteDate})
	}
	return voted, nil
}

func (s *memStore) Record(_ context.Context, vote *domain.Vote, dailyLimit int) (*ports.RecordedVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	dailyCount := 0
	if dailyLimit > 0 {
		dailyCount = s.countByDayKey(vote.DayKey)
		if dailyCount >= dailyLimit {
			return nil, domain.ErrQuotaExceeded
		}
		dailyCount++
	}
	guard := vote.GuardKey + "|" + vote.ContestantID.String()
	if s.guards[guard] {
		return nil, domain.ErrAlreadyVoted
	}
	c, ok := s.contestants[vote.ContestantID]
	if !ok || !c.IsActive {
		return nil, domain.ErrContestantNotFound
	}
	s.guards[guard] = true
	s.votes = append(s.votes, *vote)
	c.Votes++

	var total int64
	for _, other := range s.contestants {
		if other.IsActive {
			total += other.Votes
		}
	}
	return &ports.RecordedVote{Contestant: *c, DailyCount: dailyCount, ActiveTotal: total}, nil
}

func (s *memStore) CountValid(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.votes)), nil
}

func (s *memStore) CountValidSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, v := range s.votes {
		if !v.VoteDate.Before(since) {
			n++
		}
	}
	return n, nil
}

type publishedEvent struct {
	Room    string
	Event   string
	Payload any
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, room, event string, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{Room: room, Event: event, Payload: payload})
	return n.err
}

func (n *recordingNotifier) snapshot() []publishedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]publishedEvent(nil), n.events...)
}

type memBlog struct {
	mu       sync.Mutex
	posts    map[uuid.UUID]*domain.BlogPost
	comments map[uuid.UUID]*domain.Comment
}

func newMemBlog(posts ...domain.BlogPost) *memBlog {
	b := &memBlog{
		posts:    make(map[uuid.UUID]*domain.BlogPost),
		comments: make(map[uuid.UUID]*domain.Comment),
	}
	for i := range posts {
		p := posts[i]
		b.posts[p.ID] = &p
	}
	return b
}

func (b *memBlog) published(category string) []domain.BlogPost {
	var list []domain.BlogPost
	for _, p := range b.posts {
		if p.IsPublished && (category == "" || string(p.Category) == category) {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })
	return list
}

func (b *memBlog) ListPublished(_ context.Context, category string, limit, offset int) ([]domain.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.published(category)
	if offset >= len(list) {
		return []domain.BlogPost{}, nil
	}
	return list[offset:min(len(list), offset+limit)], nil
}

func (b *memBlog) CountPublished(_ context.Context, category string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int64(len(b.published(category))), nil
}

func (b *memBlog) Featured(_ context.Context, limit int) ([]domain.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var list []domain.BlogPost
	for _, p := range b.published("") {
		if p.IsFeatured && len(list) < limit {
			list = append(list, p)
		}
	}
	return list, nil
}

func (b *memBlog) Recent(_ context.Context, limit int) ([]domain.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.published("")
	return list[:min(len(list), limit)], nil
}

func (b *memBlog) GetPublishedBySlug(_ context.Context, slug string) (*domain.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.posts {
		if p.Slug == slug && p.IsPublished {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (b *memBlog) GetByID(_ context.Context, id uuid.UUID) (*domain.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (b *memBlog) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts[id].ViewCount++
	return b.posts[id].ViewCount, nil
}

func (b *memBlog) IncrementShares(_ context.Context, id uuid.UUID) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.posts[id].ShareCount++
	return b.posts[id].ShareCount, nil
}

func (b *memBlog) views(id uuid.UUID) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.posts[id].ViewCount
}

func (b *memBlog) ListAll(context.Context) ([]domain.BlogPost, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var list []domain.BlogPost
	for _, p := range b.posts {
		list = append(list, *p)
	}
	return list, nil
}

func (b *memBlog) SlugTaken(_ context.Context, slug string, except uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.posts {
		if p.Slug == slug && p.ID != except {
			return true, nil
		}
	}
	return false, nil
}

func (b *memBlog) Create(_ context.Context, post *domain.BlogPost) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := *post
	b.posts[post.ID] = &copied
	return nil
}

func (b *memBlog) Update(_ context.Context, post *domain.BlogPost) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.posts[post.ID]; !ok {
		return domain.ErrPostNotFound
	}
	copied := *post
	b.posts[post.ID] = &copied
	return nil
}

func (b *memBlog) Delete(_ context.Context, id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(b.posts, id)
	return nil
}

// memComments implements the comment repository on the same lock as the posts.
type memComments struct{ *memBlog }

func (c memComments) ListApproved(_ context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := []domain.Comment{}
	for _, cm := range c.comments {
		if cm.BlogPostID == postID && cm.IsApproved && !cm.IsSpam {
			list = append(list, *cm)
		}
	}
	return list, nil
}

func (c memComments) GetByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cm, ok := c.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	copied := *cm
	return &copied, nil
}

func (c memComments) Create(_ context.Context, comment *domain.Comment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *comment
	c.comments[comment.ID] = &copied
	return nil
}

func (c memComments) SetModeration(_ context.Context, id uuid.UUID, approved, spam bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cm, ok := c.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	cm.IsApproved = approved
	cm.IsSpam = spam
	return nil
}

func post(title string, published bool) domain.BlogPost {
	return domain.BlogPost{
		ID:          uuid.New(),
		Title:       title,
		Slug:        domain.Slugify(title),
		Content:     "<p>" + title + "</p>",
		Category:    domain.CategoryNews,
		IsPublished: published,
	}
}

func containsEvent(events []publishedEvent, event string) bool {
	for _, e := range events {
		if strings.EqualFold(e.Event, event) {
			return true
		}
	}
	return false
}
