package service

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vitalpress/vitalpress-backend/internal/blog"
	"github.com/vitalpress/vitalpress-backend/internal/blog/repository"
	"github.com/vitalpress/vitalpress-backend/pkg/logger"
)

// Field bounds for blog content.
const (
	TitleMinLen   = 3
	TitleMaxLen   = 200
	BodyMinLen    = 50
	SummaryMaxLen = 300
	TagMaxLen     = 40
	MaxTags       = 15
	CommentMaxLen = 1000
	ReasonMaxLen  = 500
)

// UserDirectory resolves display data for comment authors.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// MediaRemover deletes an externally stored media reference. Used for
// best-effort cleanup when content is deleted or its image replaced.
type MediaRemover interface {
	Remove(ctx context.Context, ref string) error
}

// Service implements the content lifecycle, moderation and engagement rules
// on top of a Repository. All role checks happen here; handlers only map
// HTTP to these operations.
type Service struct {
	repo  repository.Repository
	users UserDirectory
	media MediaRemover
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// WithUsers attaches an optional user directory for comment display names.
func (s *Service) WithUsers(d UserDirectory) *Service {
	s.users = d
	return s
}

// WithMedia attaches an optional media store for image cleanup.
func (s *Service) WithMedia(m MediaRemover) *Service {
	s.media = m
	return s
}

// CreateInput carries the author-editable fields of a new blog.
type CreateInput struct {
	Title         string      `json:"title"`
	Summary       string      `json:"summary"`
	Body          string      `json:"body"`
	Category      string      `json:"category"`
	Tags          []string    `json:"tags"`
	FeaturedImage string      `json:"featuredImage"`
	Status        blog.Status `json:"status"`
}

// UpdateInput is a partial edit: nil fields are left untouched.
type UpdateInput struct {
	Title         *string      `json:"title"`
	Summary       *string      `json:"summary"`
	Body          *string      `json:"body"`
	Category      *string      `json:"category"`
	Tags          *[]string    `json:"tags"`
	FeaturedImage *string      `json:"featuredImage"`
	Status        *blog.Status `json:"status"`
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	LikeCount int  `json:"likeCount"`
	IsLiked   bool `json:"isLiked"`
}

func validateCreate(in CreateInput) map[string]string {
	fields := map[string]string{}
	validateText(fields, in.Title, in.Summary, in.Body)
	if in.Category == "" {
		fields["category"] = "category is required"
	} else if !blog.ValidCategory(in.Category) {
		fields["category"] = "must be one of the known categories"
	}
	validateTags(fields, in.Tags)
	if in.Status != "" && !blog.ValidStatus(in.Status) {
		fields["status"] = "must be draft, published or archived"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func validateText(fields map[string]string, title, summary, body string) {
	switch n := len(strings.TrimSpace(title)); {
	case n == 0:
		fields["title"] = "title is required"
	case n < TitleMinLen || n > TitleMaxLen:
		fields["title"] = "title length out of range"
	}
	switch n := len(strings.TrimSpace(summary)); {
	case n == 0:
		fields["summary"] = "summary is required"
	case n > SummaryMaxLen:
		fields["summary"] = "summary too long"
	}
	switch n := len(strings.TrimSpace(body)); {
	case n == 0:
		fields["body"] = "body is required"
	case n < BodyMinLen:
		fields["body"] = "body too short"
	}
}

func validateTags(fields map[string]string, tags []string) {
	if len(tags) > MaxTags {
		fields["tags"] = "too many tags"
		return
	}
	for _, t := range tags {
		if t == "" || len(t) > TagMaxLen {
			fields["tags"] = "tags must be non-empty and short"
			return
		}
	}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// Create inserts a new blog for actor. Doctors and admins are approved
// immediately; when they create directly as published, the approval is
// stamped with their own identity. Anyone else starts unapproved and stays
// hidden from public reads until an admin approves.
func (s *Service) Create(ctx context.Context, actor blog.Actor, in CreateInput) (*blog.Blog, error) {
	if !actor.Authenticated() {
		return nil, blog.ErrAuthorization("sign in to create content")
	}
	if fields := validateCreate(in); fields != nil {
		return nil, blog.ErrValidation("invalid blog", fields)
	}

	status := in.Status
	if status == "" {
		status = blog.StatusDraft
	}
	b := &blog.Blog{
		Title:         strings.TrimSpace(in.Title),
		Summary:       strings.TrimSpace(in.Summary),
		Body:          in.Body,
		Category:      in.Category,
		Tags:          in.Tags,
		AuthorID:      actor.ID,
		FeaturedImage: in.FeaturedImage,
		Status:        status,
	}
	if actor.Privileged() {
		b.Approved = true
		if status == blog.StatusPublished {
			now := time.Now().UTC()
			b.Review = blog.Review{State: blog.ReviewApproved, By: actor.ID, At: &now}
		}
	}

	if _, err := s.repo.Insert(ctx, b); err != nil {
		return nil, blog.ErrInternal(err)
	}
	return b, nil
}

// Get fetches one blog for actor. Hidden blogs answer exactly like missing
// ones. A successful fetch by anyone but the author bumps the view counter,
// and the returned blog reflects the bump.
func (s *Service) Get(ctx context.Context, actor blog.Actor, id string) (*blog.Blog, error) {
	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !blog.Visible(b, actor) {
		return nil, blog.ErrNotFound("blog not found")
	}
	if actor.ID != b.AuthorID {
		views, err := s.repo.IncViews(ctx, id)
		if err != nil {
			// the read itself succeeded; serve the stale counter
			logger.Warnf("view counter increment failed for blog %s: %v", id, err)
		} else {
			b.Views = views
		}
	}
	return b, nil
}

// List returns the blogs visible to actor under the given filter, plus
// pagination metadata. Role constraints are folded into the store query so
// hidden items never influence counts.
func (s *Service) List(ctx context.Context, actor blog.Actor, f blog.ListFilter) ([]*blog.Blog, blog.PageInfo, error) {
	q, err := blog.ResolveListFilter(f, actor)
	if err != nil {
		return nil, blog.PageInfo{}, err
	}
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, blog.PageInfo{}, blog.ErrInternal(err)
	}
	blogs, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, blog.PageInfo{}, blog.ErrInternal(err)
	}
	return blogs, blog.NewPageInfo(q.PageOf(), int(q.Limit), total), nil
}

// Update edits content fields. Only the author or an admin may edit. An
// admin edit re-stamps approval; a non-privileged author editing content
// that is (or becomes) published invalidates any prior review, sending the
// blog back through moderation.
func (s *Service) Update(ctx context.Context, actor blog.Actor, id string, in UpdateInput) (*blog.Blog, error) {
	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != blog.RoleAdmin && actor.ID != b.AuthorID {
		return nil, blog.ErrAuthorization("only the author or an admin may edit this blog")
	}

	fields := map[string]string{}
	set := map[string]interface{}{}
	oldImage := ""
	wasPublished := b.Status == blog.StatusPublished
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
		set["title"] = b.Title
	}
	if in.Summary != nil {
		b.Summary = strings.TrimSpace(*in.Summary)
		set["summary"] = b.Summary
	}
	if in.Body != nil {
		b.Body = *in.Body
		set["body"] = b.Body
	}
	validateText(fields, b.Title, b.Summary, b.Body)
	if in.Category != nil {
		if !blog.ValidCategory(*in.Category) {
			fields["category"] = "must be one of the known categories"
		}
		b.Category = *in.Category
		set["category"] = b.Category
	}
	if in.Tags != nil {
		validateTags(fields, *in.Tags)
		b.Tags = *in.Tags
		set["tags"] = b.Tags
	}
	if in.FeaturedImage != nil && *in.FeaturedImage != b.FeaturedImage {
		oldImage = b.FeaturedImage
		b.FeaturedImage = *in.FeaturedImage
		set["featuredImage"] = b.FeaturedImage
	}
	if in.Status != nil {
		if !blog.ValidStatus(*in.Status) {
			fields["status"] = "must be draft, published or archived"
		}
		b.Status = *in.Status
		set["status"] = b.Status
	}
	if len(fields) > 0 {
		return nil, blog.ErrValidation("invalid blog", fields)
	}

	now := time.Now().UTC()
	switch {
	case actor.Role == blog.RoleAdmin:
		b.Approved = true
		b.Review = blog.Review{State: blog.ReviewApproved, By: actor.ID, At: &now}
		set["approved"] = b.Approved
		set["review"] = b.Review
	case !actor.Privileged() && (wasPublished || b.Status == blog.StatusPublished):
		// content that was or becomes published must be re-moderated
		b.Approved = false
		b.Review = blog.Review{}
		set["approved"] = b.Approved
		set["review"] = b.Review
	}
	b.UpdatedAt = now
	set["updatedAt"] = now

	if err := s.repo.Update(ctx, id, set); err != nil {
		if err == repository.ErrNotFound {
			return nil, blog.ErrNotFound("blog not found")
		}
		return nil, blog.ErrInternal(err)
	}
	if oldImage != "" {
		s.removeMedia(ctx, id, oldImage)
	}
	return b, nil
}

// Delete removes a blog. Author or admin only. Any featured image reference
// is cleaned up best-effort; cleanup failure is logged, never surfaced.
func (s *Service) Delete(ctx context.Context, actor blog.Actor, id string) error {
	b, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != blog.RoleAdmin && actor.ID != b.AuthorID {
		return blog.ErrAuthorization("only the author or an admin may delete this blog")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return blog.ErrNotFound("blog not found")
		}
		return blog.ErrInternal(err)
	}
	if b.FeaturedImage != "" {
		s.removeMedia(ctx, id, b.FeaturedImage)
	}
	return nil
}

// Approve marks a blog approved. Admin only, idempotent: approving an
// already-approved blog just refreshes the stamp. Any rejection record is
// cleared.
func (s *Service) Approve(ctx context.Context, actor blog.Actor, id string) (*blog.Blog, error) {
	if actor.Role != blog.RoleAdmin {
		return nil, blog.ErrAuthorization("only admins may moderate content")
	}
	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	b.Approved = true
	b.Review = blog.Review{State: blog.ReviewApproved, By: actor.ID, At: &now}
	b.UpdatedAt = now
	set := map[string]interface{}{
		"approved":  true,
		"review":    b.Review,
		"updatedAt": now,
	}
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, blog.ErrInternal(err)
	}
	logger.Infof("blog %s approved by %s", id, actor.ID)
	return b, nil
}

// Reject marks a blog rejected with a reason and forces it back to draft so
// it can never remain publicly queryable. Admin only.
func (s *Service) Reject(ctx context.Context, actor blog.Actor, id string, reason string) (*blog.Blog, error) {
	if actor.Role != blog.RoleAdmin {
		return nil, blog.ErrAuthorization("only admins may moderate content")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > ReasonMaxLen {
		return nil, blog.ErrValidation("invalid rejection", map[string]string{"reason": "reason is required and at most 500 characters"})
	}
	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	b.Approved = false
	b.Review = blog.Review{State: blog.ReviewRejected, By: actor.ID, At: &now, Reason: reason}
	b.Status = blog.StatusDraft
	b.UpdatedAt = now
	set := map[string]interface{}{
		"approved":  false,
		"review":    b.Review,
		"status":    blog.StatusDraft,
		"updatedAt": now,
	}
	if err := s.repo.Update(ctx, id, set); err != nil {
		return nil, blog.ErrInternal(err)
	}
	logger.Infof("blog %s rejected by %s: %s", id, actor.ID, reason)
	return b, nil
}

// ToggleLike flips the actor's like on a blog and reports the resulting
// state. Repeated calls alternate and never error. Only publicly engageable
// content (published and approved) accepts likes.
func (s *Service) ToggleLike(ctx context.Context, actor blog.Actor, id string) (LikeResult, error) {
	if !actor.Authenticated() {
		return LikeResult{}, blog.ErrAuthorization("sign in to like content")
	}
	b, err := s.fetch(ctx, id)
	if err != nil {
		return LikeResult{}, err
	}
	if !blog.Visible(b, actor) {
		return LikeResult{}, blog.ErrNotFound("blog not found")
	}
	if !b.Engageable() {
		return LikeResult{}, blog.ErrPrecondition("blog is not open for engagement")
	}

	count := len(b.Likes)
	removed, err := s.repo.RemoveLike(ctx, id, actor.ID)
	if err != nil {
		return LikeResult{}, blog.ErrInternal(err)
	}
	if removed {
		return LikeResult{LikeCount: count - 1, IsLiked: false}, nil
	}
	added, err := s.repo.AddLike(ctx, id, blog.Like{UserID: actor.ID, LikedAt: time.Now().UTC()})
	if err != nil {
		return LikeResult{}, blog.ErrInternal(err)
	}
	if added {
		count++
	}
	return LikeResult{LikeCount: count, IsLiked: true}, nil
}

// AddComment appends a comment to publicly engageable content and returns
// the stored entity, including the author's display name when resolvable.
func (s *Service) AddComment(ctx context.Context, actor blog.Actor, id string, content string) (*blog.Comment, error) {
	if !actor.Authenticated() {
		return nil, blog.ErrAuthorization("sign in to comment")
	}
	content = strings.TrimSpace(content)
	if content == "" || len(content) > CommentMaxLen {
		return nil, blog.ErrValidation("invalid comment", map[string]string{"content": "comment is required and at most 1000 characters"})
	}
	b, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !blog.Visible(b, actor) {
		return nil, blog.ErrNotFound("blog not found")
	}
	if !b.Engageable() {
		return nil, blog.ErrPrecondition("blog is not open for engagement")
	}

	c := blog.Comment{
		ID:        newID(),
		UserID:    actor.ID,
		UserName:  s.displayName(ctx, actor),
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddComment(ctx, id, c); err != nil {
		return nil, blog.ErrInternal(err)
	}
	return &c, nil
}

// DeleteComment removes one comment. Allowed for the comment's author, the
// blog's author, or an admin.
func (s *Service) DeleteComment(ctx context.Context, actor blog.Actor, id string, commentID string) error {
	b, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	c := b.CommentByID(commentID)
	if c == nil {
		return blog.ErrNotFound("comment not found")
	}
	if actor.Role != blog.RoleAdmin && actor.ID != c.UserID && actor.ID != b.AuthorID {
		return blog.ErrAuthorization("not allowed to delete this comment")
	}
	if err := s.repo.RemoveComment(ctx, id, commentID); err != nil {
		if err == repository.ErrNotFound {
			return blog.ErrNotFound("comment not found")
		}
		return blog.ErrInternal(err)
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, id string) (*blog.Blog, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, blog.ErrNotFound("blog not found")
		}
		return nil, blog.ErrInternal(err)
	}
	return b, nil
}

func (s *Service) displayName(ctx context.Context, actor blog.Actor) string {
	if s.users != nil {
		if name, err := s.users.DisplayName(ctx, actor.ID); err == nil && name != "" {
			return name
		}
	}
	return actor.Name
}

func (s *Service) removeMedia(ctx context.Context, id, ref string) {
	if s.media == nil {
		return
	}
	if err := s.media.Remove(ctx, ref); err != nil {
		logger.Warnf("media cleanup failed for blog %s (ref %s): %v", id, ref, err)
	}
}
