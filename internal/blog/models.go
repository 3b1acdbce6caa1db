package blog

import "time"

// Role is the resolved role of the actor issuing a request.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleReader    Role = "reader"
	RoleDoctor    Role = "doctor"
	RoleAdmin     Role = "admin"
)

// Actor is the identity a request is executed as. A zero Actor is anonymous.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// Authenticated reports whether the actor carries a resolved identity.
func (a Actor) Authenticated() bool {
	return a.ID != "" && a.Role != RoleAnonymous && a.Role != ""
}

// Privileged reports whether the actor's content is approved without moderation.
func (a Actor) Privileged() bool {
	return a.Role == RoleDoctor || a.Role == RoleAdmin
}

// Status is the publication status of a blog.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Categories is the fixed set of medical topics a blog can be filed under.
var Categories = []string{
	"cardiology",
	"dermatology",
	"mental-health",
	"neurology",
	"nutrition",
	"pediatrics",
	"general-health",
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ReviewState tags the moderation variant recorded on a blog.
type ReviewState string

const (
	// ReviewNone means the blog has not been reviewed (or a prior review
	// was invalidated by an edit).
	ReviewNone     ReviewState = ""
	ReviewApproved ReviewState = "approved"
	ReviewRejected ReviewState = "rejected"
)

// Review holds the moderation metadata for a blog as a single tagged variant.
// The By/At pair is set for both approved and rejected states; Reason only
// for rejected. Storing the variant as one value makes the inconsistent
// "approved and rejected at once" combination unrepresentable.
type Review struct {
	State  ReviewState `bson:"state,omitempty" json:"state,omitempty"`
	By     string      `bson:"by,omitempty" json:"by,omitempty"`
	At     *time.Time  `bson:"at,omitempty" json:"at,omitempty"`
	Reason string      `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Like records a single user's like. A user holds at most one.
type Like struct {
	UserID  string    `bson:"userId" json:"userId"`
	LikedAt time.Time `bson:"likedAt" json:"likedAt"`
}

// Comment is an append-ordered engagement entry on a blog.
type Comment struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	UserName  string    `bson:"userName,omitempty" json:"userName,omitempty"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Blog is a single content item plus its engagement sub-data.
type Blog struct {
	ID            string    `bson:"id" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Summary       string    `bson:"summary" json:"summary"`
	Body          string    `bson:"body" json:"body"`
	Category      string    `bson:"category" json:"category"`
	Tags          []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	AuthorID      string    `bson:"authorId" json:"authorId"`
	FeaturedImage string    `bson:"featuredImage,omitempty" json:"featuredImage,omitempty"`
	Status        Status    `bson:"status" json:"status"`
	Approved      bool      `bson:"approved" json:"approved"`
	Review        Review    `bson:"review,omitempty" json:"review,omitempty"`
	Views         int64     `bson:"views" json:"views"`
	Likes         []Like    `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments      []Comment `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Engageable reports whether likes and comments are accepted for b.
// Only published and approved content takes public engagement.
func (b *Blog) Engageable() bool {
	return b.Status == StatusPublished && b.Approved
}

// LikedBy reports whether the given user currently holds a like on b.
func (b *Blog) LikedBy(userID string) bool {
	for _, l := range b.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the comment with the given id, or nil.
func (b *Blog) CommentByID(id string) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == id {
			return &b.Comments[i]
		}
	}
	return nil
}
