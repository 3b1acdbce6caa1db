package blog

// Visible reports whether actor may retrieve b. It is the single visibility
// rule for every read path: authors always see their own content, admins see
// everything, and everyone else only sees published-and-approved content.
func Visible(b *Blog, actor Actor) bool {
	if actor.Role == RoleAdmin {
		return true
	}
	if actor.ID != "" && actor.ID == b.AuthorID {
		return true
	}
	return b.Status == StatusPublished && b.Approved
}
