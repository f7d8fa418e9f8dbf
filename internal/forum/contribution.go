package forum

import (
	"context"
)

// ContributionCalculator derives a user's total reputation from the
// live vote tallies of their posts. The total is never cached: every
// call reflects the ledger as it stands.
type ContributionCalculator struct {
	posts PostStore
}

// NewContributionCalculator creates a new contribution calculator
func NewContributionCalculator(posts PostStore) *ContributionCalculator {
	return &ContributionCalculator{posts: posts}
}

// Total returns the sum of (upvotes - downvotes) across every post
// authored by username, regardless of status. A user with no posts
// has a total of 0.
func (c *ContributionCalculator) Total(ctx context.Context, username string) (int, error) {
	posts, err := c.posts.ListByAuthor(ctx, username)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, post := range posts {
		total += post.Contribution()
	}
	return total, nil
}
