package feedRepo

import (
	"context"

	"github.com/fathe4/SM-BKD-sub000/models"
)

// ContentRepo is the narrow view of the content store the feed engine
// needs. All list queries come back newest-first.
type ContentRepo interface {
	PostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.FeedItem, error)
	ActiveBoostedPosts(ctx context.Context, country string, limit int) ([]models.FeedItem, error)
	FriendLikedPosts(ctx context.Context, friendIDs, excludeAuthors []string, scanLimit int) ([]models.FeedItem, error)
	PublicPosts(ctx context.Context, limit int) ([]models.FeedItem, error)

	CountPostsByAuthors(ctx context.Context, authorIDs []string) (int64, error)
	CountActiveBoosted(ctx context.Context, country string, excludeIDs []string) (int64, error)
	CountFriendLiked(ctx context.Context, friendIDs []string) (int64, error)
	CountPublicPosts(ctx context.Context, excludeAuthors []string) (int64, error)

	ExpireOtherBoosts(ctx context.Context, postID, boostID string) error
}

type SocialRepo interface {
	GetFriends(ctx context.Context, userID string) ([]string, error)
}

type LocationRepo interface {
	GetLatestLocation(ctx context.Context, userID string) (models.Location, error)
}
