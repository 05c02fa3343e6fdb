package feedRepo

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/fathe4/SM-BKD-sub000/models"
	"github.com/lib/pq"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{
		db: db,
	}
}

func (pr *PostgresRepo) PostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.FeedItem, error) {
	rows, err := pr.db.QueryContext(ctx,
		`SELECT id, user_id, content, media, visibility, created_at
		FROM posts
		WHERE user_id = ANY($1) AND visibility IN ('public', 'friends') AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $2`,
		pq.Array(authorIDs), limit)
	if err != nil {
		log.Println("Error in Fetching posts by authors: ", err.Error())
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (pr *PostgresRepo) ActiveBoostedPosts(ctx context.Context, country string, limit int) ([]models.FeedItem, error) {
	rows, err := pr.db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.content, p.media, p.visibility, p.created_at,
			b.country, b.city, b.expires_at
		FROM posts p
		JOIN boosts b ON b.post_id = p.id
		WHERE b.status = 'active' AND lower(b.country) = lower($1)
			AND b.expires_at > $2 AND p.deleted_at IS NULL
		ORDER BY b.created_at DESC LIMIT $3`,
		country, time.Now().Unix(), limit)
	if err != nil {
		log.Println("Error in Fetching boosted posts: ", err.Error())
		return nil, err
	}
	defer rows.Close()

	var items []models.FeedItem
	for rows.Next() {
		var item models.FeedItem
		var media pq.StringArray
		var boost models.BoostInfo
		err := rows.Scan(&item.PostId, &item.UserId, &item.Content, &media,
			&item.Visibility, &item.Created_at, &boost.Country, &boost.City, &boost.Expires_at)
		if err != nil {
			log.Println("Error in Scanning boosted post row: ", err.Error())
			continue
		}
		item.Media = media
		item.Boost = &boost
		items = append(items, item)
	}
	return items, rows.Err()
}

// FriendLikedPosts scans the most recent like reactions from the friend
// set and resolves their posts. The same post can come back more than
// once (one row per reaction); the caller dedupes.
func (pr *PostgresRepo) FriendLikedPosts(ctx context.Context, friendIDs, excludeAuthors []string, scanLimit int) ([]models.FeedItem, error) {
	rows, err := pr.db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.content, p.media, p.visibility, p.created_at
		FROM reactions r
		JOIN posts p ON p.id = r.post_id
		WHERE r.user_id = ANY($1) AND r.type = 'like'
			AND p.visibility = 'public' AND p.deleted_at IS NULL
			AND NOT (p.user_id = ANY($2))
		ORDER BY r.created_at DESC LIMIT $3`,
		pq.Array(friendIDs), pq.Array(excludeAuthors), scanLimit)
	if err != nil {
		log.Println("Error in Fetching friend liked posts: ", err.Error())
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (pr *PostgresRepo) PublicPosts(ctx context.Context, limit int) ([]models.FeedItem, error) {
	rows, err := pr.db.QueryContext(ctx,
		`SELECT id, user_id, content, media, visibility, created_at
		FROM posts
		WHERE visibility = 'public' AND deleted_at IS NULL
		ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		log.Println("Error in Fetching public posts: ", err.Error())
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (pr *PostgresRepo) CountPostsByAuthors(ctx context.Context, authorIDs []string) (int64, error) {
	var count int64
	err := pr.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts
		WHERE user_id = ANY($1) AND visibility IN ('public', 'friends') AND deleted_at IS NULL`,
		pq.Array(authorIDs)).Scan(&count)
	return count, err
}

func (pr *PostgresRepo) CountActiveBoosted(ctx context.Context, country string, excludeIDs []string) (int64, error) {
	if excludeIDs == nil {
		// a nil slice becomes SQL NULL and ANY(NULL) drops every row
		excludeIDs = []string{}
	}
	var count int64
	err := pr.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM boosts b
		JOIN posts p ON p.id = b.post_id
		WHERE b.status = 'active' AND lower(b.country) = lower($1)
			AND b.expires_at > $2 AND p.deleted_at IS NULL
			AND NOT (b.post_id = ANY($3))`,
		country, time.Now().Unix(), pq.Array(excludeIDs)).Scan(&count)
	return count, err
}

func (pr *PostgresRepo) CountFriendLiked(ctx context.Context, friendIDs []string) (int64, error) {
	var count int64
	err := pr.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reactions WHERE user_id = ANY($1) AND type = 'like'`,
		pq.Array(friendIDs)).Scan(&count)
	return count, err
}

func (pr *PostgresRepo) CountPublicPosts(ctx context.Context, excludeAuthors []string) (int64, error) {
	var count int64
	err := pr.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts
		WHERE visibility = 'public' AND deleted_at IS NULL AND NOT (user_id = ANY($1))`,
		pq.Array(excludeAuthors)).Scan(&count)
	return count, err
}

// ExpireOtherBoosts marks every other active or paused boost of the
// post as expired. Single UPDATE so activation stays atomic.
func (pr *PostgresRepo) ExpireOtherBoosts(ctx context.Context, postID, boostID string) error {
	_, err := pr.db.ExecContext(ctx,
		`UPDATE boosts SET status = 'expired'
		WHERE post_id = $1 AND id <> $2 AND status IN ('active', 'paused')`,
		postID, boostID)
	if err != nil {
		log.Printf("Error in Expiring other boosts of post{%v}: %v\n", postID, err.Error())
	}
	return err
}

func (pr *PostgresRepo) GetFriends(ctx context.Context, userID string) ([]string, error) {
	rows, err := pr.db.QueryContext(ctx,
		`SELECT CASE WHEN requester_id = $1 THEN recipient_id ELSE requester_id END
		FROM friendships
		WHERE (requester_id = $1 OR recipient_id = $1) AND status = 'accepted'`,
		userID)
	if err != nil {
		log.Println("Error in Fetching friendships: ", err.Error())
		return nil, err
	}
	defer rows.Close()

	var friends []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Println("Error in Scanning friendship row: ", err.Error())
			continue
		}
		friends = append(friends, id)
	}
	return friends, rows.Err()
}

func (pr *PostgresRepo) GetLatestLocation(ctx context.Context, userID string) (models.Location, error) {
	var loc models.Location
	err := pr.db.QueryRowContext(ctx,
		`SELECT city, country FROM user_locations
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC LIMIT 1`,
		userID).Scan(&loc.City, &loc.Country)
	if err == sql.ErrNoRows {
		// no location on record is a normal state
		return models.Location{}, nil
	}
	if err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

func (pr *PostgresRepo) Close() error {
	return pr.db.Close()
}

func scanPosts(rows *sql.Rows) ([]models.FeedItem, error) {
	var items []models.FeedItem
	for rows.Next() {
		var item models.FeedItem
		var media pq.StringArray
		err := rows.Scan(&item.PostId, &item.UserId, &item.Content, &media,
			&item.Visibility, &item.Created_at)
		if err != nil {
			log.Println("Error in Scanning post row: ", err.Error())
			continue
		}
		item.Media = media
		items = append(items, item)
	}
	return items, rows.Err()
}
