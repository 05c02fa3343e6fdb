package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
	"github.com/fathe4/SM-BKD-sub000/models"
)

var ErrMissingUser = errors.New("user_id is required")

// GetFeedPosts is the single read operation of the engine: per-page
// cache lookup, then on miss a parallel gather of the support inputs,
// a parallel fetch of the four sources plus the total estimate, mix,
// impression recording and a cache write. A degraded dependency thins
// the feed, it never fails the request; only bad input does.
func (fs *FeedService) GetFeedPosts(ctx context.Context, userID string, page, limit int32) (*models.FeedResponse, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	if err := ValidatePagination(page, limit); err != nil {
		return nil, err
	}

	key := cachedRepo.FeedPageKey(userID, page)
	if data, err := fs.cache.Get(ctx, key); err == nil {
		var cached models.FeedPage
		if uerr := json.Unmarshal(data, &cached); uerr != nil {
			log.Println("Error in Unmarshal of cached feed page: ", uerr.Error())
		} else {
			fs.bumpCounter(ctx, "hits")
			return fs.buildResponse(&cached, limit, true, nil), nil
		}
	} else if err != cachedRepo.ErrCacheMiss {
		log.Println("Error in Getting feed page cache: ", err.Error())
	}
	fs.bumpCounter(ctx, "misses")

	// gather support inputs, three independent reads
	var (
		loc     models.Location
		friends []string
		seen    []string
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		loc = fs.getUserLocation(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		friends = fs.getUserFriends(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		seen = fs.GetSeenBoosts(ctx, userID)
	}()
	wg.Wait()

	// deeper pages need more raw material per source
	bufferMultiplier := max(page*2, fs.tuning.MinBufferMultiplier)
	friendsTarget := limit * bufferMultiplier
	publicTarget := limit * bufferMultiplier
	boostedTarget := min(int(page)*5, fs.tuning.BoostedFetchCap)
	friendLikedTarget := min(int(page)*5, fs.tuning.FriendLikedFetchCap)

	var (
		total        int64
		friendsPosts []models.FeedItem
		boosted      []models.FeedItem
		friendLiked  []models.FeedItem
		publicPosts  []models.FeedItem
	)
	wg.Add(5)
	go func() {
		defer wg.Done()
		total = fs.EstimateTotal(ctx, userID, friends, loc, seen)
	}()
	go func() {
		defer wg.Done()
		friendsPosts = fs.fetchFriendsPosts(ctx, friends, friendsTarget)
	}()
	go func() {
		defer wg.Done()
		boosted = fs.fetchBoostedPosts(ctx, loc, seen, boostedTarget)
	}()
	go func() {
		defer wg.Done()
		friendLiked = fs.fetchFriendLikedPosts(ctx, userID, friends, friendLikedTarget)
	}()
	go func() {
		defer wg.Done()
		publicPosts = fs.fetchPublicPosts(ctx, userID, friends, publicTarget)
	}()
	wg.Wait()

	items := SimpleFeedMix(friendsPosts, boosted, friendLiked, publicPosts, int(limit))

	// record only the boosts that made it onto the served page
	for _, item := range items {
		if item.FeedType == models.FeedTypeBoosted {
			fs.AddSeenBoost(ctx, userID, item.PostId)
		}
	}

	result := models.FeedPage{
		Items:   items,
		Total:   total,
		Page:    page,
		HasMore: int64(page)*int64(limit) < total,
	}
	if data, err := json.Marshal(result); err != nil {
		log.Println("Error in Marshal of feed page: ", err.Error())
	} else if err := fs.cache.Set(ctx, key, data, feedPageTTL); err != nil {
		log.Println("Error in Caching feed page: ", err.Error())
	}

	comp := &models.Composition{}
	for _, item := range items {
		switch item.FeedType {
		case models.FeedTypeFriends:
			comp.Friends++
		case models.FeedTypeBoosted:
			comp.Boosted++
		case models.FeedTypeFriendLiked:
			comp.FriendLiked++
		default:
			comp.Public++
		}
	}
	return fs.buildResponse(&result, limit, false, comp), nil
}

func (fs *FeedService) buildResponse(page *models.FeedPage, limit int32, cached bool, comp *models.Composition) *models.FeedResponse {
	totalPages := int32((page.Total + int64(limit) - 1) / int64(limit))
	return &models.FeedResponse{
		Posts:       page.Items,
		Total:       page.Total,
		Page:        page.Page,
		TotalPages:  totalPages,
		Limit:       limit,
		Cached:      cached,
		Composition: comp,
	}
}

// bumpCounter feeds the hit/miss counters; purely observability, a
// failed increment is logged and forgotten.
func (fs *FeedService) bumpCounter(ctx context.Context, name string) {
	if _, err := fs.cache.Incr(ctx, cachedRepo.CounterKey(name), 24*time.Hour); err != nil {
		log.Println("Error in Incrementing feed counter: ", err.Error())
	}
}
