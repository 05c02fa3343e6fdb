package main

import (
	"context"
	"log"
	"sync"

	"github.com/fathe4/SM-BKD-sub000/models"
)

// EstimateTotal computes an upper-bound total for pagination from four
// independent counts fetched in parallel. Boosted and friend-liked
// counts are capped (tunable, see config.yaml) because those sources
// only ever contribute a handful of slots per page. The result is a
// heuristic for has_more signaling, not an exact count.
func (fs *FeedService) EstimateTotal(ctx context.Context, userID string, friends []string, loc models.Location, seen []string) int64 {
	var friendsCount, boostedCount, friendLikedCount, publicCount int64

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		if len(friends) == 0 {
			return
		}
		tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		n, err := fs.content.CountPostsByAuthors(tctx, friends)
		if err != nil {
			log.Println("Error in Counting friends posts: ", err.Error())
			return
		}
		friendsCount = n
	}()
	go func() {
		defer wg.Done()
		if loc.Country == "" {
			return
		}
		tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		n, err := fs.content.CountActiveBoosted(tctx, loc.Country, seen)
		if err != nil {
			log.Println("Error in Counting boosted posts: ", err.Error())
			return
		}
		boostedCount = n
	}()
	go func() {
		defer wg.Done()
		if len(friends) == 0 {
			return
		}
		tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		n, err := fs.content.CountFriendLiked(tctx, friends)
		if err != nil {
			log.Println("Error in Counting friend liked posts: ", err.Error())
			return
		}
		friendLikedCount = n
	}()
	go func() {
		defer wg.Done()
		tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		exclude := append(append([]string{}, friends...), userID)
		n, err := fs.content.CountPublicPosts(tctx, exclude)
		if err != nil {
			log.Println("Error in Counting public posts: ", err.Error())
			return
		}
		publicCount = n
	}()
	wg.Wait()

	estimate := friendsCount +
		min(boostedCount, fs.tuning.BoostedEstimateCap) +
		min(friendLikedCount, fs.tuning.FriendLikedEstimateCap) +
		publicCount
	return max(estimate, max(friendsCount, publicCount))
}
