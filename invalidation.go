package main

import (
	"context"
	"log"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
)

// Invalidation entry points, called by the write-side flows (directly
// or through the Kafka bridge in write_events.go). Every failure here
// is logged and swallowed: a post creation must never fail because a
// cache delete did.

// InvalidateOnPostCreate clears the author's pages, every friend's
// pages, the location browse caches when the post carries one, and the
// shared public pool.
func (fs *FeedService) InvalidateOnPostCreate(ctx context.Context, authorID, city string) {
	if err := fs.cache.DeletePattern(ctx, cachedRepo.UserFeedPattern(authorID)); err != nil {
		log.Println("Error in Invalidating author feed cache: ", err.Error())
	}
	for _, friend := range fs.getUserFriends(ctx, authorID) {
		if err := fs.cache.DeletePattern(ctx, cachedRepo.UserFeedPattern(friend)); err != nil {
			log.Println("Error in Invalidating friend feed cache: ", err.Error())
		}
	}
	if city != "" {
		if err := fs.cache.DeletePattern(ctx, cachedRepo.LocationFeedPattern(city)); err != nil {
			log.Println("Error in Invalidating location feed caches: ", err.Error())
		}
	}
	if err := fs.cache.Delete(ctx, cachedRepo.PublicPoolKey()); err != nil {
		log.Println("Error in Invalidating public pool: ", err.Error())
	}
}

// InvalidateOnBoostActivate expires every other boost of the post in
// the store, then flushes the boosted pools and all per-user feed
// pages. Paid inventory changes must be visible immediately, so the
// flush is deliberately broad.
func (fs *FeedService) InvalidateOnBoostActivate(ctx context.Context, postID, boostID, country string) {
	if err := fs.content.ExpireOtherBoosts(ctx, postID, boostID); err != nil {
		log.Println("Error in Expiring other boosts: ", err.Error())
	}
	if country != "" {
		if err := fs.cache.Delete(ctx, cachedRepo.BoostedCountryKey(country)); err != nil {
			log.Println("Error in Invalidating boosted country cache: ", err.Error())
		}
	}
	if err := fs.cache.DeletePattern(ctx, cachedRepo.BoostedPattern()); err != nil {
		log.Println("Error in Invalidating boosted caches: ", err.Error())
	}
	if err := fs.cache.DeletePattern(ctx, cachedRepo.AllFeedPattern()); err != nil {
		log.Println("Error in Flushing feed caches: ", err.Error())
	}
}

// InvalidateOnReactionChange propagates a like create/remove one hop:
// for each friend of the reactor, drop that friend's friend-liked pool
// (keyed by their own friend set) and their feed pages.
func (fs *FeedService) InvalidateOnReactionChange(ctx context.Context, reactorID string) {
	for _, friend := range fs.getUserFriends(ctx, reactorID) {
		friendSet := fs.getUserFriends(ctx, friend)
		if len(friendSet) > 0 {
			if err := fs.cache.Delete(ctx, cachedRepo.FriendLikedKey(friendSet)); err != nil {
				log.Println("Error in Invalidating friend liked cache: ", err.Error())
			}
		}
		if err := fs.cache.DeletePattern(ctx, cachedRepo.UserFeedPattern(friend)); err != nil {
			log.Println("Error in Invalidating friend feed cache: ", err.Error())
		}
	}
}
