package main

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
	"github.com/fathe4/SM-BKD-sub000/models"
)

// TTLs are domain policy per cached entity, not knobs.
const (
	feedPageTTL    = 5 * time.Minute
	locationTTL    = time.Hour
	friendsTTL     = 30 * time.Minute
	boostedTTL     = 3 * time.Minute
	friendLikedTTL = 5 * time.Minute
	publicPoolTTL  = 15 * time.Minute

	fetchTimeout = 5 * time.Second
)

// getUserLocation resolves the most recent active location, cache
// first. The "no location" case is cached too, it is a valid state.
// Never fails the caller.
func (fs *FeedService) getUserLocation(ctx context.Context, userID string) models.Location {
	key := cachedRepo.UserLocationKey(userID)
	if data, err := fs.cache.Get(ctx, key); err == nil {
		var loc models.Location
		if uerr := json.Unmarshal(data, &loc); uerr != nil {
			log.Println("Error in Unmarshal of cached location: ", uerr.Error())
		} else {
			return loc
		}
	} else if err != cachedRepo.ErrCacheMiss {
		log.Println("Error in Getting location cache: ", err.Error())
	}

	tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	loc, err := fs.location.GetLatestLocation(tctx, userID)
	if err != nil {
		log.Println("Error in Fetching user location: ", err.Error())
		return models.Location{}
	}
	if data, err := json.Marshal(loc); err == nil {
		if err := fs.cache.Set(ctx, key, data, locationTTL); err != nil {
			log.Println("Error in Caching user location: ", err.Error())
		}
	}
	return loc
}

// getUserFriends returns the accepted mutual-friend set, cache first.
// Store errors degrade to an empty set.
func (fs *FeedService) getUserFriends(ctx context.Context, userID string) []string {
	key := cachedRepo.UserFriendsKey(userID)
	if data, err := fs.cache.Get(ctx, key); err == nil {
		var friends []string
		if uerr := json.Unmarshal(data, &friends); uerr != nil {
			log.Println("Error in Unmarshal of cached friend set: ", uerr.Error())
		} else {
			return friends
		}
	} else if err != cachedRepo.ErrCacheMiss {
		log.Println("Error in Getting friend set cache: ", err.Error())
	}

	tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	friends, err := fs.social.GetFriends(tctx, userID)
	if err != nil {
		log.Println("Error in Fetching friend set: ", err.Error())
		return nil
	}
	if data, err := json.Marshal(friends); err == nil {
		if err := fs.cache.Set(ctx, key, data, friendsTTL); err != nil {
			log.Println("Error in Caching friend set: ", err.Error())
		}
	}
	return friends
}

// fetchFriendsPosts pulls posts authored by the friend set, newest
// first, overfetching by 1.5x so the mixer has room to interleave.
// Not cached on its own, the per-page feed cache already covers it.
func (fs *FeedService) fetchFriendsPosts(ctx context.Context, friends []string, target int32) []models.FeedItem {
	if len(friends) == 0 {
		return nil
	}
	limit := int(math.Ceil(float64(target) * 1.5))

	tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	posts, err := fs.content.PostsByAuthors(tctx, friends, limit)
	if err != nil {
		log.Println("Error in Fetching friends posts: ", err.Error())
		return nil
	}
	return tagItems(posts, models.FeedTypeFriends)
}

// fetchBoostedPosts serves the per-country boosted pool. The pool is
// cached for the whole country before the seen-filter; the filter runs
// after every cache read so the entry stays shareable.
func (fs *FeedService) fetchBoostedPosts(ctx context.Context, loc models.Location, seen []string, target int) []models.FeedItem {
	if loc.Country == "" {
		return nil
	}

	// an empty pool is a valid cached answer, only a true miss refetches
	key := cachedRepo.BoostedCountryKey(loc.Country)
	var pool []models.FeedItem
	miss := true
	if data, err := fs.cache.Get(ctx, key); err == nil {
		if uerr := json.Unmarshal(data, &pool); uerr != nil {
			log.Println("Error in Unmarshal of cached boosted pool: ", uerr.Error())
			pool = nil
		} else {
			miss = false
		}
	} else if err != cachedRepo.ErrCacheMiss {
		log.Println("Error in Getting boosted pool cache: ", err.Error())
	}

	if miss {
		tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		posts, err := fs.content.ActiveBoostedPosts(tctx, loc.Country, target*2)
		if err != nil {
			log.Println("Error in Fetching boosted posts: ", err.Error())
			return nil
		}
		pool = tagItems(posts, models.FeedTypeBoosted)
		if data, err := json.Marshal(pool); err == nil {
			if err := fs.cache.Set(ctx, key, data, boostedTTL); err != nil {
				log.Println("Error in Caching boosted pool: ", err.Error())
			}
		}
	}

	seenSet := make(map[string]bool, len(seen))
	for _, id := range seen {
		seenSet[id] = true
	}
	fresh := make([]models.FeedItem, 0, len(pool))
	for _, post := range pool {
		if seenSet[post.PostId] {
			continue
		}
		fresh = append(fresh, post)
	}
	return fresh
}

// fetchFriendLikedPosts returns posts liked by any friend, most
// recently liked first, excluding the user's and the friends' own
// posts. The deduped pool is cached by the sorted friend set, so any
// user with an identical set shares the entry. Coarse but cheap.
func (fs *FeedService) fetchFriendLikedPosts(ctx context.Context, userID string, friends []string, target int) []models.FeedItem {
	if len(friends) == 0 {
		return nil
	}

	key := cachedRepo.FriendLikedKey(friends)
	if data, err := fs.cache.Get(ctx, key); err == nil {
		var pool []models.FeedItem
		if uerr := json.Unmarshal(data, &pool); uerr != nil {
			log.Println("Error in Unmarshal of cached friend liked pool: ", uerr.Error())
		} else {
			return pool
		}
	} else if err != cachedRepo.ErrCacheMiss {
		log.Println("Error in Getting friend liked cache: ", err.Error())
	}

	tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	excludeAuthors := append(append([]string{}, friends...), userID)
	posts, err := fs.content.FriendLikedPosts(tctx, friends, excludeAuthors, target*3)
	if err != nil {
		log.Println("Error in Fetching friend liked posts: ", err.Error())
		return nil
	}

	// one post per id, keep the most recent reaction's position
	seenIds := make(map[string]bool, len(posts))
	pool := make([]models.FeedItem, 0, len(posts))
	for _, post := range posts {
		if seenIds[post.PostId] {
			continue
		}
		seenIds[post.PostId] = true
		pool = append(pool, post)
	}
	pool = tagItems(pool, models.FeedTypeFriendLiked)

	if data, err := json.Marshal(pool); err == nil {
		if err := fs.cache.Set(ctx, key, data, friendLikedTTL); err != nil {
			log.Println("Error in Caching friend liked pool: ", err.Error())
		}
	}
	return pool
}

// fetchPublicPosts serves from the shared popular pool, then drops the
// user's and the friends' own posts after the cache read (the pool is
// one entry for everybody).
func (fs *FeedService) fetchPublicPosts(ctx context.Context, userID string, friends []string, target int32) []models.FeedItem {
	key := cachedRepo.PublicPoolKey()
	var pool []models.FeedItem
	miss := true
	if data, err := fs.cache.Get(ctx, key); err == nil {
		if uerr := json.Unmarshal(data, &pool); uerr != nil {
			log.Println("Error in Unmarshal of cached public pool: ", uerr.Error())
			pool = nil
		} else {
			miss = false
		}
	} else if err != cachedRepo.ErrCacheMiss {
		log.Println("Error in Getting public pool cache: ", err.Error())
	}

	if miss {
		tctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()
		poolSize := max(int(target)*2, fs.tuning.PublicPoolSize)
		posts, err := fs.content.PublicPosts(tctx, poolSize)
		if err != nil {
			log.Println("Error in Fetching public posts: ", err.Error())
			return nil
		}
		pool = tagItems(posts, models.FeedTypePublic)
		if data, err := json.Marshal(pool); err == nil {
			if err := fs.cache.Set(ctx, key, data, publicPoolTTL); err != nil {
				log.Println("Error in Caching public pool: ", err.Error())
			}
		}
	}

	exclude := make(map[string]bool, len(friends)+1)
	exclude[userID] = true
	for _, id := range friends {
		exclude[id] = true
	}
	res := make([]models.FeedItem, 0, len(pool))
	for _, post := range pool {
		if exclude[post.UserId] {
			continue
		}
		res = append(res, post)
	}
	return res
}

func tagItems(items []models.FeedItem, feedType models.FeedType) []models.FeedItem {
	for i := range items {
		items[i].FeedType = feedType
	}
	return items
}
