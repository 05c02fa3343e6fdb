package main

import (
	"slices"

	"github.com/fathe4/SM-BKD-sub000/models"
)

const (
	boostStartSlot      = 3
	boostSlotStep       = 4
	friendLikedStart    = 4
	friendLikedSlotStep = 5
)

// SimpleFeedMix interleaves the four source pools into one page.
// Friends posts go first, boosted posts are spliced in roughly every
// four slots starting at index 3, friend-liked posts every five slots
// starting at index 4, and public posts fill whatever is left. Order
// inside each pool is preserved as received; the mixer never re-sorts.
//
// Insertion cursors compare against the current result length, so when
// an earlier step under-fills, later insertion points compress toward
// the front instead of landing past the end of the slice. Callers
// depend on that exact behavior for pagination stability.
func SimpleFeedMix(friendsPosts, boostedPosts, friendLikedPosts, publicPosts []models.FeedItem, limit int) []models.FeedItem {
	result := make([]models.FeedItem, 0, limit)
	if limit <= 0 {
		return result
	}

	for _, post := range friendsPosts {
		if len(result) >= limit {
			break
		}
		result = append(result, post)
	}

	// splice boosted posts while the result is long enough to hold the
	// next slot; the rest stay as leftovers for the final fill
	boostUsed := 0
	cursor := boostStartSlot
	for boostUsed < len(boostedPosts) && len(result) < limit && len(result) >= cursor {
		result = slices.Insert(result, cursor, boostedPosts[boostUsed])
		boostUsed++
		cursor += boostSlotStep
	}

	placed := make(map[string]bool, limit)
	for _, post := range result {
		placed[post.PostId] = true
	}

	cursor = friendLikedStart
	for _, post := range friendLikedPosts {
		if len(result) >= limit {
			break
		}
		if placed[post.PostId] {
			continue
		}
		if len(result) < cursor {
			break
		}
		result = slices.Insert(result, cursor, post)
		placed[post.PostId] = true
		cursor += friendLikedSlotStep
	}

	// a boosted candidate must not reappear as organic public content
	boostCandidates := make(map[string]bool, len(boostedPosts))
	for _, post := range boostedPosts {
		boostCandidates[post.PostId] = true
	}
	for _, post := range publicPosts {
		if len(result) >= limit {
			break
		}
		if boostCandidates[post.PostId] || placed[post.PostId] {
			continue
		}
		result = append(result, post)
		placed[post.PostId] = true
	}

	// sparse sources: append boosted leftovers rather than serving a
	// short page while paid inventory sits unused
	for ; boostUsed < len(boostedPosts) && len(result) < limit; boostUsed++ {
		post := boostedPosts[boostUsed]
		if placed[post.PostId] {
			continue
		}
		result = append(result, post)
		placed[post.PostId] = true
	}

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
