package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
	"github.com/fathe4/SM-BKD-sub000/models"
)

const (
	seenBoostsTTL = 24 * time.Hour
	seenBoostsCap = 100
)

// GetSeenBoosts returns the boosted post ids already served to the
// user. Empty on miss or any cache trouble.
func (fs *FeedService) GetSeenBoosts(ctx context.Context, userID string) []string {
	data, err := fs.cache.Get(ctx, cachedRepo.SeenBoostsKey(userID))
	if err != nil {
		if err != cachedRepo.ErrCacheMiss {
			log.Println("Error in Getting seen boosts ledger: ", err.Error())
		}
		return nil
	}
	var ledger models.SeenBoosts
	if err := json.Unmarshal(data, &ledger); err != nil {
		log.Println("Error in Unmarshal of seen boosts ledger: ", err.Error())
		return nil
	}
	return ledger.PostIds
}

// AddSeenBoost appends a served boost to the ledger, dropping the
// oldest entries past the cap. Read-modify-write without a lock:
// concurrent requests may race, the worst case is a boost shown twice
// or an old entry evicted early, which only affects rotation fairness.
func (fs *FeedService) AddSeenBoost(ctx context.Context, userID, postID string) {
	ids := fs.GetSeenBoosts(ctx, userID)
	for _, id := range ids {
		if id == postID {
			return
		}
	}
	ids = append(ids, postID)
	if len(ids) > seenBoostsCap {
		ids = ids[len(ids)-seenBoostsCap:]
	}
	data, err := json.Marshal(models.SeenBoosts{PostIds: ids})
	if err != nil {
		log.Println("Error in Marshal of seen boosts ledger: ", err.Error())
		return
	}
	if err := fs.cache.Set(ctx, cachedRepo.SeenBoostsKey(userID), data, seenBoostsTTL); err != nil {
		log.Println("Error in Writing seen boosts ledger: ", err.Error())
	}
}
