package cachedRepo

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Key schemes for every cached entity. Kept in one place so the
// invalidation paths and the read paths can never drift apart.

func FeedPageKey(userID string, page int32) string {
	return fmt.Sprintf("feed:%v:%v", userID, page)
}

func UserFeedPattern(userID string) string {
	return fmt.Sprintf("feed:%v:*", userID)
}

func AllFeedPattern() string {
	return "feed:*"
}

func LocationFeedPattern(city string) string {
	return fmt.Sprintf("feed:location:%v:*", strings.ToLower(city))
}

func UserLocationKey(userID string) string {
	return fmt.Sprintf("location:%v", userID)
}

func UserFriendsKey(userID string) string {
	return fmt.Sprintf("friends:%v", userID)
}

func BoostedCountryKey(country string) string {
	return fmt.Sprintf("boosted:country:%v", strings.ToLower(country))
}

func BoostedPattern() string {
	return "boosted:*"
}

// FriendLikedKey is keyed by the friend set itself, so any user with an
// identical set shares the entry. The set is sorted before hashing to
// make the key order-insensitive.
func FriendLikedKey(friendIDs []string) string {
	sorted := make([]string, len(friendIDs))
	copy(sorted, friendIDs)
	sort.Strings(sorted)
	sum := sha1.Sum([]byte(strings.Join(sorted, ":")))
	return fmt.Sprintf("friendliked:%v", hex.EncodeToString(sum[:]))
}

func PublicPoolKey() string {
	return "public:popular"
}

func SeenBoostsKey(userID string) string {
	return fmt.Sprintf("seenboosts:%v", userID)
}

func CounterKey(name string) string {
	return fmt.Sprintf("counters:feed:%v", name)
}
