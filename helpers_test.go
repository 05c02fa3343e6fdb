package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
	"github.com/fathe4/SM-BKD-sub000/models"
)

// Mock cache implementation for testing, pattern-delete included.
type fakeCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	deleted  []string
	patterns []string
	incrs    map[string]int64
	sets     int
	getErr   error
	setErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		data:  make(map[string][]byte),
		incrs: make(map[string]int64),
	}
}

func (fc *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.getErr != nil {
		return nil, fc.getErr
	}
	if v, ok := fc.data[key]; ok {
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	}
	return nil, cachedRepo.ErrCacheMiss
}

func (fc *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.setErr != nil {
		return fc.setErr
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	fc.data[key] = stored
	fc.sets++
	return nil
}

func (fc *fakeCache) Delete(ctx context.Context, keys ...string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	for _, key := range keys {
		delete(fc.data, key)
		fc.deleted = append(fc.deleted, key)
	}
	return nil
}

func (fc *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.patterns = append(fc.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range fc.data {
		if strings.HasPrefix(key, prefix) {
			delete(fc.data, key)
		}
	}
	return nil
}

func (fc *fakeCache) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.incrs[key]++
	return fc.incrs[key], nil
}

func (fc *fakeCache) Close() error {
	return nil
}

func (fc *fakeCache) has(key string) bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	_, ok := fc.data[key]
	return ok
}

func (fc *fakeCache) setCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.sets
}

// Mock content repository with per-query call counters.
type fakeContentRepo struct {
	mu sync.Mutex

	friendsPosts []models.FeedItem
	boostedPosts []models.FeedItem
	likedPosts   []models.FeedItem
	publicPosts  []models.FeedItem

	friendsErr error
	boostedErr error
	likedErr   error
	publicErr  error

	friendsCount int64
	boostedCount int64
	likedCount   int64
	publicCount  int64

	calls   map[string]int
	expired [][2]string
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{
		calls: make(map[string]int),
	}
}

func (fr *fakeContentRepo) record(name string) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.calls[name]++
}

func (fr *fakeContentRepo) callCount(name string) int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.calls[name]
}

func (fr *fakeContentRepo) totalCalls() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	total := 0
	for _, n := range fr.calls {
		total += n
	}
	return total
}

func copyItems(items []models.FeedItem) []models.FeedItem {
	out := make([]models.FeedItem, len(items))
	copy(out, items)
	return out
}

func (fr *fakeContentRepo) PostsByAuthors(ctx context.Context, authorIDs []string, limit int) ([]models.FeedItem, error) {
	fr.record("PostsByAuthors")
	if fr.friendsErr != nil {
		return nil, fr.friendsErr
	}
	return copyItems(fr.friendsPosts), nil
}

func (fr *fakeContentRepo) ActiveBoostedPosts(ctx context.Context, country string, limit int) ([]models.FeedItem, error) {
	fr.record("ActiveBoostedPosts")
	if fr.boostedErr != nil {
		return nil, fr.boostedErr
	}
	return copyItems(fr.boostedPosts), nil
}

func (fr *fakeContentRepo) FriendLikedPosts(ctx context.Context, friendIDs, excludeAuthors []string, scanLimit int) ([]models.FeedItem, error) {
	fr.record("FriendLikedPosts")
	if fr.likedErr != nil {
		return nil, fr.likedErr
	}
	return copyItems(fr.likedPosts), nil
}

func (fr *fakeContentRepo) PublicPosts(ctx context.Context, limit int) ([]models.FeedItem, error) {
	fr.record("PublicPosts")
	if fr.publicErr != nil {
		return nil, fr.publicErr
	}
	return copyItems(fr.publicPosts), nil
}

func (fr *fakeContentRepo) CountPostsByAuthors(ctx context.Context, authorIDs []string) (int64, error) {
	fr.record("CountPostsByAuthors")
	return fr.friendsCount, nil
}

func (fr *fakeContentRepo) CountActiveBoosted(ctx context.Context, country string, excludeIDs []string) (int64, error) {
	fr.record("CountActiveBoosted")
	return fr.boostedCount, nil
}

func (fr *fakeContentRepo) CountFriendLiked(ctx context.Context, friendIDs []string) (int64, error) {
	fr.record("CountFriendLiked")
	return fr.likedCount, nil
}

func (fr *fakeContentRepo) CountPublicPosts(ctx context.Context, excludeAuthors []string) (int64, error) {
	fr.record("CountPublicPosts")
	return fr.publicCount, nil
}

func (fr *fakeContentRepo) ExpireOtherBoosts(ctx context.Context, postID, boostID string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.calls["ExpireOtherBoosts"]++
	fr.expired = append(fr.expired, [2]string{postID, boostID})
	return nil
}

type fakeSocialRepo struct {
	mu      sync.Mutex
	friends map[string][]string
	err     error
	calls   int
}

func newFakeSocialRepo() *fakeSocialRepo {
	return &fakeSocialRepo{
		friends: make(map[string][]string),
	}
}

func (fr *fakeSocialRepo) GetFriends(ctx context.Context, userID string) ([]string, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.calls++
	if fr.err != nil {
		return nil, fr.err
	}
	return fr.friends[userID], nil
}

type fakeLocationRepo struct {
	mu    sync.Mutex
	loc   models.Location
	err   error
	calls int
}

func (fr *fakeLocationRepo) GetLatestLocation(ctx context.Context, userID string) (models.Location, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.calls++
	if fr.err != nil {
		return models.Location{}, fr.err
	}
	return fr.loc, nil
}

type testEnv struct {
	fs       *FeedService
	cache    *fakeCache
	content  *fakeContentRepo
	social   *fakeSocialRepo
	location *fakeLocationRepo
}

func newTestService() *testEnv {
	cache := newFakeCache()
	content := newFakeContentRepo()
	social := newFakeSocialRepo()
	location := &fakeLocationRepo{}
	fs := NewFeedService(models.ServerConfig{}, DefaultTuning(), cache, content, social, location)
	return &testEnv{
		fs:       fs,
		cache:    cache,
		content:  content,
		social:   social,
		location: location,
	}
}

func makePost(id, author string) models.FeedItem {
	return models.FeedItem{
		PostId:     id,
		UserId:     author,
		Content:    "post " + id,
		Visibility: models.VisibilityPublic,
		Created_at: time.Now().Unix(),
	}
}

func makeTypedPost(id, author string, feedType models.FeedType) models.FeedItem {
	post := makePost(id, author)
	post.FeedType = feedType
	return post
}
