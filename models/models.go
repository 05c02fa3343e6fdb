package models

type ServerConfig struct {
	ServerHost     string
	ServerPort     string
	ServerHTTPPort string
	HostName       string
	EtcdEndpoints  string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type KafkaConfig struct {
	BootStrapServers string
	GroupID          string
	OffsetReset      string
	FetchMinBytes    string
	Topics           []string
}

type DBConfig struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	MigrationsPath string
}

// Tuning holds the feed heuristics that are safe to change without
// breaking correctness. Loaded from config.yaml, defaults in LoadTuning.
type Tuning struct {
	BoostedEstimateCap     int64 `yaml:"boosted_estimate_cap"`
	FriendLikedEstimateCap int64 `yaml:"friend_liked_estimate_cap"`
	BoostedFetchCap        int   `yaml:"boosted_fetch_cap"`
	FriendLikedFetchCap    int   `yaml:"friend_liked_fetch_cap"`
	MinBufferMultiplier    int32 `yaml:"min_buffer_multiplier"`
	PublicPoolSize         int   `yaml:"public_pool_size"`
}

type FeedType string

const (
	FeedTypeFriends     FeedType = "friends"
	FeedTypeBoosted     FeedType = "boosted"
	FeedTypeFriendLiked FeedType = "friend_liked"
	FeedTypePublic      FeedType = "public"
	FeedTypeFallback    FeedType = "fallback"
)

const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
)

type BoostInfo struct {
	Country    string `json:"country,omitempty"`
	City       string `json:"city,omitempty"`
	Expires_at int64  `json:"expires_at,omitempty"`
}

type FeedItem struct {
	PostId     string     `json:"post_id"`
	UserId     string     `json:"user_id"`
	Content    string     `json:"content"`
	Media      []string   `json:"media,omitempty"`
	Visibility string     `json:"visibility"`
	Created_at int64      `json:"created_at"`
	FeedType   FeedType   `json:"feed_type"`
	Boost      *BoostInfo `json:"boost,omitempty"`
}

// FeedPage is the cached per (user , page) entry.
type FeedPage struct {
	Items   []FeedItem `json:"items"`
	Total   int64      `json:"total"`
	Page    int32      `json:"page"`
	HasMore bool       `json:"has_more"`
}

type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// SeenBoosts is the per-user ledger of boosted posts already served.
type SeenBoosts struct {
	PostIds []string `json:"post_ids"`
}

type Composition struct {
	Friends     int `json:"friends"`
	Boosted     int `json:"boosted"`
	FriendLiked int `json:"friend_liked"`
	Public      int `json:"public"`
}

type FeedResponse struct {
	Posts       []FeedItem   `json:"posts"`
	Total       int64        `json:"total"`
	Page        int32        `json:"page"`
	TotalPages  int32        `json:"totalPages"`
	Limit       int32        `json:"limit"`
	Cached      bool         `json:"cached,omitempty"`
	Composition *Composition `json:"composition,omitempty"`
}

// Kafka event payloads produced by the write-side services.
type PostCreatedEvent struct {
	PostId     string `json:"post_id"`
	UserId     string `json:"user_id"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	Created_at int64  `json:"created_at"`
}

type BoostActivatedEvent struct {
	BoostId string `json:"boost_id"`
	PostId  string `json:"post_id"`
	Country string `json:"country"`
	City    string `json:"city,omitempty"`
}

type ReactionEvent struct {
	UserId  string `json:"user_id"`
	PostId  string `json:"post_id"`
	Type    string `json:"type"`
	Removed bool   `json:"removed"`
}
