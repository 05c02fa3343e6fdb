package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
	"github.com/fathe4/SM-BKD-sub000/feedRepo"
	"github.com/fathe4/SM-BKD-sub000/models"
	"github.com/google/uuid"
	etcd "go.etcd.io/etcd/client/v3"
)

type FeedService struct {
	ctx        context.Context
	cancel     context.CancelFunc
	config     models.ServerConfig
	tuning     models.Tuning
	cache      cachedRepo.Cache
	content    feedRepo.ContentRepo
	social     feedRepo.SocialRepo
	location   feedRepo.LocationRepo
	httpServer *http.Server
	etcdClient *etcd.Client
	serviceOFF atomic.Bool
}

func NewFeedService(config models.ServerConfig, tuning models.Tuning, cache cachedRepo.Cache,
	content feedRepo.ContentRepo, social feedRepo.SocialRepo, location feedRepo.LocationRepo) *FeedService {
	ctx, cancel := context.WithCancel(context.Background())
	return &FeedService{
		ctx:      ctx,
		cancel:   cancel,
		config:   config,
		tuning:   tuning,
		cache:    cache,
		content:  content,
		social:   social,
		location: location,
	}
}

func (fs *FeedService) Start() error {
	router := http.NewServeMux()
	router.HandleFunc("/feed", fs.handleGetFeed)

	server := &http.Server{
		Addr:    net.JoinHostPort(fs.config.ServerHost, fs.config.ServerPort),
		Handler: router,
	}
	fs.httpServer = server

	if fs.config.EtcdEndpoints != "" {
		etcdClient, err := etcd.New(etcd.Config{Endpoints: strings.Split(fs.config.EtcdEndpoints, ","), DialTimeout: 5 * time.Second})
		if err != nil {
			log.Printf("Error in Register instance of FeedService: %v", err)
			return err
		}
		fs.etcdClient = etcdClient
		lease, err := etcdClient.Grant(fs.ctx, 5)
		if err != nil {
			log.Printf("Error in Creating Lease to instance of FeedService: %v", err)
			return err
		}
		uuid := uuid.New()
		etcdClient.Put(context.Background(), fmt.Sprintf("/services/feed_service/%v", uuid), net.JoinHostPort(fs.config.HostName, fs.config.ServerPort), etcd.WithLease(lease.ID))
		etcdClient.KeepAlive(fs.ctx, lease.ID)
	}

	log.Printf("Starting FeedService HTTP server on %s:%s", fs.config.ServerHost, fs.config.ServerPort)
	return server.ListenAndServe()
}

func (fs *FeedService) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	query := r.URL.Query()
	userID := query.Get("user_id")
	page := parseQueryInt(query.Get("page"), 1)
	limit := parseQueryInt(query.Get("limit"), defaultPageLimit)

	res, err := fs.GetFeedPosts(r.Context(), userID, page, limit)
	if err != nil {
		// only request-shape errors surface, degraded deps never do
		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, ErrMissingUser) || errors.Is(err, ErrInvalidPagination) {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Println("Error in Encoding feed response: ", err.Error())
	}
}

func parseQueryInt(raw string, def int32) int32 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}

func (fs *FeedService) StartHealthServer() error {
	router := http.NewServeMux()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if fs.serviceOFF.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "down", "service": "feed_service"}`))
		} else {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status": "ok", "service": "feed_service"}`))
		}
	})

	server := &http.Server{
		Addr:    net.JoinHostPort(fs.config.ServerHost, fs.config.ServerHTTPPort),
		Handler: router,
	}
	log.Printf("FeedService health server starting on %s:%s\n", fs.config.ServerHost, fs.config.ServerHTTPPort)
	return server.ListenAndServe()
}

func (fs *FeedService) close() {
	fs.cancel()
	if fs.etcdClient != nil {
		fs.etcdClient.Close()
	}
	// mark service as OFF so the gateway drains us first
	fs.serviceOFF.Store(true)
	time.Sleep(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if fs.httpServer != nil {
		if err := fs.httpServer.Shutdown(ctx); err != nil {
			log.Println("Error in Closing httpServer: ", err.Error())
		}
		log.Println("HTTP Server Closed Successfully")
	}

	if fs.cache != nil {
		fs.cache.Close()
	}
}
