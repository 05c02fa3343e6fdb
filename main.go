package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/fathe4/SM-BKD-sub000/cachedRepo"
	"github.com/fathe4/SM-BKD-sub000/db"
	"github.com/fathe4/SM-BKD-sub000/feedRepo"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	InitLogger()

	appConfig, err := LoadConfig()
	if err != nil {
		log.Fatal("Error in Loading Service Config: ", err.Error())
	}
	kafkaConfig, err := LoadKafkaConfig()
	if err != nil {
		log.Fatal("Error in Loading Kafka Config: ", err.Error())
	}
	cacheConfig, err := LoadRedisConfig()
	if err != nil {
		log.Fatal("Error in Loading Redis Config: ", err.Error())
	}
	dbConfig, err := LoadDBConfig()
	if err != nil {
		log.Fatal("Error in Loading DB Config: ", err.Error())
	}
	tuning := LoadTuning("config.yaml")

	database, err := db.InitDB(dbConfig)
	if err != nil {
		log.Fatal("Error in Connecting to Feed DB: ", err.Error())
	}
	repo := feedRepo.NewPostgresRepo(database)

	cache, err := cachedRepo.NewRedisRepo(ctx, cacheConfig)
	if err != nil {
		log.Fatal("Error in Connecting to Cache: ", err.Error())
	}

	service := NewFeedService(appConfig, tuning, cache, repo, repo, repo)

	consumer, err := NewEventConsumer(kafkaConfig, service)
	if err != nil {
		log.Println("Failed to intiallize EventConsumer ", err.Error())
	} else {
		go consumer.Run(ctx)
	}

	go func() {
		service.StartHealthServer()
	}()
	go func() {
		log.Fatal(service.Start())
	}()

	<-ctx.Done()

	service.close()
	repo.Close()
}
