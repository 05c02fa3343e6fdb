package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/fathe4/SM-BKD-sub000/models"
)

const (
	topicPostsCreated    = "posts.created"
	topicBoostsActivated = "boosts.activated"
	topicReactions       = "reactions.changed"
)

var errUnknownTopic = errors.New("message on unknown topic")

// Invalidator is what the consumer needs from the feed service.
type Invalidator interface {
	InvalidateOnPostCreate(ctx context.Context, authorID, city string)
	InvalidateOnBoostActivate(ctx context.Context, postID, boostID, country string)
	InvalidateOnReactionChange(ctx context.Context, reactorID string)
}

// EventConsumer bridges the write-side topics to the cache
// invalidation entry points. Invalidation is idempotent, so
// at-least-once delivery with auto commit is enough.
type EventConsumer struct {
	c   *kafka.Consumer
	inv Invalidator
}

func NewEventConsumer(config models.KafkaConfig, inv Invalidator) (*EventConsumer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers": config.BootStrapServers,
		"group.id":          config.GroupID,

		// for better batching
		"fetch.min.bytes":   config.FetchMinBytes,
		"auto.offset.reset": config.OffsetReset,

		"auto.commit.enable": "enable",
	})
	if err != nil {
		log.Println("Error in intiallizing a kafka consumer: ", err.Error())
		return nil, err
	}
	topics := config.Topics
	if len(topics) == 0 {
		topics = []string{topicPostsCreated, topicBoostsActivated, topicReactions}
	}
	if err = c.SubscribeTopics(topics, nil); err != nil {
		log.Println("Error in subscription to topics: ", err.Error())
		return nil, err
	}

	return &EventConsumer{
		c:   c,
		inv: inv,
	}, nil
}

func (ec *EventConsumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			ec.c.Close()
			return
		default:
			ev := ec.c.Poll(100)
			switch e := ev.(type) {
			case *kafka.Message:
				if err := ec.ProcessMessage(ctx, e); err != nil {
					log.Println("Error Processing Message: ", err.Error())
				}
			case kafka.Error:
				log.Println("Error in Consuming events: ", e)
			}
		}
	}
}

func (ec *EventConsumer) ProcessMessage(ctx context.Context, msg *kafka.Message) error {
	if msg.TopicPartition.Topic == nil {
		return errUnknownTopic
	}
	switch *msg.TopicPartition.Topic {
	case topicPostsCreated:
		var evt models.PostCreatedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return err
		}
		ec.inv.InvalidateOnPostCreate(ctx, evt.UserId, evt.City)
	case topicBoostsActivated:
		var evt models.BoostActivatedEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return err
		}
		ec.inv.InvalidateOnBoostActivate(ctx, evt.PostId, evt.BoostId, evt.Country)
	case topicReactions:
		var evt models.ReactionEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return err
		}
		// create and remove are the same for cache purposes
		ec.inv.InvalidateOnReactionChange(ctx, evt.UserId)
	default:
		return errUnknownTopic
	}
	return nil
}
