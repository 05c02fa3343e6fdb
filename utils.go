package main

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/fathe4/SM-BKD-sub000/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	maxPageLimit     = 50
	defaultPageLimit = 20
)

var ErrInvalidPagination = errors.New("page must be >= 1 and limit between 1 and 50")

func ValidatePagination(page, limit int32) error {
	if page < 1 {
		return ErrInvalidPagination
	}
	if limit < 1 || limit > maxPageLimit {
		return ErrInvalidPagination
	}
	return nil
}

func LoadConfig() (models.ServerConfig, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file loaded, using process env: ", err.Error())
	}
	config := models.ServerConfig{
		ServerPort:     os.Getenv("SERVER_PORT"),
		ServerHost:     os.Getenv("SERVER_HOST"),
		ServerHTTPPort: os.Getenv("SERVER_HTTP_PORT"),
		HostName:       os.Getenv("HOSTNAME"),
		EtcdEndpoints:  os.Getenv("ETCD_ENDPOINTS"),
	}
	return config, nil
}

func LoadRedisConfig() (models.RedisConfig, error) {
	config := models.RedisConfig{
		Addr:     os.Getenv("CACHE_ADDR"),
		Password: os.Getenv("CACHE_PASSWORD"),
	}
	return config, nil
}

func LoadKafkaConfig() (models.KafkaConfig, error) {
	config := models.KafkaConfig{
		BootStrapServers: os.Getenv("BOOTSTRAP_SERVERS"),
		GroupID:          os.Getenv("GROUP_ID"),
		OffsetReset:      os.Getenv("OFFSET_RESET"),
		FetchMinBytes:    os.Getenv("FETCH_MIN_BYTES"),
	}
	if topics := os.Getenv("TOPICS"); topics != "" {
		config.Topics = strings.Split(topics, ",")
	}
	return config, nil
}

func LoadDBConfig() (models.DBConfig, error) {
	config := models.DBConfig{
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}
	return config, nil
}

func DefaultTuning() models.Tuning {
	return models.Tuning{
		BoostedEstimateCap:     20,
		FriendLikedEstimateCap: 10,
		BoostedFetchCap:        15,
		FriendLikedFetchCap:    10,
		MinBufferMultiplier:    3,
		PublicPoolSize:         100,
	}
}

// LoadTuning overlays config.yaml on the compiled-in defaults. The
// knobs are heuristics, so a missing or broken file is not fatal.
func LoadTuning(path string) models.Tuning {
	tuning := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Println("No tuning config found, using defaults: ", err.Error())
		return tuning
	}
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		log.Println("Error in Parsing tuning config, using defaults: ", err.Error())
		return DefaultTuning()
	}
	return tuning
}
