package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gomodule/redigo/redis"

	"github.com/apelman/acrossdown/pubsub"
)

func main() {
	pool := NewRedisPool()
	defer func() { _ = pool.Close() }()

	registry := new(pubsub.Registry)

	router := gin.Default()

	// Register handlers for our paths.
	api := router.Group("/api")
	api.POST("/puzzles", UploadPuzzle(pool, registry))
	api.GET("/puzzles", ListPuzzles(pool))
	api.GET("/puzzles/:id", GetPuzzle(pool))
	api.GET("/puzzles/:id/file", GetPuzzleFile(pool))
	api.POST("/puzzles/:id/unlock", UnlockPuzzle(pool, registry))
	api.GET("/events", PuzzleEventsHandler(registry))

	// Start the server.
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	err := router.Run(":" + port)
	if err != nil {
		log.Fatalf("error from main: %+v", err)
	}
}

func NewRedisPool() *redis.Pool {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = ":6379"
	}

	return &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 300 * time.Second,

		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", host)
		},

		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			_, err := c.Do("PING")
			return err
		},
	}
}
