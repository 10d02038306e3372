package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"university/internal/config"
	"university/internal/filestore"
	"university/internal/notify"
	"university/internal/queue"
	"university/internal/store"
)

// Worker consumes queue messages: it delivers notifications and
// post-processes uploaded files.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	}

	mongoClient, err := store.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Printf("WARNING: mongo not available: %v", err)
		log.Println("Worker will skip file processing until it comes back")
	} else {
		defer mongoClient.Close(context.Background())
	}
	files := filestore.New(mongoClient.GridFS())

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		switch msg.Type {
		case queue.TypeNotification:
			handleNotification(msg.Body)
		case queue.TypeFileProcessing:
			handleFileTask(files, msg.Body)
		default:
			log.Printf("skipping unknown message type %q", msg.Type)
		}
	}

	log.Println("worker stopped")
}

// handleNotification delivers a notification. Delivery here means logging;
// a push or email gateway would hang off this switch.
func handleNotification(body []byte) {
	var n notify.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Printf("bad notification payload: %v", err)
		return
	}
	switch {
	case n.UserID != "":
		log.Printf("notify user %s [%s]: %s", n.UserID, n.Type, n.Message)
	case n.GroupID != "":
		log.Printf("notify group %s [%s]: %s", n.GroupID, n.Type, n.Message)
	default:
		log.Printf("notify broadcast [%s]: %s", n.Type, n.Message)
	}
}

// handleFileTask inspects a freshly uploaded blob.
func handleFileTask(files *filestore.Store, body []byte) {
	var task notify.FileTask
	if err := json.Unmarshal(body, &task); err != nil {
		log.Printf("bad file task payload: %v", err)
		return
	}
	if task.Operation != "process_new_upload" {
		log.Printf("skipping unknown file operation %q", task.Operation)
		return
	}

	info, data, err := files.Get(task.FileID)
	if err != nil {
		log.Printf("file %s fetch failed: %v", task.FileID, err)
		return
	}
	log.Printf("processed file %s: %s (%s, %d bytes, assignment %s)",
		task.FileID, info.Filename, info.ContentType, len(data), info.AssignmentID)
}
