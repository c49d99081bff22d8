package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/config"
	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/handlers"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories/memory"
	mongorepo "github.com/ArowuTest/church-calendar-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/church-calendar-backend/pkg/mongodb"
)

// memoryURI selects the in-process store instead of MongoDB
const memoryURI = "memory://"

type blobStore interface {
	eventform.BlobStore
	handlers.BlobReader
}

// backend is the storage the API runs on
type backend struct {
	events      repositories.EventRepository
	churches    repositories.ChurchRepository
	memberships repositories.MembershipRepository
	users       repositories.UserRepository
	blobs       blobStore
	ping        func(ctx context.Context) error
	close       func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.MongoDB.URI == memoryURI {
		log.Println("[WARN] Backend: using in-memory storage, data is lost on restart")
		store := memory.NewStore(cfg.Storage.PublicBaseURL)
		return &backend{
			events:      store.Events,
			churches:    store.Churches,
			memberships: store.Memberships,
			users:       store.Users,
			blobs:       store.Blobs,
			close:       func() {},
		}, nil
	}

	timeout := time.Duration(cfg.MongoDB.ConnectTimeout) * time.Second
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := client.Database(cfg.MongoDB.Database)

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Printf("[WARN] Backend: %v", err)
	}
	blobs, err := mongorepo.NewBlobStore(db, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to open GridFS bucket: %w", err)
	}

	return &backend{
		events:      mongorepo.NewEventRepository(db),
		churches:    mongorepo.NewChurchRepository(db),
		memberships: mongorepo.NewMembershipRepository(db),
		users:       mongorepo.NewUserRepository(db),
		blobs:       blobs,
		ping:        client.Ping,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				log.Printf("[ERROR] Backend: error disconnecting from MongoDB: %v", err)
			}
		},
	}, nil
}
