// Package database provides the optional MongoDB backend for warnings.
// It includes a DataManager with caching and an offline write queue.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Queued operation kinds
const (
	OpSet    = "set"
	OpDelete = "delete"
)

// QueuedOperation represents a pending database operation
type QueuedOperation struct {
	CollectionName string
	Query          bson.M
	Operation      string
	Data           interface{}
}

// Database manages the MongoDB connection
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	connected   bool
	writeQueue  []QueuedOperation
	reconnect   *time.Ticker
	stop        chan struct{}
	stopOnce    sync.Once
	mu          sync.RWMutex
	queueMu     sync.Mutex
	collections map[string]*mongo.Collection
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		writeQueue:  make([]QueuedOperation, 0),
		stop:        make(chan struct{}),
		collections: make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB. On failure it keeps
// retrying in the background every 15 seconds.
func (d *Database) Connect(mongoURL, dbName string) error {
	if err := d.connect(mongoURL, dbName); err != nil {
		d.scheduleReconnect(mongoURL, dbName)
		return err
	}
	return nil
}

func (d *Database) connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return nil
	}

	logger.System("Connecting to the database...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Failed to connect to the database.", "DB")
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Failed to verify the database connection.", "DB")
		_ = client.Disconnect(context.Background())
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.connected = true
	d.collections = make(map[string]*mongo.Collection)

	logger.Success("Connected to the database.", "DB")

	go d.syncOfflineWrites()
	return nil
}

// scheduleReconnect starts the reconnection loop if it is not running
func (d *Database) scheduleReconnect(mongoURL, dbName string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnect != nil {
		return
	}

	logger.Warn("Database unavailable. Running in offline mode.", "DB")
	ticker := time.NewTicker(15 * time.Second)
	d.reconnect = ticker

	go func() {
		defer func() {
			ticker.Stop()
			d.mu.Lock()
			d.reconnect = nil
			d.mu.Unlock()
		}()

		for {
			select {
			case <-ticker.C:
				logger.Info("Retrying database connection...", "DB")
				if err := d.connect(mongoURL, dbName); err == nil {
					return
				}
			case <-d.stop:
				return
			}
		}
	}()
}

// Connected reports whether the database is reachable
func (d *Database) Connected() bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.stopOnce.Do(func() { close(d.stop) })

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.connected = false
	logger.Warn("Database disconnected", "DB")
	return nil
}

// GetStatus returns the database connection status
func (d *Database) GetStatus() (string, bool) {
	if d == nil {
		return "disabled", false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.client == nil {
		return "offline", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return "offline", false
	}
	return "online", true
}

// GetCollection returns a MongoDB collection, or nil while offline
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// AddToWriteQueue adds an operation to the offline write queue
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	d.writeQueue = append(d.writeQueue, op)
}

// QueueLen returns the number of writes waiting for a connection
func (d *Database) QueueLen() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// syncOfflineWrites replays queued operations once connected
func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Syncing %d pending operation(s) with the database...", len(d.writeQueue)), "DB-Sync")

	operations := d.writeQueue
	d.writeQueue = make([]QueuedOperation, 0)
	d.queueMu.Unlock()

	failedOps := make([]QueuedOperation, 0)

	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			failedOps = append(failedOps, op)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		var err error
		switch op.Operation {
		case OpSet:
			_, err = col.UpdateOne(ctx, op.Query, bson.M{"$set": op.Data}, options.Update().SetUpsert(true))
		case OpDelete:
			_, err = col.DeleteOne(ctx, op.Query)
		}

		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Failed to sync operation for '%s', it will be retried.", op.CollectionName), "DB-Sync")
			failedOps = append(failedOps, op)
		}
	}

	if len(failedOps) > 0 {
		d.queueMu.Lock()
		d.writeQueue = append(d.writeQueue, failedOps...)
		d.queueMu.Unlock()
		logger.Warn(fmt.Sprintf("%d operation(s) could not be synced and will be retried.", len(failedOps)), "DB-Sync")
		return
	}

	logger.Success("Offline writes synced.", "DB-Sync")
}
