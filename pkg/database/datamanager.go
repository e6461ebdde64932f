package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/BeamBotGo/pkg/logger"
	"github.com/PancyStudios/BeamBotGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotConnected is returned by reads while the database is offline
var ErrNotConnected = errors.New("database not connected")

// WarnsCollection holds one document per warned member
const WarnsCollection = "warns"

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// lruCache is a small LRU keyed by collection and query
type lruCache struct {
	items map[string]*list.Element
	order *list.List
	mu    sync.Mutex
}

type cacheEntry struct {
	key   string
	value interface{}
}

func newLRUCache() *lruCache {
	return &lruCache{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

func (c *lruCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

func (c *lruCache) put(key string, value interface{}, max int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value = &cacheEntry{key: key, value: value}
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value})
	if max > 0 && c.order.Len() > max {
		oldest := c.order.Back()
		delete(c.items, oldest.Value.(*cacheEntry).key)
		c.order.Remove(oldest)
	}
}

func (c *lruCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// GlobalWarnDM is the shared manager for the warns collection
var GlobalWarnDM *DataManager[models.WarnsDocument]

// InitGlobalDataManagers initializes shared DataManager instances
func InitGlobalDataManagers(db *Database) {
	GlobalWarnDM = NewDataManager[models.WarnsDocument](WarnsCollection, db)
	GlobalWarnDM.PrimeCache()
}

// DataManager provides cached access to a MongoDB collection. Writes made
// while offline are queued on the Database and replayed on reconnect.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	cache      *lruCache
	options    DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		cache:      newLRUCache(),
		options:    dmOptions,
	}
}

// collection resolves the collection if the database is online
func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.name)
}

// cacheKey builds a deterministic key from a query
func (dm *DataManager[T]) cacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

// Get retrieves a document from cache or database. A missing document
// yields (nil, nil).
func (dm *DataManager[T]) Get(query bson.M) (*T, error) {
	key := dm.cacheKey(query)
	if v, ok := dm.cache.get(key); ok {
		return v.(*T), nil
	}

	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Failed to read from '%s': %v", dm.name, err), "DataManager")
		return nil, err
	}

	dm.cache.put(key, &result, dm.options.MaxCacheSize)
	return &result, nil
}

// Set upserts a document. While offline the write is queued and the cache
// is updated from data when it has the document's type.
func (dm *DataManager[T]) Set(query bson.M, data interface{}) (*T, error) {
	key := dm.cacheKey(query)

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Queueing write for '%s'", dm.name), "DataManager")
		dm.enqueue(OpSet, query, data)
		if doc, ok := data.(*T); ok {
			dm.cache.put(key, doc, dm.options.MaxCacheSize)
			return doc, nil
		}
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result); err != nil {
		logger.Error(fmt.Sprintf("Write to '%s' failed, queueing: %v", dm.name, err), "DataManager")
		dm.enqueue(OpSet, query, data)
		return nil, err
	}

	dm.cache.put(key, &result, dm.options.MaxCacheSize)
	return &result, nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(query bson.M) error {
	dm.cache.remove(dm.cacheKey(query))

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB offline. Queueing delete for '%s'", dm.name), "DataManager")
		dm.enqueue(OpDelete, query, nil)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := col.DeleteOne(ctx, query); err != nil {
		logger.Error(fmt.Sprintf("Delete from '%s' failed, queueing: %v", dm.name, err), "DataManager")
		dm.enqueue(OpDelete, query, nil)
		return err
	}
	return nil
}

func (dm *DataManager[T]) enqueue(op string, query bson.M, data interface{}) {
	dm.dbInstance.AddToWriteQueue(QueuedOperation{
		CollectionName: dm.name,
		Query:          query,
		Operation:      op,
		Data:           data,
	})
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.len()
}

// PrimeCache logs that the cache is ready. It fills on demand.
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Cache for '%s' ready (max size: %d), filled on demand.", dm.name, dm.options.MaxCacheSize), "DataManager")
}
