package articles

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const listKey = "posts"

type cachedEntry struct {
	list      []Article
	item      *Article
	lastFetch time.Time
}

// Cache guarda las respuestas correctas de una Source durante ttl. Los errores
// nunca se guardan.
type Cache struct {
	source Source
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mutex   sync.RWMutex
	entries map[string]cachedEntry
}

func NewCache(source Source, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		source:  source,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]cachedEntry),
	}
}

func (c *Cache) Enabled() bool {
	return c.ttl > 0
}

func (c *Cache) lookup(key string) (cachedEntry, bool) {
	if !c.Enabled() {
		return cachedEntry{}, false
	}
	c.mutex.RLock()
	cached, exists := c.entries[key]
	c.mutex.RUnlock()
	if exists && c.now().Sub(cached.lastFetch) < c.ttl {
		c.logger.Debug("🟢 Cache HIT", zap.String("key", key), zap.Duration("age", c.now().Sub(cached.lastFetch)))
		return cached, true
	}
	c.logger.Debug("🔴 Cache MISS", zap.String("key", key))
	return cachedEntry{}, false
}

func (c *Cache) store(key string, entry cachedEntry) {
	if !c.Enabled() {
		return
	}
	entry.lastFetch = c.now()
	c.mutex.Lock()
	c.entries[key] = entry
	c.mutex.Unlock()
}

// List devuelve una copia para que nadie pueda modificar lo que hay en caché.
func (c *Cache) List(ctx context.Context) ([]Article, error) {
	if cached, ok := c.lookup(listKey); ok {
		return append([]Article(nil), cached.list...), nil
	}
	list, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(listKey, cachedEntry{list: list})
	return append([]Article(nil), list...), nil
}

func (c *Cache) Get(ctx context.Context, id int) (*Article, error) {
	key := listKey + "/" + strconv.Itoa(id)
	if cached, ok := c.lookup(key); ok {
		item := *cached.item
		return &item, nil
	}
	item, err := c.source.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(key, cachedEntry{item: item})
	out := *item
	return &out, nil
}

// Warm vuelve a pedir la lista aunque la entrada siga vigente.
func (c *Cache) Warm(ctx context.Context) error {
	list, err := c.source.List(ctx)
	if err != nil {
		return err
	}
	c.store(listKey, cachedEntry{list: list})
	c.logger.Info("🔄 Article cache warmed", zap.Int("count", len(list)))
	return nil
}

func (c *Cache) Clear() {
	c.mutex.Lock()
	c.entries = make(map[string]cachedEntry)
	c.mutex.Unlock()
}
