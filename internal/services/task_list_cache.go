package services

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"goodsgo/internal/models"
)

// TaskListCache holds assembled list pages keyed by the canonical query
// string. A nil cache disables caching.
type TaskListCache struct {
	mu         sync.Mutex
	generation uint64
	lru        *expirable.LRU[string, models.AdminTaskListPageData]
}

func NewTaskListCache(size int, ttl time.Duration) *TaskListCache {
	if size <= 0 {
		return nil
	}
	return &TaskListCache{lru: expirable.NewLRU[string, models.AdminTaskListPageData](size, nil, ttl)}
}

func (c *TaskListCache) Get(query models.TaskListQuery) (models.AdminTaskListPageData, bool) {
	if c == nil {
		return models.AdminTaskListPageData{}, false
	}
	return c.lru.Get(query.Encode())
}

// Generation changes on every Purge. Read it before loading a page.
func (c *TaskListCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Add stores a page loaded at generation gen. Pages loaded before the last
// Purge are dropped.
func (c *TaskListCache) Add(gen uint64, query models.TaskListQuery, data models.AdminTaskListPageData) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.lru.Add(query.Encode(), data)
}

// Purge drops every page; called after each successful mutation.
func (c *TaskListCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.lru.Purge()
}

func (c *TaskListCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
