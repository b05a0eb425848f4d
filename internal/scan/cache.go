package scan

import (
	"sync"

	"github.com/CUNYTechPrep/ctp-fall-wd-curriculum-sub001/internal/annotate"
)

// Cache memoizes parsed documents by content hash so repeat views of an
// unchanged file skip the parse. Eviction is least-recently-used.
type Cache struct {
	mu    sync.Mutex
	docs  map[string]*annotate.Document
	order []string
	limit int
}

// NewCache creates a cache holding up to capacity documents.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 128
	}
	return &Cache{
		docs:  make(map[string]*annotate.Document),
		limit: capacity,
	}
}

func (c *Cache) Get(hash string) (*annotate.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[hash]
	if ok {
		c.touch(hash)
	}
	return doc, ok
}

// touch moves a hash to the back of the eviction order.
func (c *Cache) touch(hash string) {
	for i, h := range c.order {
		if h == hash {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, hash)
			return
		}
	}
}

func (c *Cache) Put(hash string, doc *annotate.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[hash]; ok {
		return
	}
	if len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.docs, oldest)
	}
	c.docs[hash] = doc
	c.order = append(c.order, hash)
}

// Len reports how many documents are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}
