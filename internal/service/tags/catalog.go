package tags

import (
	"sync"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// Catalog — справочник жанровых тегов магазина. Набор тегов задаётся при
// старте сервиса (аналог genesis-конфигурации) и после этого не меняется,
// поэтому чтение не требует блокировки; mutex защищает только Seed.
type Catalog struct {
	mu    sync.RWMutex
	names map[domain.TagID]string
}

// NewCatalog создаёт каталог с переданным набором тегов.
func NewCatalog(seed map[domain.TagID]string) *Catalog {
	names := make(map[domain.TagID]string, len(seed))
	for id, name := range seed {
		names[id] = name
	}
	return &Catalog{names: names}
}

// DefaultSeed возвращает стартовый набор тегов магазина.
func DefaultSeed() map[domain.TagID]string {
	return map[domain.TagID]string{
		1: "action",
		2: "adventure",
		3: "strategy",
		4: "rpg",
		5: "simulation",
		6: "puzzle",
		7: "indie",
	}
}

// IsValidTag сообщает, зарегистрирован ли тег в каталоге.
func (c *Catalog) IsValidTag(id domain.TagID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.names[id]
	return ok
}

// Name возвращает имя тега и признак его существования.
func (c *Catalog) Name(id domain.TagID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[id]
	return name, ok
}

// Seed добавляет теги в каталог. Существующие идентификаторы не перезаписываются.
func (c *Catalog) Seed(extra map[domain.TagID]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, name := range extra {
		if _, ok := c.names[id]; !ok {
			c.names[id] = name
		}
	}
}

var _ domain.TagCatalog = (*Catalog)(nil)
