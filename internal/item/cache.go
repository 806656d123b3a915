package item

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

// Source resolves item definitions, typically a Catalog.
type Source interface {
	Get(itemID int) (*domain.ItemMetadata, bool)
}

// CachedProvider fronts a Source with a bounded LRU of recently resolved
// definitions. Misses are not cached.
type CachedProvider struct {
	source Source
	cache  *lru.Cache[int, *domain.ItemMetadata]
}

// NewCachedProvider creates a provider holding at most size definitions.
func NewCachedProvider(source Source, size int) (*CachedProvider, error) {
	cache, err := lru.New[int, *domain.ItemMetadata](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create item cache: %w", err)
	}
	return &CachedProvider{source: source, cache: cache}, nil
}

// Get returns the definition for itemID.
func (p *CachedProvider) Get(itemID int) (*domain.ItemMetadata, bool) {
	if meta, ok := p.cache.Get(itemID); ok {
		return meta, true
	}

	log := logger.FromContext(context.Background())
	meta, ok := p.source.Get(itemID)
	if !ok {
		log.Debug(LogMsgUnknownItemID, "item_id", itemID)
		return nil, false
	}
	log.Debug(LogMsgCacheMiss, "item_id", itemID)
	p.cache.Add(itemID, meta)
	return meta, true
}

// Len returns the number of cached definitions.
func (p *CachedProvider) Len() int {
	return p.cache.Len()
}

// Purge drops every cached definition, used after the source is reloaded.
func (p *CachedProvider) Purge() {
	p.cache.Purge()
	logger.FromContext(context.Background()).Info(LogMsgCatalogReplaced)
}
