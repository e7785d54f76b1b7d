package service

import (
	"strconv"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
)

const upcomingKey = "upcoming"

// PredictionCache keeps computed forecasts between snapshot refreshes
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration) *PredictionCache {
	return &PredictionCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached forecast for a match
func (pc *PredictionCache) Get(matchID int64) (*MatchPrediction, bool) {
	if v, found := pc.cache.Get(strconv.FormatInt(matchID, 10)); found {
		if mp, ok := v.(*MatchPrediction); ok {
			pc.hitCount.Add(1)
			return mp, true
		}
	}
	pc.missCount.Add(1)
	return nil, false
}

// Set stores a forecast
func (pc *PredictionCache) Set(mp *MatchPrediction) {
	pc.cache.Set(strconv.FormatInt(mp.Match.ID, 10), mp, pc.ttl)
}

// Upcoming returns the cached list of upcoming forecasts
func (pc *PredictionCache) Upcoming() ([]*MatchPrediction, bool) {
	if v, found := pc.cache.Get(upcomingKey); found {
		if list, ok := v.([]*MatchPrediction); ok {
			pc.hitCount.Add(1)
			return list, true
		}
	}
	pc.missCount.Add(1)
	return nil, false
}

// SetUpcoming stores the upcoming list and each of its entries
func (pc *PredictionCache) SetUpcoming(list []*MatchPrediction) {
	for _, mp := range list {
		pc.Set(mp)
	}
	pc.cache.Set(upcomingKey, list, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// Stats returns cache statistics
func (pc *PredictionCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
