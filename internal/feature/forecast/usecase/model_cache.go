package usecase

import (
	"sync"
	"time"
)

type modelKey struct {
	pair    string
	horizon int
}

type fittedModels struct {
	high     Regressor
	low      Regressor
	fittedAt time.Time
}

// modelCache は (pair, horizon) ごとの学習済みモデルを ttl の間だけ保持します。
// nil の modelCache は何もキャッシュしません。
type modelCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	models map[modelKey]fittedModels
}

func newModelCache(ttl time.Duration, now func() time.Time) *modelCache {
	if ttl <= 0 {
		return nil
	}
	return &modelCache{ttl: ttl, now: now, models: make(map[modelKey]fittedModels)}
}

func (m *modelCache) get(key modelKey) (fittedModels, bool) {
	if m == nil {
		return fittedModels{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	fm, ok := m.models[key]
	if !ok {
		return fittedModels{}, false
	}
	if m.now().Sub(fm.fittedAt) >= m.ttl {
		delete(m.models, key)
		return fittedModels{}, false
	}
	return fm, true
}

func (m *modelCache) put(key modelKey, fm fittedModels) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[key] = fm
}
