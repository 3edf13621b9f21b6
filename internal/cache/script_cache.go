package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
)

// ScriptCache запоминает хеши уже импортированных сценариев, чтобы один и
// тот же текст не попал в переписку дважды за запуск.
type ScriptCache struct {
	seen  map[string]struct{}
	mutex sync.Mutex
}

// NewScriptCache создает новый экземпляр ScriptCache
func NewScriptCache() *ScriptCache {
	return &ScriptCache{
		seen: make(map[string]struct{}),
	}
}

// MarkNew отмечает сценарий как импортированный и сообщает, был ли он новым.
// Проверка и отметка выполняются под одной блокировкой.
func (sc *ScriptCache) MarkNew(key string) bool {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if _, exists := sc.seen[key]; exists {
		return false
	}
	sc.seen[key] = struct{}{}
	return true
}

// Len возвращает количество запомненных сценариев
func (sc *ScriptCache) Len() int {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	return len(sc.seen)
}

// HashScript вычисляет хеш SHA256 текста сценария
func HashScript(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
