package settings

import (
	"sync"

	"translate_bot/internal/linebot/models"
)

// Store 会话配置的内存存储
// 首次访问时创建默认配置，之后同一会话始终返回同一实例；进程重启后丢失
type Store struct {
	mu            sync.RWMutex
	defaultPrefix string
	values        map[string]*models.ConversationSettings
}

// NewStore 创建配置存储，defaultPrefix 为空时使用 models.DefaultTranslatePrefix
func NewStore(defaultPrefix string) *Store {
	if defaultPrefix == "" {
		defaultPrefix = models.DefaultTranslatePrefix
	}
	return &Store{
		defaultPrefix: defaultPrefix,
		values:        make(map[string]*models.ConversationSettings),
	}
}

// Get 获取会话配置，不存在时创建默认配置并保存
func (s *Store) Get(conversationID string) *models.ConversationSettings {
	s.mu.RLock()
	settings, ok := s.values[conversationID]
	s.mu.RUnlock()
	if ok {
		return settings
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 双重检查，避免并发首访时创建两份
	if settings, ok := s.values[conversationID]; ok {
		return settings
	}

	settings = models.NewConversationSettings(s.defaultPrefix)
	s.values[conversationID] = settings
	return settings
}

// Len 返回已创建配置的会话数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// DefaultPrefix 返回新会话使用的翻译前缀
func (s *Store) DefaultPrefix() string {
	return s.defaultPrefix
}
