package models

import "sync"

// DefaultTranslatePrefix 群组默认的翻译触发前缀
const DefaultTranslatePrefix = "@翻譯"

// SettingsSnapshot 会话配置的只读副本
type SettingsSnapshot struct {
	AutoTranslate   bool   // 是否自动翻译所有非指令消息
	TranslatePrefix string // 触发翻译的前缀
	SilentMode      bool   // 静音模式：回复中不附带原文
}

// ConversationSettings 单个群组/房间的翻译配置
//
// 同一个会话 ID 始终对应同一个实例，字段由各自的锁保护，
// 多个事件并发修改同一会话时以最后一次写入为准。
type ConversationSettings struct {
	mu              sync.RWMutex
	autoTranslate   bool
	translatePrefix string
	silentMode      bool
}

// NewConversationSettings 创建默认配置（自动翻译关闭、静音关闭）
// prefix 为空时使用 DefaultTranslatePrefix
func NewConversationSettings(prefix string) *ConversationSettings {
	if prefix == "" {
		prefix = DefaultTranslatePrefix
	}
	return &ConversationSettings{translatePrefix: prefix}
}

// AutoTranslate 是否开启自动翻译
func (s *ConversationSettings) AutoTranslate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoTranslate
}

// SetAutoTranslate 设置自动翻译开关
func (s *ConversationSettings) SetAutoTranslate(enabled bool) {
	s.mu.Lock()
	s.autoTranslate = enabled
	s.mu.Unlock()
}

// SilentMode 是否开启静音模式
func (s *ConversationSettings) SilentMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.silentMode
}

// SetSilentMode 设置静音模式开关
func (s *ConversationSettings) SetSilentMode(enabled bool) {
	s.mu.Lock()
	s.silentMode = enabled
	s.mu.Unlock()
}

// TranslatePrefix 返回翻译触发前缀
func (s *ConversationSettings) TranslatePrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.translatePrefix
}

// Snapshot 返回当前配置的副本，用于一次性读取多个字段
func (s *ConversationSettings) Snapshot() SettingsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SettingsSnapshot{
		AutoTranslate:   s.autoTranslate,
		TranslatePrefix: s.translatePrefix,
		SilentMode:      s.silentMode,
	}
}
