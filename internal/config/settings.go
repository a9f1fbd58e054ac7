package config

import (
	"context"
	"fmt"
	"sync"
)

// APIKeySetting is the fixed key under which the AI credential is stored.
const APIKeySetting = "geminiApiKey"

// SettingsStore persists process-wide settings such as the AI credential.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// AISettings is the credential and model choice injected into the assist
// gateway at call time.
type AISettings struct {
	APIKey string
	Model  string
}

// Enabled reports whether AI-dependent actions may run.
func (s AISettings) Enabled() bool {
	return s.APIKey != ""
}

// LoadAISettings reads the stored credential, falling back to cfg.APIKey when
// none is stored. A nil store uses the fallback only.
func LoadAISettings(ctx context.Context, store SettingsStore, cfg *Config) (AISettings, error) {
	settings := AISettings{}
	if cfg != nil {
		settings.APIKey = cfg.APIKey
		settings.Model = cfg.Model
	}
	if store == nil {
		return settings, nil
	}

	key, ok, err := store.GetSetting(ctx, APIKeySetting)
	if err != nil {
		return AISettings{}, fmt.Errorf("failed to read API key setting: %w", err)
	}
	if ok && key != "" {
		settings.APIKey = key
	}
	return settings, nil
}

// SaveAPIKey stores the credential. An empty key removes it.
func SaveAPIKey(ctx context.Context, store SettingsStore, key string) error {
	if key == "" {
		if err := store.DeleteSetting(ctx, APIKeySetting); err != nil {
			return fmt.Errorf("failed to clear API key: %w", err)
		}
		return nil
	}
	if err := store.SetSetting(ctx, APIKeySetting, key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// MemorySettings is an in-process SettingsStore.
type MemorySettings struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySettings creates an empty in-process store.
func NewMemorySettings() *MemorySettings {
	return &MemorySettings{values: make(map[string]string)}
}

// GetSetting implements SettingsStore.
func (m *MemorySettings) GetSetting(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// SetSetting implements SettingsStore.
func (m *MemorySettings) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// DeleteSetting implements SettingsStore.
func (m *MemorySettings) DeleteSetting(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
