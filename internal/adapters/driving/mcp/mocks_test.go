package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// mockStorageService is a mock implementation of driving.StorageService.
type mockStorageService struct {
	mu     sync.Mutex
	tables map[string]map[string]any
	err    error
	calls  int
}

func newMockStorageService() *mockStorageService {
	return &mockStorageService{tables: make(map[string]map[string]any)}
}

func (m *mockStorageService) record() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockStorageService) Get(_ context.Context, table, key string) (any, error) {
	m.record()
	if m.err != nil {
		return nil, m.err
	}
	return m.tables[table][key], nil
}

func (m *mockStorageService) Lookup(_ context.Context, table, key string, dst any) (bool, error) {
	m.record()
	if m.err != nil {
		return false, m.err
	}
	v, ok := m.tables[table][key]
	if !ok {
		return false, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dst)
}

func (m *mockStorageService) Set(_ context.Context, table, key string, value any) (bool, error) {
	m.record()
	if m.err != nil {
		return false, m.err
	}
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]any)
	}
	_, exists := m.tables[table][key]
	m.tables[table][key] = value
	return !exists, nil
}

func (m *mockStorageService) Has(_ context.Context, table, key string) (bool, error) {
	m.record()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.tables[table][key]
	return ok, nil
}

func (m *mockStorageService) Remove(_ context.Context, table, key string) (bool, error) {
	m.record()
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.tables[table][key]
	delete(m.tables[table], key)
	return ok, nil
}

func (m *mockStorageService) Keys(_ context.Context, table string) ([]string, error) {
	m.record()
	if m.err != nil {
		return nil, m.err
	}
	var keys []string
	for k := range m.tables[table] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockStorageService) Tables(_ context.Context) ([]string, error) {
	m.record()
	if m.err != nil {
		return nil, m.err
	}
	var tables []string
	for t := range m.tables {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables, nil
}

func (m *mockStorageService) Close(_ context.Context) error {
	return m.err
}
