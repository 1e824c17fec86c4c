package services

import "context"

// Table is a StorageService bound to one table name. Calls made one after
// another from a goroutine run in that order, which is how sequential
// storage scripts are written.
type Table struct {
	name string
	svc  *StorageService
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Get returns the stored value, or nil if the key is absent.
func (t *Table) Get(ctx context.Context, key string) (any, error) {
	return t.svc.Get(ctx, t.name, key)
}

// Lookup decodes the stored value into dst and reports whether the key exists.
func (t *Table) Lookup(ctx context.Context, key string, dst any) (bool, error) {
	return t.svc.Lookup(ctx, t.name, key, dst)
}

// Set stores value, returning true when the key was newly inserted.
func (t *Table) Set(ctx context.Context, key string, value any) (bool, error) {
	return t.svc.Set(ctx, t.name, key, value)
}

// Has reports whether key exists.
func (t *Table) Has(ctx context.Context, key string) (bool, error) {
	return t.svc.Has(ctx, t.name, key)
}

// Remove deletes key, returning true if a row was deleted.
func (t *Table) Remove(ctx context.Context, key string) (bool, error) {
	return t.svc.Remove(ctx, t.name, key)
}

// Keys lists the keys in the table.
func (t *Table) Keys(ctx context.Context) ([]string, error) {
	return t.svc.Keys(ctx, t.name)
}
