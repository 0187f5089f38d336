package respimg

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory AttachmentStore.
// It is primarily intended for testing and development.
type MemoryStore struct {
	mu          sync.RWMutex
	attachments map[string]*Attachment
	closed      bool
}

// MemoryStoreDriver is the driver for creating MemoryStore instances.
type MemoryStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameMemory, &MemoryStoreDriver{})
}

// Open creates a new MemoryStore. The connection string is ignored.
func (d *MemoryStoreDriver) Open(connectionString string) (AttachmentStore, error) {
	return NewMemoryStore(), nil
}

// NewMemoryStore creates a new in-memory attachment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attachments: make(map[string]*Attachment),
	}
}

// Get retrieves an attachment by name.
func (s *MemoryStore) Get(ctx context.Context, name string) (*Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	a, ok := s.attachments[name]
	if !ok {
		return nil, NewAttachmentNotFoundError(name)
	}
	return copyAttachment(a), nil
}

// Save creates or replaces an attachment.
func (s *MemoryStore) Save(ctx context.Context, a *Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateAttachment(a); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	prepareForSave(a, s.attachments[a.Name], time.Now())
	s.attachments[a.Name] = copyAttachment(a)
	return nil
}

// Delete removes an attachment by name.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if _, ok := s.attachments[name]; !ok {
		return NewAttachmentNotFoundError(name)
	}
	delete(s.attachments, name)
	return nil
}

// List returns attachments matching the query.
func (s *MemoryStore) List(ctx context.Context, query *AttachmentQuery) ([]*Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	all := make([]*Attachment, 0, len(s.attachments))
	for _, a := range s.attachments {
		all = append(all, copyAttachment(a))
	}
	return filterAttachments(all, query), nil
}

// Exists checks if an attachment exists.
func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	_, ok := s.attachments[name]
	return ok, nil
}

// Close releases resources. The store cannot be used afterwards.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.attachments = nil
	return nil
}
