package respimg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FilesystemStore keeps one YAML manifest per attachment:
//
//	<root>/
//	  hero.yaml
//	  team-photo.yaml
//
// Manifests may be edited by hand; Watch reports such changes.
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	logger *zap.Logger
	closed bool
}

// FilesystemStoreDriver is the driver for creating FilesystemStore instances.
type FilesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameFilesystem, &FilesystemStoreDriver{})
}

// Open creates a FilesystemStore. The connection string is the root directory.
func (d *FilesystemStoreDriver) Open(connectionString string) (AttachmentStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a filesystem store rooted at root, creating the
// directory if needed.
func NewFilesystemStore(root string, opts ...StoreOption) (*FilesystemStore, error) {
	if root == "" {
		return nil, &StoreError{Message: ErrMsgInvalidStoreRoot}
	}

	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, &StoreError{
			Message: ErrMsgCreateStoreDir,
			Name:    root,
			Cause:   err,
		}
	}

	return &FilesystemStore{
		root:   root,
		logger: applyStoreOptions(opts).logger,
	}, nil
}

// Root returns the store's directory.
func (s *FilesystemStore) Root() string {
	return s.root
}

// Get retrieves an attachment by name.
func (s *FilesystemStore) Get(ctx context.Context, name string) (*Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateAttachmentName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	return s.load(name)
}

// Save writes the attachment's manifest, replacing any existing one.
func (s *FilesystemStore) Save(ctx context.Context, a *Attachment) error {
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

	existing, err := s.load(a.Name)
	if err != nil && !IsAttachmentNotFound(err) {
		return err
	}
	prepareForSave(a, existing, time.Now())

	data, err := yaml.Marshal(a)
	if err != nil {
		return &StoreError{Message: ErrMsgWriteManifest, Name: a.Name, Cause: err}
	}

	// Write then rename so watchers never observe a half-written manifest.
	filename := s.manifestPath(a.Name)
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, FilesystemFilePermissions); err != nil {
		return &StoreError{Message: ErrMsgWriteManifest, Name: filename, Cause: err}
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return &StoreError{Message: ErrMsgWriteManifest, Name: filename, Cause: err}
	}
	return nil
}

// Delete removes the attachment's manifest.
func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateAttachmentName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if err := os.Remove(s.manifestPath(name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewAttachmentNotFoundError(name)
		}
		return &StoreError{Message: ErrMsgDeleteManifest, Name: name, Cause: err}
	}
	return nil
}

// List returns attachments matching the query. Unreadable manifests are skipped.
func (s *FilesystemStore) List(ctx context.Context, query *AttachmentQuery) ([]*Attachment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &StoreError{Message: ErrMsgReadStoreDir, Name: s.root, Cause: err}
	}

	all := make([]*Attachment, 0, len(entries))
	for _, entry := range entries {
		name, ok := manifestName(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		a, err := s.load(name)
		if err != nil {
			s.logger.Debug(ErrMsgReadManifest, zap.String(LogFieldName, name), zap.Error(err))
			continue
		}
		all = append(all, a)
	}
	return filterAttachments(all, query), nil
}

// Exists checks if a manifest exists for name.
func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateAttachmentName(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	_, err := os.Stat(s.manifestPath(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, &StoreError{Message: ErrMsgReadManifest, Name: name, Cause: err}
}

// Close marks the store closed. Running watchers stop with their context.
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Watch reports the names of manifests created, written, removed or renamed
// under the store root until ctx is cancelled. onChange runs on the watcher
// goroutine.
func (s *FilesystemStore) Watch(ctx context.Context, onChange func(name string)) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return NewStoreClosedError()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &StoreError{Message: ErrMsgWatchFailed, Name: s.root, Cause: err}
	}
	if err := watcher.Add(s.root); err != nil {
		_ = watcher.Close()
		return &StoreError{Message: ErrMsgWatchFailed, Name: s.root, Cause: err}
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name, ok := manifestName(filepath.Base(event.Name))
				if !ok || event.Op.Has(fsnotify.Chmod) && !event.Op.Has(fsnotify.Write) {
					continue
				}
				s.logger.Debug(LogMsgStoreWatchEvent,
					zap.String(LogFieldName, name),
					zap.String("op", event.Op.String()),
				)
				onChange(name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn(LogMsgStoreWatchError, zap.Error(err))
			}
		}
	}()

	return nil
}

// load reads and decodes a manifest. Callers hold the lock.
func (s *FilesystemStore) load(name string) (*Attachment, error) {
	data, err := os.ReadFile(s.manifestPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewAttachmentNotFoundError(name)
		}
		return nil, &StoreError{Message: ErrMsgReadManifest, Name: name, Cause: err}
	}

	var a Attachment
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, &StoreError{Message: ErrMsgReadManifest, Name: name, Cause: err}
	}
	// The file name is authoritative.
	a.Name = name
	return &a, nil
}

func (s *FilesystemStore) manifestPath(name string) string {
	return filepath.Join(s.root, name+FilesystemManifestSuffix)
}

// manifestName extracts the attachment name from a manifest file name.
func manifestName(file string) (string, bool) {
	if strings.HasPrefix(file, ".") || !strings.HasSuffix(file, FilesystemManifestSuffix) {
		return "", false
	}
	return strings.TrimSuffix(file, FilesystemManifestSuffix), true
}
