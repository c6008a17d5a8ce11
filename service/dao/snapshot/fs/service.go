// Package fs stores snapshots as JSON files at any afs supported URL.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/kuriosity/runtime/part"
	"github.com/viant/kuriosity/service/dao"
	"github.com/viant/kuriosity/service/dao/snapshot"
	"go.uber.org/zap"
)

// Service implements a filesystem-based snapshot storage
type Service struct {
	basePath string
	fs       afs.Service
	logger   *zap.Logger
	mu       sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, part.Snapshot] = (*Service)(nil)

// Save persists a snapshot
func (s *Service) Save(ctx context.Context, snap *part.Snapshot) error {
	if snap == nil {
		return dao.ErrNilEntity
	}
	if snap.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	filePath := s.snapshotPath(snap.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save snapshot to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a snapshot
func (s *Service) Load(ctx context.Context, id string) (*part.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.snapshotPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("snapshot %s: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	ret := &part.Snapshot{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot data: %w", err)
	}
	return ret, nil
}

// Delete removes a snapshot
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.snapshotPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("snapshot %s: %w", id, dao.ErrNotFound)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// List returns matching snapshots oldest first. Unreadable files are logged and skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*part.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}
	var ret []*part.Snapshot
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Error("failed to read snapshot file", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		snap := &part.Snapshot{}
		if err := json.Unmarshal(data, snap); err != nil {
			s.logger.Error("failed to unmarshal snapshot", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		if !snapshot.Filter(snap, parameters) {
			continue
		}
		ret = append(ret, snap)
	}
	snapshot.Sort(ret)
	return ret, nil
}

func (s *Service) snapshotPath(id string) string {
	return url.Join(s.basePath, id+".json")
}

// New creates a filesystem snapshot storage service rooted at basePath
func New(basePath string, logger *zap.Logger) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fs := afs.New()
	ctx := context.Background()
	if exists, _ := fs.Exists(ctx, basePath); !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	return &Service{
		basePath: url.Normalize(basePath, file.Scheme),
		fs:       fs,
		logger:   logger,
	}, nil
}
