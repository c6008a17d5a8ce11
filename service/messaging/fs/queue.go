// Package fs implements a durable messaging.Queue keeping one JSON file per
// message, so that events published before a restart are still delivered.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/kuriosity/internal/clock"
	"github.com/viant/kuriosity/internal/idgen"
	"github.com/viant/kuriosity/service/messaging"
)

const (
	pendingDir    = "pending"
	processingDir = "processing"
	dlqDir        = "dlq"
)

// Message implements messaging.Message for the filesystem queue
type Message[T any] struct {
	MessageID string    `json:"id"`
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Retries   int       `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
}

// ID returns the message identifier
func (m *Message[T]) ID() string {
	return m.MessageID
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack removes the message from the processing folder
func (m *Message[T]) Ack() error {
	m.queue.mu.Lock()
	defer m.queue.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	return m.queue.fs.Delete(context.Background(), m.queue.path(processingDir, m.name))
}

// Nack requeues the message at the tail until MaxRetries is exceeded, then
// moves it to the dead letter folder.
func (m *Message[T]) Nack(err error) error {
	m.queue.mu.Lock()
	defer m.queue.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	ctx := context.Background()
	folder := pendingDir
	name := m.queue.nextName(m.MessageID)
	if m.Retries >= m.queue.config.MaxRetries {
		folder = dlqDir
		name = m.name
	} else {
		m.Retries++
	}
	if uploadErr := m.queue.upload(ctx, m.queue.path(folder, name), m); uploadErr != nil {
		return uploadErr
	}
	return m.queue.fs.Delete(ctx, m.queue.path(processingDir, m.name))
}

// Config holds configuration for filesystem queue
type Config struct {
	BasePath string
	// MaxRetries is the number of redeliveries after the first Nack
	MaxRetries int
}

// DefaultConfig returns a default queue configuration rooted at basePath
func DefaultConfig(basePath string) Config {
	return Config{BasePath: basePath, MaxRetries: 3}
}

// Queue implements a FIFO filesystem messaging.Queue. Consume never blocks.
type Queue[T any] struct {
	fs     afs.Service
	config Config
	seq    int64
	mu     sync.Mutex
}

// NewQueue creates the queue folders and requeues messages left in
// processing by a previous run.
func NewQueue[T any](fs afs.Service, config Config) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	config.BasePath = url.Normalize(config.BasePath, file.Scheme)
	ret := &Queue[T]{fs: fs, config: config}
	ctx := context.Background()
	for _, dir := range []string{pendingDir, processingDir, dlqDir} {
		location := url.Join(config.BasePath, dir)
		if exists, _ := fs.Exists(ctx, location); exists {
			continue
		}
		if err := fs.Create(ctx, location, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", location, err)
		}
	}
	if err := ret.recover(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (q *Queue[T]) recover(ctx context.Context) error {
	names, err := q.names(ctx, processingDir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err = q.fs.Move(ctx, q.path(processingDir, name), q.path(pendingDir, name)); err != nil {
			return fmt.Errorf("failed to requeue %s: %w", name, err)
		}
	}
	return nil
}

// Publish writes a new message to the pending folder
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("payload was nil")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	message := &Message[T]{MessageID: idgen.NewString(), Data: *t, CreatedAt: clock.Now()}
	return q.upload(ctx, q.path(pendingDir, q.nextName(message.MessageID)), message)
}

// Consume moves the oldest pending message to the processing folder
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.names(ctx, pendingDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, messaging.ErrEmpty
	}
	name := names[0]
	source := q.path(pendingDir, name)
	data, err := q.fs.DownloadWithURL(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", source, err)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		_ = q.fs.Move(ctx, source, q.path(dlqDir, name))
		return nil, fmt.Errorf("failed to decode message %s: %w", source, err)
	}
	if err = q.fs.Move(ctx, source, q.path(processingDir, name)); err != nil {
		return nil, fmt.Errorf("failed to move message %s to processing: %w", source, err)
	}
	message.name = name
	message.queue = q
	return message, nil
}

// Size returns the number of pending messages
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.names(ctx, pendingDir)
	return len(names), err
}

// DLQSize returns the number of dead letters
func (q *Queue[T]) DLQSize(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.names(ctx, dlqDir)
	return len(names), err
}

// nextName returns a file name ordering after every name issued before.
func (q *Queue[T]) nextName(id string) string {
	q.seq++
	return fmt.Sprintf("%020d_%06d_%s.json", clock.Now().UnixNano(), q.seq%1000000, id)
}

func (q *Queue[T]) path(folder, name string) string {
	return url.Join(q.config.BasePath, folder, name)
}

func (q *Queue[T]) names(ctx context.Context, folder string) ([]string, error) {
	objects, err := q.fs.List(ctx, url.Join(q.config.BasePath, folder))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s messages: %w", folder, err)
	}
	var ret []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		ret = append(ret, object.Name())
	}
	sort.Strings(ret)
	return ret, nil
}

func (q *Queue[T]) upload(ctx context.Context, location string, message *Message[T]) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err = q.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", location, err)
	}
	return nil
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
