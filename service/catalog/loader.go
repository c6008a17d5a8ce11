package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/kuriosity/model"
	"github.com/viant/kuriosity/policy"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader reads experiment definitions. A file holds a single definition, a
// list of definitions, or a mapping with an "experiments" list.
type Loader struct {
	fs     afs.Service
	policy *policy.Policy
	logger *zap.Logger
}

// Option customises a Loader.
type Option func(l *Loader)

// WithFS sets the storage service.
func WithFS(fs afs.Service) Option {
	return func(l *Loader) { l.fs = fs }
}

// WithPolicy filters loaded experiment IDs.
func WithPolicy(p *policy.Policy) Option {
	return func(l *Loader) { l.policy = p }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader.
func NewLoader(options ...Option) *Loader {
	ret := &Loader{}
	for _, opt := range options {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	return ret
}

// Load reads every definition found at URL, a file or a folder.
// Invalid or duplicated definitions are logged and skipped.
func (l *Loader) Load(ctx context.Context, URL string) (*Catalog, error) {
	objects, err := l.objects(ctx, URL)
	if err != nil {
		return nil, err
	}
	ret, _ := New()
	for _, object := range objects {
		data, err := l.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to download %v: %w", object.URL(), err)
		}
		experiments, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %v: %w", object.URL(), err)
		}
		for _, exp := range experiments {
			if !l.policy.IsAllowed(exp.ID) {
				l.logger.Debug("experiment filtered out", zap.String("experiment", exp.ID))
				continue
			}
			if err := ret.add(exp); err != nil {
				l.logger.Error("skipping experiment definition", zap.String("url", object.URL()), zap.Error(err))
			}
		}
	}
	return ret, nil
}

func (l *Loader) objects(ctx context.Context, URL string) ([]storage.Object, error) {
	object, err := l.fs.Object(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to locate catalog %v: %w", URL, err)
	}
	if !object.IsDir() {
		return []storage.Object{object}, nil
	}
	objects, err := l.fs.List(ctx, URL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog %v: %w", URL, err)
	}
	var ret []storage.Object
	for _, candidate := range objects {
		if candidate.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(candidate.Name())) {
		case ".yaml", ".yml", ".json":
			ret = append(ret, candidate)
		}
	}
	return ret, nil
}

// Decode parses YAML or JSON definitions, applying defaults before decoding.
func Decode(data []byte) ([]*model.Experiment, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "experiments" {
				node = node.Content[i+1]
				break
			}
		}
	}
	var items []*yaml.Node
	switch node.Kind {
	case yaml.SequenceNode:
		items = node.Content
	case yaml.MappingNode:
		items = []*yaml.Node{node}
	default:
		return nil, fmt.Errorf("unsupported catalog node at line %d", node.Line)
	}
	var ret []*model.Experiment
	for _, item := range items {
		exp := model.NewExperiment()
		if err := item.Decode(exp); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		ret = append(ret, exp)
	}
	return ret, nil
}
