package infra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Tsinling0525/flowrun/format/reactflow"
	"github.com/Tsinling0525/flowrun/model"
)

var (
	ErrFlowNotFound    = errors.New("flow not found")
	ErrInvalidFlowName = errors.New("invalid flow name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// FlowStore keeps named flows as JSON files under one directory.
type FlowStore struct {
	dir string
}

func NewFlowStore(dir string) *FlowStore { return &FlowStore{dir: dir} }

func (s *FlowStore) path(name string) (string, error) {
	if !validName.MatchString(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFlowName, name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

func (s *FlowStore) Put(ctx context.Context, name string, flow model.Flow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := reactflow.Validate(flow); err != nil {
		return err
	}
	if err := ensureDir(s.dir); err != nil {
		return err
	}
	return reactflow.Save(p, flow)
}

func (s *FlowStore) Get(ctx context.Context, name string) (model.Flow, error) {
	if err := ctx.Err(); err != nil {
		return model.Flow{}, err
	}
	p, err := s.path(name)
	if err != nil {
		return model.Flow{}, err
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return model.Flow{}, fmt.Errorf("%w: %s", ErrFlowNotFound, name)
	}
	return reactflow.Load(p)
}

// List returns the stored flow names in ascending order.
func (s *FlowStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *FlowStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFlowNotFound, name)
		}
		return err
	}
	return nil
}
