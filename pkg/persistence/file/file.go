// Package file provides file-based persistence for flows, one JSON document
// per record. It backs local development and the test suite.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/chatforge/chatforge/pkg/models"
	"github.com/chatforge/chatforge/pkg/persistence"
	"github.com/google/uuid"
)

const flowsDir = "flows"

// Persistence implements persistence.Persistence on the local filesystem.
type Persistence struct {
	root string
}

// NewPersistence creates a file store rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

// Close performs any necessary cleanup. Nothing to do for files.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return &persistence.FlowError{Op: "HealthCheck", Err: persistence.ErrUnavailable}
	}

	return nil
}

func (p *Persistence) ListFlows(ctx context.Context, ownerID string) ([]*models.Flow, error) {
	dir := filepath.Join(p.root, flowsDir)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []*models.Flow{}, nil
	}

	names, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, &persistence.FlowError{Op: "ListFlows", Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	flows := make([]*models.Flow, 0, len(names))

	for _, name := range names {
		flow, err := p.readFlow(filepath.Join(dir, name))
		if err != nil {
			return nil, &persistence.FlowError{Op: "ListFlows", Err: err}
		}

		if ownerID != "" && flow.UserID != ownerID {
			continue
		}

		flows = append(flows, flow)
	}

	// Newest-first by creation time, id as a stable tiebreak.
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].CreatedAt.Equal(flows[j].CreatedAt) {
			return flows[i].ID > flows[j].ID
		}

		return flows[i].CreatedAt.After(flows[j].CreatedAt)
	})

	return flows, nil
}

func (p *Persistence) FlowByID(ctx context.Context, id string) (*models.Flow, error) {
	flow, err := p.readFlow(p.flowPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &persistence.FlowError{Op: "FlowByID", FlowID: id, Err: persistence.ErrFlowNotFound}
		}

		return nil, &persistence.FlowError{Op: "FlowByID", FlowID: id, Err: err}
	}

	return flow, nil
}

func (p *Persistence) CreateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error) {
	record := flow.Clone()
	record.ID = uuid.NewString()

	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := p.writeFlow(record); err != nil {
		return nil, &persistence.FlowError{Op: "CreateFlow", FlowID: record.ID, Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	return record, nil
}

func (p *Persistence) UpdateFlow(ctx context.Context, flow *models.Flow) (*models.Flow, error) {
	if flow.ID == "" {
		return nil, &persistence.FlowError{Op: "UpdateFlow", Err: persistence.ErrMissingFlowID}
	}

	existing, err := p.FlowByID(ctx, flow.ID)
	if err != nil {
		return nil, err
	}

	record := flow.Clone()
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now().UTC()

	if err := p.writeFlow(record); err != nil {
		return nil, &persistence.FlowError{Op: "UpdateFlow", FlowID: record.ID, Err: fmt.Errorf("%w: %w", persistence.ErrUnavailable, err)}
	}

	return record, nil
}

func (p *Persistence) DeleteFlow(ctx context.Context, id string) error {
	err := os.Remove(p.flowPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &persistence.FlowError{Op: "DeleteFlow", FlowID: id, Err: persistence.ErrFlowNotFound}
		}

		return &persistence.FlowError{Op: "DeleteFlow", FlowID: id, Err: err}
	}

	return nil
}

func (p *Persistence) flowPath(id string) string {
	return filepath.Join(p.root, flowsDir, id+".json")
}

func (p *Persistence) readFlow(path string) (*models.Flow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var flow models.Flow
	if err := json.Unmarshal(raw, &flow); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return &flow, nil
}

func (p *Persistence) writeFlow(flow *models.Flow) error {
	dir := filepath.Join(p.root, flowsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(flow, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(p.flowPath(flow.ID), raw, 0o644)
}
