package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
)

const (
	slaRulesKey         = "slaRules"
	categoriesKey       = "categories"
	knowledgeBaseKey    = "knowledgeBase"
	assignmentGroupsKey = "assignmentGroups"
)

// ReferenceData bundles the four static tables reseeded on every startup.
type ReferenceData struct {
	SLARules         domain.SLARules
	Categories       domain.Categories
	KnowledgeBase    []domain.KBEntry
	AssignmentGroups domain.AssignmentGroups
}

// ReferenceRepository reads the static lookup tables. Reseed overwrites all
// four unconditionally: customizations do not survive a restart.
type ReferenceRepository interface {
	SLARules(ctx context.Context) (domain.SLARules, error)
	Categories(ctx context.Context) (domain.Categories, error)
	KnowledgeBase(ctx context.Context) ([]domain.KBEntry, error)
	AssignmentGroups(ctx context.Context) (domain.AssignmentGroups, error)
	Reseed(ctx context.Context, data ReferenceData) error
}

type referenceRepository struct {
	kv store.KV
}

// NewReferenceRepository instantiates the repository.
func NewReferenceRepository(kv store.KV) ReferenceRepository {
	return &referenceRepository{kv: kv}
}

func (r *referenceRepository) SLARules(ctx context.Context) (domain.SLARules, error) {
	var rules domain.SLARules
	if err := r.load(ctx, slaRulesKey, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *referenceRepository) Categories(ctx context.Context) (domain.Categories, error) {
	var categories domain.Categories
	if err := r.load(ctx, categoriesKey, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *referenceRepository) KnowledgeBase(ctx context.Context) ([]domain.KBEntry, error) {
	var entries []domain.KBEntry
	if err := r.load(ctx, knowledgeBaseKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *referenceRepository) AssignmentGroups(ctx context.Context) (domain.AssignmentGroups, error) {
	var groups domain.AssignmentGroups
	if err := r.load(ctx, assignmentGroupsKey, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *referenceRepository) Reseed(ctx context.Context, data ReferenceData) error {
	entries := map[string]any{
		slaRulesKey:         data.SLARules,
		categoriesKey:       data.Categories,
		knowledgeBaseKey:    data.KnowledgeBase,
		assignmentGroupsKey: data.AssignmentGroups,
	}
	for key, value := range entries {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if err := r.kv.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

func (r *referenceRepository) load(ctx context.Context, key string, out any) error {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return fmt.Errorf("reference table %s not seeded", key)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
