package authsync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Project is the marketplace engagement linking a buyer to a provider.
type Project struct {
	ID           string
	Title        string
	Description  string
	Status       string
	FreelancerID string
	ClientID     string
	Budget       float64
	CreatedAt    string
}

// ProjectService reads and writes the projects collection.
type ProjectService struct {
	docs   DocumentStore
	logger Logger
	now    func() time.Time
}

// ProjectOption customizes the project service.
type ProjectOption func(*ProjectService)

// WithProjectLogger overrides the default logger.
func WithProjectLogger(logger Logger) ProjectOption {
	return func(p *ProjectService) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProjectClock overrides the timestamp source.
func WithProjectClock(now func() time.Time) ProjectOption {
	return func(p *ProjectService) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProjectService returns a project service backed by the given store.
func NewProjectService(docs DocumentStore, opts ...ProjectOption) *ProjectService {
	if docs == nil {
		panic("project service: document store is required")
	}
	svc := &ProjectService{
		docs:   docs,
		logger: defLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Create persists a new project and returns it with its generated ID.
func (p *ProjectService) Create(ctx context.Context, project Project) (*Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.Status == "" {
		project.Status = "open"
	}
	if project.CreatedAt == "" {
		project.CreatedAt = p.now().UTC().Format(time.RFC3339)
	}

	doc := map[string]any{
		"id":           project.ID,
		"title":        project.Title,
		"description":  project.Description,
		"status":       project.Status,
		"freelancerId": project.FreelancerID,
		"clientId":     project.ClientID,
		"budget":       project.Budget,
		"createdAt":    project.CreatedAt,
	}
	if err := p.docs.Set(ctx, CollectionProjects, project.ID, doc); err != nil {
		return nil, err
	}
	return &project, nil
}

// ForFreelancer returns the projects assigned to a provider.
func (p *ProjectService) ForFreelancer(ctx context.Context, uid string) ([]*Project, error) {
	return p.query(ctx, "freelancerId", uid)
}

// ForClient returns the projects commissioned by a buyer.
func (p *ProjectService) ForClient(ctx context.Context, uid string) ([]*Project, error) {
	return p.query(ctx, "clientId", uid)
}

func (p *ProjectService) query(ctx context.Context, field, uid string) ([]*Project, error) {
	docs, err := p.docs.Query(ctx, CollectionProjects, field, uid)
	if err != nil {
		return nil, err
	}

	projects := make([]*Project, 0, len(docs))
	for _, doc := range docs {
		projects = append(projects, decodeProject(doc))
	}
	return projects, nil
}

func decodeProject(doc map[string]any) *Project {
	project := &Project{}
	project.ID, _ = doc["id"].(string)
	project.Title, _ = doc["title"].(string)
	project.Description, _ = doc["description"].(string)
	project.Status, _ = doc["status"].(string)
	project.FreelancerID, _ = doc["freelancerId"].(string)
	project.ClientID, _ = doc["clientId"].(string)
	project.CreatedAt = normalizeTimestamp(doc["createdAt"])
	switch v := doc["budget"].(type) {
	case float64:
		project.Budget = v
	case int:
		project.Budget = float64(v)
	case int64:
		project.Budget = float64(v)
	}
	return project
}
