// Package projects keeps the set of stored projects, the current-project pointer
// and the project lifecycle (create, switch, duplicate, delete, import, export).
package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"planline/internal/domain"
	"planline/internal/events"
	"planline/internal/repo"
	"planline/internal/rules"
	"planline/internal/templates"
)

const (
	keyIndex      = "index/projects"
	keyCurrent    = "meta/current"
	projectPrefix = "project/"

	kindProject domain.EntityKind = "project"
)

// ErrNoCurrent is returned when no project has been selected.
var ErrNoCurrent = errors.New("no current project; create one or switch with pl project switch <id>")

func projectKey(id string) string { return projectPrefix + id }

type Manager struct {
	Repo   repo.Repo
	Events events.Writer
	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
	Actor  string
}

func New(r repo.Repo, logger *slog.Logger) Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return Manager{
		Repo:   r,
		Events: events.Writer{Now: r.Now},
		Logger: logger,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

func (m Manager) now() string {
	if m.Now != nil {
		return m.Now().UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func (m Manager) id() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}

func (m Manager) actor() string {
	if m.Actor == "" {
		return "local-user"
	}
	return m.Actor
}

func (m Manager) log() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.Default()
}

func (m Manager) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.Repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (m Manager) readIndex(ctx context.Context, tx *sql.Tx) ([]domain.ProjectSummary, error) {
	raw, err := m.Repo.GetTx(ctx, tx, keyIndex)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var idx []domain.ProjectSummary
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("decode project index: %w", err)
	}
	return idx, nil
}

func (m Manager) writeIndex(ctx context.Context, tx *sql.Tx, idx []domain.ProjectSummary) error {
	if idx == nil {
		idx = []domain.ProjectSummary{}
	}
	raw, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	return m.Repo.PutTx(ctx, tx, keyIndex, raw)
}

// store writes the project document and its index row.
func (m Manager) store(ctx context.Context, tx *sql.Tx, p domain.Project) error {
	raw, err := encode(p)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	if err := m.Repo.PutTx(ctx, tx, projectKey(p.ID), raw); err != nil {
		return err
	}
	idx, err := m.readIndex(ctx, tx)
	if err != nil {
		return err
	}
	if i := slices.IndexFunc(idx, func(s domain.ProjectSummary) bool { return s.ID == p.ID }); i >= 0 {
		idx[i] = p.Summary()
	} else {
		idx = append(idx, p.Summary())
	}
	return m.writeIndex(ctx, tx, idx)
}

type CreateOptions struct {
	Name        string
	Description string
	Mode        domain.ProjectMode
	// Seed fills the phases of the mode's template.
	Seed bool
}

// CreateProject stores a new project and makes it current.
func (m Manager) CreateProject(ctx context.Context, opts CreateOptions) (domain.Project, error) {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return domain.Project{}, domain.Invalid(kindProject, "name", "is required")
	}
	mode := opts.Mode
	if mode == "" {
		mode = domain.ModeWaterfall
	}
	if !mode.Valid() {
		return domain.Project{}, domain.Invalid(kindProject, "mode", fmt.Sprintf("unknown mode %q", mode))
	}
	now := m.now()
	p := domain.Project{
		ID:          m.id(),
		Name:        name,
		Description: opts.Description,
		Mode:        mode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if opts.Seed {
		data, err := templates.Generate(mode, m.id)
		if err != nil {
			return domain.Project{}, err
		}
		p.Data = data
	}
	p.Data.Normalize()
	err := m.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.store(ctx, tx, p); err != nil {
			return err
		}
		if err := m.Repo.PutTx(ctx, tx, keyCurrent, []byte(p.ID)); err != nil {
			return err
		}
		return m.Events.Append(ctx, tx, events.ProjectCreated, p.ID, p.ID, m.actor(), events.Payload{"name": p.Name, "mode": p.Mode, "seeded": opts.Seed})
	})
	if err != nil {
		return domain.Project{}, err
	}
	m.log().Info("project created", "project", p.ID, "mode", p.Mode)
	return p, nil
}

func (m Manager) GetProject(ctx context.Context, id string) (domain.Project, error) {
	raw, err := m.Repo.Get(ctx, projectKey(id))
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Project{}, domain.Missing(kindProject, id)
	}
	if err != nil {
		return domain.Project{}, err
	}
	p, err := decode(raw)
	if err != nil {
		return domain.Project{}, fmt.Errorf("decode project %s: %w", id, err)
	}
	return p, nil
}

// ListProjects returns the index in creation order.
func (m Manager) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	raw, err := m.Repo.Get(ctx, keyIndex)
	if errors.Is(err, repo.ErrNotFound) {
		return []domain.ProjectSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	var idx []domain.ProjectSummary
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("decode project index: %w", err)
	}
	return idx, nil
}

// CurrentID returns the id of the current project, or ErrNoCurrent.
func (m Manager) CurrentID(ctx context.Context) (string, error) {
	raw, err := m.Repo.Get(ctx, keyCurrent)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && len(raw) == 0) {
		return "", ErrNoCurrent
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (m Manager) CurrentProject(ctx context.Context) (domain.Project, error) {
	id, err := m.CurrentID(ctx)
	if err != nil {
		return domain.Project{}, err
	}
	return m.GetProject(ctx, id)
}

// SwitchProject moves the current pointer and returns the project to load.
func (m Manager) SwitchProject(ctx context.Context, id string) (domain.Project, error) {
	p, err := m.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.Repo.PutTx(ctx, tx, keyCurrent, []byte(id)); err != nil {
			return err
		}
		return m.Events.Append(ctx, tx, events.ProjectSwitched, id, id, m.actor(), nil)
	})
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// DuplicateProject deep-copies a project under a fresh project id. Entity ids
// inside the copy are kept.
func (m Manager) DuplicateProject(ctx context.Context, id, newName string) (domain.Project, error) {
	src, err := m.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	name := strings.TrimSpace(newName)
	if name == "" {
		name = src.Name + " (copy)"
	}
	now := m.now()
	dup := domain.Project{
		ID:          m.id(),
		Name:        name,
		Description: src.Description,
		Mode:        src.Mode,
		CreatedAt:   now,
		UpdatedAt:   now,
		Data:        src.Data.Clone(),
	}
	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.store(ctx, tx, dup); err != nil {
			return err
		}
		return m.Events.Append(ctx, tx, events.ProjectDuplicated, dup.ID, dup.ID, m.actor(), events.Payload{"source": src.ID})
	})
	if err != nil {
		return domain.Project{}, err
	}
	return dup, nil
}

func (m Manager) RenameProject(ctx context.Context, id, name string) (domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Project{}, domain.Invalid(kindProject, "name", "is required")
	}
	p, err := m.GetProject(ctx, id)
	if err != nil {
		return domain.Project{}, err
	}
	old := p.Name
	p.Name = name
	p.UpdatedAt = m.now()
	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.store(ctx, tx, p); err != nil {
			return err
		}
		return m.Events.Append(ctx, tx, events.ProjectRenamed, p.ID, p.ID, m.actor(), events.Payload{"from": old, "to": name})
	})
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// DeleteProject removes a project and clears the current pointer when it named
// that project. Deleting an unknown id is a no-op.
func (m Manager) DeleteProject(ctx context.Context, id string) error {
	var removed bool
	err := m.inTx(ctx, func(tx *sql.Tx) error {
		idx, err := m.readIndex(ctx, tx)
		if err != nil {
			return err
		}
		_, getErr := m.Repo.GetTx(ctx, tx, projectKey(id))
		if getErr != nil && !errors.Is(getErr, repo.ErrNotFound) {
			return getErr
		}
		kept := slices.DeleteFunc(slices.Clone(idx), func(s domain.ProjectSummary) bool { return s.ID == id })
		if getErr != nil && len(kept) == len(idx) {
			return nil
		}
		removed = true
		if err := m.Repo.DeleteTx(ctx, tx, projectKey(id)); err != nil {
			return err
		}
		if err := m.writeIndex(ctx, tx, kept); err != nil {
			return err
		}
		cur, err := m.Repo.GetTx(ctx, tx, keyCurrent)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return err
		}
		if string(cur) == id {
			if err := m.Repo.DeleteTx(ctx, tx, keyCurrent); err != nil {
				return err
			}
		}
		return m.Events.Append(ctx, tx, events.ProjectDeleted, id, id, m.actor(), nil)
	})
	if err == nil && removed {
		m.log().Info("project deleted", "project", id)
	}
	return err
}

// SaveProject persists the working snapshot of a session. It refuses to
// resurrect a project that has been deleted.
func (m Manager) SaveProject(ctx context.Context, p domain.Project) error {
	return m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := m.Repo.GetTx(ctx, tx, projectKey(p.ID)); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return domain.Missing(kindProject, p.ID)
			}
			return err
		}
		return m.store(ctx, tx, p)
	})
}

// ExportProject renders the project as a self-describing JSON document.
func (m Manager) ExportProject(ctx context.Context, id string) ([]byte, error) {
	p, err := m.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return encodeIndent(p)
}

// ImportProject validates and upgrades an exported document and stores it under a
// fresh id in a single transaction. Integrity problems found in the data are
// logged, not repaired.
func (m Manager) ImportProject(ctx context.Context, raw []byte) (domain.Project, error) {
	p, err := parseImport(raw)
	if err != nil {
		return domain.Project{}, err
	}
	sourceID := p.ID
	p.ID = m.id()
	if p.CreatedAt == "" {
		p.CreatedAt = m.now()
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = p.CreatedAt
	}
	for _, issue := range rules.Audit(p.Data) {
		m.log().Warn("imported project has integrity issue", "project", p.ID, "issue", issue.String())
	}
	err = m.inTx(ctx, func(tx *sql.Tx) error {
		if err := m.store(ctx, tx, p); err != nil {
			return err
		}
		return m.Events.Append(ctx, tx, events.ProjectImported, p.ID, p.ID, m.actor(), events.Payload{"source": sourceID, "name": p.Name})
	})
	if err != nil {
		return domain.Project{}, domain.ImportError{Reason: "store failed", Err: err}
	}
	return p, nil
}
