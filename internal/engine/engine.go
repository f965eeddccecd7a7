package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"planline/internal/domain"
	"planline/internal/rules"
)

const defaultActor = "local-user"

// Saver persists a project after every committed mutation.
type Saver interface {
	SaveProject(ctx context.Context, p domain.Project) error
}

// Session is the explicit handle on the active project passed to every mutation.
type Session struct {
	Project domain.Project
	Actor   string
	Saver   Saver
}

// NewSession sorts the phases by order so positional edits follow the visible sequence.
func NewSession(p domain.Project, actor string, saver Saver) *Session {
	p.Data.Normalize()
	p.Data.Phases = rules.OrderPhases(p.Data.Phases)
	return &Session{Project: p, Actor: actor, Saver: saver}
}

func (s *Session) actor() string {
	if s.Actor == "" {
		return defaultActor
	}
	return s.Actor
}

// Data returns the current snapshot. Callers must not modify the returned slices.
func (s *Session) Data() domain.ProjectData { return s.Project.Data }

type Engine struct {
	Now       func() time.Time
	NewID     func() string
	Logger    *slog.Logger
	WBSPolicy rules.WBSDeletePolicy
}

func New(logger *slog.Logger) Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return Engine{
		Now:       time.Now,
		NewID:     uuid.NewString,
		Logger:    logger,
		WBSPolicy: rules.WBSReparent,
	}
}

func (e Engine) now() string {
	if e.Now != nil {
		return e.Now().UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func (e Engine) id() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e Engine) log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

var (
	errNoSession = errors.New("no active project session")
	// errUnchanged aborts a commit without error; used by idempotent deletes.
	errUnchanged = errors.New("unchanged")
)

// commit runs fn against a working copy of the session data and swaps it in only
// when fn succeeds. fn must build new slices instead of writing into existing ones,
// so a rejected mutation leaves the previous snapshot untouched.
func (e Engine) commit(ctx context.Context, s *Session, op string, fn func(d *domain.ProjectData) error) error {
	if s == nil {
		return errNoSession
	}
	d := s.Project.Data
	if err := fn(&d); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		e.log().Debug("mutation rejected", "op", op, "project", s.Project.ID, "error", err)
		return err
	}
	d.Normalize()
	s.Project.Data = d
	s.Project.UpdatedAt = e.now()
	e.persist(ctx, s, op)
	return nil
}

// persist is fire-and-forget: a failed save is logged and the mutation stands.
func (e Engine) persist(ctx context.Context, s *Session, op string) {
	if s.Saver == nil {
		return
	}
	if err := s.Saver.SaveProject(ctx, s.Project); err != nil {
		e.log().Warn("save project failed", "op", op, "project", s.Project.ID, "error", err)
	}
}

// Copy-on-write helpers. None of them writes into its input.

func appended[T any](s []T, v ...T) []T {
	return append(slices.Clip(s), v...)
}

func replaced[T any](s []T, i int, v T) []T {
	out := slices.Clone(s)
	out[i] = v
	return out
}

func insertedAt[T any](s []T, i int, v T) []T {
	return slices.Insert(slices.Clone(s), i, v)
}

func without[T any](s []T, drop func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

func withoutID(s []string, id string) []string {
	out := without(s, func(v string) bool { return v == id })
	if len(out) == 0 {
		return nil
	}
	return out
}

// uniqueStrings trims, drops blanks and duplicates, and returns nil when empty.
func uniqueStrings(in []string) []string {
	var out []string
	for _, v := range in {
		if v = trim(v); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func find[T any](items []T, id string, key func(T) string) (int, T, bool) {
	i := domain.IndexOf(items, id, key)
	if i < 0 {
		var zero T
		return -1, zero, false
	}
	return i, items[i], true
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = trim(*v)
	}
}

func setList(dst *[]string, v *[]string) {
	if v != nil {
		*dst = uniqueStrings(*v)
	}
}
