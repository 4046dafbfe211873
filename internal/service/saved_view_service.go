package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/clinicbill/internal/model"
	"github.com/xxxsen/clinicbill/internal/notify"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
	"github.com/xxxsen/clinicbill/internal/pkg/timeutil"
	"github.com/xxxsen/clinicbill/internal/repo"
)

// SavedViewService is the durable CRUD surface for saved filter presets.
//
// Each mutation reads the whole collection, changes it and writes it back
// while holding mu, so calls within one process never interleave. Writers in
// other processes are not coordinated: the last write wins.
type SavedViewService struct {
	repo     *repo.SavedViewRepo
	ids      IDGenerator
	clock    timeutil.Clock
	notifier notify.Notifier
	validate *validator.Validate
	mu       sync.Mutex
}

type SavedViewOption func(*SavedViewService)

func WithIDGenerator(ids IDGenerator) SavedViewOption {
	return func(s *SavedViewService) {
		if ids != nil {
			s.ids = ids
		}
	}
}

func WithClock(clock timeutil.Clock) SavedViewOption {
	return func(s *SavedViewService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithNotifier(notifier notify.Notifier) SavedViewOption {
	return func(s *SavedViewService) {
		s.notifier = notifier
	}
}

func NewSavedViewService(repo *repo.SavedViewRepo, opts ...SavedViewOption) *SavedViewService {
	s := &SavedViewService{
		repo:     repo,
		ids:      NewUUIDGenerator(),
		clock:    timeutil.System,
		notifier: notify.NewLog(),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the stored views. When the slot holds garbage the result is
// empty and err wraps ErrCorrupted; callers should show the warning and keep
// going.
func (s *SavedViewService) List(ctx context.Context) ([]model.SavedView, error) {
	items, err := s.repo.List(ctx)
	if err != nil && appErr.IsCorrupted(err) {
		logutil.GetLogger(ctx).Warn("saved views unreadable, treating as empty", zap.Error(err))
		notify.Error(ctx, s.notifier, "Erro ao carregar visões salvas")
	}
	return items, err
}

type SavedViewCreateInput struct {
	Name    string
	Profile model.Profile
	Filters model.ViewFilters
}

func (s *SavedViewService) Save(ctx context.Context, input SavedViewCreateInput) (*model.SavedView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		notify.Error(ctx, s.notifier, "Digite um nome para a visão")
		return nil, fmt.Errorf("%w: view name is required", appErr.ErrInvalid)
	}
	profile := input.Profile
	if profile == "" {
		profile = model.ProfileCustom
	}
	if !profile.Valid() {
		return nil, fmt.Errorf("%w: unknown profile %q", appErr.ErrInvalid, profile)
	}
	filters := normalizeFilters(input.Filters)
	if err := s.validate.Struct(filters); err != nil {
		return nil, fmt.Errorf("%w: %v", appErr.ErrInvalid, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.List(ctx)
	if err != nil && !appErr.IsCorrupted(err) {
		return nil, err
	}
	item := model.SavedView{
		ID:        s.ids.NewID(),
		Name:      name,
		Profile:   profile,
		Filters:   filters,
		CreatedAt: timeutil.FormatISO(s.clock.Now()),
	}
	if err := s.repo.Replace(ctx, append(items, item)); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("saved view created", zap.String("view_id", item.ID), zap.String("profile", string(item.Profile)))
	notify.Success(ctx, s.notifier, fmt.Sprintf("Visão %q salva com sucesso!", item.Name))
	return &item, nil
}

// Remove deletes the view and returns it. Remaining views keep their order.
func (s *SavedViewService) Remove(ctx context.Context, id string) (*model.SavedView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, idx, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	removed := items[idx]
	rest := make([]model.SavedView, 0, len(items)-1)
	rest = append(rest, items[:idx]...)
	rest = append(rest, items[idx+1:]...)
	if err := s.repo.Replace(ctx, rest); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("saved view deleted", zap.String("view_id", removed.ID))
	notify.Success(ctx, s.notifier, fmt.Sprintf("Visão %q excluída", removed.Name))
	return &removed, nil
}

// LoadByID returns a copy of the view's filters. It never writes.
func (s *SavedViewService) LoadByID(ctx context.Context, id string) (*model.ViewFilters, error) {
	items, idx, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	filters := items[idx].Filters
	notify.Success(ctx, s.notifier, fmt.Sprintf("Visão %q carregada", items[idx].Name))
	return &filters, nil
}

func (s *SavedViewService) find(ctx context.Context, id string) ([]model.SavedView, int, error) {
	items, err := s.List(ctx)
	if err != nil && !appErr.IsCorrupted(err) {
		return nil, -1, err
	}
	for i := range items {
		if items[i].ID == id {
			return items, i, nil
		}
	}
	notify.Error(ctx, s.notifier, "Visão não encontrada")
	return nil, -1, fmt.Errorf("%w: saved view %s", appErr.ErrNotFound, id)
}

// normalizeFilters fills blank dimensions with the dashboard defaults.
func normalizeFilters(f model.ViewFilters) model.ViewFilters {
	if strings.TrimSpace(f.Period) == "" {
		f.Period = "month"
	}
	f.Unit = orAll(f.Unit)
	f.Professional = orAll(f.Professional)
	f.Payer = orAll(f.Payer)
	return f
}

func orAll(value string) string {
	if strings.TrimSpace(value) == "" {
		return model.FilterAll
	}
	return value
}
