package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xxxsen/clinicbill/internal/export"
	"github.com/xxxsen/clinicbill/internal/model"
	"github.com/xxxsen/clinicbill/internal/notify"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
	"github.com/xxxsen/clinicbill/internal/pkg/timeutil"
	"github.com/xxxsen/clinicbill/internal/report"
)

// Formats lists every format ExportDataset accepts.
var Formats = []string{export.FormatCSV, export.FormatSpreadsheet}

type ExportService struct {
	clock    timeutil.Clock
	notifier notify.Notifier
	validate *validator.Validate
	build    func(dataset string, filters model.ViewFilters, now time.Time) model.ExportData
	cache    *expirable.LRU[string, export.File]
	group    singleflight.Group
}

// NewExportService caches rendered dataset files for ttl. A non-positive
// size or ttl disables the cache.
func NewExportService(clock timeutil.Clock, notifier notify.Notifier, size int, ttl time.Duration) *ExportService {
	if clock == nil {
		clock = timeutil.System
	}
	s := &ExportService{
		clock:    clock,
		notifier: notifier,
		validate: validator.New(),
		build:    report.Build,
	}
	if size > 0 && ttl > 0 {
		s.cache = expirable.NewLRU[string, export.File](size, nil, ttl)
	}
	return s
}

// Render builds the named dataset in the given format. Blank filters take
// the dashboard defaults and an unknown period is ErrInvalid. The returned
// Content may be shared with the cache and must not be modified.
func (s *ExportService) Render(ctx context.Context, dataset, format string, filters model.ViewFilters) (export.File, error) {
	dataset = report.Resolve(dataset)
	format = normalizeFormat(format)
	filters = normalizeFilters(filters)
	if err := s.validate.Struct(filters); err != nil {
		return export.File{}, fmt.Errorf("%w: %v", appErr.ErrInvalid, err)
	}
	now := s.clock.Now()
	key, err := renderKey(dataset, format, filters, now)
	if err != nil {
		return export.File{}, err
	}
	if cached, ok := s.cached(key); ok {
		logutil.GetLogger(ctx).Debug("export cache hit", zap.String("dataset", dataset), zap.String("format", format))
		return cached, nil
	}
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		// a fill that finished between the lookup above and DoChan
		if cached, ok := s.cached(key); ok {
			return cached, nil
		}
		file, err := export.Render(s.build(dataset, filters, now), format)
		if err != nil {
			return export.File{}, err
		}
		if s.cache != nil {
			s.cache.Add(key, file)
		}
		return file, nil
	})
	select {
	case <-ctx.Done():
		return export.File{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return export.File{}, res.Err
		}
		return res.Val.(export.File), nil
	}
}

func (s *ExportService) cached(key string) (export.File, bool) {
	if s.cache == nil {
		return export.File{}, false
	}
	return s.cache.Get(key)
}

// renderKey encodes the inputs as JSON so that no field value can spill
// into its neighbour.
func renderKey(dataset, format string, filters model.ViewFilters, now time.Time) (string, error) {
	raw, err := json.Marshal(struct {
		Dataset string            `json:"d"`
		Format  string            `json:"f"`
		Filters model.ViewFilters `json:"q"`
		Date    string            `json:"t"`
	}{dataset, format, filters, timeutil.DateStamp(now)})
	if err != nil {
		return "", fmt.Errorf("encode export cache key: %w", err)
	}
	return string(raw), nil
}

func (s *ExportService) ExportDataset(ctx context.Context, dataset, format string, filters model.ViewFilters, d export.Deliverer) (export.File, error) {
	file, err := s.Render(ctx, dataset, format, filters)
	if err != nil {
		return export.File{}, err
	}
	if err := s.deliver(ctx, d, file, format); err != nil {
		return export.File{}, err
	}
	return file, nil
}

// ExportCustom renders a caller-supplied table. Unlike the built-in datasets
// it is checked for row/header width mismatches first.
func (s *ExportService) ExportCustom(ctx context.Context, data model.ExportData, format string, d export.Deliverer) (export.File, error) {
	if err := export.Validate(data); err != nil {
		return export.File{}, err
	}
	file, err := export.Render(data, normalizeFormat(format))
	if err != nil {
		return export.File{}, err
	}
	if err := s.deliver(ctx, d, file, format); err != nil {
		return export.File{}, err
	}
	return file, nil
}

// Snapshot renders every dataset in every format and hands each file to d.
func (s *ExportService) Snapshot(ctx context.Context, d export.Deliverer) (int, error) {
	filters := model.ViewFilters{Period: "month", Unit: model.FilterAll, Professional: model.FilterAll, Payer: model.FilterAll}
	count := 0
	for _, dataset := range report.Datasets {
		for _, format := range Formats {
			file, err := s.Render(ctx, dataset, format, filters)
			if err != nil {
				return count, err
			}
			if err := d.Deliver(ctx, file); err != nil {
				return count, fmt.Errorf("snapshot %s: %w", file.Name, err)
			}
			count++
		}
	}
	return count, nil
}

func (s *ExportService) deliver(ctx context.Context, d export.Deliverer, file export.File, format string) error {
	if err := d.Deliver(ctx, file); err != nil {
		logutil.GetLogger(ctx).Error("export delivery failed", zap.String("file", file.Name), zap.Error(err))
		notify.Error(ctx, s.notifier, "Erro ao exportar dados")
		return err
	}
	logutil.GetLogger(ctx).Info("export delivered", zap.String("file", file.Name), zap.Int("bytes", len(file.Content)))
	label := "CSV"
	if normalizeFormat(format) == export.FormatSpreadsheet {
		label = "Excel"
	}
	notify.Success(ctx, s.notifier, fmt.Sprintf("Dados exportados para %s com sucesso!", label))
	return nil
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", export.FormatCSV:
		return export.FormatCSV
	case "excel":
		return export.FormatSpreadsheet
	default:
		return format
	}
}
