package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/aggregate"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/archive"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/domain"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/export"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/metrics"
	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/repository"
)

// ExportService renders the patient collection for download.
type ExportService struct {
	store    *repository.PatientStore
	archiver archive.Archiver
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService creates the service. archiver may be nil to skip archiving.
func NewExportService(store *repository.PatientStore, archiver archive.Archiver, logger *zap.Logger) *ExportService {
	return &ExportService{
		store:    store,
		archiver: archiver,
		logger:   logger,
		now:      time.Now,
	}
}

// ExportRequest selects mode (detailed|summary), format (csv|xlsx), period for summary
// exports and an optional category filter. Empty values take the defaults.
type ExportRequest struct {
	Mode     string
	Format   string
	Period   string
	Category string
}

type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	ArchiveKey  string
}

func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	var errs domain.ValidationErrors
	mode, err := export.ParseMode(req.Mode)
	if err := mergeValidation(&errs, err); err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(req.Format)
	if err := mergeValidation(&errs, err); err != nil {
		return nil, err
	}
	period, err := aggregate.ParsePeriod(req.Period)
	if err := mergeValidation(&errs, err); err != nil {
		return nil, err
	}
	patients, err := filterByCategory(s.store.List(), req.Category)
	if err := mergeValidation(&errs, err); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var table export.Table
	periodName := ""
	switch mode {
	case export.ModeSummary:
		table = export.SummaryTable(patients, period)
		periodName = string(period)
	default:
		table = export.DetailedTable(patients)
	}

	body, err := render(table, format)
	if err != nil {
		return nil, err
	}

	category := ""
	if c, ok := domain.NormalizeCategory(req.Category); ok {
		category = c
	}
	res := &ExportResult{
		Filename:    export.Filename(mode, periodName, category, format, domain.DateOf(s.now())),
		ContentType: format.ContentType(),
		Body:        body,
	}
	metrics.RecordExport(string(mode), string(format))
	s.logger.Info("Export generated",
		zap.String("filename", res.Filename),
		zap.Int("patient_count", len(patients)),
		zap.Int("row_count", len(table.Rows)),
	)

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, res.Filename, res.ContentType, body)
		if err != nil {
			s.logger.Warn("Failed to archive export", zap.String("filename", res.Filename), zap.Error(err))
		} else {
			res.ArchiveKey = key
		}
	}
	return res, nil
}

func render(t export.Table, format export.Format) ([]byte, error) {
	if format == export.FormatXLSX {
		return export.WriteXLSX(t)
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, t); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
