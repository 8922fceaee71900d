package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/service/dao"
	"github.com/viant/kernelsim/service/dao/criteria"
)

// Service stores run reports as JSON files under a base URL
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
	logger   logrus.FieldLogger
}

// Ensure Service implements dao.Service
var _ dao.Service[string, model.Report] = (*Service)(nil)

// Save persists a report
func (s *Service) Save(ctx context.Context, report *model.Report) error {
	if report == nil {
		return dao.ErrNilEntity
	}
	if report.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	filePath := s.reportPath(report.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save report to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a report
func (s *Service) Load(ctx context.Context, id string) (*model.Report, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.reportPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if report exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: report %s", dao.ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report data: %w", err)
	}
	return &report, nil
}

// Delete removes a report
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.reportPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if report exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: report %s", dao.ErrNotFound, id)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

// List returns the stored reports matching parameters, ordered by start time.
// Unreadable files are skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list report files: %w", err)
	}

	var reports []*model.Report
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.WithError(err).WithField("url", object.URL()).Warn("failed to read report file")
			continue
		}
		var report model.Report
		if err := json.Unmarshal(data, &report); err != nil {
			s.logger.WithError(err).WithField("url", object.URL()).Warn("failed to unmarshal report")
			continue
		}
		if !criteria.MatchReport(&report, parameters) {
			continue
		}
		reports = append(reports, &report)
	}
	model.SortReports(reports)
	return reports, nil
}

func (s *Service) reportPath(id string) string {
	return url.Join(s.basePath, id+".json")
}

// Option configures the fs report store
type Option func(s *Service)

// WithLogger sets the logger reporting unreadable files
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a filesystem report store rooted at basePath
func New(basePath string, options ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)

	ret := &Service{
		basePath: basePath,
		fs:       fs,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret, nil
}
