package memory

import (
	"context"

	"github.com/viant/kernelsim/model"
	"github.com/viant/kernelsim/service/dao"
	"github.com/viant/kernelsim/service/dao/criteria"
	"github.com/viant/kernelsim/service/dao/store"
)

// Service implements an in-memory, thread-safe store for run reports.
type Service struct {
	*store.MemoryStore[string, model.Report]
}

var _ dao.Service[string, model.Report] = (*Service)(nil)

// List returns the reports matching parameters, ordered by start time.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Report, error) {
	ret, err := s.MemoryStore.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	model.SortReports(ret)
	return ret, nil
}

func New() *Service {
	return &Service{
		MemoryStore: store.NewMemoryStore[string, model.Report](
			func(r *model.Report) string { return r.ID },
			criteria.MatchReport,
		),
	}
}
