package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type auditLister interface {
	List(ctx context.Context, page, pageSize int) ([]models.RescheduleAudit, int, error)
}

// AuditService serves the reschedule audit log screen. The scheduling core
// only appends entries; this read path exists purely for operators reviewing
// who moved what.
type AuditService struct {
	repo   auditLister
	logger *zap.Logger
}

// NewAuditService constructs an audit service.
func NewAuditService(repo auditLister, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// List returns audit entries newest first.
func (s *AuditService) List(ctx context.Context, page, pageSize int) ([]models.RescheduleAudit, int, error) {
	entries, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit entries")
	}
	return entries, total, nil
}
