package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService writing to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single audit event.
func (s *auditService) Record(ctx context.Context, event domain.AuditEvent) error {
	if event.InvoiceID == "" {
		return errors.New("record audit event: missing invoice id")
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		return errors.Wrapf(err, "record audit event for invoice %s", event.InvoiceID)
	}

	s.log.Debug().
		Str("invoice_id", event.InvoiceID).
		Str("action", string(event.Action)).
		Str("actor", event.Actor).
		Msg("audit event recorded")
	return nil
}
