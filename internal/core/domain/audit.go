package domain

import "time"

// AuditAction names the mutation an audit event records.
type AuditAction string

const (
	AuditInvoiceCreated AuditAction = "invoice_created"
	AuditInvoiceUpdated AuditAction = "invoice_updated"
	AuditInvoiceDeleted AuditAction = "invoice_deleted"
)

// AuditEvent records a successful invoice mutation.
type AuditEvent struct {
	InvoiceID string
	Action    AuditAction
	Actor     string        // email of the signed-in user; empty when anonymous
	Amount    int64         // cents; zero for deletions
	Status    InvoiceStatus // empty for deletions
	At        time.Time
}
