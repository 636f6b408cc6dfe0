package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const auditCollection = "invoice_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the lookup index on invoice id and time. It is safe
// to call on every start.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "invoice_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("invoice_id_at"),
	})
	if err != nil {
		return errors.Wrap(err, "create audit index")
	}
	return nil
}

// Insert appends an event to the invoice_audit collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := bson.M{
		"invoice_id":  event.InvoiceID,
		"action":      string(event.Action),
		"actor":       event.Actor,
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Action != domain.AuditInvoiceDeleted {
		doc["amount"] = event.Amount
		doc["status"] = string(event.Status)
	}

	_, err := r.db.Collection(auditCollection).InsertOne(ctx, doc)
	return err
}
