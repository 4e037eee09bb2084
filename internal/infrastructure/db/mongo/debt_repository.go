package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// DebtRepository implements ports.DebtRepository using MongoDB.
type DebtRepository struct {
	coll *mongo.Collection
}

func NewDebtRepository(db *mongo.Database) *DebtRepository {
	return &DebtRepository{coll: db.Collection(collectionDebts)}
}

type mongoDebt struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  primitive.ObjectID `bson:"userId"`
	Name    string             `bson:"name"`
	Value   float64            `bson:"value"`
	DueDate time.Time          `bson:"dueDate"`
	Status  string             `bson:"status"`
}

func (md mongoDebt) toDomain() *domain.Debt {
	return &domain.Debt{
		ID:      md.ID.Hex(),
		OwnerID: md.UserID.Hex(),
		Name:    md.Name,
		Value:   md.Value,
		DueDate: md.DueDate.UTC(),
		Status:  domain.DebtStatus(md.Status),
	}
}

func toMongoDebt(d *domain.Debt) (mongoDebt, error) {
	owner, err := primitive.ObjectIDFromHex(d.OwnerID)
	if err != nil {
		return mongoDebt{}, domain.ErrOwnerNotFound
	}
	return mongoDebt{
		UserID:  owner,
		Name:    d.Name,
		Value:   d.Value,
		DueDate: d.DueDate.UTC(),
		Status:  string(d.Status),
	}, nil
}

func (r *DebtRepository) Create(ctx context.Context, debt *domain.Debt) (*domain.Debt, error) {
	doc, err := toMongoDebt(debt)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert debt: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *DebtRepository) FindByID(ctx context.Context, id string) (*domain.Debt, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDebtNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDebt
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDebtNotFound
		}
		return nil, fmt.Errorf("find debt: %w", err)
	}
	return md.toDomain(), nil
}

func (r *DebtRepository) List(ctx context.Context) ([]*domain.Debt, error) {
	return r.find(ctx, bson.M{})
}

func (r *DebtRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Debt, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []*domain.Debt{}, nil
	}
	return r.find(ctx, bson.M{"userId": oid})
}

func (r *DebtRepository) find(ctx context.Context, filter bson.M) ([]*domain.Debt, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoDebt
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode debts: %w", err)
	}

	debts := make([]*domain.Debt, 0, len(docs))
	for _, d := range docs {
		debts = append(debts, d.toDomain())
	}
	return debts, nil
}

func (r *DebtRepository) Update(ctx context.Context, debt *domain.Debt) (*domain.Debt, error) {
	doc, err := toMongoDebt(debt)
	if err != nil {
		return nil, err
	}
	return r.findOneAndSet(ctx, debt.ID, bson.M{
		"userId":  doc.UserID,
		"name":    doc.Name,
		"value":   doc.Value,
		"dueDate": doc.DueDate,
		"status":  doc.Status,
	})
}

func (r *DebtRepository) UpdateStatus(ctx context.Context, id string, status domain.DebtStatus) (*domain.Debt, error) {
	return r.findOneAndSet(ctx, id, bson.M{"status": string(status)})
}

func (r *DebtRepository) findOneAndSet(ctx context.Context, id string, set bson.M) (*domain.Debt, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDebtNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var md mongoDebt
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDebtNotFound
		}
		return nil, fmt.Errorf("update debt: %w", err)
	}
	return md.toDomain(), nil
}

func (r *DebtRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	return nil
}

func (r *DebtRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"userId": oid})
	if err != nil {
		return 0, fmt.Errorf("delete debts by owner: %w", err)
	}
	return res.DeletedCount, nil
}
