package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	requestDomain "github.com/adoptly/service-adoption/internal/domain/request"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const requestsCollection = "requests"

// RequestDocument is the stored shape of an adoption request.
type RequestDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	UserID      string             `bson:"userId"`
	UserEmail   string             `bson:"userEmail"`
	UserName    string             `bson:"userName,omitempty"`
	PetID       primitive.ObjectID `bson:"petId"`
	PhoneNumber string             `bson:"phoneNumber,omitempty"`
	Address     domain.Address     `bson:"address"`
	Quantity    int                `bson:"quantity"`
	Status      string             `bson:"status"`
	RequestDate time.Time          `bson:"requestDate"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// MongoRequestRepository is the MongoDB implementation of RequestRepository.
type MongoRequestRepository struct {
	coll *mongo.Collection
}

// NewMongoRequestRepository creates a new MongoRequestRepository.
func NewMongoRequestRepository(db *mongo.Database) *MongoRequestRepository {
	return &MongoRequestRepository{coll: db.Collection(requestsCollection)}
}

// EnsureIndexes creates the indexes used by List and ListByUser.
func (r *MongoRequestRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "requestDate", Value: -1}}},
		{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: "requestDate", Value: -1}}},
		{Keys: bson.D{{Key: "petId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create request indexes: %w", err)
	}
	return nil
}

// FindByID retrieves a request by its identifier.
func (r *MongoRequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*requestDomain.AdoptionRequest, error) {
	var doc RequestDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("Request", id.Hex())
		}
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	return toRequestDomain(&doc), nil
}

// List retrieves requests newest first, optionally for a single user email.
func (r *MongoRequestRepository) List(ctx context.Context, filter requestDomain.ListFilter) ([]*requestDomain.AdoptionRequest, error) {
	query := bson.M{}
	if filter.UserEmail != "" {
		query["userEmail"] = filter.UserEmail
	}

	opts := options.Find().SetSort(bson.D{{Key: "requestDate", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	var docs []RequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %w", err)
	}

	reqs := make([]*requestDomain.AdoptionRequest, len(docs))
	for i := range docs {
		reqs[i] = toRequestDomain(&docs[i])
	}
	return reqs, nil
}

// CountByStatus returns request counts grouped by status.
func (r *MongoRequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	var results []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new request.
func (r *MongoRequestRepository) Save(ctx context.Context, req *requestDomain.AdoptionRequest) error {
	if _, err := r.coll.InsertOne(ctx, toRequestDocument(req)); err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	return nil
}

// Update persists the mutable fields of a request.
func (r *MongoRequestRepository) Update(ctx context.Context, req *requestDomain.AdoptionRequest) error {
	doc := toRequestDocument(req)
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{
			"status":      doc.Status,
			"phoneNumber": doc.PhoneNumber,
			"address":     doc.Address,
			"userName":    doc.UserName,
			"updatedAt":   doc.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewNotFoundError("Request", doc.ID.Hex())
	}
	return nil
}

// Delete removes a request.
func (r *MongoRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewNotFoundError("Request", id.Hex())
	}
	return nil
}

// --- Conversion Helpers ---

func toRequestDocument(req *requestDomain.AdoptionRequest) *RequestDocument {
	return &RequestDocument{
		ID:          req.ID(),
		UserID:      req.UserID(),
		UserEmail:   req.UserEmail(),
		UserName:    req.UserName(),
		PetID:       req.PetID(),
		PhoneNumber: req.PhoneNumber(),
		Address:     req.Address(),
		Quantity:    req.Quantity(),
		Status:      req.Status().String(),
		RequestDate: req.RequestDate(),
		UpdatedAt:   req.UpdatedAt(),
	}
}

func toRequestDomain(d *RequestDocument) *requestDomain.AdoptionRequest {
	return requestDomain.Reconstruct(
		d.ID,
		d.UserID,
		d.UserEmail,
		d.UserName,
		d.PetID,
		d.PhoneNumber,
		d.Address,
		d.Quantity,
		requestDomain.Status(d.Status),
		d.RequestDate,
		d.UpdatedAt,
	)
}
