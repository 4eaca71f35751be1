package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adoptly/service-adoption/internal/domain"
	petDomain "github.com/adoptly/service-adoption/internal/domain/pet"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const petsCollection = "pets"

// PosterDocument is the embedded snapshot of the listing user.
type PosterDocument struct {
	UserID    string `bson:"userId,omitempty"`
	UserEmail string `bson:"userEmail,omitempty"`
	UserName  string `bson:"userName,omitempty"`
}

// PetDocument is the stored shape of a pet listing.
type PetDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Name         string             `bson:"name"`
	Category     string             `bson:"category,omitempty"`
	Breed        string             `bson:"breed,omitempty"`
	Age          string             `bson:"age,omitempty"`
	Gender       string             `bson:"gender,omitempty"`
	Description  string             `bson:"description,omitempty"`
	Image        string             `bson:"image,omitempty"`
	Quantity     int                `bson:"quantity"`
	AdoptedCount int                `bson:"adoptedCount"`
	IsAdopted    bool               `bson:"isAdopted"`
	Address      domain.Address     `bson:"address"`
	PostedBy     PosterDocument     `bson:"postedBy"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// MongoPetRepository implements PetRepository on a MongoDB collection.
type MongoPetRepository struct {
	coll *mongo.Collection
}

// NewMongoPetRepository creates a new MongoPetRepository.
func NewMongoPetRepository(db *mongo.Database) *MongoPetRepository {
	return &MongoPetRepository{coll: db.Collection(petsCollection)}
}

// EnsureIndexes creates the indexes used by List.
func (r *MongoPetRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isAdopted", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create pet indexes: %w", err)
	}
	return nil
}

func (r *MongoPetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*petDomain.Pet, error) {
	var doc PetDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NewNotFoundError("Pet", id.Hex())
		}
		return nil, fmt.Errorf("failed to find pet by ID: %w", err)
	}
	return toPetDomain(&doc), nil
}

func (r *MongoPetRepository) List(ctx context.Context, filter petDomain.ListFilter) ([]*petDomain.Pet, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.IsAdopted != nil {
		query["isAdopted"] = *filter.IsAdopted
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	var docs []PetDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode pets: %w", err)
	}

	pets := make([]*petDomain.Pet, len(docs))
	for i := range docs {
		pets[i] = toPetDomain(&docs[i])
	}
	return pets, nil
}

func (r *MongoPetRepository) Save(ctx context.Context, p *petDomain.Pet) error {
	if _, err := r.coll.InsertOne(ctx, toPetDocument(p)); err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	return nil
}

func (r *MongoPetRepository) Update(ctx context.Context, p *petDomain.Pet) error {
	doc := toPetDocument(p)
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{
			"name":        doc.Name,
			"category":    doc.Category,
			"breed":       doc.Breed,
			"age":         doc.Age,
			"gender":      doc.Gender,
			"description": doc.Description,
			"image":       doc.Image,
			"quantity":    doc.Quantity,
			"address":     doc.Address,
			"updatedAt":   doc.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.NewNotFoundError("Pet", doc.ID.Hex())
	}
	return nil
}

func (r *MongoPetRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.NewNotFoundError("Pet", id.Hex())
	}
	return nil
}

// DecrementStock matches the pet only while quantity >= n and rewrites the
// three counters with an update pipeline, so the check and the write are one
// server-side operation.
func (r *MongoPetRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, n int) (*petDomain.Pet, error) {
	filter := bson.M{
		"_id":      id,
		"quantity": bson.M{"$gte": n},
	}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "quantity", Value: bson.D{{Key: "$max", Value: bson.A{
				bson.D{{Key: "$subtract", Value: bson.A{"$quantity", n}}},
				0,
			}}}},
			{Key: "adoptedCount", Value: bson.D{{Key: "$add", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$adoptedCount", 0}}},
				n,
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "isAdopted", Value: bson.D{{Key: "$eq", Value: bson.A{"$quantity", 0}}}},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc PetDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, petDomain.ErrStockUnavailable
		}
		return nil, fmt.Errorf("failed to decrement pet stock: %w", err)
	}
	return toPetDomain(&doc), nil
}

// --- Conversions ---

func toPetDocument(p *petDomain.Pet) *PetDocument {
	profile := p.Profile()
	poster := p.PostedBy()
	return &PetDocument{
		ID:           p.ID(),
		Name:         profile.Name,
		Category:     profile.Category,
		Breed:        profile.Breed,
		Age:          profile.Age,
		Gender:       profile.Gender,
		Description:  profile.Description,
		Image:        profile.Image,
		Quantity:     p.Quantity(),
		AdoptedCount: p.AdoptedCount(),
		IsAdopted:    p.IsAdopted(),
		Address:      p.Address(),
		PostedBy: PosterDocument{
			UserID:    poster.UserID,
			UserEmail: poster.UserEmail,
			UserName:  poster.UserName,
		},
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

func toPetDomain(d *PetDocument) *petDomain.Pet {
	return petDomain.Reconstruct(
		d.ID,
		petDomain.Profile{
			Name:        d.Name,
			Category:    d.Category,
			Breed:       d.Breed,
			Age:         d.Age,
			Gender:      d.Gender,
			Description: d.Description,
			Image:       d.Image,
		},
		d.Quantity, d.AdoptedCount,
		d.IsAdopted,
		d.Address,
		petDomain.Poster{
			UserID:    d.PostedBy.UserID,
			UserEmail: d.PostedBy.UserEmail,
			UserName:  d.PostedBy.UserName,
		},
		d.CreatedAt, d.UpdatedAt,
	)
}
