package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.ChurchRepository = (*ChurchRepository)(nil)

type churchDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	NameKey   string             `bson:"name_key"`
	CreatedBy string             `bson:"created_by"`
	CreatedAt time.Time          `bson:"created_at"`
}

// ChurchRepository handles MongoDB operations for churches
type ChurchRepository struct {
	collection *mongo.Collection
}

// NewChurchRepository creates a new ChurchRepository
func NewChurchRepository(db *mongo.Database) *ChurchRepository {
	return &ChurchRepository{
		collection: db.Collection(ChurchesCollection),
	}
}

// Create inserts a new church. Names are unique case-insensitively.
func (r *ChurchRepository) Create(ctx context.Context, church *models.Church) error {
	doc := churchDocument{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(church.Name),
		NameKey:   nameKey(church.Name),
		CreatedBy: church.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	church.ID = doc.ID.Hex()
	church.Name = doc.Name
	church.CreatedAt = doc.CreatedAt
	return nil
}

// FindByID finds a church by ID
func (r *ChurchRepository) FindByID(ctx context.Context, id string) (*models.Church, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByName finds a church by name, ignoring case
func (r *ChurchRepository) FindByName(ctx context.Context, name string) (*models.Church, error) {
	return r.findOne(ctx, bson.M{"name_key": nameKey(name)})
}

func (r *ChurchRepository) findOne(ctx context.Context, filter bson.M) (*models.Church, error) {
	var doc churchDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &models.Church{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		CreatedBy: doc.CreatedBy,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
