package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.MembershipRepository = (*MembershipRepository)(nil)

// MembershipRepository handles MongoDB operations for user/church roles
type MembershipRepository struct {
	collection *mongo.Collection
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *mongo.Database) *MembershipRepository {
	return &MembershipRepository{
		collection: db.Collection(MembershipsCollection),
	}
}

// ListChurchesForUser returns the user's memberships joined with church names,
// sorted by church name. Roles are normalized on load.
func (r *MembershipRepository) ListChurchesForUser(ctx context.Context, userID string) ([]models.UserChurchMembership, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ChurchesCollection},
			{Key: "localField", Value: "church_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "church"},
		}}},
		{{Key: "$unwind", Value: "$church"}},
		{{Key: "$sort", Value: bson.D{{Key: "church.name", Value: 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ChurchID primitive.ObjectID `bson:"church_id"`
		Role     string             `bson:"role"`
		Church   struct {
			Name string `bson:"name"`
		} `bson:"church"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	memberships := make([]models.UserChurchMembership, 0, len(rows))
	for _, row := range rows {
		memberships = append(memberships, models.UserChurchMembership{
			ChurchID:   row.ChurchID.Hex(),
			ChurchName: row.Church.Name,
			Role:       models.ParseRole(row.Role),
		})
	}
	return memberships, nil
}

// SetRole creates or updates a user's role in a church
func (r *MembershipRepository) SetRole(ctx context.Context, churchID, userID string, role models.Role) error {
	oid, err := objectID(churchID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	filter := bson.M{"church_id": oid, "user_id": userID}
	update := bson.M{
		"$set":         bson.M{"role": role.String(), "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err = r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return translate(err)
}
