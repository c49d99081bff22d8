package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/recurrence"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure EventRepository implements the interface
var _ repositories.EventRepository = (*EventRepository)(nil)

// eventDocument is the stored form of a church event. Weekdays are kept in
// their compact encoding.
type eventDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Time                 time.Time          `bson:"time"`
	Title                string             `bson:"title"`
	Excerpt              string             `bson:"excerpt"`
	AuthorName           string             `bson:"author_name"`
	EventLocation        string             `bson:"event_location"`
	ImageURL             *string            `bson:"image_url,omitempty"`
	VideoLink            *string            `bson:"video_link,omitempty"`
	CreatedBy            string             `bson:"created_by"`
	ChurchID             primitive.ObjectID `bson:"church_id"`
	IsRecurring          bool               `bson:"is_recurring"`
	RecurrenceType       *string            `bson:"recurrence_type,omitempty"`
	RecurrenceInterval   *int               `bson:"recurrence_interval,omitempty"`
	RecurrenceEndDate    *time.Time         `bson:"recurrence_end_date,omitempty"`
	RecurrenceDaysOfWeek *int               `bson:"recurrence_days_of_week,omitempty"`
	CreatedAt            time.Time          `bson:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

func (d *eventDocument) toModel(church models.ChurchRef) models.ChurchEvent {
	e := models.ChurchEvent{
		ID:                 d.ID.Hex(),
		Time:               d.Time,
		Title:              d.Title,
		Excerpt:            d.Excerpt,
		AuthorName:         d.AuthorName,
		EventLocation:      d.EventLocation,
		ImageURL:           d.ImageURL,
		VideoLink:          d.VideoLink,
		CreatedBy:          d.CreatedBy,
		ChurchID:           d.ChurchID.Hex(),
		IsRecurring:        d.IsRecurring,
		RecurrenceInterval: d.RecurrenceInterval,
		RecurrenceEndDate:  d.RecurrenceEndDate,
		Church:             church,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.RecurrenceType != nil {
		t := models.ParseRecurrenceType(*d.RecurrenceType)
		e.RecurrenceType = &t
	}
	e.RecurrenceDaysOfWeek = recurrence.DecodePtr(d.RecurrenceDaysOfWeek)
	e.Normalize()
	return e
}

// recordFields splits a record into the fields to set and the absent optional
// fields to unset.
func recordFields(rec models.EventRecord, churchID primitive.ObjectID) (set, unset bson.M) {
	set = bson.M{
		"time":           rec.Time,
		"title":          rec.Title,
		"excerpt":        rec.Excerpt,
		"author_name":    rec.AuthorName,
		"event_location": rec.EventLocation,
		"church_id":      churchID,
		"is_recurring":   rec.IsRecurring,
	}
	unset = bson.M{}
	optional := map[string]interface{}{
		"image_url":               rec.ImageURL,
		"video_link":              rec.VideoLink,
		"recurrence_interval":     rec.RecurrenceInterval,
		"recurrence_end_date":     rec.RecurrenceEndDate,
		"recurrence_days_of_week": rec.RecurrenceDaysOfWeek,
	}
	for key, v := range optional {
		switch p := v.(type) {
		case *string:
			if p != nil {
				set[key] = *p
				continue
			}
		case *int:
			if p != nil {
				set[key] = *p
				continue
			}
		case *time.Time:
			if p != nil {
				set[key] = *p
				continue
			}
		}
		unset[key] = ""
	}
	if rec.RecurrenceType != nil {
		set["recurrence_type"] = string(*rec.RecurrenceType)
	} else {
		unset["recurrence_type"] = ""
	}
	return set, unset
}

// EventRepository handles MongoDB operations for church events
type EventRepository struct {
	collection *mongo.Collection
	churches   *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection(EventsCollection),
		churches:   db.Collection(ChurchesCollection),
	}
}

// Insert stores a new event and returns its id
func (r *EventRepository) Insert(ctx context.Context, rec models.EventRecord) (string, error) {
	churchID, err := primitive.ObjectIDFromHex(rec.ChurchID)
	if err != nil {
		return "", fmt.Errorf("invalid church id %q", rec.ChurchID)
	}
	now := time.Now().UTC()
	set, _ := recordFields(rec, churchID)
	doc := bson.M{"_id": primitive.NewObjectID(), "created_by": rec.CreatedBy, "created_at": now, "updated_at": now}
	for k, v := range set {
		doc[k] = v
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", translate(err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Update overwrites the editable fields of an event. The creator and creation
// time never change.
func (r *EventRepository) Update(ctx context.Context, id string, rec models.EventRecord) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	churchID, err := primitive.ObjectIDFromHex(rec.ChurchID)
	if err != nil {
		return fmt.Errorf("invalid church id %q", rec.ChurchID)
	}
	set, unset := recordFields(rec, churchID)
	set["updated_at"] = time.Now().UTC()
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// FindByID finds an event by ID
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.ChurchEvent, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc eventDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	church, err := r.churchRef(ctx, doc.ChurchID)
	if err != nil {
		return nil, err
	}
	e := doc.toModel(church)
	return &e, nil
}

// QueryByChurch returns a church's events ordered by time ascending
func (r *EventRepository) QueryByChurch(ctx context.Context, churchID string) ([]models.ChurchEvent, error) {
	oid, err := objectID(churchID)
	if err != nil {
		return []models.ChurchEvent{}, nil
	}
	church, err := r.churchRef(ctx, oid)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"church_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	events := make([]models.ChurchEvent, 0, len(docs))
	for i := range docs {
		events = append(events, docs[i].toModel(church))
	}
	return events, nil
}

func (r *EventRepository) churchRef(ctx context.Context, id primitive.ObjectID) (models.ChurchRef, error) {
	ref := models.ChurchRef{ID: id.Hex()}
	var doc churchDocument
	err := r.churches.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"name": 1})).Decode(&doc)
	switch {
	case err == nil:
		ref.Name = doc.Name
	case err != mongo.ErrNoDocuments:
		return ref, err
	}
	return ref, nil
}
