package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"levi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB, one collection per entity.
type MongoStore struct {
	users      *mongo.Collection
	categories *mongo.Collection
	services   *mongo.Collection
	bookings   *mongo.Collection
	changes    *mongo.Collection
	counters   *mongo.Collection
}

// statusChangeDoc is the stored form of a booking change log entry.
type statusChangeDoc struct {
	ID        string               `bson:"id"`
	BookingID string               `bson:"booking_id"`
	From      models.BookingStatus `bson:"from"`
	To        models.BookingStatus `bson:"to"`
	ActorID   string               `bson:"actor_id"`
	Role      models.Role          `bson:"role"`
	Reason    string               `bson:"reason"`
	Override  bool                 `bson:"override"`
	At        time.Time            `bson:"at"`
}

// NewMongoStore opens the collections of db and makes sure their indexes exist.
func NewMongoStore(db *mongo.Database) (*MongoStore, error) {
	s := &MongoStore{
		users:      db.Collection("users"),
		categories: db.Collection("categories"),
		services:   db.Collection("services"),
		bookings:   db.Collection("bookings"),
		changes:    db.Collection("booking_status_changes"),
		counters:   db.Collection("counters"),
	}
	if err := s.ensureIndexes(); err != nil {
		return nil, err
	}
	return s, nil
}

// newContext bounds a single database call.
func newContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (s *MongoStore) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	unique := func(keys ...string) mongo.IndexModel {
		d := bson.D{}
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongo.IndexModel{Keys: d, Options: options.Index().SetUnique(true)}
	}

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.users:      {unique("id"), unique("email"), unique("username")},
		s.categories: {unique("id")},
		s.services:   {unique("id"), {Keys: bson.D{{Key: "provider_id", Value: 1}}}},
		s.bookings: {
			unique("id"),
			{Keys: bson.D{{Key: "client_id", Value: 1}}},
			{Keys: bson.D{{Key: "provider_id", Value: 1}}},
		},
		s.changes: {{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "at", Value: 1}}}},
	}
	for coll, ims := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, ims); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *MongoStore) NextID(ctx context.Context, seq string) (string, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Value int `bson:"value"`
	}
	err := s.counters.FindOneAndUpdate(ctx, bson.M{"_id": seq}, bson.M{"$inc": bson.M{"value": 1}}, opts).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s id: %w", seq, err)
	}
	return strconv.Itoa(counter.Value), nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *UserDoc) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()
	_, err := s.users.InsertOne(ctx, u)
	return mapErr(err)
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*UserDoc, error) {
	return findOne[UserDoc](ctx, s.users, bson.M{"id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*UserDoc, error) {
	return findOne[UserDoc](ctx, s.users, bson.M{"email": email})
}

func (s *MongoStore) UpdateUser(ctx context.Context, u *UserDoc) error {
	return replace(ctx, s.users, u.ID, u, false)
}

func (s *MongoStore) SaveCategory(ctx context.Context, c *CategoryDoc) error {
	return replace(ctx, s.categories, c.ID, c, true)
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]CategoryDoc, error) {
	return findAll[CategoryDoc](ctx, s.categories, bson.M{}, bson.D{{Key: "id", Value: 1}})
}

func (s *MongoStore) SaveService(ctx context.Context, svc *ServiceDoc) error {
	return replace(ctx, s.services, svc.ID, svc, true)
}

func (s *MongoStore) GetService(ctx context.Context, id string) (*ServiceDoc, error) {
	return findOne[ServiceDoc](ctx, s.services, bson.M{"id": id})
}

func (s *MongoStore) ListServices(ctx context.Context) ([]ServiceDoc, error) {
	return findAll[ServiceDoc](ctx, s.services, bson.M{}, bson.D{{Key: "id", Value: 1}})
}

func (s *MongoStore) CreateBooking(ctx context.Context, b *BookingDoc) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()
	_, err := s.bookings.InsertOne(ctx, b)
	return mapErr(err)
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (*BookingDoc, error) {
	return findOne[BookingDoc](ctx, s.bookings, bson.M{"id": id})
}

func (s *MongoStore) ListBookings(ctx context.Context, q BookingQuery) ([]BookingDoc, error) {
	filter := bson.M{}
	if q.ActorID != "" {
		filter["$or"] = bson.A{bson.M{"client_id": q.ActorID}, bson.M{"provider_id": q.ActorID}}
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	return findAll[BookingDoc](ctx, s.bookings, filter, bson.D{{Key: "start_time", Value: -1}, {Key: "id", Value: 1}})
}

func (s *MongoStore) UpdateBooking(ctx context.Context, b *BookingDoc) error {
	return replace(ctx, s.bookings, b.ID, b, false)
}

func (s *MongoStore) AppendStatusChange(ctx context.Context, c models.StatusChange) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()
	_, err := s.changes.InsertOne(ctx, statusChangeDoc(c))
	return mapErr(err)
}

func (s *MongoStore) StatusChanges(ctx context.Context, bookingID string) ([]models.StatusChange, error) {
	docs, err := findAll[statusChangeDoc](ctx, s.changes, bson.M{"booking_id": bookingID}, bson.D{{Key: "at", Value: 1}})
	if err != nil {
		return nil, err
	}
	out := make([]models.StatusChange, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.StatusChange(d))
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var doc T
	if err := coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return &doc, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D) ([]T, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any, upsert bool) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"id": id}, doc, options.Replace().SetUpsert(upsert))
	if err != nil {
		return mapErr(err)
	}
	if !upsert && res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
