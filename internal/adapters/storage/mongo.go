package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/openmeet/salas/internal/domain"
)

const mongoOpTimeout = 5 * time.Second

// MongoStore persists rooms and users in MongoDB. The join append is a single
// FindOneAndUpdate whose filter carries both preconditions, so two concurrent
// joins at the capacity boundary can never both pass.
type MongoStore struct {
	client *mongo.Client
	rooms  *mongo.Collection
	users  *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client: client,
		rooms:  db.Collection("rooms"),
		users:  db.Collection("users"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	log.Info().Str("module", "storage.mongo").Str("db", dbName).Msg("connected to mongodb")
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) InsertRoom(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	if _, err := s.rooms.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("%w: insert room: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) GetRoom(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	var room domain.Room
	err := s.rooms.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get room: %v", domain.ErrStorage, err)
	}
	return &room, nil
}

func (s *MongoStore) ListRooms(ctx context.Context) ([]domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	cursor, err := s.rooms.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, fmt.Errorf("%w: list rooms: %v", domain.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var rooms []domain.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("%w: list rooms: %v", domain.ErrStorage, err)
	}
	return rooms, nil
}

// AppendParticipant pushes userID onto the participant list only when the
// user is absent and the list is still below capacity. When the filtered
// update matches nothing, the room is re-read once to tell the three failure
// cases apart.
func (s *MongoStore) AppendParticipant(ctx context.Context, id domain.RoomID, userID string) (*domain.Room, error) {
	opCtx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	filter := bson.M{
		"_id":          string(id),
		"participants": bson.M{"$ne": userID},
		"$expr": bson.M{
			"$lt": bson.A{bson.M{"$size": "$participants"}, "$capacity"},
		},
	}
	update := bson.M{"$push": bson.M{"participants": userID}}

	var room domain.Room
	err := s.rooms.FindOneAndUpdate(opCtx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: join room: %v", domain.ErrStorage, err)
	}

	current, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.HasParticipant(userID) {
		return nil, domain.ErrAlreadyMember
	}
	return nil, domain.ErrRoomFull
}

func (s *MongoStore) InsertUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("%w: insert user: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	var user domain.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAuth
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrStorage, err)
	}
	return &user, nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	var user domain.User
	err := s.users.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrAuth
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", domain.ErrStorage, err)
	}
	return &user, nil
}
