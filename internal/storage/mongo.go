package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// Database and collection names.
const (
	DefaultDatabase = "Users"

	collUsers    = "userdata"
	collAnswers  = "answers"
	collFood     = "food"
	collCalories = "calories"
)

var (
	_ domain.UserStore    = (*MongoUsers)(nil)
	_ domain.AnswerStore  = (*MongoAnswers)(nil)
	_ domain.FoodLogStore = (*MongoFoodLog)(nil)
	_ domain.TotalStore   = (*MongoTotals)(nil)
)

// Mongo holds a connected client and the four collection-backed stores.
type Mongo struct {
	client *mongo.Client

	Users   *MongoUsers
	Answers *MongoAnswers
	FoodLog *MongoFoodLog
	Totals  *MongoTotals
}

// OpenMongo connects to uri, pings the primary, and binds the stores to
// the given database ("" means DefaultDatabase).
func OpenMongo(ctx context.Context, uri, database string, log *logger.Logger) (*Mongo, error) {
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	db := client.Database(database)
	log.Info("connected to mongo database %q", database)

	return &Mongo{
		client:  client,
		Users:   &MongoUsers{coll: db.Collection(collUsers), log: log},
		Answers: &MongoAnswers{coll: db.Collection(collAnswers), log: log},
		FoodLog: &MongoFoodLog{coll: db.Collection(collFood), log: log},
		Totals:  &MongoTotals{coll: db.Collection(collCalories), log: log},
	}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ── users ────────────────────────────────────────────────────────

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	FullName string             `bson:"fullname"`
	Username string             `bson:"username"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Rights   int                `bson:"rights"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		FullName:     d.FullName,
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Rights:       d.Rights,
	}
}

// MongoUsers stores accounts in the userdata collection.
type MongoUsers struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func (s *MongoUsers) Create(ctx context.Context, user *domain.User) error {
	exists, err := s.Exists(ctx, user.Username, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	res, err := s.coll.InsertOne(ctx, userDoc{
		FullName: user.FullName,
		Username: user.Username,
		Email:    user.Email,
		Password: user.PasswordHash,
		Rights:   user.Rights,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	s.log.Debug("created user %s (id=%s)", user.Username, user.ID)
	return nil
}

func (s *MongoUsers) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *MongoUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUsers) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return doc.toDomain(), nil
}

// Exists matches on username OR email, skipping empty arguments.
func (s *MongoUsers) Exists(ctx context.Context, username, email string) (bool, error) {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return false, nil
	}

	n, err := s.coll.CountDocuments(ctx, bson.M{"$or": or}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return n > 0, nil
}

func (s *MongoUsers) Rename(ctx context.Context, username, newUsername string) error {
	taken, err := s.Exists(ctx, newUsername, "")
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrAlreadyExists
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"username": newUsername}},
	)
	if err != nil {
		return fmt.Errorf("renaming user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *MongoUsers) SetPassword(ctx context.Context, email, passwordHash string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": passwordHash}},
	)
	if err != nil {
		return fmt.Errorf("setting password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *MongoUsers) Delete(ctx context.Context, username string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ── answers ──────────────────────────────────────────────────────

type answerDoc struct {
	Username    string    `bson:"username"`
	Answers     bson.M    `bson:"answers"`
	SubmittedAt time.Time `bson:"submittedAt"`
}

// MongoAnswers stores quiz submissions in the answers collection.
type MongoAnswers struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func (s *MongoAnswers) Save(ctx context.Context, set domain.AnswerSet) error {
	if set.SubmittedAt.IsZero() {
		set.SubmittedAt = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, answerDoc{
		Username:    set.Username,
		Answers:     bson.M(set.Answers),
		SubmittedAt: set.SubmittedAt,
	})
	if err != nil {
		return fmt.Errorf("saving answers: %w", err)
	}
	return nil
}

func (s *MongoAnswers) Latest(ctx context.Context, username string) (*domain.AnswerSet, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "submittedAt", Value: -1}})

	var doc answerDoc
	if err := s.coll.FindOne(ctx, bson.M{"username": username}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("loading answers: %w", err)
	}

	answers := make(domain.Answers, len(doc.Answers))
	for k, v := range doc.Answers {
		answers[k] = plain(v)
	}
	return &domain.AnswerSet{
		Username:    doc.Username,
		Answers:     answers,
		SubmittedAt: doc.SubmittedAt,
	}, nil
}

func (s *MongoAnswers) Rename(ctx context.Context, username, newUsername string) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"username": newUsername}},
	)
	if err != nil {
		return fmt.Errorf("renaming answers: %w", err)
	}
	return nil
}

func (s *MongoAnswers) DeleteAll(ctx context.Context, username string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{"username": username}); err != nil {
		return fmt.Errorf("deleting answers: %w", err)
	}
	return nil
}

// plain converts driver container types back to the shapes a JSON decoder
// would produce, so quiz extraction sees []any and map[string]any.
func plain(v any) any {
	switch x := v.(type) {
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plain(e.Value)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plain(e)
		}
		return out
	default:
		return v
	}
}

// ── food log ─────────────────────────────────────────────────────

type foodDoc struct {
	Username string            `bson:"username"`
	MealType string            `bson:"mealType"`
	Date     time.Time         `bson:"date"`
	Foods    []domain.FoodItem `bson:"foods"`
}

// MongoFoodLog stores diary records in the food collection, one document
// per (username, mealType, date).
type MongoFoodLog struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func (s *MongoFoodLog) Append(ctx context.Context, username string, meal domain.MealType, day time.Time, foods []domain.FoodItem) error {
	filter := bson.M{
		"username": username,
		"mealType": string(meal),
		"date":     domain.DayOf(day),
	}
	update := bson.M{"$push": bson.M{"foods": bson.M{"$each": foods}}}

	if _, err := s.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("appending foods: %w", err)
	}
	s.log.Debug("appended %d foods to %s/%s", len(foods), username, meal)
	return nil
}

func (s *MongoFoodLog) List(ctx context.Context, username string, meal domain.MealType) ([]domain.FoodItem, error) {
	cur, err := s.coll.Find(ctx,
		bson.M{"username": username, "mealType": string(meal)},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("listing foods: %w", err)
	}

	var docs []foodDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding foods: %w", err)
	}

	out := []domain.FoodItem{}
	for _, d := range docs {
		out = append(out, d.Foods...)
	}
	return out, nil
}

func (s *MongoFoodLog) Remove(ctx context.Context, username string, meal domain.MealType, name string) (int, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"username": username, "mealType": string(meal)},
		bson.M{"$pull": bson.M{"foods": bson.M{"name": name}}},
	)
	if err != nil {
		return 0, fmt.Errorf("removing food: %w", err)
	}
	return int(res.ModifiedCount), nil
}

// ── totals ───────────────────────────────────────────────────────

type totalDoc struct {
	Username      string  `bson:"username"`
	TotalCalories float64 `bson:"totalCalories"`
}

// MongoTotals stores running totals in the calories collection.
type MongoTotals struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func (s *MongoTotals) Get(ctx context.Context, username string) (float64, error) {
	var doc totalDoc
	if err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("loading total: %w", err)
	}
	return doc.TotalCalories, nil
}

func (s *MongoTotals) Set(ctx context.Context, username string, total float64) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"totalCalories": total}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("saving total: %w", err)
	}
	return nil
}

func (s *MongoTotals) Reset(ctx context.Context) (int, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("resetting totals: %w", err)
	}
	return int(res.DeletedCount), nil
}
