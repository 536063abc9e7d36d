package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eco-service/internal/leaderboard"
	"eco-service/internal/scoring"
	"eco-service/internal/service/models"
)

// MongoRepository keeps one document per submission and lets the server do
// the per-user grouping.
type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongo(client *mongo.Client, database, collection string) *MongoRepository {
	return &MongoRepository{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

// OpenMongo connects, pings and ensures the collection indexes.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to MongoDB")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "MongoDB is not reachable")
	}
	r := NewMongo(client, database, collection)
	if err = r.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return r, nil
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	return storageError("create indexes", err)
}

type mongoRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"userId"`
	TotalScore   int                `bson:"totalScore"`
	Category     string             `bson:"category"`
	Answers      map[string]string  `bson:"answers,omitempty"`
	Scores       *mongoSubScores    `bson:"scores,omitempty"`
	TableVersion int                `bson:"tableVersion"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type mongoSubScores struct {
	Transportation int `bson:"transportation"`
	Energy         int `bson:"energy"`
	Diet           int `bson:"diet"`
	Waste          int `bson:"waste"`
}

func newMongoRecord(record *models.ScoreRecord) mongoRecord {
	doc := mongoRecord{
		UserID:       record.UserID,
		TotalScore:   record.TotalScore,
		Category:     string(record.Category),
		Answers:      record.Answers,
		TableVersion: record.TableVersion,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if s := record.Scores; s != nil {
		doc.Scores = &mongoSubScores{Transportation: s.Transportation, Energy: s.Energy, Diet: s.Diet, Waste: s.Waste}
	}
	return doc
}

func (doc mongoRecord) record() models.ScoreRecord {
	record := models.ScoreRecord{
		ID:           doc.ID.Hex(),
		UserID:       doc.UserID,
		TotalScore:   doc.TotalScore,
		Category:     scoring.Category(doc.Category),
		Answers:      doc.Answers,
		TableVersion: doc.TableVersion,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
	}
	if s := doc.Scores; s != nil {
		record.Scores = &scoring.SubScores{Transportation: s.Transportation, Energy: s.Energy, Diet: s.Diet, Waste: s.Waste}
	}
	return record
}

func (r *MongoRepository) Insert(ctx context.Context, record *models.ScoreRecord) (string, error) {
	// BSON dates keep millisecond precision.
	record.Prepare()
	record.CreatedAt = record.CreatedAt.Truncate(time.Millisecond)
	record.UpdatedAt = record.UpdatedAt.Truncate(time.Millisecond)

	doc := newMongoRecord(record)
	doc.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", storageError("insert", err)
	}
	record.ID = doc.ID.Hex()
	return record.ID, nil
}

func (r *MongoRepository) Latest(ctx context.Context, userID string) (*models.ScoreRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	var doc mongoRecord
	err := r.coll.FindOne(ctx, bson.M{"userId": userID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError("latest", err)
	}
	record := doc.record()
	return &record, nil
}

func (r *MongoRepository) History(ctx context.Context, userID string, limit int) ([]models.ScoreRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storageError("history", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoRecord
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, storageError("history", err)
	}
	records := make([]models.ScoreRecord, len(docs))
	for i, doc := range docs {
		records[i] = doc.record()
	}
	return records, nil
}

type mongoSummary struct {
	UserID         string    `bson:"_id"`
	BestScore      int       `bson:"bestScore"`
	LatestScore    int       `bson:"latestScore"`
	LatestCategory string    `bson:"latestCategory"`
	LatestDate     time.Time `bson:"latestDate"`
	FirstDate      time.Time `bson:"firstDate"`
	TotalAttempts  int       `bson:"totalAttempts"`
	ScoreSum       int       `bson:"scoreSum"`
}

// Summaries runs the grouping as an aggregation pipeline.
func (r *MongoRepository) Summaries(ctx context.Context, since time.Time) ([]leaderboard.Summary, error) {
	cursor, err := r.coll.Aggregate(ctx, summaryPipeline(since))
	if err != nil {
		return nil, storageError("summaries", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoSummary
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, storageError("summaries", err)
	}
	summaries := make([]leaderboard.Summary, len(docs))
	for i, doc := range docs {
		summaries[i] = leaderboard.Summary{
			UserID:         doc.UserID,
			BestScore:      doc.BestScore,
			LatestScore:    doc.LatestScore,
			LatestCategory: scoring.Category(doc.LatestCategory),
			LatestDate:     doc.LatestDate.UTC(),
			FirstDate:      doc.FirstDate.UTC(),
			TotalAttempts:  doc.TotalAttempts,
			ScoreSum:       doc.ScoreSum,
		}
	}
	return summaries, nil
}

// summaryPipeline groups records per user. Sorting before $group makes $last
// pick the most recent record of each user.
func summaryPipeline(since time.Time) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if !since.IsZero() {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            "$userId",
			"bestScore":      bson.M{"$min": "$totalScore"},
			"latestScore":    bson.M{"$last": "$totalScore"},
			"latestCategory": bson.M{"$last": "$category"},
			"latestDate":     bson.M{"$last": "$createdAt"},
			"firstDate":      bson.M{"$first": "$createdAt"},
			"totalAttempts":  bson.M{"$sum": 1},
			"scoreSum":       bson.M{"$sum": "$totalScore"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	)
	return pipeline
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return storageError("ping", r.client.Ping(ctx, nil))
}

func (r *MongoRepository) Close() error {
	return r.client.Disconnect(context.Background())
}
