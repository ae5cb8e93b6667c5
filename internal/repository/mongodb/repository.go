package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

const summariesCollection = "daily_summaries"

// MongoDBRepository archives published daily summaries in MongoDB. It is a
// report sink and answers which days were published.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: summariesCollection,
		logger:   logger,
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveDailySummary stores one document per day; publishing a day again
// replaces the earlier document.
func (r *MongoDBRepository) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	filter := bson.D{{Key: "date_key", Value: summary.DateKey}}
	opts := options.Replace().SetUpsert(true)

	res, err := r.collection().ReplaceOne(ctx, filter, summary, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary %s: %w", summary.DateKey, err)
	}

	r.logger.Debug("daily summary archived",
		zap.String("date", summary.DateKey),
		zap.Int64("matched", res.MatchedCount),
		zap.Bool("inserted", res.UpsertedCount > 0),
	)
	return nil
}

// FindDailySummary returns the archived summary of a day, if any.
func (r *MongoDBRepository) FindDailySummary(ctx context.Context, date models.DateKey) (models.DailySummary, bool, error) {
	var summary models.DailySummary
	err := r.collection().FindOne(ctx, bson.D{{Key: "date_key", Value: date.String()}}).Decode(&summary)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DailySummary{}, false, nil
	}
	if err != nil {
		return models.DailySummary{}, false, fmt.Errorf("failed to find daily summary %s: %w", date, err)
	}
	return summary, true, nil
}

// Name identifies the archive among report sinks.
func (r *MongoDBRepository) Name() string {
	return "mongodb"
}

// Publish archives the summary. The text form is not stored.
func (r *MongoDBRepository) Publish(ctx context.Context, summary models.DailySummary, _ string) error {
	return r.SaveDailySummary(ctx, summary)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
