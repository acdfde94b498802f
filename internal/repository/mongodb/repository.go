package mongodb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
)

const submissionsCollection = "entry_submissions"

// SubmissionRepository stores the audit trail of stock-entry submissions.
type SubmissionRepository interface {
	Record(ctx context.Context, record models.SubmissionRecord) error
	History(ctx context.Context, entryID int64, limit int64) ([]models.SubmissionRecord, error)
}

// MongoDBRepository implements SubmissionRepository for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewMongoDBRepository connects and pings the server.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: submissionsCollection,
		logger:   logger,
	}, nil
}

// Record inserts one submission.
func (r *MongoDBRepository) Record(ctx context.Context, record models.SubmissionRecord) error {
	doc, err := submissionDocument(record)
	if err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	r.logger.Debug("Submission recorded", zap.Int64("entry_id", record.EntryID), zap.String("action", record.Action))
	return nil
}

// History returns the latest submissions of one entry, newest first.
func (r *MongoDBRepository) History(ctx context.Context, entryID int64, limit int64) ([]models.SubmissionRecord, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := collection.Find(ctx, bson.D{{Key: "entry_id", Value: entryID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SubmissionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode submissions: %w", err)
	}
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// submissionDocument stores the payload in its wire shape, so decimals stay
// canonical strings and dates stay YYYY-MM-DD.
func submissionDocument(record models.SubmissionRecord) (bson.D, error) {
	raw, err := json.Marshal(record.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission payload: %w", err)
	}
	var payload bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &payload); err != nil {
		return nil, fmt.Errorf("convert submission payload: %w", err)
	}

	return bson.D{
		{Key: "entry_id", Value: record.EntryID},
		{Key: "action", Value: record.Action},
		{Key: "payload", Value: payload},
		{Key: "dropped_rows", Value: record.DroppedRows},
		{Key: "submitted_at", Value: record.SubmittedAt},
	}, nil
}
