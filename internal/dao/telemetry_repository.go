package dao

import (
	"context"
	"time"

	"github.com/chesscoach/cpu-engine-backend/internal/db"
	"github.com/chesscoach/cpu-engine-backend/pkg/engine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TelemetryRepository interface {
	InsertRecord(rec engine.FallbackTelemetryRecord) error

	GetGameRecords(gameID string) ([]engine.FallbackTelemetryRecord, error)

	GetLastRecord(gameID string) (engine.FallbackTelemetryRecord, error)

	CountFallbacks(gameID string) (int64, error)
}

type telemetryRepository struct {
	dbClient *db.TelemetryDbClient
}

func NewTelemetryRepository(dbClient *db.TelemetryDbClient) TelemetryRepository {
	return &telemetryRepository{dbClient}
}

func (t *telemetryRepository) InsertRecord(rec engine.FallbackTelemetryRecord) error {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	_, err := t.dbClient.TelemetryCollection.InsertOne(ctx, rec)
	return err
}

func (t *telemetryRepository) GetGameRecords(gameID string) ([]engine.FallbackTelemetryRecord, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "move_index", Value: 1}})
	filter := bson.D{{Key: "game_id", Value: gameID}}

	cur, err := t.dbClient.TelemetryCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var records []engine.FallbackTelemetryRecord
	if err = cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (t *telemetryRepository) GetLastRecord(gameID string) (engine.FallbackTelemetryRecord, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "move_index", Value: -1}})
	filter := bson.D{{Key: "game_id", Value: gameID}}

	cur := t.dbClient.TelemetryCollection.FindOne(ctx, filter, opts)
	var rec engine.FallbackTelemetryRecord
	if err := cur.Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return engine.FallbackTelemetryRecord{}, nil
		}
		return engine.FallbackTelemetryRecord{}, err
	}
	return rec, nil
}

func (t *telemetryRepository) CountFallbacks(gameID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.TODO(), time.Second)
	defer cancel()

	filter := bson.D{
		{Key: "game_id", Value: gameID},
		{Key: "fallback_used", Value: true},
	}
	return t.dbClient.TelemetryCollection.CountDocuments(ctx, filter)
}
