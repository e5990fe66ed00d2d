package db

import (
	"context"
	"fmt"

	"github.com/chesscoach/cpu-engine-backend/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TelemetryDbClient struct {
	client              *mongo.Client
	TelemetryCollection *mongo.Collection
}

func (r *TelemetryDbClient) Close() error {
	return r.client.Disconnect(context.TODO())
}

func NewDbClient(cfg *config.Configuration) (*TelemetryDbClient, error) {
	clientOpts := options.Client().ApplyURI(cfg.Database.Address)

	dbClient := &TelemetryDbClient{}

	client, err := mongo.Connect(context.TODO(), clientOpts)
	if err != nil {
		return nil, err
	}
	dbClient.client = client

	err = client.Ping(context.TODO(), nil)
	if err != nil {
		return nil, err
	}

	dbClient.TelemetryCollection = client.Database(cfg.Database.DatabaseName).Collection(cfg.Database.Collection)
	if dbClient.TelemetryCollection == nil {
		return nil, fmt.Errorf("can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.Collection)
	}
	return dbClient, nil
}
