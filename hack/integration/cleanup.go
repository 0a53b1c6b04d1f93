package integration

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections the service reads when store.history is mongo.
var collections = []string{
	"suppliers",
	"supplier_prices",
	"supplier_jobs",
	"settings",
}

// Database seeds and cleans the service's MongoDB collections
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewDatabase connects to MongoDB
func NewDatabase(mongoURI, dbName string) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Database{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Close closes the database connection
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// CleanAll removes all documents from all collections
func (d *Database) CleanAll(ctx context.Context) error {
	for _, coll := range collections {
		if _, err := d.db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clean collection %s: %w", coll, err)
		}
	}
	return nil
}

// Supplier, Offer and Job mirror the documents the service stores.

type Supplier struct {
	ID           int64   `bson:"id"`
	Name         string  `bson:"name"`
	Active       bool    `bson:"active"`
	RatingPoints float64 `bson:"rating_points"`
	RatedDeals   int     `bson:"rated_deals"`
}

type Offer struct {
	SupplierID     int64    `bson:"supplier_id"`
	SizeQuantityID int64    `bson:"size_quantity_id"`
	UnitPrice      float64  `bson:"unit_price"`
	DeliveryDays   *int     `bson:"delivery_days,omitempty"`
	QualityRating  *float64 `bson:"quality_rating,omitempty"`
}

type Job struct {
	ID                    int64      `bson:"id"`
	SupplierID            int64      `bson:"supplier_id"`
	CreatedAt             time.Time  `bson:"created_at"`
	PromisedDeliveryDays  *int       `bson:"promised_delivery_days,omitempty"`
	ReadyAt               *time.Time `bson:"ready_at,omitempty"`
	CourierConfirmedReady *bool      `bson:"courier_confirmed_ready,omitempty"`
	Status                string     `bson:"status"`
}

// Seed inserts the given documents.
func (d *Database) Seed(ctx context.Context, suppliers []Supplier, offers []Offer, jobs []Job) error {
	for _, s := range suppliers {
		if _, err := d.db.Collection("suppliers").InsertOne(ctx, s); err != nil {
			return fmt.Errorf("insert supplier %d: %w", s.ID, err)
		}
	}
	for _, o := range offers {
		if _, err := d.db.Collection("supplier_prices").InsertOne(ctx, o); err != nil {
			return fmt.Errorf("insert offer %d/%d: %w", o.SupplierID, o.SizeQuantityID, err)
		}
	}
	for _, j := range jobs {
		if _, err := d.db.Collection("supplier_jobs").InsertOne(ctx, j); err != nil {
			return fmt.Errorf("insert job %d: %w", j.ID, err)
		}
	}
	return nil
}
