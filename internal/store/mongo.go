package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// Mongo collection names.
const (
	CollSuppliers = "suppliers"
	CollPrices    = "supplier_prices"
	CollJobs      = "supplier_jobs"
	CollSettings  = "settings"
)

const weightsDocID = "supplier_weights"

// MongoStore reads CRM history from MongoDB.
type MongoStore struct {
	suppliers *mongo.Collection
	prices    *mongo.Collection
	jobs      *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		suppliers: db.Collection(CollSuppliers),
		prices:    db.Collection(CollPrices),
		jobs:      db.Collection(CollJobs),
	}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if _, err := s.suppliers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	if _, err := s.prices.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "supplier_id", Value: 1}, {Key: "size_quantity_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "size_quantity_id", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := s.jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "supplier_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	return err
}

func (s *MongoStore) UpsertSupplier(ctx context.Context, sup model.Supplier) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.suppliers.ReplaceOne(ctx, bson.M{"id": sup.ID}, sup, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) UpsertOffer(ctx context.Context, o model.SupplierPriceOffer) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	o.HistoricalAvgRating = nil
	filter := bson.M{"supplier_id": o.SupplierID, "size_quantity_id": o.SizeQuantityID}
	_, err := s.prices.ReplaceOne(ctx, filter, o, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) PutJob(ctx context.Context, j model.SupplierJobRecord) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.jobs.ReplaceOne(ctx, bson.M{"id": j.ID}, j, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) CandidateOffers(ctx context.Context, sizeQuantityID int64) ([]model.SupplierPriceOffer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "supplier_id", Value: 1}})
	cur, err := s.prices.Find(ctx, bson.M{"size_quantity_id": sizeQuantityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find offers: %w", err)
	}
	var offers []model.SupplierPriceOffer
	if err := cur.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}

	ids := make([]int64, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.SupplierID)
	}
	active, err := s.activeSuppliers(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := []model.SupplierPriceOffer{}
	for _, o := range offers {
		sup, ok := active[o.SupplierID]
		if !ok {
			continue
		}
		o.HistoricalAvgRating = sup.AvgRating()
		out = append(out, o)
	}
	if err := model.ValidateOffers(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) JobHistory(ctx context.Context, supplierID int64) ([]model.SupplierJobRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.jobs.Find(ctx, bson.M{"supplier_id": supplierID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	out := []model.SupplierJobRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	if err := model.ValidateJobs(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) MarketAndSupplierAvgPrice(ctx context.Context, supplierID int64) (model.MarketPriceStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := s.prices.Find(ctx, bson.M{"supplier_id": supplierID})
	if err != nil {
		return model.MarketPriceStats{}, fmt.Errorf("find supplier offers: %w", err)
	}
	var own []model.SupplierPriceOffer
	if err := cur.All(ctx, &own); err != nil {
		return model.MarketPriceStats{}, fmt.Errorf("decode supplier offers: %w", err)
	}
	if len(own) == 0 {
		return model.MarketPriceStats{}, nil
	}

	ownPrices := make([]float64, 0, len(own))
	sizeIDs := make([]int64, 0, len(own))
	for _, o := range own {
		ownPrices = append(ownPrices, o.UnitPrice)
		sizeIDs = append(sizeIDs, o.SizeQuantityID)
	}

	cur, err = s.prices.Find(ctx, bson.M{"size_quantity_id": bson.M{"$in": sizeIDs}})
	if err != nil {
		return model.MarketPriceStats{}, fmt.Errorf("find market offers: %w", err)
	}
	var all []model.SupplierPriceOffer
	if err := cur.All(ctx, &all); err != nil {
		return model.MarketPriceStats{}, fmt.Errorf("decode market offers: %w", err)
	}

	ids := make([]int64, 0, len(all))
	for _, o := range all {
		ids = append(ids, o.SupplierID)
	}
	active, err := s.activeSuppliers(ctx, ids)
	if err != nil {
		return model.MarketPriceStats{}, err
	}

	var market []float64
	for _, o := range all {
		if _, ok := active[o.SupplierID]; ok {
			market = append(market, o.UnitPrice)
		}
	}
	return marketStats(ownPrices, market)
}

func (s *MongoStore) activeSuppliers(ctx context.Context, ids []int64) (map[int64]model.Supplier, error) {
	out := map[int64]model.Supplier{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.suppliers.Find(ctx, bson.M{"id": bson.M{"$in": ids}, "active": true})
	if err != nil {
		return nil, fmt.Errorf("find suppliers: %w", err)
	}
	var sups []model.Supplier
	if err := cur.All(ctx, &sups); err != nil {
		return nil, fmt.Errorf("decode suppliers: %w", err)
	}
	for _, sup := range sups {
		out[sup.ID] = sup
	}
	return out, nil
}

// Close is a no-op; the caller owns the mongo client.
func (s *MongoStore) Close() error { return nil }

type weightsDoc struct {
	ID      string             `bson:"_id"`
	Weights model.WeightConfig `bson:"weights"`
}

// MongoWeightStore persists the weights as a single settings document.
type MongoWeightStore struct {
	coll *mongo.Collection
}

func NewMongoWeightStore(client *mongo.Client, dbName string) *MongoWeightStore {
	return &MongoWeightStore{coll: client.Database(dbName).Collection(CollSettings)}
}

func (s *MongoWeightStore) GetWeights(ctx context.Context) (*model.WeightConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res := s.coll.FindOne(ctx, bson.M{"_id": weightsDocID})
	if errors.Is(res.Err(), mongo.ErrNoDocuments) {
		return nil, nil
	}
	if res.Err() != nil {
		return nil, res.Err()
	}
	var doc weightsDoc
	if err := res.Decode(&doc); err != nil {
		return nil, err
	}
	return &doc.Weights, nil
}

func (s *MongoWeightStore) SaveWeights(ctx context.Context, w model.WeightConfig) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	doc := weightsDoc{ID: weightsDocID, Weights: w}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": weightsDocID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoWeightStore) Close() error { return nil }
