package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// FirestoreWeightStore keeps the weights in one settings document.
type FirestoreWeightStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreWeightStore connects to Firestore. credentialsFile may be empty
// to use application default credentials or the emulator.
func NewFirestoreWeightStore(ctx context.Context, projectID, collection, credentialsFile string) (*FirestoreWeightStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	if collection == "" {
		collection = CollSettings
	}
	return &FirestoreWeightStore{
		client:     client,
		collection: collection,
	}, nil
}

func (s *FirestoreWeightStore) doc() *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(weightsDocID)
}

func (s *FirestoreWeightStore) GetWeights(ctx context.Context) (*model.WeightConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	snap, err := s.doc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get weights: %w", err)
	}
	var w model.WeightConfig
	if err := snap.DataTo(&w); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	return &w, nil
}

func (s *FirestoreWeightStore) SaveWeights(ctx context.Context, w model.WeightConfig) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.doc().Set(ctx, w); err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}

func (s *FirestoreWeightStore) Close() error {
	return s.client.Close()
}
