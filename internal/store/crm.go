package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/togengine-byte/CRM-sub003/internal/httpclient"
	"github.com/togengine-byte/CRM-sub003/internal/model"
)

// CRMStore reads history from the CRM's REST API.
type CRMStore struct {
	baseURL string
	client  *httpclient.Client
}

func NewCRMStore(baseURL string, client *httpclient.Client) *CRMStore {
	return &CRMStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *CRMStore) CandidateOffers(ctx context.Context, sizeQuantityID int64) ([]model.SupplierPriceOffer, error) {
	out := []model.SupplierPriceOffer{}
	url := fmt.Sprintf("%s/api/size-quantities/%d/supplier-offers", s.baseURL, sizeQuantityID)
	if err := s.client.GetJSON(ctx, url, &out); err != nil {
		if httpclient.IsNotFound(err) {
			return []model.SupplierPriceOffer{}, nil
		}
		return nil, fmt.Errorf("fetch offers: %w", err)
	}
	if err := model.ValidateOffers(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CRMStore) JobHistory(ctx context.Context, supplierID int64) ([]model.SupplierJobRecord, error) {
	out := []model.SupplierJobRecord{}
	url := fmt.Sprintf("%s/api/suppliers/%d/jobs", s.baseURL, supplierID)
	if err := s.client.GetJSON(ctx, url, &out); err != nil {
		if httpclient.IsNotFound(err) {
			return []model.SupplierJobRecord{}, nil
		}
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}
	if err := model.ValidateJobs(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CRMStore) MarketAndSupplierAvgPrice(ctx context.Context, supplierID int64) (model.MarketPriceStats, error) {
	var out model.MarketPriceStats
	url := fmt.Sprintf("%s/api/suppliers/%d/market-price-stats", s.baseURL, supplierID)
	if err := s.client.GetJSON(ctx, url, &out); err != nil {
		if httpclient.IsNotFound(err) {
			return model.MarketPriceStats{}, nil
		}
		return model.MarketPriceStats{}, fmt.Errorf("fetch market stats: %w", err)
	}
	if err := out.Validate(); err != nil {
		return model.MarketPriceStats{}, err
	}
	return out, nil
}

func (s *CRMStore) Close() error { return nil }
