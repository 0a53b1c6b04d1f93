package model

import (
	"errors"
	"fmt"
)

// ErrInvalidWeights is wrapped by every WeightConfig validation failure.
var ErrInvalidWeights = errors.New("invalid weight configuration")

// WeightConfig holds the recommender's factor weights as integer percentages.
type WeightConfig struct {
	Price        int `json:"price" bson:"price" yaml:"price" firestore:"price" mapstructure:"price"`
	Rating       int `json:"rating" bson:"rating" yaml:"rating" firestore:"rating" mapstructure:"rating"`
	DeliveryTime int `json:"delivery_time" bson:"delivery_time" yaml:"delivery_time" firestore:"delivery_time" mapstructure:"delivery_time"`
	Reliability  int `json:"reliability" bson:"reliability" yaml:"reliability" firestore:"reliability" mapstructure:"reliability"`
}

// DefaultWeights is used when no configuration has been stored.
func DefaultWeights() WeightConfig {
	return WeightConfig{Price: 40, Rating: 30, DeliveryTime: 20, Reliability: 10}
}

func (w WeightConfig) Sum() int {
	return w.Price + w.Rating + w.DeliveryTime + w.Reliability
}

// Validate rejects any field outside [0,100] and any set not summing to 100.
// Invalid sets are never rescaled.
func (w WeightConfig) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"price", w.Price},
		{"rating", w.Rating},
		{"delivery_time", w.DeliveryTime},
		{"reliability", w.Reliability},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > 100 {
			return fmt.Errorf("%w: %s weight %d is outside [0,100]", ErrInvalidWeights, f.name, f.value)
		}
	}
	if sum := w.Sum(); sum != 100 {
		return fmt.Errorf("%w: weights sum to %d, must sum to 100", ErrInvalidWeights, sum)
	}
	return nil
}
