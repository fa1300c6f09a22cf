package models

import "github.com/shopspring/decimal"

// RatingSnapshot is the (rating, rating_count) pair stored on agents and properties.
type RatingSnapshot struct {
	Rating decimal.Decimal `bson:"rating" json:"rating"`
	Count  int             `bson:"rating_count" json:"ratingCount"`
}

type RateRequest struct {
	Score int `json:"score" validate:"required,min=1,max=5"`
}
