package domain

import "time"

// Review is a per-product, per-user rating. Writing again for the same
// (product, user) pair overwrites the previous review.
type Review struct {
	ProductID int64     `json:"product_id" bson:"product_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Rating    int       `json:"rating" bson:"rating"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// RatingSummary is the star breakdown for a product, derived on demand.
type RatingSummary struct {
	Filled int `json:"filled"`
	Empty  int `json:"empty"`
	Count  int `json:"count"`
}

// SummarizeRatings computes the star breakdown for a set of reviews. The
// average uses integer division, truncating toward zero. With no reviews the
// summary is (0 filled, 5 empty, 0 count).
func SummarizeRatings(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{Filled: 0, Empty: 5, Count: 0}
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}

	filled := sum / len(reviews)
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}

	return RatingSummary{
		Filled: filled,
		Empty:  5 - filled,
		Count:  len(reviews),
	}
}
