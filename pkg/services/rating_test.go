package services

import (
	"context"
	"sync"
	"testing"

	"propt-api-io/api/pkg/errs"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestNextRating(t *testing.T) {
	cases := []struct {
		rating    string
		count     int
		score     string
		want      string
		wantCount int
	}{
		{"0", 0, "5", "5", 1},
		{"4.0", 1, "5", "4.5", 2},
		{"4.5", 2, "3", "4", 3},
		{"4.33", 3, "5", "4.5", 4},
		// (1*2+2)/3 = 1.333.. rounds down
		{"1", 2, "2", "1.33", 3},
		// (2.33*2+1)/3 = 1.886..
		{"2.33", 2, "1", "1.89", 3},
		// exact half rounds away from zero: (1.01+1)/2 = 1.005
		{"1.01", 1, "1", "1.01", 2},
	}

	for _, tc := range cases {
		got, count := NextRating(d(tc.rating), tc.count, d(tc.score))
		if !got.Equal(d(tc.want)) || count != tc.wantCount {
			t.Fatalf("NextRating(%s, %d, %s) = (%s, %d), want (%s, %d)",
				tc.rating, tc.count, tc.score, got, count, tc.want, tc.wantCount)
		}
	}
}

func TestApplyRatingRejectsOutOfRangeScore(t *testing.T) {
	store := newFakeRatings()
	id := store.add(d("0"), 0)

	for _, score := range []int{0, 6, -1} {
		if _, err := applyRating(context.Background(), store, id, score); !errors.Is(err, errs.ErrInvalidArgument) {
			t.Fatalf("score %d: err = %v, want InvalidArgument", score, err)
		}
	}
}

func TestApplyRatingUnknownTarget(t *testing.T) {
	store := newFakeRatings()
	if _, err := applyRating(context.Background(), store, primitive.NewObjectID(), 4); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestApplyRatingConcurrentSubmissionsAreNotLost(t *testing.T) {
	store := newFakeRatings()
	id := store.add(d("4.0"), 1)
	// force both writers to read the same snapshot before either writes
	store.barrier = newBarrier(2)

	var wg sync.WaitGroup
	for _, score := range []int{5, 3} {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := applyRating(context.Background(), store, id, score); err != nil {
				t.Errorf("applyRating(%d): %v", score, err)
			}
		}(score)
	}
	wg.Wait()

	final, _ := store.GetRating(context.Background(), id)
	if final.Count != 3 || !final.Rating.Equal(d("4.00")) {
		t.Fatalf("final rating = (%s, %d), want (4.00, 3)", final.Rating, final.Count)
	}
	if store.conflicts == 0 {
		t.Fatalf("expected at least one lost compare-and-set")
	}
}

func TestApplyRatingManyWriters(t *testing.T) {
	store := newFakeRatings()
	id := store.add(d("0"), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := applyRating(context.Background(), store, id, 4); err != nil {
				t.Errorf("applyRating: %v", err)
			}
		}()
	}
	wg.Wait()

	final, _ := store.GetRating(context.Background(), id)
	if final.Count != 8 || !final.Rating.Equal(d("4")) {
		t.Fatalf("final rating = (%s, %d), want (4, 8)", final.Rating, final.Count)
	}
}
