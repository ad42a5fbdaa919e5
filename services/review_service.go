package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/repository"

	"gorm.io/gorm"
)

const maxReviewComment = 500

type ReviewService struct {
	DB        *gorm.DB
	Repo      *repository.ReviewRepository
	FoodRepo  *repository.FoodRepository
	OrderRepo *repository.OrderRepository
}

func NewReviewService(db *gorm.DB, repo *repository.ReviewRepository, foodRepo *repository.FoodRepository, orderRepo *repository.OrderRepository) *ReviewService {
	return &ReviewService{DB: db, Repo: repo, FoodRepo: foodRepo, OrderRepo: orderRepo}
}

type SubmitReviewReq struct {
	FoodID  uint   `json:"foodId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewRes struct {
	ReviewID          uint    `json:"reviewId"`
	FoodID            uint    `json:"foodId"`
	Rating            int     `json:"rating"`
	RatingScore       float64 `json:"ratingScore"`
	RatingTotalVoters int     `json:"ratingTotalVoters"`
}

// NextRating folds one more vote into a running mean, rounded to 2 decimals.
func NextRating(score float64, voters, rating int) (float64, int) {
	if voters < 0 {
		voters = 0
	}
	mean := (score*float64(voters) + float64(rating)) / float64(voters+1)
	return math.Round(mean*100) / 100, voters + 1
}

// Submit stores the review and updates the food's rating in one transaction.
// Only customers with a completed order containing the food may review it,
// once per food.
func (s *ReviewService) Submit(ctx context.Context, actor Actor, req SubmitReviewReq) (*ReviewRes, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	if req.FoodID == 0 {
		return nil, invalid("foodId is required")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, invalid("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(comment) > maxReviewComment {
		return nil, invalid("comment must be at most 500 characters")
	}

	var out ReviewRes
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// purchase gate first, so an unknown food id reads as not purchased
		bought, err := s.OrderRepo.HasCompletedOrderWithFood(tx, actor.UserID, req.FoodID)
		if err != nil {
			return err
		}
		if !bought {
			return forbidden("you can only review food from a completed order")
		}

		food, err := s.FoodRepo.LockByID(tx, req.FoodID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("food not found")
		}
		if err != nil {
			return err
		}

		dup, err := s.Repo.Exists(tx, actor.UserID, food.ID)
		if err != nil {
			return err
		}
		if dup {
			return invalid("already reviewed")
		}

		rev := entity.FoodReview{Rating: req.Rating, Comment: comment, FoodID: food.ID, CustomerID: actor.UserID}
		err = tx.Transaction(func(sp *gorm.DB) error { return s.Repo.Create(sp, &rev) })
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return invalid("already reviewed")
		}
		if err != nil {
			return err
		}

		score, voters := NextRating(food.RatingScore, food.RatingTotalVoters, req.Rating)
		if err := s.FoodRepo.UpdateRating(tx, food.ID, score, voters); err != nil {
			return err
		}
		out = ReviewRes{
			ReviewID: rev.ID, FoodID: food.ID, Rating: rev.Rating,
			RatingScore: score, RatingTotalVoters: voters,
		}
		return nil
	})
	if err != nil {
		return nil, wrapStore("submit review", err)
	}
	return &out, nil
}

func (s *ReviewService) ListForFood(ctx context.Context, foodID uint, limit, offset int) ([]entity.FoodReview, error) {
	out, err := s.Repo.ListForFood(ctx, foodID, limit, offset)
	if err != nil {
		return nil, internal("list reviews", err)
	}
	return out, nil
}
