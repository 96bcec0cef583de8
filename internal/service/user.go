package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/models"
)

// SubscriptionView is an author the user follows, with a trimmed recipe
// list.
type SubscriptionView struct {
	ID           uuid.UUID         `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	IsSubscribed bool              `json:"is_subscribed"`
	Recipes      []ShortRecipeView `json:"recipes"`
	RecipesCount int64             `json:"recipes_count"`
}

// UserService owns the follow relation between users.
type UserService struct {
	db      *gorm.DB
	recipes *RecipeService
	log     *logger.Logger
}

func NewUserService(db *gorm.DB, recipes *RecipeService, log *logger.Logger) *UserService {
	return &UserService{db: db, recipes: recipes, log: log.With("service", "user")}
}

// Follow subscribes userID to targetID's recipes.
func (s *UserService) Follow(ctx context.Context, userID, targetID uuid.UUID) error {
	if userID == targetID {
		return invalid("following", ErrSelfFollow)
	}
	var target models.User
	if err := s.db.WithContext(ctx).First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyFollowing
	}

	follow := models.Follow{UserID: userID, FollowingID: targetID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// Unfollow removes the subscription.
func (s *UserService) Unfollow(ctx context.Context, userID, targetID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, targetID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFollowing
	}
	return nil
}

// Subscriptions lists a page of the authors userID follows, each carrying
// up to recipesLimit of their newest recipes (0 means all). limit <= 0
// disables pagination.
func (s *UserService) Subscriptions(ctx context.Context, userID uuid.UUID, page, limit, recipesLimit int) ([]SubscriptionView, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	var follows []models.Follow
	if err := query.Find(&follows).Error; err != nil {
		return nil, err
	}

	views := make([]SubscriptionView, 0, len(follows))
	for _, f := range follows {
		var author models.User
		if err := s.db.WithContext(ctx).First(&author, "id = ?", f.FollowingID).Error; err != nil {
			return nil, err
		}

		recipes, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		short := make([]ShortRecipeView, 0, len(recipes))
		for _, r := range recipes {
			short = append(short, ShortRecipeView{
				ID:          r.ID,
				Image:       r.ImageURL,
				Name:        r.Name,
				CookingTime: r.CookingTime,
			})
		}

		var total int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", author.ID).
			Count(&total).Error; err != nil {
			return nil, err
		}

		views = append(views, SubscriptionView{
			ID:           author.ID,
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: true,
			Recipes:      short,
			RecipesCount: total,
		})
	}
	return views, nil
}
