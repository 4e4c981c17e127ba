package repository

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) WithTx(tx *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

// Create adds the edge. The unique index decides duplicates, so two
// concurrent follows end with one row and one ConflictError.
func (r *SubscriptionRepository) Create(ctx context.Context, userID, authorID int64) error {
	sub := &domain.Subscription{UserID: userID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Omit("User", "Author").Create(sub).Error; err != nil {
		if IsUniqueViolation(err) {
			return apperr.Conflict("already subscribed to this author").WithCause(err)
		}
		return err
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, userID, authorID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("subscription not found")
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListAuthors returns the authors userID follows, ordered by author id.
func (r *SubscriptionRepository) ListAuthors(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&domain.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []domain.User
	if err := base().Select("users.*").Order("users.id ASC").Limit(limit).Offset(offset).Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// SubscribedTo returns the subset of authorIDs that userID follows.
func (r *SubscriptionRepository) SubscribedTo(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
