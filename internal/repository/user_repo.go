package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	u.Username = strings.TrimSpace(u.Username)

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if IsUniqueViolation(err) {
			return apperr.Conflict("user with this email or username already exists").WithCause(err)
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return &u, nil
}

// Taken reports which of the two unique fields are already used.
func (r *UserRepository) Taken(ctx context.Context, email, username string) (emailTaken, usernameTaken bool, err error) {
	var rows []domain.User
	err = r.db.WithContext(ctx).
		Select("id", "email", "username").
		Where("LOWER(email) = ? OR username = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(username)).
		Find(&rows).Error
	if err != nil {
		return false, false, err
	}

	for _, u := range rows {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			emailTaken = true
		}
		if u.Username == strings.TrimSpace(username) {
			usernameTaken = true
		}
	}
	return emailTaken, usernameTaken, nil
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns users ordered by id together with the total count.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateAvatar sets or clears (nil) the avatar URL.
func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, avatar *string) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("avatar", avatar)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
