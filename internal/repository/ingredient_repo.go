package repository

import (
	"context"
	"strings"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

func (r *IngredientRepository) WithTx(tx *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: tx}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns ingredients ordered by name. A non-empty prefix filters by
// case-insensitive name prefix.
func (r *IngredientRepository) List(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	q := r.db.WithContext(ctx).Model(&domain.Ingredient{})

	if prefix = norm.NFC.String(strings.TrimSpace(prefix)); prefix != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}

	var items []domain.Ingredient
	if err := q.Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var i domain.Ingredient
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("ingredient not found")
		}
		return nil, err
	}
	return &i, nil
}

// MissingIDs returns the ids from the input that have no ingredient row.
func (r *IngredientRepository) MissingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []int64
	if err := r.db.WithContext(ctx).Model(&domain.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	have := make(map[int64]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// BulkInsertIgnore inserts rows skipping (name, unit) pairs that already
// exist. Returns the number of rows actually inserted.
func (r *IngredientRepository) BulkInsertIgnore(ctx context.Context, items []domain.Ingredient, batchSize int) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).
		CreateInBatches(items, batchSize)
	return res.RowsAffected, res.Error
}

func (r *IngredientRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Ingredient{}).Count(&n).Error
	return n, err
}
