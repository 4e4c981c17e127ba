package repository

import (
	"context"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func (r *RecipeRepository) WithTx(tx *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: tx}
}

// RecipeFilter — фильтры списка рецептов. nil означает "не фильтровать".
type RecipeFilter struct {
	AuthorID    *int64
	FavoritedBy *int64
	InCartOf    *int64
	Limit       int
	Offset      int
}

// Insert stores the recipe row only; lines go through ReplaceIngredients.
func (r *RecipeRepository) Insert(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

// ReplaceIngredients drops the recipe's lines and inserts the given ones.
// Meant to run inside a transaction together with the recipe write.
func (r *RecipeRepository) ReplaceIngredients(ctx context.Context, recipeID int64, lines []domain.RecipeIngredient) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	rows := make([]domain.RecipeIngredient, len(lines))
	for i, l := range lines {
		rows[i] = domain.RecipeIngredient{RecipeID: recipeID, IngredientID: l.IngredientID, Amount: l.Amount}
	}

	if err := db.Omit(clause.Associations).CreateInBatches(rows, 100).Error; err != nil {
		if IsUniqueViolation(err) {
			return apperr.ValidationWithDetails("validation failed", map[string]string{
				"ingredients": "ingredients must not repeat",
			}).WithCause(err)
		}
		return err
	}
	return nil
}

// UpdateFields writes only the given columns (name, text, image, cooking_time).
func (r *RecipeRepository) UpdateFields(ctx context.Context, recipeID int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Recipe{ID: recipeID}).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("recipe not found")
	}
	return nil
}

// Delete removes the recipe and its lines. Interaction edges are removed by
// InteractionRepository.DeleteByRecipe in the same transaction.
func (r *RecipeRepository) Delete(ctx context.Context, recipeID int64) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&domain.RecipeIngredient{}).Error; err != nil {
		return err
	}
	res := db.Delete(&domain.Recipe{}, recipeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("recipe not found")
	}
	return nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

// GetBrief loads the recipe row without associations.
func (r *RecipeRepository) GetBrief(ctx context.Context, id int64) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if IsNotFound(err) {
			return nil, apperr.NotFound("recipe not found")
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns recipes newest first together with the filtered total.
func (r *RecipeRepository) List(ctx context.Context, f RecipeFilter) ([]domain.Recipe, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&domain.Recipe{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.applyFilter(r.withDetails(r.db.WithContext(ctx)), f).
		Order("recipes.pub_date DESC").
		Order("recipes.id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's recipes newest first without
// associations. limit 0 yields nothing; a negative limit means no cap.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	byAuthor, err := r.ListByAuthors(ctx, []int64{authorID}, limit)
	if err != nil {
		return nil, err
	}
	if recipes, ok := byAuthor[authorID]; ok {
		return recipes, nil
	}
	return []domain.Recipe{}, nil
}

// ListByAuthors is ListByAuthor for a batch of authors in one query. The
// limit applies per author; authors without recipes are absent from the map.
func (r *RecipeRepository) ListByAuthors(ctx context.Context, authorIDs []int64, limit int) (map[int64][]domain.Recipe, error) {
	out := make(map[int64][]domain.Recipe, len(authorIDs))
	if limit == 0 || len(authorIDs) == 0 {
		return out, nil
	}

	db := r.db.WithContext(ctx)
	q := db.
		Where("author_id IN ?", authorIDs).
		Order("author_id").
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		ranked := db.Model(&domain.Recipe{}).
			Select("id, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY pub_date DESC, id DESC) AS rn").
			Where("author_id IN ?", authorIDs)
		q = q.Where("id IN (?)", db.Table("(?) AS ranked", ranked).Select("id").Where("rn <= ?", limit))
	}

	var recipes []domain.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		out[rec.AuthorID] = append(out[rec.AuthorID], rec)
	}
	return out, nil
}

// CountByAuthors returns recipe counts keyed by author id; authors without
// recipes are absent from the map.
func (r *RecipeRepository) CountByAuthors(ctx context.Context, authorIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		AuthorID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.AuthorID] = row.Total
	}
	return out, nil
}

func (r *RecipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *RecipeRepository) applyFilter(q *gorm.DB, f RecipeFilter) *gorm.DB {
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if f.FavoritedBy != nil {
		q = q.Where("recipes.id IN (?)",
			r.db.Table(domain.KindFavorite.Table()).Select("recipe_id").Where("user_id = ?", *f.FavoritedBy))
	}
	if f.InCartOf != nil {
		q = q.Where("recipes.id IN (?)",
			r.db.Table(domain.KindShoppingCart.Table()).Select("recipe_id").Where("user_id = ?", *f.InCartOf))
	}
	return q
}
