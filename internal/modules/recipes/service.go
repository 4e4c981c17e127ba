package recipes

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/pkg/imagedata"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type Service struct {
	tx            *repository.Transactor
	recipes       *repository.RecipeRepository
	ingredients   *repository.IngredientRepository
	interactions  *repository.InteractionRepository
	subscriptions *repository.SubscriptionRepository
	images        ImageStore
	maxImageBytes int
	log           zerolog.Logger
}

type Deps struct {
	Transactor    *repository.Transactor
	Recipes       *repository.RecipeRepository
	Ingredients   *repository.IngredientRepository
	Interactions  *repository.InteractionRepository
	Subscriptions *repository.SubscriptionRepository
	Images        ImageStore
	MaxImageBytes int
	Log           zerolog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		tx:            d.Transactor,
		recipes:       d.Recipes,
		ingredients:   d.Ingredients,
		interactions:  d.Interactions,
		subscriptions: d.Subscriptions,
		images:        d.Images,
		maxImageBytes: d.MaxImageBytes,
		log:           d.Log,
	}
}

// Create сохраняет рецепт и его ингредиенты одной транзакцией.
func (s *Service) Create(ctx context.Context, authorID int64, req CreateRecipeRequest) (*RecipeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	img, err := imagedata.Decode(req.Image, s.maxImageBytes)
	if err != nil {
		return nil, err
	}
	imageURL, err := s.images.Save(ctx, imageFolder, img)
	if err != nil {
		return nil, fmt.Errorf("save recipe image: %w", err)
	}

	recipe := &domain.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       imageURL,
		CookingTime: req.CookingTime,
	}

	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.ensureIngredients(ctx, tx, lineIDs(req.Ingredients)); err != nil {
			return err
		}
		recipes := s.recipes.WithTx(tx)
		if err := recipes.Insert(ctx, recipe); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		return recipes.ReplaceIngredients(ctx, recipe.ID, toDomainLines(req.Ingredients))
	})
	if err != nil {
		s.dropImage(ctx, imageURL)
		return nil, err
	}

	return s.Get(ctx, authorID, recipe.ID)
}

// Update меняет только переданные поля. Ingredients, если переданы,
// заменяются целиком в той же транзакции.
func (s *Service) Update(ctx context.Context, userID, recipeID int64, req UpdateRecipeRequest) (*RecipeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.recipes.GetBrief(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !current.IsAuthor(userID) {
		return nil, ErrNotAuthor
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	if req.CookingTime != nil {
		fields["cooking_time"] = *req.CookingTime
	}

	var newImage string
	if req.Image != nil {
		img, err := imagedata.Decode(*req.Image, s.maxImageBytes)
		if err != nil {
			return nil, err
		}
		if newImage, err = s.images.Save(ctx, imageFolder, img); err != nil {
			return nil, fmt.Errorf("save recipe image: %w", err)
		}
		fields["image"] = newImage
	}

	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		recipes := s.recipes.WithTx(tx)
		if req.Ingredients != nil {
			if err := s.ensureIngredients(ctx, tx, lineIDs(*req.Ingredients)); err != nil {
				return err
			}
			if err := recipes.ReplaceIngredients(ctx, recipeID, toDomainLines(*req.Ingredients)); err != nil {
				return err
			}
		}
		return recipes.UpdateFields(ctx, recipeID, fields)
	})
	if err != nil {
		if newImage != "" {
			s.dropImage(ctx, newImage)
		}
		return nil, err
	}

	if newImage != "" && current.Image != newImage {
		s.dropImage(ctx, current.Image)
	}
	return s.Get(ctx, userID, recipeID)
}

// Delete удаляет рецепт вместе со строками, избранным и корзиной.
func (s *Service) Delete(ctx context.Context, userID, recipeID int64) error {
	current, err := s.recipes.GetBrief(ctx, recipeID)
	if err != nil {
		return err
	}
	if !current.IsAuthor(userID) {
		return ErrNotAuthor
	}

	err = s.tx.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.interactions.WithTx(tx).DeleteByRecipe(ctx, recipeID); err != nil {
			return err
		}
		return s.recipes.WithTx(tx).Delete(ctx, recipeID)
	})
	if err != nil {
		return err
	}

	s.dropImage(ctx, current.Image)
	return nil
}

// Get returns one recipe with flags for the viewer (0 means anonymous).
func (s *Service) Get(ctx context.Context, viewerID, recipeID int64) (*RecipeResponse, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	var flags viewerFlags
	if viewerID > 0 {
		if flags.favorited, err = s.interactions.Exists(ctx, domain.KindFavorite, viewerID, recipeID); err != nil {
			return nil, err
		}
		if flags.inCart, err = s.interactions.Exists(ctx, domain.KindShoppingCart, viewerID, recipeID); err != nil {
			return nil, err
		}
		if flags.subscribed, err = s.subscriptions.Exists(ctx, viewerID, recipe.AuthorID); err != nil {
			return nil, err
		}
	}

	resp := toRecipeResponse(recipe, flags)
	return &resp, nil
}

// List returns a page of recipes, newest first. Favorite and cart filters
// are ignored for anonymous viewers.
func (s *Service) List(ctx context.Context, viewerID int64, q ListQuery, p pagination.Params) (pagination.Page[RecipeResponse], error) {
	filter := repository.RecipeFilter{
		AuthorID: q.AuthorID,
		Limit:    p.Limit,
		Offset:   p.Offset(),
	}
	if viewerID > 0 {
		if q.IsFavorited {
			filter.FavoritedBy = &viewerID
		}
		if q.IsInShoppingCart {
			filter.InCartOf = &viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter)
	if err != nil {
		return pagination.Page[RecipeResponse]{}, err
	}

	var favorited, inCart, subscribed map[int64]bool
	if viewerID > 0 && len(recipes) > 0 {
		recipeIDs := make([]int64, len(recipes))
		authorIDs := make([]int64, 0, len(recipes))
		for i, r := range recipes {
			recipeIDs[i] = r.ID
			authorIDs = append(authorIDs, r.AuthorID)
		}

		if favorited, err = s.interactions.ExistingRecipeIDs(ctx, domain.KindFavorite, viewerID, recipeIDs); err != nil {
			return pagination.Page[RecipeResponse]{}, err
		}
		if inCart, err = s.interactions.ExistingRecipeIDs(ctx, domain.KindShoppingCart, viewerID, recipeIDs); err != nil {
			return pagination.Page[RecipeResponse]{}, err
		}
		if subscribed, err = s.subscriptions.SubscribedTo(ctx, viewerID, authorIDs); err != nil {
			return pagination.Page[RecipeResponse]{}, err
		}
	}

	out := make([]RecipeResponse, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		out[i] = toRecipeResponse(r, viewerFlags{
			favorited:  favorited[r.ID],
			inCart:     inCart[r.ID],
			subscribed: subscribed[r.AuthorID],
		})
	}
	return pagination.NewPage(out, total, p), nil
}

func (s *Service) ensureIngredients(ctx context.Context, tx *gorm.DB, ids []int64) error {
	missing, err := s.ingredients.WithTx(tx).MissingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("check ingredients: %w", err)
	}
	if len(missing) > 0 {
		return unknownIngredients(missing)
	}
	return nil
}

func (s *Service) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.log.Warn().Err(err).Str("image", url).Msg("failed to delete recipe image")
	}
}
