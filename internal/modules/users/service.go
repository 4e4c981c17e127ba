package users

import (
	"context"
	"fmt"

	"foodgram/internal/domain"
	"foodgram/internal/modules/shared"
	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/imagedata"
	"foodgram/internal/pkg/pagination"
	"foodgram/internal/pkg/validator"
	"foodgram/internal/repository"

	"github.com/rs/zerolog"
)

const avatarFolder = "avatars"

// AllRecipes disables the recipes preview cap.
const AllRecipes = -1

type Service struct {
	users         *repository.UserRepository
	subscriptions *repository.SubscriptionRepository
	recipes       *repository.RecipeRepository
	images        ImageStore
	maxImageBytes int
	log           zerolog.Logger
}

type Deps struct {
	Users         *repository.UserRepository
	Subscriptions *repository.SubscriptionRepository
	Recipes       *repository.RecipeRepository
	Images        ImageStore
	MaxImageBytes int
	Log           zerolog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		users:         d.Users,
		subscriptions: d.Subscriptions,
		recipes:       d.Recipes,
		images:        d.Images,
		maxImageBytes: d.MaxImageBytes,
		log:           d.Log,
	}
}

// Register создаёт профиль. Занятые email/username отдаются как
// ValidationError с деталями по полям; гонка на вставке — Conflict.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*shared.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	emailTaken, usernameTaken, err := s.users.Taken(ctx, req.Email, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check user uniqueness: %w", err)
	}
	if emailTaken || usernameTaken {
		details := map[string]string{}
		if emailTaken {
			details["email"] = "user with this email already exists"
		}
		if usernameTaken {
			details["username"] = "user with this username already exists"
		}
		return nil, apperr.ValidationWithDetails("user already exists", details)
	}

	u := &domain.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	resp := shared.NewUserResponse(u, false)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, viewerID, userID int64) (*shared.UserResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	subscribed := false
	if viewerID > 0 && viewerID != userID {
		if subscribed, err = s.subscriptions.Exists(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}

	resp := shared.NewUserResponse(u, subscribed)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, viewerID int64, p pagination.Params) (pagination.Page[shared.UserResponse], error) {
	users, total, err := s.users.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return pagination.Page[shared.UserResponse]{}, err
	}

	var subscribed map[int64]bool
	if viewerID > 0 && len(users) > 0 {
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		if subscribed, err = s.subscriptions.SubscribedTo(ctx, viewerID, ids); err != nil {
			return pagination.Page[shared.UserResponse]{}, err
		}
	}

	out := make([]shared.UserResponse, len(users))
	for i := range users {
		out[i] = shared.NewUserResponse(&users[i], subscribed[users[i].ID])
	}
	return pagination.NewPage(out, total, p), nil
}

// Me returns the current user with their own recipes.
func (s *Service) Me(ctx context.Context, userID int64, recipesLimit int) (*AuthorResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.author(ctx, u, false, recipesLimit)
}

func (s *Service) SetAvatar(ctx context.Context, userID int64, req AvatarRequest) (*AvatarResponse, error) {
	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	img, err := imagedata.Decode(req.Avatar, s.maxImageBytes)
	if err != nil {
		return nil, err
	}
	url, err := s.images.Save(ctx, avatarFolder, img)
	if err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	if err := s.users.UpdateAvatar(ctx, userID, &url); err != nil {
		s.dropImage(ctx, url)
		return nil, err
	}
	if u.Avatar != nil {
		s.dropImage(ctx, *u.Avatar)
	}
	return &AvatarResponse{Avatar: url}, nil
}

func (s *Service) DeleteAvatar(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.users.UpdateAvatar(ctx, userID, nil); err != nil {
		return err
	}
	if u.Avatar != nil {
		s.dropImage(ctx, *u.Avatar)
	}
	return nil
}

// Follow подписывает userID на authorID и возвращает автора с превью рецептов.
func (s *Service) Follow(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorResponse, error) {
	if userID == authorID {
		return nil, ErrSelfSubscribe
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.subscriptions.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}
	if err := s.subscriptions.Create(ctx, userID, authorID); err != nil {
		return nil, err
	}

	return s.author(ctx, author, true, recipesLimit)
}

func (s *Service) Unfollow(ctx context.Context, userID, authorID int64) error {
	return s.subscriptions.Delete(ctx, userID, authorID)
}

// Subscriptions lists followed authors, each with a capped recipes preview.
func (s *Service) Subscriptions(ctx context.Context, userID int64, p pagination.Params, recipesLimit int) (pagination.Page[AuthorResponse], error) {
	authors, total, err := s.subscriptions.ListAuthors(ctx, userID, p.Limit, p.Offset())
	if err != nil {
		return pagination.Page[AuthorResponse]{}, err
	}

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return pagination.Page[AuthorResponse]{}, err
	}
	previews, err := s.recipes.ListByAuthors(ctx, ids, recipesLimit)
	if err != nil {
		return pagination.Page[AuthorResponse]{}, err
	}

	out := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		out = append(out, AuthorResponse{
			UserResponse: shared.NewUserResponse(&authors[i], true),
			Recipes:      shared.NewRecipeMinifiedList(previews[authors[i].ID]),
			RecipesCount: counts[authors[i].ID],
		})
	}
	return pagination.NewPage(out, total, p), nil
}

func (s *Service) author(ctx context.Context, u *domain.User, subscribed bool, recipesLimit int) (*AuthorResponse, error) {
	recipes, err := s.recipes.ListByAuthor(ctx, u.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	counts, err := s.recipes.CountByAuthors(ctx, []int64{u.ID})
	if err != nil {
		return nil, err
	}

	return &AuthorResponse{
		UserResponse: shared.NewUserResponse(u, subscribed),
		Recipes:      shared.NewRecipeMinifiedList(recipes),
		RecipesCount: counts[u.ID],
	}, nil
}

func (s *Service) dropImage(ctx context.Context, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		s.log.Warn().Err(err).Str("image", url).Msg("failed to delete avatar")
	}
}
