package mixes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/internal/catalog"
	"github.com/sofiaibarra/blendery-backend/internal/points"
	product "github.com/sofiaibarra/blendery-backend/internal/products"
	dbpkg "github.com/sofiaibarra/blendery-backend/pkg/db"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
	"github.com/sofiaibarra/blendery-backend/pkg/outbox"
	"github.com/sofiaibarra/blendery-backend/pkg/outbox/payloads"
	"github.com/sofiaibarra/blendery-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// CreateMixInput is the validated payload for a new mix.
type CreateMixInput struct {
	Name        string
	Description *string
	Story       *string
	ImageURL    *string
	PackagingID uuid.UUID
	Items       []models.MixItem
}

// UpdateMixInput carries editable mix fields; nil leaves a field untouched.
type UpdateMixInput struct {
	Name        *string
	Description *string
	Story       *string
	ImageURL    *string
	PackagingID *uuid.UUID
	Items       []models.MixItem
}

// Service owns the mix lifecycle: compose, quote, publish, delete, like.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateMixInput) (*MixDTO, error)
	Update(ctx context.Context, userID, mixID uuid.UUID, input UpdateMixInput) (*MixDTO, error)
	Get(ctx context.Context, userID, mixID uuid.UUID) (*MixDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]MixDTO, error)
	ListPublished(ctx context.Context, limit int, cursor string) (*MixListResult, error)
	SetItemWeight(ctx context.Context, userID, mixID, ingredientID uuid.UUID, weightGrams int) (*MixDTO, error)
	Quote(ctx context.Context, userID, mixID uuid.UUID) (*QuoteDTO, error)
	Publish(ctx context.Context, userID, mixID uuid.UUID) (*MixDTO, error)
	Delete(ctx context.Context, userID, mixID uuid.UUID) error
	Like(ctx context.Context, userID, mixID uuid.UUID) error
	Unlike(ctx context.Context, userID, mixID uuid.UUID) error
}

type service struct {
	repo         Repository
	catalogRepo  catalog.Repository
	pointsSvc    points.Service
	productSvc   product.Service
	outboxSvc    outboxEmitter
	tx           txRunner
	logg         *logger.Logger
	publishBonus int
}

// NewService wires the mix service and its collaborators.
func NewService(
	repo Repository,
	catalogRepo catalog.Repository,
	pointsSvc points.Service,
	productSvc product.Service,
	outboxSvc outboxEmitter,
	tx txRunner,
	logg *logger.Logger,
	publishBonus int,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mix repository required")
	}
	if catalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if pointsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "points service required")
	}
	if productSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product service required")
	}
	if outboxSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "outbox service required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:         repo,
		catalogRepo:  catalogRepo,
		pointsSvc:    pointsSvc,
		productSvc:   productSvc,
		outboxSvc:    outboxSvc,
		tx:           tx,
		logg:         logg,
		publishBonus: publishBonus,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateMixInput) (*MixDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mix name required")
	}

	packaging, err := s.packaging(ctx, input.PackagingID)
	if err != nil {
		return nil, err
	}
	if err := ValidateComposition(input.Items, packaging.CapacityGrams); err != nil {
		return nil, err
	}

	mix := &models.Mix{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Story:       input.Story,
		ImageURL:    input.ImageURL,
		PackagingID: packaging.ID,
		Status:      enums.MixStatusFavorite,
	}
	if err := mix.SetItems(input.Items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode composition")
	}
	if err := s.repo.Create(ctx, mix); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create mix")
	}
	return FromModel(mix), nil
}

func (s *service) Update(ctx context.Context, userID, mixID uuid.UUID, input UpdateMixInput) (*MixDTO, error) {
	mix, err := s.ownedMix(ctx, userID, mixID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "mix name cannot be empty")
		}
		mix.Name = *input.Name
	}
	if input.Description != nil {
		mix.Description = input.Description
	}
	if input.Story != nil {
		mix.Story = input.Story
	}
	if input.ImageURL != nil {
		mix.ImageURL = input.ImageURL
	}
	if input.PackagingID != nil {
		mix.PackagingID = *input.PackagingID
	}

	packaging, err := s.packaging(ctx, mix.PackagingID)
	if err != nil {
		return nil, err
	}

	items, err := mix.Items()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode composition")
	}
	if input.Items != nil {
		items = input.Items
	}
	if err := ValidateComposition(items, packaging.CapacityGrams); err != nil {
		return nil, err
	}
	if err := mix.SetItems(items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode composition")
	}

	if err := s.repo.Update(ctx, mix); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update mix")
	}
	return FromModel(mix), nil
}

func (s *service) Get(ctx context.Context, userID, mixID uuid.UUID) (*MixDTO, error) {
	mix, err := s.repo.GetByID(ctx, mixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mix not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load mix")
	}
	if mix.Status != enums.MixStatusPublished && mix.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "mix belongs to another user")
	}
	return FromModel(mix), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]MixDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mixes")
	}
	out := make([]MixDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) ListPublished(ctx context.Context, limit int, rawCursor string) (*MixListResult, error) {
	var cursor *pagination.Cursor
	if rawCursor != "" {
		parsed, err := pagination.ParseCursor(rawCursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	rows, next, err := s.repo.ListPublished(ctx, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list published mixes")
	}

	result := &MixListResult{Items: make([]MixDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *FromModel(&rows[i]))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) SetItemWeight(ctx context.Context, userID, mixID, ingredientID uuid.UUID, weightGrams int) (*MixDTO, error) {
	mix, err := s.ownedMix(ctx, userID, mixID)
	if err != nil {
		return nil, err
	}

	packaging, err := s.packaging(ctx, mix.PackagingID)
	if err != nil {
		return nil, err
	}
	items, err := mix.Items()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode composition")
	}

	updated, stored, err := SetItemWeight(items, ingredientID, weightGrams, packaging.CapacityGrams)
	if err != nil {
		return nil, err
	}
	if err := mix.SetItems(updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode composition")
	}
	if err := s.repo.Update(ctx, mix); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update mix")
	}

	if stored != weightGrams && stored > 0 {
		logCtx := s.logg.WithMixID(ctx, mix.ID.String())
		s.logg.Info(logCtx, "edited weight clamped to packaging capacity")
	}
	return FromModel(mix), nil
}

// Quote prices the mix from the current catalog. Hidden or deleted
// ingredients silently contribute nothing.
func (s *service) Quote(ctx context.Context, userID, mixID uuid.UUID) (*QuoteDTO, error) {
	mix, err := s.repo.GetByID(ctx, mixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mix not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load mix")
	}
	if mix.Status != enums.MixStatusPublished && mix.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "mix belongs to another user")
	}

	totals, err := s.totals(ctx, mix)
	if err != nil {
		return nil, err
	}
	return &QuoteDTO{
		MixID:        mix.ID,
		Price:        totals.Price,
		PricePoints:  totals.PricePoints,
		PointsEarned: totals.PointsEarned,
	}, nil
}

// Publish moves a favorite mix into the shop: status flip, public product,
// one-time publish bonus and the outbox event, all in one transaction.
// Retrying a half-failed publish is safe.
func (s *service) Publish(ctx context.Context, userID, mixID uuid.UUID) (*MixDTO, error) {
	mix, err := s.ownedMix(ctx, userID, mixID)
	if err != nil {
		return nil, err
	}
	if mix.Status != enums.MixStatusFavorite && mix.Status != enums.MixStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only favorite mixes can be published")
	}

	totals, err := s.totals(ctx, mix)
	if err != nil {
		return nil, err
	}

	var productID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if mix.Status != enums.MixStatusPublished {
			if err := s.repo.WithTx(tx).UpdateStatus(ctx, mix.ID, enums.MixStatusPublished); err != nil {
				return err
			}
		}

		shopProduct, err := s.productSvc.EnsurePublicProduct(ctx, tx, mix, totals)
		if err != nil {
			return err
		}
		productID = shopProduct.ID

		bonus := decimal.NewFromInt(int64(s.publishBonus))
		mixRef := mix.ID
		if _, err := s.pointsSvc.AwardOnce(ctx, tx, points.AdjustInput{
			UserID:      userID,
			Delta:       bonus,
			Type:        enums.PointsTxBonus,
			ReferenceID: &mixRef,
			Notes:       "mix publish bonus",
		}); err != nil {
			return err
		}

		return s.outboxSvc.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventMixPublished,
			AggregateType: enums.OutboxAggregateMix,
			AggregateID:   mix.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.MixPublishedEvent{
				MixID:         mix.ID,
				OwnerUserID:   mix.UserID,
				ShopProductID: productID,
				Name:          mix.Name,
				Price:         totals.Price,
				PricePoints:   totals.PricePoints,
				PublishedAt:   time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	mix.Status = enums.MixStatusPublished
	logCtx := s.logg.WithMixID(ctx, mix.ID.String())
	s.logg.Info(logCtx, "mix published")
	return FromModel(mix), nil
}

// Delete removes the mix row. Deleting a published mix additionally queues
// the mix.deleted event; admins are notified by the event consumer.
func (s *service) Delete(ctx context.Context, userID, mixID uuid.UUID) error {
	mix, err := s.ownedMix(ctx, userID, mixID)
	if err != nil {
		return err
	}
	wasPublished := mix.Status == enums.MixStatusPublished

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, mix.ID); err != nil {
			return err
		}
		if !wasPublished {
			return nil
		}
		return s.outboxSvc.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventMixDeleted,
			AggregateType: enums.OutboxAggregateMix,
			AggregateID:   mix.ID,
			Actor:         &outbox.ActorRef{UserID: userID},
			Data: payloads.MixDeletedEvent{
				MixID:       mix.ID,
				OwnerUserID: mix.UserID,
				Name:        mix.Name,
				DeletedAt:   time.Now().UTC(),
			},
		})
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete mix")
	}

	logCtx := s.logg.WithMixID(ctx, mix.ID.String())
	s.logg.Info(logCtx, "mix deleted")
	return nil
}

// Like records the like and bumps the counter. Counter failures are logged,
// never surfaced.
func (s *service) Like(ctx context.Context, userID, mixID uuid.UUID) error {
	mix, err := s.repo.GetByID(ctx, mixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "mix not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load mix")
	}
	if mix.Status != enums.MixStatusPublished {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only published mixes can be liked")
	}

	like := &models.MixLike{MixID: mixID, UserID: userID}
	if err := s.repo.CreateLike(ctx, like); err != nil {
		if dbpkg.IsUniqueViolation(err, "mix_likes_mix_user_key") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create like")
	}

	if err := s.repo.AdjustLikeCount(ctx, mixID, 1); err != nil {
		logCtx := s.logg.WithMixID(ctx, mixID.String())
		s.logg.Error(logCtx, "like counter bump failed", err)
	}
	return nil
}

func (s *service) Unlike(ctx context.Context, userID, mixID uuid.UUID) error {
	removed, err := s.repo.DeleteLike(ctx, mixID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete like")
	}
	if !removed {
		return nil
	}
	if err := s.repo.AdjustLikeCount(ctx, mixID, -1); err != nil {
		logCtx := s.logg.WithMixID(ctx, mixID.String())
		s.logg.Error(logCtx, "like counter decrement failed", err)
	}
	return nil
}

func (s *service) ownedMix(ctx context.Context, userID, mixID uuid.UUID) (*models.Mix, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	mix, err := s.repo.GetByID(ctx, mixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mix not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load mix")
	}
	if mix.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "mix belongs to another user")
	}
	return mix, nil
}

func (s *service) packaging(ctx context.Context, id uuid.UUID) (*models.Packaging, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "packaging id required")
	}
	packaging, err := s.catalogRepo.GetPackaging(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "packaging not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load packaging")
	}
	return packaging, nil
}

func (s *service) totals(ctx context.Context, mix *models.Mix) (points.Totals, error) {
	items, err := mix.Items()
	if err != nil {
		return points.Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode composition")
	}
	packaging, err := s.packaging(ctx, mix.PackagingID)
	if err != nil {
		return points.Totals{}, err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.IngredientID)
	}
	ingredients, err := s.catalogRepo.GetVisibleIngredientsByIDs(ctx, ids)
	if err != nil {
		return points.Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ingredients")
	}
	return points.ComputeTotals(items, packaging, ingredients), nil
}
