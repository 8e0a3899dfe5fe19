package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sofiaibarra/blendery-backend/internal/catalog"
	"github.com/sofiaibarra/blendery-backend/internal/mixes"
	"github.com/sofiaibarra/blendery-backend/internal/points"
	product "github.com/sofiaibarra/blendery-backend/internal/products"
	"github.com/sofiaibarra/blendery-backend/pkg/db/models"
	"github.com/sofiaibarra/blendery-backend/pkg/enums"
	pkgerrors "github.com/sofiaibarra/blendery-backend/pkg/errors"
	"github.com/sofiaibarra/blendery-backend/pkg/logger"
	"github.com/sofiaibarra/blendery-backend/pkg/outbox"
	"github.com/sofiaibarra/blendery-backend/pkg/outbox/payloads"
)

const orderCompletionConsumer = "order-completion"

// PurchaseInput is the validated payload for a mix purchase.
type PurchaseInput struct {
	MixID    uuid.UUID
	Quantity int
}

// Service owns the minimal order lifecycle: purchase, completion, points
// payment.
type Service interface {
	PurchaseMix(ctx context.Context, buyerID uuid.UUID, input PurchaseInput) (*OrderDTO, error)
	CompleteOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	PayWithPoints(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

type service struct {
	repo        Repository
	mixRepo     mixes.Repository
	catalogRepo catalog.Repository
	productSvc  product.Service
	productRepo product.Repository
	pointsSvc   points.Service
	outboxSvc   outboxPublisher
	marker      completionMarker
	tx          txRunner
	logg        *logger.Logger
	commission  int
}

// NewService wires the order service and its collaborators.
func NewService(
	repo Repository,
	mixRepo mixes.Repository,
	catalogRepo catalog.Repository,
	productSvc product.Service,
	productRepo product.Repository,
	pointsSvc points.Service,
	outboxSvc outboxPublisher,
	marker completionMarker,
	tx txRunner,
	logg *logger.Logger,
	commission int,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order repository required")
	}
	if mixRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mix repository required")
	}
	if catalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if productSvc == nil || productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product service required")
	}
	if pointsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "points service required")
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
		repo:        repo,
		mixRepo:     mixRepo,
		catalogRepo: catalogRepo,
		productSvc:  productSvc,
		productRepo: productRepo,
		pointsSvc:   pointsSvc,
		outboxSvc:   outboxSvc,
		marker:      marker,
		tx:          tx,
		logg:        logg,
		commission:  commission,
	}, nil
}

// PurchaseMix prices the mix from the current catalog, finds or creates the
// buyer's private product copy and opens a pending order for it.
func (s *service) PurchaseMix(ctx context.Context, buyerID uuid.UUID, input PurchaseInput) (*OrderDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	mix, err := s.mixRepo.GetByID(ctx, input.MixID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mix not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load mix")
	}
	if mix.Status != enums.MixStatusPublished && mix.UserID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "mix is not purchasable")
	}

	totals, err := s.totals(ctx, mix)
	if err != nil {
		return nil, err
	}

	qty := decimal.NewFromInt(int64(quantity))
	order := &models.Order{
		UserID:            buyerID,
		Status:            enums.OrderStatusPending,
		TotalPrice:        totals.Price.Mul(qty),
		TotalPricePoints:  totals.PricePoints.Mul(qty),
		TotalPointsEarned: totals.PointsEarned.Mul(qty),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		shopProduct, err := s.productSvc.FindOrCreatePrivate(ctx, tx, mix, buyerID, totals)
		if err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		return repo.CreateLineItems(ctx, []models.OrderLineItem{{
			OrderID:          order.ID,
			ProductID:        shopProduct.ID,
			MixID:            mix.ID,
			Quantity:         quantity,
			UnitPrice:        totals.Price,
			UnitPricePoints:  totals.PricePoints,
			UnitPointsEarned: totals.PointsEarned,
		}})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(logCtx, "order created")
	return FromModel(order), nil
}

// CompleteOrder finalizes a pending order: the buyer earns the order's
// points, the mix publisher earns a sale commission when someone else
// bought, and the order.completed event is queued. Calling it again on a
// completed order is a no-op.
func (s *service) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	// Redis fast path; the ledger's already-awarded check stays the source
	// of truth when the marker is missing or stale.
	marked := false
	if s.marker != nil {
		already, err := s.marker.CheckAndMarkProcessed(ctx, orderCompletionConsumer, orderID)
		if err != nil {
			logCtx := s.logg.WithOrderID(ctx, orderID.String())
			s.logg.Error(logCtx, "completion marker unavailable", err)
		} else if already {
			order, err := s.repo.GetByID(ctx, orderID)
			if err == nil && order.Status == enums.OrderStatusCompleted {
				return FromModel(order), nil
			}
		} else {
			marked = true
		}
	}

	var completed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return err
		}
		if order.Status == enums.OrderStatusCanceled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is canceled")
		}

		if order.Status != enums.OrderStatusCompleted {
			now := time.Now().UTC()
			order.Status = enums.OrderStatusCompleted
			order.CompletedAt = &now
			if err := repo.MarkCompleted(ctx, order); err != nil {
				return err
			}
		}

		orderRef := order.ID
		if _, err := s.pointsSvc.AwardOnce(ctx, tx, points.AdjustInput{
			UserID:      order.UserID,
			Delta:       order.TotalPointsEarned,
			Type:        enums.PointsTxPurchase,
			ReferenceID: &orderRef,
			Notes:       "order completion award",
		}); err != nil {
			return err
		}

		if err := s.awardCommission(ctx, tx, order); err != nil {
			return err
		}

		if err := s.outboxSvc.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderCompleted,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCompletedEvent{
				OrderID:           order.ID,
				BuyerUserID:       order.UserID,
				TotalPrice:        order.TotalPrice,
				TotalPointsEarned: order.TotalPointsEarned,
				PaidWithPoints:    order.PaidWithPoints,
				CompletedAt:       *order.CompletedAt,
			},
		}); err != nil {
			return err
		}

		completed = order
		return nil
	})
	if err != nil {
		if marked {
			_ = s.marker.Delete(ctx, orderCompletionConsumer, orderID)
		}
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(logCtx, "order completed")
	return FromModel(completed), nil
}

// awardCommission pays the mix publisher when the buyer is someone else.
// The publisher is read from the line item's product; a product that has
// since disappeared just skips the commission.
func (s *service) awardCommission(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if s.commission <= 0 {
		return nil
	}
	items, err := s.repo.WithTx(tx).FindLineItems(ctx, order.ID)
	if err != nil {
		return err
	}
	productRepo := s.productRepo.WithTx(tx)
	seen := map[uuid.UUID]struct{}{}
	for _, item := range items {
		shopProduct, err := productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logCtx := s.logg.WithOrderID(ctx, order.ID.String())
				s.logg.Warn(logCtx, "line item product missing, skipping commission")
				continue
			}
			return err
		}
		if shopProduct.OwnerUserID == order.UserID {
			continue
		}
		if _, dup := seen[shopProduct.OwnerUserID]; dup {
			continue
		}
		seen[shopProduct.OwnerUserID] = struct{}{}

		orderRef := order.ID
		if _, err := s.pointsSvc.AwardOnce(ctx, tx, points.AdjustInput{
			UserID:      shopProduct.OwnerUserID,
			Delta:       decimal.NewFromInt(int64(s.commission)),
			Type:        enums.PointsTxMixSaleCommission,
			ReferenceID: &orderRef,
			Notes:       "mix sale commission",
		}); err != nil {
			return err
		}
	}
	return nil
}

// PayWithPoints debits the order's point price from the buyer. The balance
// check happens here, before the mutator: an insufficient balance rejects
// the payment instead of clamping it.
func (s *service) PayWithPoints(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	// Ownership and state are re-checked under the row lock below; this
	// read only exists to fail fast without opening a transaction.
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	if order.PaidWithPoints {
		return FromModel(order), nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err = repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be paid")
		}
		if order.PaidWithPoints {
			// Lost the race to a concurrent payment; nothing left to do.
			return nil
		}

		balance, err := s.pointsSvc.BalanceTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if balance.LessThan(order.TotalPricePoints) {
			return pkgerrors.New(pkgerrors.CodeInsufficientPoints, "balance too low for this order")
		}

		orderRef := order.ID
		if _, err := s.pointsSvc.AdjustTx(ctx, tx, points.AdjustInput{
			UserID:      userID,
			Delta:       order.TotalPricePoints.Neg(),
			Type:        enums.PointsTxOrderPayment,
			ReferenceID: &orderRef,
			Notes:       "order paid with points",
		}); err != nil {
			return err
		}
		if err := repo.MarkPaidWithPoints(ctx, order.ID); err != nil {
			return err
		}
		order.PaidWithPoints = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(logCtx, "order paid with points")
	return FromModel(order), nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}

	dto := FromModel(order)
	items, err := s.repo.FindLineItems(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line items")
	}
	dto.LineItems = lineItemsFromModels(items)
	return dto, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) totals(ctx context.Context, mix *models.Mix) (points.Totals, error) {
	items, err := mix.Items()
	if err != nil {
		return points.Totals{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode composition")
	}
	packaging, err := s.catalogRepo.GetPackaging(ctx, mix.PackagingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return points.Totals{}, pkgerrors.New(pkgerrors.CodeNotFound, "packaging not found")
		}
		return points.Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load packaging")
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
