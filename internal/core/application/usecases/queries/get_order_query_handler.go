package queries

import (
	"context"
	"encoding/json"
	"errors"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads a single order straight from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var dto orderrepo.OrderDTO
	err := h.db.WithContext(ctx).
		Scopes(orderrepo.NotDeleted).
		First(&dto, "id = ?", query.OrderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order_id", query.OrderID)
		}
		return GetOrderQueryResponse{}, err
	}

	var itemDTOs []orderrepo.ItemDTO
	err = h.db.WithContext(ctx).
		Where("order_id = ?", dto.ID).
		Order("position asc").
		Find(&itemDTOs).Error
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return orderResponseFromDTO(dto, itemDTOs)
}

func orderResponseFromDTO(dto orderrepo.OrderDTO, itemDTOs []orderrepo.ItemDTO) (GetOrderQueryResponse, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var reservationID *kernel.UUID
	if dto.ReservationID != nil {
		rID, resErr := kernel.UUIDFromBytes((*dto.ReservationID)[:])
		if resErr != nil {
			return GetOrderQueryResponse{}, resErr
		}
		reservationID = &rID
	}

	items := make([]OrderItemResponse, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemResponseFromDTO(itemDTO)
		if itemErr != nil {
			return GetOrderQueryResponse{}, itemErr
		}
		items = append(items, item)
	}

	return GetOrderQueryResponse{
		ID:                   id,
		Reference:            dto.Reference,
		Status:               dto.Status,
		CustomerID:           dto.CustomerID,
		SalesChannel:         dto.SalesChannel,
		ShippingAddress:      dto.ShippingAddress,
		BillingInfo:          dto.BillingInfo,
		Notes:                dto.Notes,
		PreferredWarehouseID: dto.PreferredWarehouseID,
		ReservationID:        reservationID,
		Items:                items,
		Totals: OrderTotalsResponse{
			Subtotal:   dto.Subtotal,
			Tax:        dto.Tax,
			Shipping:   dto.Shipping,
			Discounts:  dto.Discounts,
			GrandTotal: dto.GrandTotal,
		},
		Version:   dto.Version,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	}, nil
}

func itemResponseFromDTO(dto orderrepo.ItemDTO) (OrderItemResponse, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return OrderItemResponse{}, err
	}

	var meta map[string]any
	if len(dto.Meta) > 0 {
		if err = json.Unmarshal(dto.Meta, &meta); err != nil {
			return OrderItemResponse{}, err
		}
	}

	return OrderItemResponse{
		ID:         id,
		SKU:        dto.SKU,
		ProductID:  dto.ProductID,
		Quantity:   dto.Quantity,
		UnitPrice:  dto.UnitPrice,
		TotalPrice: dto.TotalPrice,
		Meta:       meta,
	}, nil
}
