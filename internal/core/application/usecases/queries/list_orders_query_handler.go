package queries

import (
	"context"
	"fmt"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// ListOrdersQueryHandler pages through non-deleted orders.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	var total int64
	err := h.applyFilters(h.db.WithContext(ctx).Model(&orderrepo.OrderDTO{}), query.Filter).
		Count(&total).Error
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	var dtos []orderrepo.OrderDTO
	err = h.applyFilters(h.db.WithContext(ctx).Model(&orderrepo.OrderDTO{}), query.Filter).
		Order(fmt.Sprintf("%s %s", query.SortBy, query.SortDir)).
		Offset((query.Page - 1) * query.Size).
		Limit(query.Size).
		Find(&dtos).Error
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	orders := make([]OrderSummaryResponse, 0, len(dtos))
	for _, dto := range dtos {
		summary, sumErr := summaryFromDTO(dto)
		if sumErr != nil {
			return ListOrdersQueryResponse{}, sumErr
		}
		orders = append(orders, summary)
	}

	pagination := PaginationResponse{
		Page:  query.Page,
		Size:  query.Size,
		Total: total,
	}
	if int64(query.Page)*int64(query.Size) < total {
		next := query.Page + 1
		pagination.NextPage = &next
	}

	return ListOrdersQueryResponse{Orders: orders, Pagination: pagination}, nil
}

func (h ListOrdersQueryHandler) applyFilters(db *gorm.DB, filter ListOrdersFilter) *gorm.DB {
	db = db.Scopes(orderrepo.NotDeleted)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.SalesChannel != "" {
		db = db.Where("sales_channel = ?", filter.SalesChannel)
	}
	if filter.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		db = db.Where("created_at <= ?", *filter.CreatedTo)
	}
	return db
}

func summaryFromDTO(dto orderrepo.OrderDTO) (OrderSummaryResponse, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return OrderSummaryResponse{}, err
	}

	return OrderSummaryResponse{
		ID:           id.String(),
		Reference:    dto.Reference,
		Status:       dto.Status,
		CustomerID:   dto.CustomerID,
		SalesChannel: dto.SalesChannel,
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
