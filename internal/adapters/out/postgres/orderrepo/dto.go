// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository contract for the order
// aggregate, converting between domain entities and their relational
// representation.
package orderrepo

import (
	"encoding/json"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order
// aggregates. The version column carries the optimistic-concurrency counter
// checked by Update; deleted rows stay in place for the audit trail.
type OrderDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Reference            string          `gorm:"index"`
	Status               string          `gorm:"type:varchar(16);index;not null"`
	CustomerID           string          `gorm:"index"`
	SalesChannel         string          `gorm:"index"`
	Subtotal             decimal.Decimal `gorm:"type:numeric(14,2)"`
	Tax                  decimal.Decimal `gorm:"type:numeric(14,2)"`
	Shipping             decimal.Decimal `gorm:"type:numeric(14,2)"`
	Discounts            decimal.Decimal `gorm:"type:numeric(14,2)"`
	GrandTotal           decimal.Decimal `gorm:"type:numeric(14,2)"`
	ShippingAddress      string
	BillingInfo          string
	Notes                string
	PreferredWarehouseID string
	ReservationID        *uuid.UUID `gorm:"type:uuid"`
	Version              int64      `gorm:"not null"`
	Deleted              bool       `gorm:"not null;default:false;index"`
	CreatedAt            time.Time  `gorm:"index"`
	UpdatedAt            time.Time
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line item. Position preserves insertion
// order across the delete-and-reinsert item sync.
type ItemDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Position   int       `gorm:"not null"`
	SKU        string    `gorm:"not null"`
	ProductID  string
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,2)"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2)"`
	Meta       []byte          `gorm:"type:jsonb"`
}

// TableName overrides GORM's default naming convention.
func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) (OrderDTO, []ItemDTO, error) {
	var reservationID *uuid.UUID
	if id := aggregate.ReservationID(); id != nil {
		raw := id.Bytes()
		reservationID = &raw
	}

	totals := aggregate.Totals()
	dto := OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		Reference:            aggregate.Reference(),
		Status:               aggregate.Status().String(),
		CustomerID:           aggregate.CustomerID(),
		SalesChannel:         aggregate.SalesChannel(),
		Subtotal:             totals.Subtotal,
		Tax:                  totals.Tax,
		Shipping:             totals.Shipping,
		Discounts:            totals.Discounts,
		GrandTotal:           totals.GrandTotal,
		ShippingAddress:      aggregate.ShippingAddress(),
		BillingInfo:          aggregate.BillingInfo(),
		Notes:                aggregate.Notes(),
		PreferredWarehouseID: aggregate.PreferredWarehouseID(),
		ReservationID:        reservationID,
		Version:              aggregate.Version(),
		Deleted:              aggregate.IsDeleted(),
		CreatedAt:            aggregate.CreatedAt(),
		UpdatedAt:            aggregate.UpdatedAt(),
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for position, item := range aggregate.Items() {
		itemDTO, err := itemFromDomain(aggregate.ID(), position, item)
		if err != nil {
			return OrderDTO{}, nil, err
		}
		items = append(items, itemDTO)
	}

	return dto, items, nil
}

func itemFromDomain(orderID kernel.UUID, position int, item order.Item) (ItemDTO, error) {
	var meta []byte
	if item.Meta() != nil {
		raw, err := json.Marshal(item.Meta())
		if err != nil {
			return ItemDTO{}, err
		}
		meta = raw
	}

	return ItemDTO{
		ID:         item.ID().Bytes(),
		OrderID:    orderID.Bytes(),
		Position:   position,
		SKU:        item.SKU(),
		ProductID:  item.ProductID(),
		Quantity:   item.Quantity(),
		UnitPrice:  item.UnitPrice(),
		TotalPrice: item.TotalPrice(),
		Meta:       meta,
	}, nil
}

func toDomain(dto OrderDTO, itemDTOs []ItemDTO, policy order.TotalsPolicy) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var reservationID *kernel.UUID
	if dto.ReservationID != nil {
		rID, resErr := kernel.UUIDFromBytes((*dto.ReservationID)[:])
		if resErr != nil {
			return nil, resErr
		}
		reservationID = &rID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		order.Attributes{
			Reference:            dto.Reference,
			CustomerID:           dto.CustomerID,
			SalesChannel:         dto.SalesChannel,
			ShippingAddress:      dto.ShippingAddress,
			BillingInfo:          dto.BillingInfo,
			Notes:                dto.Notes,
			PreferredWarehouseID: dto.PreferredWarehouseID,
		},
		status,
		items,
		order.Totals{
			Subtotal:   dto.Subtotal,
			Tax:        dto.Tax,
			Shipping:   dto.Shipping,
			Discounts:  dto.Discounts,
			GrandTotal: dto.GrandTotal,
		},
		reservationID,
		dto.Version,
		dto.Deleted,
		dto.CreatedAt,
		dto.UpdatedAt,
		policy,
	), nil
}

func itemToDomain(dto ItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}

	var meta map[string]any
	if len(dto.Meta) > 0 {
		if err = json.Unmarshal(dto.Meta, &meta); err != nil {
			return order.Item{}, err
		}
	}

	return order.RestoreItem(id, dto.SKU, dto.ProductID, dto.Quantity, dto.UnitPrice, meta)
}
