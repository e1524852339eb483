package queries

import (
	"context"
	"encoding/json"
	"errors"

	"orders/internal/adapters/out/postgres/auditrepo"
	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetAuditTrailQueryHandler reads the audit history of an order. The order
// itself must exist and not be deleted, matching the visibility rules of the
// order read model.
type GetAuditTrailQueryHandler struct {
	db *gorm.DB
}

func NewGetAuditTrailQueryHandler(db *gorm.DB) GetAuditTrailQueryHandler {
	return GetAuditTrailQueryHandler{db: db}
}

func (h GetAuditTrailQueryHandler) Handle(ctx context.Context, query GetAuditTrailQuery) (GetAuditTrailQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAuditTrailQueryResponse{}, err
	}

	var exists orderrepo.OrderDTO
	err := h.db.WithContext(ctx).
		Scopes(orderrepo.NotDeleted).
		Select("id").
		First(&exists, "id = ?", query.OrderID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GetAuditTrailQueryResponse{}, errs.NewObjectNotFoundError("order_id", query.OrderID)
		}
		return GetAuditTrailQueryResponse{}, err
	}

	var dtos []auditrepo.AuditEntryDTO
	err = h.db.WithContext(ctx).
		Where("order_id = ?", query.OrderID.Bytes()).
		Order("created_at asc").
		Find(&dtos).Error
	if err != nil {
		return GetAuditTrailQueryResponse{}, err
	}

	entries := make([]AuditEntryResponse, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := auditEntryFromDTO(dto)
		if entryErr != nil {
			return GetAuditTrailQueryResponse{}, entryErr
		}
		entries = append(entries, entry)
	}

	return GetAuditTrailQueryResponse{OrderID: query.OrderID, Entries: entries}, nil
}

func auditEntryFromDTO(dto auditrepo.AuditEntryDTO) (AuditEntryResponse, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return AuditEntryResponse{}, err
	}

	var details map[string]any
	if len(dto.Details) > 0 {
		if err = json.Unmarshal(dto.Details, &details); err != nil {
			return AuditEntryResponse{}, err
		}
	}

	return AuditEntryResponse{
		ID:        id,
		Action:    dto.Action,
		Actor:     dto.Actor,
		Details:   details,
		CreatedAt: dto.CreatedAt,
	}, nil
}
