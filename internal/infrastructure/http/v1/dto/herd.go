package dto

import (
	"time"

	"confina/internal/core/id"
	"confina/internal/core/types"
	"confina/internal/domain/herd/lot"
)

// ReceiveLotRequest registers a purchased batch entering the yard.
type ReceiveLotRequest struct {
	PurchaseID    id.ID       `json:"purchaseId" binding:"required"`
	EntryDate     time.Time   `json:"entryDate" binding:"required"`
	Quantity      int         `json:"quantity" binding:"required,min=1"`
	WeightKg      float64     `json:"weightKg" binding:"required,gt=0"`
	EstimatedGMD  float64     `json:"estimatedGmd"`
	PurchaseValue types.Money `json:"purchaseValue" binding:"required"`
	FreightValue  types.Money `json:"freightValue"`
}

// ToInput converts to the service input.
func (r ReceiveLotRequest) ToInput() lot.ReceiveInput {
	return lot.ReceiveInput{
		PurchaseID:    r.PurchaseID,
		EntryDate:     r.EntryDate,
		Quantity:      r.Quantity,
		WeightKg:      r.WeightKg,
		EstimatedGMD:  r.EstimatedGMD,
		PurchaseValue: r.PurchaseValue,
		FreightValue:  r.FreightValue,
	}
}

// RecordDeathsRequest registers head losses on a lot.
type RecordDeathsRequest struct {
	Count int       `json:"count" binding:"required,min=1"`
	Date  time.Time `json:"date" binding:"required"`
}

// RecordWeightLossRequest registers weight shrinkage on a lot.
type RecordWeightLossRequest struct {
	LossKg          float64   `json:"lossKg" binding:"required,gt=0"`
	CarcassYieldPct float64   `json:"carcassYieldPct" binding:"required,gt=0,lte=100"`
	Date            time.Time `json:"date" binding:"required"`
}

// LotListQuery narrows lot listings.
type LotListQuery struct {
	Status     string `form:"status"`
	ActiveOnly bool   `form:"activeOnly"`
}

// ToFilter converts to the repository filter.
func (q LotListQuery) ToFilter() lot.Filter {
	return lot.Filter{
		Status:     lot.Status(q.Status),
		ActiveOnly: q.ActiveOnly,
	}
}

// CreatePenRequest registers a pen.
type CreatePenRequest struct {
	Code     string `json:"code" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	Location string `json:"location"`
}

// AllocateToPenRequest places heads of a lot into a pen.
type AllocateToPenRequest struct {
	LotID    id.ID     `json:"lotId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
	At       time.Time `json:"at" binding:"required"`
}

// RemoveLinkRequest closes an allocation link.
type RemoveLinkRequest struct {
	At time.Time `json:"at" binding:"required"`
}
