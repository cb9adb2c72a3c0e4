package service

import (
	"github.com/deppfellow/ledger/internal/errs"
	"github.com/deppfellow/ledger/internal/models"
)

// InsertPayload is the success shape of create.
type InsertPayload struct {
	InsertID int64 `json:"insertId"`
}

// StatusPayload is the shape of delete results and of every write failure.
type StatusPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func failurePayload(err *errs.StoreError) StatusPayload {
	return StatusPayload{Success: false, Error: err.Message}
}

// CreateResult holds either the new id or the failure, never both.
type CreateResult struct {
	InsertID int64
	Err      *errs.StoreError
}

// OK reports whether the insert succeeded.
func (r CreateResult) OK() bool { return r.Err == nil }

// Payload returns {insertId} on success and {success:false,error} on failure.
func (r CreateResult) Payload() any {
	if r.Err != nil {
		return failurePayload(r.Err)
	}
	return InsertPayload{InsertID: r.InsertID}
}

// ListResult is the outcome of list and find.
//
// Rows is never nil. A failed read leaves it empty and sets Err, so
// callers that only look at Rows see "no results".
type ListResult struct {
	Rows []models.Transaction
	Err  *errs.StoreError
}

// OK reports whether the read succeeded.
func (r ListResult) OK() bool { return r.Err == nil }

// Payload returns the rows, or an empty array on failure.
func (r ListResult) Payload() any {
	if r.Rows == nil {
		return []models.Transaction{}
	}
	return r.Rows
}

// WriteResult is the outcome of the delete operations.
type WriteResult struct {
	RowsAffected int64
	Err          *errs.StoreError
}

// OK reports whether the delete succeeded.
func (r WriteResult) OK() bool { return r.Err == nil }

// Payload returns {success:true} or {success:false,error}.
func (r WriteResult) Payload() any {
	if r.Err != nil {
		return failurePayload(r.Err)
	}
	return StatusPayload{Success: true}
}
