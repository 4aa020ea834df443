package utils

import "net/http"

// AppError is a domain failure with a stable machine-readable code and the
// HTTP status it maps to. Controllers surface these through RespondAppError;
// anything that is not an AppError becomes a generic internal error.
type AppError struct {
	Code    string
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrTableNotFound      = &AppError{Code: "TABLE_NOT_FOUND", Status: http.StatusNotFound, Message: "table not found"}
	ErrTableInactive      = &AppError{Code: "TABLE_INACTIVE", Status: http.StatusNotFound, Message: "table is not active"}
	ErrBadIdentity        = &AppError{Code: "VALIDATION_ERROR", Status: http.StatusUnprocessableEntity, Message: "identity signal is malformed"}
	ErrSessionNotFound    = &AppError{Code: "SESSION_NOT_FOUND", Status: http.StatusNotFound, Message: "session not found"}
	ErrSessionNotActive   = &AppError{Code: "SESSION_NOT_ACTIVE", Status: http.StatusBadRequest, Message: "session not active"}
	ErrSessionClosed      = &AppError{Code: "SESSION_ALREADY_CLOSED", Status: http.StatusBadRequest, Message: "session is already closed or expired"}
	ErrEmptyCart          = &AppError{Code: "EMPTY_CART", Status: http.StatusBadRequest, Message: "order must contain at least one item"}
	ErrQuantityRange      = &AppError{Code: "QUANTITY_RANGE", Status: http.StatusUnprocessableEntity, Message: "item quantity must be between 1 and 99"}
	ErrProductNotFound    = &AppError{Code: "PRODUCT_NOT_FOUND", Status: http.StatusNotFound, Message: "product not found"}
	ErrProductUnavailable = &AppError{Code: "PRODUCT_UNAVAILABLE", Status: http.StatusBadRequest, Message: "product is not available"}
	ErrOptionNotFound     = &AppError{Code: "OPTION_NOT_FOUND", Status: http.StatusNotFound, Message: "product option not found"}
	ErrOptionInactive     = &AppError{Code: "OPTION_INACTIVE", Status: http.StatusBadRequest, Message: "product option is not active"}
	ErrOptionMismatch     = &AppError{Code: "OPTION_MISMATCH", Status: http.StatusUnprocessableEntity, Message: "option does not belong to the referenced product"}
	ErrOrderNotFound      = &AppError{Code: "ORDER_NOT_FOUND", Status: http.StatusNotFound, Message: "order not found"}
	ErrBadTransition      = &AppError{Code: "INVALID_TRANSITION", Status: http.StatusConflict, Message: "order status transition not allowed"}
)
