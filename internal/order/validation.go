package order

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError reports one rejected field in an incoming item list.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateItems checks a replacement item list before it touches the store.
// The incoming list is the full desired state; prior is the stored list and
// is used to reject moves the state machine forbids, like a served line
// quietly dropping back to preparing.
func ValidateItems(items []OrderItem, prior []OrderItem) []ValidationError {
	var errors []ValidationError

	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: "name is required",
			})
		}
		if item.Price < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "price cannot be negative",
			})
		}
		if item.Qty < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].qty", i),
				Message: "qty cannot be negative",
			})
		}
		if item.Status != "" && !ValidItemStatus(item.Status) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("items[%d].status", i),
				Message: "status must be one of: preparing, ready, served",
			})
		}
	}

	for i, item := range items {
		if item.ID == uuid.Nil {
			continue
		}
		for j := range prior {
			if prior[j].ID != item.ID {
				continue
			}
			if prior[j].Status == ItemStatusServed && item.Status == ItemStatusPreparing {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("items[%d].status", i),
					Message: "served items cannot return to preparing",
				})
			}
		}
	}

	return errors
}
