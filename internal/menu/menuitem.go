package menu

import (
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

type MenuItem struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	Category    string    `json:"category" bson:"category"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Featured    bool      `json:"featured" bson:"featured"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func (mi *MenuItem) GetID() uuid.UUID {
	return mi.ID
}

func (mi *MenuItem) ResourceType() string {
	return "menu-item"
}

func (mi *MenuItem) SetID(id uuid.UUID) {
	mi.ID = id
}

func NewMenuItem() *MenuItem {
	return &MenuItem{
		ID: apt.GenerateNewID(),
	}
}

func (mi *MenuItem) EnsureID() {
	if mi.ID == uuid.Nil {
		mi.ID = apt.GenerateNewID()
	}
}

func (mi *MenuItem) BeforeCreate() {
	mi.EnsureID()
	mi.CreatedAt = time.Now()
	mi.UpdatedAt = time.Now()
}

func (mi *MenuItem) BeforeUpdate() {
	mi.UpdatedAt = time.Now()
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func ValidateMenuItem(mi *MenuItem) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(mi.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if strings.TrimSpace(mi.Category) == "" {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}
	if mi.Price < 0 {
		errors = append(errors, ValidationError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	return errors
}
