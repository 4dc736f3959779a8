package coupon

import (
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	TypePercent = "percent"
	TypeFlat    = "flat"
)

type Coupon struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Code      string    `json:"code" bson:"code"`
	Type      string    `json:"type" bson:"type"`
	Value     float64   `json:"value" bson:"value"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (c *Coupon) GetID() uuid.UUID {
	return c.ID
}

func (c *Coupon) ResourceType() string {
	return "coupon"
}

func (c *Coupon) SetID(id uuid.UUID) {
	c.ID = id
}

func NewCoupon(code string) *Coupon {
	return &Coupon{
		ID:     apt.GenerateNewID(),
		Code:   strings.TrimSpace(code),
		Type:   TypePercent,
		Active: true,
	}
}

func (c *Coupon) EnsureID() {
	if c.ID == uuid.Nil {
		c.ID = apt.GenerateNewID()
	}
}

func (c *Coupon) BeforeCreate() {
	c.EnsureID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *Coupon) BeforeUpdate() {
	c.UpdatedAt = time.Now()
}

// Resolve turns the coupon into a flat currency discount for a subtotal.
// This happens before the order service ever sees the number; the lifecycle
// path only carries resolved flat amounts.
func (c *Coupon) Resolve(subtotal float64) float64 {
	if !c.Active {
		return 0
	}
	switch c.Type {
	case TypePercent:
		return subtotal * c.Value / 100
	case TypeFlat:
		return c.Value
	}
	return 0
}
