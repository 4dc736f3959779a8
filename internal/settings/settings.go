package settings

import (
	"context"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// TaxSettings is the slice of Settings the order handler consumes on every
// totals recompute. Rate is a percentage in [0,100].
type TaxSettings struct {
	Enabled bool    `json:"tax_enabled" bson:"tax_enabled"`
	Rate    float64 `json:"tax_rate" bson:"tax_rate"`
}

// Provider hands out the current tax settings. Implementations must fetch
// fresh state per call; callers never cache the result on the order.
type Provider interface {
	TaxSettings(ctx context.Context) (TaxSettings, error)
}

type Settings struct {
	ID               uuid.UUID `json:"id" bson:"_id"`
	AutoSubmitToChef bool      `json:"auto_submit_to_chef" bson:"auto_submit_to_chef"`
	SiteClosed       bool      `json:"site_closed" bson:"site_closed"`
	TaxEnabled       bool      `json:"tax_enabled" bson:"tax_enabled"`
	TaxRate          float64   `json:"tax_rate" bson:"tax_rate"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

func (s *Settings) GetID() uuid.UUID {
	return s.ID
}

func (s *Settings) ResourceType() string {
	return "settings"
}

func (s *Settings) SetID(id uuid.UUID) {
	s.ID = id
}

func NewSettings() *Settings {
	return &Settings{
		ID:               apt.GenerateNewID(),
		AutoSubmitToChef: true,
	}
}

func (s *Settings) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = apt.GenerateNewID()
	}
}

func (s *Settings) BeforeCreate() {
	s.EnsureID()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
}

func (s *Settings) BeforeUpdate() {
	s.UpdatedAt = time.Now()
}

// ClampTaxRate keeps the percentage inside [0,100]. This is the settings
// boundary; the totals engine trusts the stored value.
func (s *Settings) ClampTaxRate() {
	if s.TaxRate < 0 {
		s.TaxRate = 0
	}
	if s.TaxRate > 100 {
		s.TaxRate = 100
	}
}

func (s *Settings) Tax() TaxSettings {
	return TaxSettings{Enabled: s.TaxEnabled, Rate: s.TaxRate}
}
