package domain

import (
	"errors"
	"time"
)

// ProductionStage tracks where a job sits on the shop floor.
type ProductionStage string

const (
	StageQueued     ProductionStage = "queued"
	StageArtwork    ProductionStage = "artwork"
	StagePrinting   ProductionStage = "printing"
	StageAtSupplier ProductionStage = "at_supplier"
	StageFinishing  ProductionStage = "finishing"
	StageComplete   ProductionStage = "complete"
)

var productionStages = map[ProductionStage]struct{}{
	StageQueued:     {},
	StageArtwork:    {},
	StagePrinting:   {},
	StageAtSupplier: {},
	StageFinishing:  {},
	StageComplete:   {},
}

var ErrJobNotFound = errors.New("production job not found")
var ErrUnknownStage = errors.New("unknown production stage")

// Known reports whether s is a recognised stage.
func (s ProductionStage) Known() bool {
	_, ok := productionStages[s]
	return ok
}

// ProductionJob tracks the production work for one order. Jobs at the
// at_supplier stage carry the supplier fields and surface on the
// supplier-tracking screen.
type ProductionJob struct {
	ID           string          `json:"id" bson:"_id,omitempty"`
	OrderID      string          `json:"order_id" bson:"order_id"`
	OrderNumber  string          `json:"order_number" bson:"order_number"`
	Stage        ProductionStage `json:"stage" bson:"stage"`
	AssignedTo   string          `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Supplier     string          `json:"supplier,omitempty" bson:"supplier,omitempty"`
	SentAt       time.Time       `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	ExpectedBack time.Time       `json:"expected_back,omitempty" bson:"expected_back,omitempty"`
	Notes        string          `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" bson:"updated_at"`
}
