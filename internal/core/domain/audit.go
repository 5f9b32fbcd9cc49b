package domain

import "time"

// AuditEntry records one mutation made through the back office.
type AuditEntry struct {
	ID       string    `json:"id" bson:"_id,omitempty"`
	Entity   string    `json:"entity" bson:"entity"`
	EntityID string    `json:"entity_id" bson:"entity_id"`
	Action   string    `json:"action" bson:"action"`
	ActorID  string    `json:"actor_id" bson:"actor_id"`
	Detail   string    `json:"detail,omitempty" bson:"detail,omitempty"`
	At       time.Time `json:"at" bson:"at"`
}
