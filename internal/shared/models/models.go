package models

// MaintenanceRecord is a single service entry in a user's maintenance log.
// OwnerID is set exclusively from the verified identity-provider subject of
// the creator, never from a request payload. Records are immutable after
// creation: the API offers create, list and delete, no update.
type MaintenanceRecord struct {
	ID          int64  `json:"id"`
	ServiceType string `json:"serviceType"`
	Mileage     int64  `json:"mileage"`
	Date        string `json:"date"`
	OwnerID     string `json:"user_id"`
}
