package models

// Customer represents a customer profile
type Customer struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	PinCode  string `json:"pin_code"`
	IsActive bool   `json:"is_active"`
}
