package model

// Vehicle is the resolved record cached in the session after a successful
// plate lookup against the directory.
type Vehicle struct {
	Plate     string `json:"plate"`
	VIN       string `json:"vin,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Model     string `json:"model,omitempty"`
	Fuel      string `json:"fuel,omitempty"`
	VehicleID int64  `json:"vehicle_id,omitempty"`
}
