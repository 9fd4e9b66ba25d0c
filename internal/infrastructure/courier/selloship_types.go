package courier

// Fixed DTOs for the Selloship shipper API. Parsed once at this boundary.

type selloshipAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type selloshipAuthResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

type selloshipWaybillDetailsResponse struct {
	Status         string                   `json:"Status"`
	Message        string                   `json:"message"`
	Reason         string                   `json:"reason"`
	WaybillDetails []selloshipWaybillDetail `json:"waybillDetails"`
}

type selloshipWaybillDetail struct {
	Waybill         string `json:"waybill"`
	CurrentStatus   string `json:"currentStatus"`
	StatusDate      string `json:"statusDate"`
	CurrentLocation string `json:"current_location"`
	ForwardCost     string `json:"forward_cost"`
	ReverseCost     string `json:"reverse_cost"`
}
