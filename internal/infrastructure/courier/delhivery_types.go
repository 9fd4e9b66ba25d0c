package courier

// delhiveryTrackingResponse is the fixed DTO for the Delhivery tracking API.
// The vendor payload is parsed once here; nothing dynamically shaped leaves
// this package.
type delhiveryTrackingResponse struct {
	ShipmentData []delhiveryShipmentData `json:"ShipmentData"`
}

type delhiveryShipmentData struct {
	Shipment delhiveryShipment `json:"Shipment"`
}

type delhiveryShipment struct {
	AWB    string               `json:"AWB"`
	Status delhiveryStatusBlock `json:"Status"`
	Scans  []delhiveryScan      `json:"Scans"`
}

type delhiveryStatusBlock struct {
	Status         string `json:"Status"`
	StatusDateTime string `json:"StatusDateTime"`
	StatusLocation string `json:"StatusLocation"`
	Instructions   string `json:"Instructions"`
}

type delhiveryScan struct {
	ScanDetail delhiveryScanDetail `json:"ScanDetail"`
}

type delhiveryScanDetail struct {
	Scan            string `json:"Scan"`
	ScanDateTime    string `json:"ScanDateTime"`
	ScannedLocation string `json:"ScannedLocation"`
}
