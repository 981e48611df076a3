package request

// AddStreetMappingRequest adds one street-to-district fact.
type AddStreetMappingRequest struct {
	Street   string `json:"street"`
	District string `json:"district"`
}
