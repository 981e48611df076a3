package entity

// StreetMapping associates a street name with a district label. Streets are
// unique; districts are free-form labels, not a closed enumeration.
type StreetMapping struct {
	Street   string
	District string
}
