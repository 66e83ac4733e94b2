package entity

type Campground struct {
	ID         string  `json:"facility_id"`
	Name       string  `json:"facility_name"`
	Type       string  `json:"facility_type,omitempty"`
	ParentName string  `json:"parent_asset_name,omitempty"`
	Email      string  `json:"facility_email,omitempty"`
	Phone      string  `json:"facility_phone,omitempty"`
	Latitude   float64 `json:"facility_latitude,omitempty"`
	Longitude  float64 `json:"facility_longitude,omitempty"`
}

type CampsiteAttribute struct {
	Name  string `json:"attribute_name"`
	Value string `json:"attribute_value"`
}

type Campsite struct {
	ID         string              `json:"campsite_id"`
	Name       string              `json:"campsite_name"`
	Type       string              `json:"campsite_type,omitempty"`
	Loop       string              `json:"loop,omitempty"`
	TypeOfUse  string              `json:"type_of_use,omitempty"`
	Latitude   float64             `json:"campsite_latitude,omitempty"`
	Longitude  float64             `json:"campsite_longitude,omitempty"`
	Attributes []CampsiteAttribute `json:"attributes,omitempty"`
}
