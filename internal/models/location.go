package models

// GeoPoint is a GeoJSON point, longitude first, matching the 2dsphere index format.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type" default:"Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

// Place is a named stop on a trip: free-form address text plus its geo position.
type Place struct {
	Text string   `json:"text" bson:"text" validate:"required"`
	Geo  GeoPoint `json:"geo" bson:"geo"`
}
