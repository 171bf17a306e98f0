package domain

import "time"

// Taxonomy entities resolved (get-or-create) during listing submission.
// Names are matched case-sensitively; slugs are unique with numeric-suffix
// collision handling.

type Brand struct {
	BrandID   string    `json:"id" dynamodbav:"brand_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Slug      string    `json:"slug" dynamodbav:"slug"`
	LogoKey   string    `json:"logo,omitempty" dynamodbav:"logo_key"`
	IsActive  bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CarModel struct {
	ModelID   string    `json:"id" dynamodbav:"model_id"`
	BrandID   string    `json:"brand_id" dynamodbav:"brand_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Slug      string    `json:"slug" dynamodbav:"slug"`
	IsActive  bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CarVariant struct {
	VariantID string    `json:"id" dynamodbav:"variant_id"`
	ModelID   string    `json:"model_id" dynamodbav:"model_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	IsActive  bool      `json:"is_active" dynamodbav:"is_active"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type City struct {
	CityID    string    `json:"id" dynamodbav:"city_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	State     string    `json:"state" dynamodbav:"state"`
	Slug      string    `json:"slug" dynamodbav:"slug"`
	Latitude  float64   `json:"latitude,omitempty" dynamodbav:"latitude"`
	Longitude float64   `json:"longitude,omitempty" dynamodbav:"longitude"`
	IsActive  bool      `json:"is_active" dynamodbav:"is_active"`
	CarCount  int       `json:"car_count" dynamodbav:"car_count"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
