package domain

import (
	"fmt"
	"strings"
	"time"
)

// Car listing statuses.
const (
	CarStatusDraft    = "draft"
	CarStatusPending  = "pending"
	CarStatusApproved = "approved"
	CarStatusRejected = "rejected"
	CarStatusSold     = "sold"
	CarStatusInactive = "inactive"
)

const (
	CarYearMin = 1980

	// Listing price ceiling mirrors the one-crore cap on the EMI side.
	CarPriceMax = 100000000
)

var fuelTypes = []string{"petrol", "diesel", "cng", "electric", "hybrid", "lpg"}
var transmissions = []string{"manual", "automatic", "cvt", "amt"}
var conditions = []string{"excellent", "good", "average", "poor"}

func ValidCarStatus(s string) bool {
	switch s {
	case CarStatusDraft, CarStatusPending, CarStatusApproved, CarStatusRejected, CarStatusSold, CarStatusInactive:
		return true
	}
	return false
}

func ValidFuelType(s string) bool     { return contains(fuelTypes, s) }
func ValidTransmission(s string) bool { return contains(transmissions, s) }
func ValidCondition(s string) bool    { return contains(conditions, s) }

// Enum accessors feed the public car-data endpoint.
func FuelTypes() []string     { return append([]string(nil), fuelTypes...) }
func Transmissions() []string { return append([]string(nil), transmissions...) }
func Conditions() []string    { return append([]string(nil), conditions...) }

func contains(vs []string, s string) bool {
	for _, v := range vs {
		if v == s {
			return true
		}
	}
	return false
}

// Car is the main listing aggregate. Denormalized brand/model/variant/city
// names are stored alongside the ids so list responses need no joins.
type Car struct {
	CarID       string `json:"id" dynamodbav:"car_id"`
	BrandID     string `json:"brand_id" dynamodbav:"brand_id"`
	BrandName   string `json:"brand" dynamodbav:"brand_name"`
	ModelID     string `json:"model_id" dynamodbav:"model_id"`
	ModelName   string `json:"model" dynamodbav:"model_name"`
	VariantID   string `json:"variant_id,omitempty" dynamodbav:"variant_id"`
	VariantName string `json:"variant,omitempty" dynamodbav:"variant_name"`
	CityID      string `json:"city_id" dynamodbav:"city_id"`
	CityName    string `json:"city" dynamodbav:"city_name"`
	CityState   string `json:"state" dynamodbav:"city_state"`

	Year         int     `json:"year" dynamodbav:"year"`
	FuelType     string  `json:"fuel_type" dynamodbav:"fuel_type"`
	Transmission string  `json:"transmission" dynamodbav:"transmission"`
	KmDriven     int     `json:"km_driven" dynamodbav:"km_driven"`
	EngineCC     int     `json:"engine_displacement,omitempty" dynamodbav:"engine_cc"`
	Mileage      float64 `json:"mileage,omitempty" dynamodbav:"mileage"`

	OwnerNumber       string `json:"owner_number" dynamodbav:"owner_number"`
	ExteriorCondition string `json:"exterior_condition" dynamodbav:"exterior_condition"`
	InteriorCondition string `json:"interior_condition" dynamodbav:"interior_condition"`
	EngineCondition   string `json:"engine_condition" dynamodbav:"engine_condition"`
	AccidentHistory   string `json:"accident_history" dynamodbav:"accident_history"`

	Price         int  `json:"price" dynamodbav:"price"`
	OriginalPrice int  `json:"original_price,omitempty" dynamodbav:"original_price"`
	Negotiable    bool `json:"negotiable" dynamodbav:"negotiable"`

	Area    string `json:"area,omitempty" dynamodbav:"area"`
	Address string `json:"address,omitempty" dynamodbav:"address"`

	SellerID    string `json:"seller_id" dynamodbav:"seller_id"`
	SellerName  string `json:"seller_name" dynamodbav:"seller_name"`
	SellerPhone string `json:"seller_phone" dynamodbav:"seller_phone"`
	SellerEmail string `json:"seller_email,omitempty" dynamodbav:"seller_email"`

	Title       string   `json:"title" dynamodbav:"title"`
	Description string   `json:"description" dynamodbav:"description"`
	Features    []string `json:"features" dynamodbav:"features"`

	RegistrationNumber string `json:"registration_number,omitempty" dynamodbav:"registration_number"`
	RegistrationState  string `json:"registration_state,omitempty" dynamodbav:"registration_state"`
	InsuranceValid     bool   `json:"insurance_valid" dynamodbav:"insurance_valid"`

	Status       string `json:"status" dynamodbav:"status"`
	Verified     bool   `json:"verified" dynamodbav:"verified"`
	Featured     bool   `json:"featured" dynamodbav:"featured"`
	Urgency      string `json:"urgency" dynamodbav:"urgency"`
	QualityScore int    `json:"quality_score" dynamodbav:"quality_score"`

	ViewsCount     int `json:"views_count" dynamodbav:"views_count"`
	InquiriesCount int `json:"inquiries_count" dynamodbav:"inquiries_count"`
	FavoritesCount int `json:"favorites_count" dynamodbav:"favorites_count"`

	ReviewedBy      string     `json:"reviewed_by,omitempty" dynamodbav:"reviewed_by"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty" dynamodbav:"reviewed_at"`
	RejectionReason string     `json:"rejection_reason,omitempty" dynamodbav:"rejection_reason"`
	AdminNotes      string     `json:"-" dynamodbav:"admin_notes"`

	CreatedAt  time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time  `json:"updated" dynamodbav:"updated_at"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" dynamodbav:"approved_at"`
	SoldAt     *time.Time `json:"sold_at,omitempty" dynamodbav:"sold_at"`
}

// DeriveTitle builds the listing title from year + taxonomy names.
// Used when the seller does not supply one.
func (c *Car) DeriveTitle() string {
	return strings.TrimSpace(fmt.Sprintf("%d %s %s %s", c.Year, c.BrandName, c.ModelName, c.VariantName))
}

type ContactInfo struct {
	SellerName  string `json:"sellerName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type CreateCarRequest struct {
	BrandName   string `json:"brand" validate:"required"`
	ModelName   string `json:"model" validate:"required"`
	VariantName string `json:"variant"`
	CityName    string `json:"city" validate:"required"`
	StateName   string `json:"state" validate:"required"`

	Year         int     `json:"year" validate:"required"`
	FuelType     string  `json:"fuel_type" validate:"required"`
	Transmission string  `json:"transmission" validate:"required"`
	KmDriven     int     `json:"km_driven" validate:"gte=0"`
	EngineCC     int     `json:"engine_displacement"`
	Mileage      float64 `json:"mileage"`

	OwnerNumber       string `json:"owner_number" validate:"required"`
	ExteriorCondition string `json:"exterior_condition" validate:"required"`
	InteriorCondition string `json:"interior_condition" validate:"required"`
	EngineCondition   string `json:"engine_condition" validate:"required"`
	AccidentHistory   string `json:"accident_history"`

	Price         int  `json:"price" validate:"required,gt=0"`
	OriginalPrice int  `json:"original_price"`
	Negotiable    bool `json:"negotiable"`

	Area    string `json:"area"`
	Address string `json:"address"`

	Contact ContactInfo `json:"contact" validate:"required"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`

	ImageIDs []string `json:"image_ids"`
	VideoIDs []string `json:"video_ids"`
}

// CarFilter narrows public and seller listing queries. Zero values mean
// the dimension is not filtered.
type CarFilter struct {
	Brand        string
	City         string
	FuelType     string
	Transmission string
	MinPrice     int
	MaxPrice     int
	MinYear      int
	MaxYear      int
	Search       string
}

type UpdateCarRequest struct {
	Price       *int      `json:"price" validate:"omitempty,gt=0"`
	Description *string   `json:"description"`
	Features    *[]string `json:"features"`
	Negotiable  *bool     `json:"negotiable"`
	Urgency     *string   `json:"urgency"`
}
