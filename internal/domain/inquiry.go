package domain

import "time"

const (
	InquiryStatusNew       = "new"
	InquiryStatusResponded = "responded"
	InquiryStatusClosed    = "closed"
	InquiryStatusSpam      = "spam"
)

func ValidInquiryStatus(s string) bool {
	switch s {
	case InquiryStatusNew, InquiryStatusResponded, InquiryStatusClosed, InquiryStatusSpam:
		return true
	}
	return false
}

// Inquiry is a buyer→seller contact record tied to a car. The buyer link is
// optional; contact details are persisted for unregistered buyers too.
type Inquiry struct {
	InquiryID       string     `json:"id" dynamodbav:"inquiry_id"`
	CarID           string     `json:"car_id" dynamodbav:"car_id"`
	CarTitle        string     `json:"car_title" dynamodbav:"car_title"`
	SellerID        string     `json:"seller_id" dynamodbav:"seller_id"`
	BuyerID         string     `json:"buyer_id,omitempty" dynamodbav:"buyer_id"`
	BuyerName       string     `json:"buyer_name" dynamodbav:"buyer_name"`
	BuyerPhone      string     `json:"buyer_phone" dynamodbav:"buyer_phone"`
	BuyerEmail      string     `json:"buyer_email,omitempty" dynamodbav:"buyer_email"`
	Message         string     `json:"message" dynamodbav:"message"`
	Status          string     `json:"status" dynamodbav:"status"`
	ResponseMessage string     `json:"response_message,omitempty" dynamodbav:"response_message"`
	RespondedAt     *time.Time `json:"responded_at,omitempty" dynamodbav:"responded_at"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
}

type CreateInquiryRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"required"`
}
