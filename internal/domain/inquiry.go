// Package domain defines the persistence models for customer inquiries and
// the idempotency records that guard their creation. These types are mapped
// with GORM and shared by the repository, service, and HTTP layers.
package domain

import "time"

// Inquiry is a visitor's message submitted through the site's inquiry or
// consultation form.
//
// Fields:
//   - ID: auto-increment primary key assigned by storage; never reused.
//   - Name/Title/Message: required, already trimmed and length-capped.
//   - Email/Phone: optional; nil is stored as SQL NULL and rendered as JSON null.
//   - CreatedAt: assigned by storage at insert time; immutable.
//
// The created_at index is descending because every read path lists newest first.
type Inquiry struct {
	ID        uint64    `json:"id"        gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"      gorm:"type:varchar(60);not null"`
	Email     *string   `json:"email"     gorm:"type:varchar(120)"`
	Phone     *string   `json:"phone"     gorm:"type:varchar(30)"`
	Title     string    `json:"title"     gorm:"type:varchar(150);not null"`
	Message   string    `json:"message"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;index:idx_inquiries_created_at,sort:desc"`
}

// TableName returns the database table name for Inquiry.
func (Inquiry) TableName() string { return "inquiries" }

// InquiryFields carries the caller-supplied part of an Inquiry. Empty Email
// or Phone means "absent".
type InquiryFields struct {
	Name    string
	Email   string
	Phone   string
	Title   string
	Message string
}

// NewInquiry builds an unsaved Inquiry from fields, mapping empty optional
// values to nil. Identity and timestamp are left for the store to assign.
func NewInquiry(f InquiryFields) Inquiry {
	return Inquiry{
		Name:    f.Name,
		Email:   optional(f.Email),
		Phone:   optional(f.Phone),
		Title:   f.Title,
		Message: f.Message,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
