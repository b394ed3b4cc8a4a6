package content

import "gorm.io/gorm"

// Contact message statuses tracked by the admin.
const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"
)

// MessageStatuses lists the allowed contact message statuses.
var MessageStatuses = []string{StatusNew, StatusRead, StatusReplied, StatusArchived}

// ContactMessage is a submission from the contact or careers form.
type ContactMessage struct {
	Base
	Name         *string `gorm:"column:name;type:text" json:"name,omitempty"`
	FirstName    *string `gorm:"column:first_name;type:text" json:"first_name,omitempty"`
	LastName     *string `gorm:"column:last_name;type:text" json:"last_name,omitempty"`
	PhoneNumber  string  `gorm:"column:phone_number;type:text;not null" json:"phone_number" validate:"required"`
	Email        string  `gorm:"column:email;type:text;not null" json:"email" validate:"required,email"`
	Message      *string `gorm:"column:message;type:text" json:"message,omitempty"`
	CVURL        *string `gorm:"column:cv_url;type:text" json:"cv_url,omitempty"`
	Company      *string `gorm:"column:company;type:text" json:"company,omitempty"`
	Country      *string `gorm:"column:country;type:text" json:"country,omitempty"`
	PropertyType *string `gorm:"column:property_type;type:text" json:"property_type,omitempty"`
	IsRead       bool    `gorm:"column:is_read" json:"is_read"`
	Status       string  `gorm:"column:status;size:50" json:"status" validate:"omitempty,oneof=new read replied archived"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

// BeforeSave defaults the status and keeps the read flag in step with it.
func (m *ContactMessage) BeforeSave(_ *gorm.DB) error {
	if m.Status == "" {
		m.Status = StatusNew
	}
	if m.Status != StatusNew {
		m.IsRead = true
	}
	return nil
}

// DisplayName prefers the contact form name over the careers form names.
func (m ContactMessage) DisplayName() string {
	if name := deref(m.Name); name != "" {
		return name
	}
	first, last := deref(m.FirstName), deref(m.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
