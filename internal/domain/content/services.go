package content

// Service is an offered service with its own landing page.
type Service struct {
	Base
	Name               Localized `gorm:"embedded;embeddedPrefix:name_" json:"name"`
	Description        Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	HeroText           Localized `gorm:"embedded;embeddedPrefix:hero_text_" json:"hero_text"`
	MetaTitle          Localized `gorm:"embedded;embeddedPrefix:meta_title_" json:"meta_title"`
	MetaDescription    Localized `gorm:"embedded;embeddedPrefix:meta_description_" json:"meta_description"`
	NameLegacy         *string   `gorm:"column:name;type:text" json:"name_legacy,omitempty"`
	DescriptionLegacy  *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	Slug               string    `gorm:"column:slug;size:255;uniqueIndex;not null" json:"slug" validate:"required,max=255"`
	ImageURL           *string   `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	IconURL            *string   `gorm:"column:icon_url;type:text" json:"icon_url,omitempty"`
	Order              int       `gorm:"column:order" json:"order"`
	FeaturedProject1ID *uint     `gorm:"column:featured_project_1_id" json:"featured_project_1_id,omitempty"`
	FeaturedProject2ID *uint     `gorm:"column:featured_project_2_id" json:"featured_project_2_id,omitempty"`
}

func (Service) TableName() string { return "services" }

// ServiceBenefit is a benefit bullet on a service page.
type ServiceBenefit struct {
	Base
	ServiceID         uint      `gorm:"column:service_id;not null;index" json:"service_id" validate:"required"`
	Title             Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description       Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy       *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	Order             int       `gorm:"column:order" json:"order"`
}

func (ServiceBenefit) TableName() string { return "service_benefits" }

// ServiceProcess is a "what we do" step with an icon.
type ServiceProcess struct {
	Base
	ServiceID         uint      `gorm:"column:service_id;not null;index" json:"service_id" validate:"required"`
	Title             Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description       Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy       *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	IconURL           *string   `gorm:"column:icon_url;type:text" json:"icon_url,omitempty"`
	Order             int       `gorm:"column:order" json:"order"`
}

func (ServiceProcess) TableName() string { return "service_processes" }

// ServiceWorkProcess is a numbered process step without an icon.
type ServiceWorkProcess struct {
	Base
	ServiceID         uint      `gorm:"column:service_id;not null;index" json:"service_id" validate:"required"`
	Title             Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description       Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy       *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	Order             int       `gorm:"column:order" json:"order"`
}

func (ServiceWorkProcess) TableName() string { return "service_work_processes" }
