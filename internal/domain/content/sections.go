package content

// Partner is a partners block heading.
type Partner struct {
	Base
	Title *string `gorm:"column:title;type:text" json:"title,omitempty"`
}

func (Partner) TableName() string { return "partners" }

// PartnerLogo is a logo shown within a partners block.
type PartnerLogo struct {
	Base
	PartnerID uint   `gorm:"column:partner_id;not null;index" json:"partner_id" validate:"required"`
	ImageURL  string `gorm:"column:image_url;type:text;not null" json:"image_url" validate:"required"`
	Order     int    `gorm:"column:order" json:"order"`
}

func (PartnerLogo) TableName() string { return "partner_logos" }

// WorkProcess is a step of the company-wide work process.
type WorkProcess struct {
	Base
	Title             Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description       Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy       *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	Order             int       `gorm:"column:order" json:"order"`
	ImageURL          *string   `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
}

func (WorkProcess) TableName() string { return "work_processes" }

// Approach is a principle listed in the approaches section.
type Approach struct {
	Base
	Title             Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description       Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy       *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	Order             int       `gorm:"column:order" json:"order"`
}

func (Approach) TableName() string { return "approaches" }

// Models lists every content table in dependency order, for schema management.
func Models() []any {
	return []any{
		&About{}, &AboutLogo{},
		&PropertySector{}, &SectorInn{}, &PropertySectorProcess{},
		&Project{}, &ProjectSolution{}, &ProjectPhoto{},
		&Service{}, &ServiceBenefit{}, &ServiceProcess{}, &ServiceWorkProcess{},
		&ProjectService{},
		&News{}, &NewsSection{},
		&TeamMember{}, &TeamSection{}, &TeamSectionItem{},
		&ContactMessage{},
		&Partner{}, &PartnerLogo{},
		&WorkProcess{}, &Approach{},
	}
}
