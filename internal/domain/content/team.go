package content

// TeamMember is a person shown on the team page.
type TeamMember struct {
	Base
	FullName       Localized `gorm:"embedded;embeddedPrefix:full_name_" json:"full_name"`
	Role           Localized `gorm:"embedded;embeddedPrefix:role_" json:"role"`
	Bio            Localized `gorm:"embedded;embeddedPrefix:bio_" json:"bio"`
	PhotoURL       *string   `gorm:"column:photo_url;type:text" json:"photo_url,omitempty"`
	LinkedinURL    *string   `gorm:"column:linkedin_url;type:text" json:"linkedin_url,omitempty" validate:"omitempty,url"`
	FullNameLegacy *string   `gorm:"column:full_name;type:text" json:"full_name_legacy,omitempty"`
	RoleLegacy     *string   `gorm:"column:role;type:text" json:"role_legacy,omitempty"`
	BioLegacy      *string   `gorm:"column:bio;type:text" json:"bio_legacy,omitempty"`
}

func (TeamMember) TableName() string { return "team_members" }

// TeamSection is a call-to-action block on the team page.
type TeamSection struct {
	Base
	Title      string  `gorm:"column:title;type:text;not null" json:"title" validate:"required"`
	ButtonText *string `gorm:"column:button_text;type:text" json:"button_text,omitempty"`
}

func (TeamSection) TableName() string { return "team_sections" }

// TeamSectionItem is a card inside a team section.
type TeamSectionItem struct {
	Base
	TeamSectionID uint    `gorm:"column:team_section_id;not null;index" json:"team_section_id" validate:"required"`
	Name          string  `gorm:"column:name;type:text;not null" json:"name" validate:"required"`
	Description   *string `gorm:"column:description;type:text" json:"description,omitempty"`
	PhotoURL      *string `gorm:"column:photo_url;type:text" json:"photo_url,omitempty"`
	ButtonText    *string `gorm:"column:button_text;type:text" json:"button_text,omitempty"`
	Order         int     `gorm:"column:order" json:"order"`
}

func (TeamSectionItem) TableName() string { return "team_section_items" }
