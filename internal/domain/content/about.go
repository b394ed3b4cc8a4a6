package content

// About holds the headline numbers shown in the about section.
type About struct {
	Base
	YearsExperience int `gorm:"column:years_experience" json:"years_experience" validate:"gte=0"`
	OngoingProjects int `gorm:"column:ongoing_projects" json:"ongoing_projects" validate:"gte=0"`
	TeamMembers     int `gorm:"column:team_members" json:"team_members" validate:"gte=0"`
}

func (About) TableName() string { return "about" }

// AboutLogo is a client logo displayed under the about section.
type AboutLogo struct {
	Base
	AboutID  uint   `gorm:"column:about_id;index:ix_about_logos_about_order,priority:1;not null" json:"about_id" validate:"required"`
	ImageURL string `gorm:"column:image_url;type:text;not null" json:"image_url" validate:"required"`
	Order    int    `gorm:"column:order;index:ix_about_logos_about_order,priority:2" json:"order"`
}

func (AboutLogo) TableName() string { return "about_logos" }
