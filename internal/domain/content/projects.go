package content

// PropertySector groups projects by the kind of property they deliver.
type PropertySector struct {
	Base
	Title              Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description        Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy        *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy  *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	FeaturedProject1ID *uint     `gorm:"column:featured_project_1_id" json:"featured_project_1_id,omitempty"`
	FeaturedProject2ID *uint     `gorm:"column:featured_project_2_id" json:"featured_project_2_id,omitempty"`
	FeaturedProject3ID *uint     `gorm:"column:featured_project_3_id" json:"featured_project_3_id,omitempty"`
	Order              int       `gorm:"column:order" json:"order"`
}

func (PropertySector) TableName() string { return "property_sectors" }

// SectorInn is a feature bullet listed under a property sector.
type SectorInn struct {
	Base
	PropertySectorID uint    `gorm:"column:property_sector_id;not null;index" json:"property_sector_id" validate:"required"`
	Title            string  `gorm:"column:title;type:text;not null" json:"title" validate:"required"`
	Description      *string `gorm:"column:description;type:text" json:"description,omitempty"`
	Order            int     `gorm:"column:order" json:"order"`
}

func (SectorInn) TableName() string { return "sector_inns" }

// PropertySectorProcess is one step of a property sector's delivery process.
type PropertySectorProcess struct {
	Base
	PropertySectorID  uint      `gorm:"column:property_sector_id;not null;index" json:"property_sector_id" validate:"required"`
	Title             Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description       Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	TitleLegacy       *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	DescriptionLegacy *string   `gorm:"column:description;type:text" json:"description_legacy,omitempty"`
	Order             int       `gorm:"column:order" json:"order"`
}

func (PropertySectorProcess) TableName() string { return "property_sector_processes" }

// Project is a delivered project in the portfolio.
type Project struct {
	Base
	Title            Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description      Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	AboutProject     Localized `gorm:"embedded;embeddedPrefix:about_project_" json:"about_project"`
	TitleLegacy      *string   `gorm:"column:title;type:text" json:"title_legacy,omitempty"`
	Slug             *string   `gorm:"column:slug;type:text;uniqueIndex" json:"slug,omitempty"`
	Tag              *string   `gorm:"column:tag;type:text" json:"tag,omitempty"`
	Client           *string   `gorm:"column:client;type:text" json:"client,omitempty"`
	Year             *int      `gorm:"column:year" json:"year,omitempty" validate:"omitempty,gte=1900,lte=2200"`
	PropertySectorID *uint     `gorm:"column:property_sector_id;index" json:"property_sector_id,omitempty"`
	CoverPhotoURL    *string   `gorm:"column:cover_photo_url;type:text" json:"cover_photo_url,omitempty"`
}

func (Project) TableName() string { return "projects" }

// ProjectService links a project to the services it involved.
type ProjectService struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProjectID uint `gorm:"column:project_id;not null;index" json:"project_id" validate:"required"`
	ServiceID uint `gorm:"column:service_id;not null;index" json:"service_id" validate:"required"`
	Order     int  `gorm:"column:order" json:"order"`
}

func (ProjectService) TableName() string { return "project_services" }

// ProjectSolution is a delivered solution listed on a project page.
type ProjectSolution struct {
	Base
	ProjectID   uint      `gorm:"column:project_id;not null;index" json:"project_id" validate:"required"`
	Title       Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	Description Localized `gorm:"embedded;embeddedPrefix:description_" json:"description"`
	Order       int       `gorm:"column:order" json:"order"`
}

func (ProjectSolution) TableName() string { return "project_solutions" }

// ProjectPhoto is a gallery image attached to a project.
type ProjectPhoto struct {
	Base
	ProjectID uint   `gorm:"column:project_id;not null;index" json:"project_id" validate:"required"`
	ImageURL  string `gorm:"column:image_url;type:text;not null" json:"image_url" validate:"required"`
	Order     int    `gorm:"column:order" json:"order"`
}

func (ProjectPhoto) TableName() string { return "project_photos" }
