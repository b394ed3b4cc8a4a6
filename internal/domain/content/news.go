package content

import "gorm.io/gorm"

// News is a published article.
type News struct {
	Base
	PhotoURL      *string   `gorm:"column:photo_url;type:text" json:"photo_url,omitempty"`
	Tags          Tags      `gorm:"column:tags" json:"tags"`
	TitleLegacy   string    `gorm:"column:title;type:text;not null" json:"title_legacy"`
	Title         Localized `gorm:"embedded;embeddedPrefix:title_" json:"title"`
	SummaryLegacy *string   `gorm:"column:summary;type:text" json:"summary_legacy,omitempty"`
	Summary       Localized `gorm:"embedded;embeddedPrefix:summary_" json:"summary"`
}

func (News) TableName() string { return "news" }

// BeforeSave keeps the non-null legacy title populated from the localized variants.
func (n *News) BeforeSave(_ *gorm.DB) error {
	if n.TitleLegacy == "" {
		n.TitleLegacy = n.Title.Resolve(Languages[0], "")
	}
	if n.Tags == nil {
		n.Tags = Tags{}
	}
	return nil
}

// NewsSection is one block of an article body.
type NewsSection struct {
	Base
	NewsID        uint      `gorm:"column:news_id;not null;index" json:"news_id" validate:"required"`
	Order         int       `gorm:"column:order" json:"order"`
	HeadingLegacy *string   `gorm:"column:heading;type:text" json:"heading_legacy,omitempty"`
	Heading       Localized `gorm:"embedded;embeddedPrefix:heading_" json:"heading"`
	ContentLegacy *string   `gorm:"column:content;type:text" json:"content_legacy,omitempty"`
	Content       Localized `gorm:"embedded;embeddedPrefix:content_" json:"content"`
	ImageURL      *string   `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
}

func (NewsSection) TableName() string { return "news_sections" }
