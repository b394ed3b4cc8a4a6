package admin

import "sdaadmin/app/internal/domain/content"

func textField(key, label string) Field {
	return Field{Key: key, Column: key, Label: label, Kind: KindText}
}

func optionalText(key, label string) Field {
	field := textField(key, label)
	field.Nullable = true
	return field
}

// legacyText exposes a pre-localization column under a *_legacy key.
func legacyText(column, label string) Field {
	return Field{Key: column + "_legacy", Column: column, Label: label + " (legacy)", Kind: KindText, Nullable: true}
}

func localizedField(key, label string) Field {
	return Field{Key: key, Column: key + "_", Label: label, Kind: KindLocalized}
}

func intField(key, label string, nullable bool) Field {
	return Field{Key: key, Column: key, Label: label, Kind: KindInt, Nullable: nullable}
}

func boolField(key, label string) Field {
	return Field{Key: key, Column: key, Label: label, Kind: KindBool}
}

func imageField(key, label string, nullable bool) Field {
	return Field{Key: key, Column: key, Label: label, Kind: KindImage, Nullable: nullable}
}

func fileField(key, label string) Field {
	return Field{Key: key, Column: key, Label: label, Kind: KindFile, Nullable: true}
}

func refField(key, label, resource string, nullable bool) Field {
	return Field{Key: key, Column: key, Label: label, Kind: KindRef, Ref: resource, Nullable: nullable}
}

func orderField() Field {
	return intField("order", "Order", false).Listed()
}

func byOrder(parentColumn string) []OrderBy {
	if parentColumn == "" {
		return []OrderBy{{Column: "order"}, {Column: "id"}}
	}
	return []OrderBy{{Column: parentColumn}, {Column: "order"}, {Column: "id"}}
}

func newestFirst() []OrderBy {
	return []OrderBy{{Column: "created_at", Desc: true}, {Column: "id", Desc: true}}
}

func byID() []OrderBy {
	return []OrderBy{{Column: "id"}}
}

// Resource keys used in URLs and API paths.
const (
	ResourceAbout                   = "about"
	ResourceAboutLogos              = "about-logos"
	ResourcePropertySectors         = "property-sectors"
	ResourceSectorInns              = "sector-inns"
	ResourcePropertySectorProcesses = "property-sector-processes"
	ResourceProjects                = "projects"
	ResourceProjectServices         = "project-services"
	ResourceProjectSolutions        = "project-solutions"
	ResourceProjectPhotos           = "project-photos"
	ResourceNews                    = "news"
	ResourceNewsSections            = "news-sections"
	ResourceTeamMembers             = "team-members"
	ResourceTeamSections            = "team-sections"
	ResourceTeamSectionItems        = "team-section-items"
	ResourceServices                = "services"
	ResourceServiceBenefits         = "service-benefits"
	ResourceServiceProcesses        = "service-processes"
	ResourceServiceWorkProcesses    = "service-work-processes"
	ResourceContactMessages         = "contact-messages"
	ResourcePartners                = "partners"
	ResourcePartnerLogos            = "partner-logos"
	ResourceWorkProcesses           = "work-processes"
	ResourceApproaches              = "approaches"
)

// ContentResources returns the admin definitions for every content table.
func ContentResources() []*Resource {
	return []*Resource{
		define[content.About](Resource{
			Key: ResourceAbout, Table: "about", Singular: "About", Plural: "About",
			Ordering: byID(),
			Fields: []Field{
				intField("years_experience", "Years of experience", false).Listed(),
				intField("ongoing_projects", "Ongoing projects", false).Listed(),
				intField("team_members", "Team members", false).Listed(),
			},
		}),
		define[content.AboutLogo](Resource{
			Key: ResourceAboutLogos, Table: "about_logos", Singular: "About logo", Plural: "About logos",
			Ordering: byOrder("about_id"),
			Parent:   &ParentLink{Resource: ResourceAbout, Field: "about_id"},
			Fields: []Field{
				refField("about_id", "About", ResourceAbout, false).Mandatory(),
				imageField("image_url", "Logo", false).Mandatory().Listed(),
				orderField(),
			},
		}),
		define[content.PropertySector](Resource{
			Key: ResourcePropertySectors, Table: "property_sectors", Singular: "Property sector", Plural: "Property sectors",
			Ordering: byOrder(""),
			Fields: []Field{
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea().Searchable(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				refField("featured_project_1_id", "Featured project 1", ResourceProjects, true),
				refField("featured_project_2_id", "Featured project 2", ResourceProjects, true),
				refField("featured_project_3_id", "Featured project 3", ResourceProjects, true),
				orderField(),
			},
		}),
		define[content.SectorInn](Resource{
			Key: ResourceSectorInns, Table: "sector_inns", Singular: "Sector feature", Plural: "Sector features",
			Ordering: byOrder("property_sector_id"),
			Parent:   &ParentLink{Resource: ResourcePropertySectors, Field: "property_sector_id"},
			Fields: []Field{
				refField("property_sector_id", "Property sector", ResourcePropertySectors, false).Mandatory().Listed(),
				textField("title", "Title").Mandatory().Listed().Searchable(),
				optionalText("description", "Description").Textarea(),
				orderField(),
			},
		}),
		define[content.PropertySectorProcess](Resource{
			Key: ResourcePropertySectorProcesses, Table: "property_sector_processes", Singular: "Property sector process", Plural: "Property sector processes",
			Ordering: byOrder("property_sector_id"),
			Parent:   &ParentLink{Resource: ResourcePropertySectors, Field: "property_sector_id"},
			Fields: []Field{
				refField("property_sector_id", "Property sector", ResourcePropertySectors, false).Mandatory().Listed(),
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				orderField(),
			},
		}),
		define[content.Project](Resource{
			Key: ResourceProjects, Table: "projects", Singular: "Project", Plural: "Projects",
			Ordering: []OrderBy{{Column: "year", Desc: true}, {Column: "created_at", Desc: true}, {Column: "id", Desc: true}},
			Fields: []Field{
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea().Searchable(),
				localizedField("about_project", "About the project").Textarea(),
				legacyText("title", "Title"),
				optionalText("slug", "Slug").Searchable(),
				optionalText("tag", "Tag").Listed(),
				optionalText("client", "Client").Listed().Searchable(),
				intField("year", "Year", true).Listed(),
				refField("property_sector_id", "Property sector", ResourcePropertySectors, true),
				imageField("cover_photo_url", "Cover photo", true).Listed(),
			},
		}),
		define[content.ProjectService](Resource{
			Key: ResourceProjectServices, Table: "project_services", Singular: "Project service", Plural: "Project services",
			Ordering: byOrder("project_id"),
			Parent:   &ParentLink{Resource: ResourceProjects, Field: "project_id"},
			Fields: []Field{
				refField("project_id", "Project", ResourceProjects, false).Mandatory().Listed(),
				refField("service_id", "Service", ResourceServices, false).Mandatory().Listed(),
				orderField(),
			},
		}),
		define[content.ProjectSolution](Resource{
			Key: ResourceProjectSolutions, Table: "project_solutions", Singular: "Project solution", Plural: "Project solutions",
			Ordering: byOrder("project_id"),
			Parent:   &ParentLink{Resource: ResourceProjects, Field: "project_id"},
			Fields: []Field{
				refField("project_id", "Project", ResourceProjects, false).Mandatory().Listed(),
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				orderField(),
			},
		}),
		define[content.ProjectPhoto](Resource{
			Key: ResourceProjectPhotos, Table: "project_photos", Singular: "Project photo", Plural: "Project photos",
			Ordering: byOrder("project_id"),
			Parent:   &ParentLink{Resource: ResourceProjects, Field: "project_id"},
			Fields: []Field{
				refField("project_id", "Project", ResourceProjects, false).Mandatory().Listed(),
				imageField("image_url", "Photo", false).Mandatory().Listed(),
				orderField(),
			},
		}),
		define[content.News](Resource{
			Key: ResourceNews, Table: "news", Singular: "News article", Plural: "News",
			Ordering: newestFirst(),
			Fields: []Field{
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("summary", "Summary").Textarea().Searchable(),
				textField("title_legacy", "Title (legacy)"),
				legacyText("summary", "Summary").Textarea(),
				{Key: "tags", Column: "tags", Label: "Tags", Kind: KindTags, List: true},
				imageField("photo_url", "Photo", true).Listed(),
			},
		}),
		define[content.NewsSection](Resource{
			Key: ResourceNewsSections, Table: "news_sections", Singular: "News section", Plural: "News sections",
			Ordering: byOrder("news_id"),
			Parent:   &ParentLink{Resource: ResourceNews, Field: "news_id"},
			Fields: []Field{
				refField("news_id", "Article", ResourceNews, false).Mandatory().Listed(),
				localizedField("heading", "Heading").Listed().Searchable(),
				localizedField("content", "Content").Textarea().Searchable(),
				legacyText("heading", "Heading"),
				legacyText("content", "Content").Textarea(),
				imageField("image_url", "Image", true).Listed(),
				orderField(),
			},
		}),
		define[content.TeamMember](Resource{
			Key: ResourceTeamMembers, Table: "team_members", Singular: "Team member", Plural: "Team members",
			Ordering: byID(),
			Fields: []Field{
				localizedField("full_name", "Full name").Listed().Searchable(),
				localizedField("role", "Role").Listed().Searchable(),
				localizedField("bio", "Bio").Textarea(),
				imageField("photo_url", "Photo", true).Listed(),
				optionalText("linkedin_url", "LinkedIn URL"),
				legacyText("full_name", "Full name"),
				legacyText("role", "Role"),
				legacyText("bio", "Bio").Textarea(),
			},
		}),
		define[content.TeamSection](Resource{
			Key: ResourceTeamSections, Table: "team_sections", Singular: "Team section", Plural: "Team sections",
			Ordering: byID(),
			Fields: []Field{
				textField("title", "Title").Mandatory().Listed().Searchable(),
				optionalText("button_text", "Button text").Listed(),
			},
		}),
		define[content.TeamSectionItem](Resource{
			Key: ResourceTeamSectionItems, Table: "team_section_items", Singular: "Team section item", Plural: "Team section items",
			Ordering: byOrder("team_section_id"),
			Parent:   &ParentLink{Resource: ResourceTeamSections, Field: "team_section_id"},
			Fields: []Field{
				refField("team_section_id", "Team section", ResourceTeamSections, false).Mandatory().Listed(),
				textField("name", "Name").Mandatory().Listed().Searchable(),
				optionalText("description", "Description").Textarea(),
				imageField("photo_url", "Photo", true).Listed(),
				optionalText("button_text", "Button text"),
				orderField(),
			},
		}),
		define[content.Service](Resource{
			Key: ResourceServices, Table: "services", Singular: "Service", Plural: "Services",
			Ordering: byOrder(""),
			Fields: []Field{
				localizedField("name", "Name").Listed().Searchable(),
				textField("slug", "Slug").Mandatory().Listed().Searchable(),
				localizedField("description", "Description").Textarea().Searchable(),
				localizedField("hero_text", "Hero text").Textarea(),
				localizedField("meta_title", "Meta title"),
				localizedField("meta_description", "Meta description").Textarea(),
				legacyText("name", "Name"),
				legacyText("description", "Description").Textarea(),
				imageField("image_url", "Image", true).Listed(),
				imageField("icon_url", "Icon", true),
				refField("featured_project_1_id", "Featured project 1", ResourceProjects, true),
				refField("featured_project_2_id", "Featured project 2", ResourceProjects, true),
				orderField(),
			},
		}),
		define[content.ServiceBenefit](Resource{
			Key: ResourceServiceBenefits, Table: "service_benefits", Singular: "Service benefit", Plural: "Service benefits",
			Ordering: byOrder("service_id"),
			Parent:   &ParentLink{Resource: ResourceServices, Field: "service_id"},
			Fields: []Field{
				refField("service_id", "Service", ResourceServices, false).Mandatory().Listed(),
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				orderField(),
			},
		}),
		define[content.ServiceProcess](Resource{
			Key: ResourceServiceProcesses, Table: "service_processes", Singular: "Service process", Plural: "Service processes",
			Ordering: byOrder("service_id"),
			Parent:   &ParentLink{Resource: ResourceServices, Field: "service_id"},
			Fields: []Field{
				refField("service_id", "Service", ResourceServices, false).Mandatory().Listed(),
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				imageField("icon_url", "Icon", true).Listed(),
				orderField(),
			},
		}),
		define[content.ServiceWorkProcess](Resource{
			Key: ResourceServiceWorkProcesses, Table: "service_work_processes", Singular: "Service work process", Plural: "Service work processes",
			Ordering: byOrder("service_id"),
			Parent:   &ParentLink{Resource: ResourceServices, Field: "service_id"},
			Fields: []Field{
				refField("service_id", "Service", ResourceServices, false).Mandatory().Listed(),
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				orderField(),
			},
		}),
		define[content.ContactMessage](Resource{
			Key: ResourceContactMessages, Table: "contact_messages", Singular: "Contact message", Plural: "Contact messages",
			Ordering: newestFirst(),
			Fields: []Field{
				optionalText("name", "Name").Listed().Searchable(),
				optionalText("first_name", "First name").Searchable(),
				optionalText("last_name", "Last name").Searchable(),
				textField("email", "Email").Mandatory().Listed().Searchable(),
				textField("phone_number", "Phone number").Mandatory().Listed(),
				optionalText("company", "Company").Searchable(),
				optionalText("country", "Country"),
				optionalText("property_type", "Property type"),
				optionalText("message", "Message").Textarea().Searchable(),
				fileField("cv_url", "CV"),
				{Key: "status", Column: "status", Label: "Status", Kind: KindChoice, Choices: content.MessageStatuses, List: true},
				boolField("is_read", "Read").Listed(),
			},
		}),
		define[content.Partner](Resource{
			Key: ResourcePartners, Table: "partners", Singular: "Partner block", Plural: "Partners",
			Ordering: byID(),
			Fields: []Field{
				optionalText("title", "Title").Listed().Searchable(),
			},
		}),
		define[content.PartnerLogo](Resource{
			Key: ResourcePartnerLogos, Table: "partner_logos", Singular: "Partner logo", Plural: "Partner logos",
			Ordering: byOrder("partner_id"),
			Parent:   &ParentLink{Resource: ResourcePartners, Field: "partner_id"},
			Fields: []Field{
				refField("partner_id", "Partner block", ResourcePartners, false).Mandatory().Listed(),
				imageField("image_url", "Logo", false).Mandatory().Listed(),
				orderField(),
			},
		}),
		define[content.WorkProcess](Resource{
			Key: ResourceWorkProcesses, Table: "work_processes", Singular: "Work process", Plural: "Work processes",
			Ordering: byOrder(""),
			Fields: []Field{
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				imageField("image_url", "Image", true).Listed(),
				orderField(),
			},
		}),
		define[content.Approach](Resource{
			Key: ResourceApproaches, Table: "approaches", Singular: "Approach", Plural: "Approaches",
			Ordering: byOrder(""),
			Fields: []Field{
				localizedField("title", "Title").Listed().Searchable(),
				localizedField("description", "Description").Textarea(),
				legacyText("title", "Title"),
				legacyText("description", "Description").Textarea(),
				orderField(),
			},
		}),
	}
}

// DefaultRegistry returns the registry of all content resources.
func DefaultRegistry() *Registry {
	return MustRegistry(ContentResources()...)
}
