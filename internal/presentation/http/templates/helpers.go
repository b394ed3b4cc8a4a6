package templates

import "strconv"

func pageTitle(title string) string {
	if title == "" {
		return SiteTitle
	}
	return title + " | " + SiteTitle
}

func fieldID(name string) string {
	return "id_" + name
}

func resultLabel(total int64, searched bool) string {
	if searched {
		return strconv.FormatInt(total, 10) + " results"
	}
	return strconv.FormatInt(total, 10) + " total"
}

func pageLabel(page, pages int) string {
	return "Page " + strconv.Itoa(page) + " of " + strconv.Itoa(pages)
}
