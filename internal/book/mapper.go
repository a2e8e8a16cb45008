package book

import (
	"strconv"
	"strings"

	"bookshelf/internal/platform/googlebooks"
)

// Fallback values used when the catalog omits a field.
const (
	UnknownTitle       = "Unknown Title"
	UnknownAuthor      = "Unknown Author"
	UnspecifiedGenre   = "unspecified"
	NoDescription      = "No description available."
	authorSeparator    = ", "
	publishedDateDelim = "-"
)

// FromVolume maps a Google Books volume onto an unpersisted Book.
func FromVolume(v googlebooks.VolumeInfo) Book {
	b := Book{
		Title:           UnknownTitle,
		Author:          UnknownAuthor,
		Genre:           UnspecifiedGenre,
		PublicationYear: publicationYear(v.PublishedDate),
		Description:     NoDescription,
	}

	if v.Title != nil {
		b.Title = *v.Title
	}
	if len(v.Authors) > 0 {
		b.Author = strings.Join(v.Authors, authorSeparator)
	}
	if len(v.Categories) > 0 {
		b.Genre = v.Categories[0]
	}
	if v.Description != nil {
		b.Description = *v.Description
	}
	if v.ImageLinks != nil {
		b.CoverImageURL = v.ImageLinks.Thumbnail
	}
	return b
}

// publicationYear parses the text before the first '-' of "YYYY" or
// "YYYY-MM-DD". Anything unparseable yields 0.
func publicationYear(published *string) int {
	if published == nil {
		return 0
	}
	head, _, _ := strings.Cut(*published, publishedDateDelim)
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}
