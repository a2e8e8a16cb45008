package book

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() Book {
	return Book{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genre:           "Science Fiction",
		PublicationYear: 1965,
		Description:     "Spice.",
	}
}

func TestBook_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validBook().Validate())
	})

	t.Run("cover is optional", func(t *testing.T) {
		b := validBook()
		b.CoverImageURL = nil
		assert.NoError(t, b.Validate())
	})

	t.Run("blank fields and bad year are all reported", func(t *testing.T) {
		b := validBook()
		b.Title = "   "
		b.Author = ""
		b.PublicationYear = 0

		err := b.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalid))

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []FieldError{
			{Field: "title", Message: "title is required"},
			{Field: "author", Message: "author is required"},
			{Field: "publication_year", Message: "publication_year must be greater than 0"},
		}, verr.Fields)
		assert.Contains(t, err.Error(), "invalid book")
	})

	t.Run("negative year", func(t *testing.T) {
		b := validBook()
		b.PublicationYear = -4
		assert.ErrorIs(t, b.Validate(), ErrInvalid)
	})

	t.Run("negative id", func(t *testing.T) {
		b := validBook()
		b.ID = -3

		var verr *ValidationError
		require.ErrorAs(t, b.Validate(), &verr)
		assert.Equal(t, []FieldError{{Field: "id", Message: "id must not be negative"}}, verr.Fields)
	})
}

func TestParseISBN(t *testing.T) {
	code, err := ParseISBN(" 978-0-306-40615-7 ")
	require.NoError(t, err)
	assert.Equal(t, "9780306406157", code)

	code, err = ParseISBN("0-201-61622-x")
	require.NoError(t, err)
	assert.Equal(t, "020161622X", code)

	for _, raw := range []string{"", " - ", "123", "9780306406158"} {
		_, err := ParseISBN(raw)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, raw)
		assert.Equal(t, "isbn", verr.Fields[0].Field)
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{in: "", want: ViewAll},
		{in: "all", want: ViewAll},
		{in: "Favorites", want: ViewFavorites},
		{in: " read ", want: ViewRead},
		{in: "to-read", want: ViewToRead},
		{in: "to_read", want: ViewToRead},
		{in: "toread", want: ViewToRead},
		{in: "unread", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseView(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestView_Match(t *testing.T) {
	plain := validBook()
	fav := validBook()
	fav.IsFavorite = true
	read := validBook()
	read.IsRead = true

	assert.True(t, ViewAll.Match(plain))
	assert.True(t, ViewFavorites.Match(fav))
	assert.False(t, ViewFavorites.Match(plain))
	assert.True(t, ViewRead.Match(read))
	assert.False(t, ViewRead.Match(fav))
	assert.True(t, ViewToRead.Match(fav))
	assert.False(t, ViewToRead.Match(read))
}

func TestLess(t *testing.T) {
	a := Book{ID: 2, Title: "Apple"}
	b := Book{ID: 1, Title: "apple"}
	c := Book{ID: 3, Title: "Apple"}

	assert.True(t, Less(a, b))
	assert.True(t, Less(a, c))
	assert.False(t, Less(c, a))
	assert.False(t, Less(a, a))
}
