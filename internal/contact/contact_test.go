package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRecord(t *testing.T) {
	t.Run("derives name and primaries", func(t *testing.T) {
		c := FromRecord(Record{
			ID:        "1",
			FirstName: " Ann",
			LastName:  "Lee ",
			PhoneNumbers: []PhoneNumber{
				{Label: "mobile", Number: "555-1111"},
				{Label: "work", Number: "555-2222"},
			},
			Emails:         []Email{{Label: "home", Address: "ann@example.com"}},
			ImageAvailable: true,
			ImageURI:       "file:///ann.png",
		})

		assert.Equal(t, " Ann", c.FirstName)
		assert.Equal(t, "Ann Lee", c.Name)
		assert.Equal(t, "555-1111", c.Phone)
		assert.Equal(t, "ann@example.com", c.Email)
		assert.Equal(t, "file:///ann.png", c.PosterImage)
		assert.Len(t, c.PhoneNumbers, 2)
	})

	t.Run("explicit name wins", func(t *testing.T) {
		c := FromRecord(Record{ID: "2", Name: "Dr. Bo", FirstName: "Bo"})
		assert.Equal(t, "Dr. Bo", c.Name)
		assert.Empty(t, c.Phone)
		assert.Empty(t, c.Email)
	})

	t.Run("image ignored when unavailable", func(t *testing.T) {
		c := FromRecord(Record{ID: "3", FirstName: "Cy", ImageURI: "file:///stale.png"})
		assert.Empty(t, c.PosterImage)
	})

	t.Run("nameless record has empty name", func(t *testing.T) {
		c := FromRecord(Record{ID: "4", PhoneNumbers: []PhoneNumber{{Number: "1"}}})
		assert.Empty(t, c.Name)
	})

	t.Run("contact does not alias record slices", func(t *testing.T) {
		r := Record{ID: "5", FirstName: "Di", PhoneNumbers: []PhoneNumber{{Number: "1"}}}
		c := FromRecord(r)
		r.PhoneNumbers[0].Number = "2"
		assert.Equal(t, "1", c.PhoneNumbers[0].Number)
		assert.Equal(t, "1", c.Raw.PhoneNumbers[0].Number)
	})
}

func TestFieldsNames(t *testing.T) {
	first, last := Fields{Name: "Mary Ann Smith"}.Names()
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Ann Smith", last)

	first, last = Fields{Name: "Mary Smith", FirstName: "May"}.Names()
	assert.Equal(t, "May", first)
	assert.Equal(t, "Smith", last)

	first, last = Fields{FirstName: "Ann"}.Names()
	assert.Equal(t, "Ann", first)
	assert.Empty(t, last)
}

func TestFieldsHasName(t *testing.T) {
	assert.False(t, Fields{Name: "  ", FirstName: "\t"}.HasName())
	assert.True(t, Fields{LastName: "Lee"}.HasName())
}

func TestApplyTo(t *testing.T) {
	prior := Record{
		ID:           "7",
		Name:         "Old Name",
		FirstName:    "Old",
		PhoneNumbers: []PhoneNumber{{Label: "work", Number: "1"}, {Label: "home", Number: "2"}},
		Emails:       []Email{{Label: "work", Address: "old@example.com"}},
		Note:         "old",
	}

	r := Fields{FirstName: "New", LastName: "Person", Phone: " 555 ", Note: "n"}.ApplyTo(prior)

	assert.Equal(t, "7", r.ID)
	assert.Empty(t, r.Name)
	assert.Equal(t, "New", r.FirstName)
	assert.Equal(t, "Person", r.LastName)
	assert.Equal(t, []PhoneNumber{{Label: LabelMobile, Number: "555"}}, r.PhoneNumbers)
	assert.Nil(t, r.Emails)
	assert.False(t, r.ImageAvailable)
	assert.Equal(t, "n", r.Note)
	assert.Len(t, prior.PhoneNumbers, 2, "prior record must stay untouched")

	r = Fields{FirstName: "A", Phone: "1", Email: "a@example.com", PosterImage: "file:///a.png"}.NewRecord()
	assert.Equal(t, []Email{{Label: LabelHome, Address: "a@example.com"}}, r.Emails)
	assert.True(t, r.ImageAvailable)
	assert.Equal(t, "New Person", FromRecord(Fields{FirstName: "New", LastName: "Person", Phone: "1"}.ApplyTo(prior)).Name)
}
