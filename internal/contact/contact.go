// sentiric-contacts-service/internal/contact/contact.go

// Package contact holds the normalized contact shape shared by every layer,
// and the translation from the device store's native record into it.
package contact

import "strings"

// Default labels used when a record is built from submitted fields.
const (
	LabelMobile = "mobile"
	LabelHome   = "home"
)

// PhoneNumber is one labelled entry of a contact's phone list.
type PhoneNumber struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

// Email is one labelled entry of a contact's email list.
type Email struct {
	Label   string `json:"label"`
	Address string `json:"email"`
}

// Record is the device store's native shape. It is kept verbatim on every
// Contact because the store's update API replaces whole records.
type Record struct {
	ID             string        `json:"id"`
	Name           string        `json:"name,omitempty"`
	FirstName      string        `json:"firstName,omitempty"`
	LastName       string        `json:"lastName,omitempty"`
	PhoneNumbers   []PhoneNumber `json:"phoneNumbers,omitempty"`
	Emails         []Email       `json:"emails,omitempty"`
	ImageAvailable bool          `json:"imageAvailable"`
	ImageURI       string        `json:"imageUri,omitempty"`
	Note           string        `json:"note,omitempty"`
}

// Contact is the normalized, application-facing contact.
type Contact struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Phone        string        `json:"phone"`
	PhoneNumbers []PhoneNumber `json:"phoneNumbers"`
	Email        string        `json:"email"`
	Emails       []Email       `json:"emails"`
	PosterImage  string        `json:"posterImage,omitempty"`
	Note         string        `json:"note"`
	Raw          Record        `json:"-"`
}

// Fields is what a caller submits to add or update a contact.
type Fields struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	PosterImage string `json:"posterImage,omitempty"`
	Note        string `json:"note,omitempty"`
}

// DisplayName returns the explicit name when set, otherwise first and last
// name joined and trimmed.
func DisplayName(name, first, last string) string {
	if name != "" {
		return name
	}
	return strings.TrimSpace(first + " " + last)
}

// FromRecord normalizes a store record. The returned contact owns copies of
// the record's slices.
func FromRecord(r Record) Contact {
	c := Contact{
		ID:           r.ID,
		Name:         DisplayName(r.Name, r.FirstName, r.LastName),
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PhoneNumbers: append([]PhoneNumber(nil), r.PhoneNumbers...),
		Emails:       append([]Email(nil), r.Emails...),
		Note:         r.Note,
		Raw:          r.Clone(),
	}
	if len(r.PhoneNumbers) > 0 {
		c.Phone = r.PhoneNumbers[0].Number
	}
	if len(r.Emails) > 0 {
		c.Email = r.Emails[0].Address
	}
	if r.ImageAvailable {
		c.PosterImage = r.ImageURI
	}
	return c
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	r.PhoneNumbers = append([]PhoneNumber(nil), r.PhoneNumbers...)
	r.Emails = append([]Email(nil), r.Emails...)
	return r
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {
	c.PhoneNumbers = append([]PhoneNumber(nil), c.PhoneNumbers...)
	c.Emails = append([]Email(nil), c.Emails...)
	c.Raw = c.Raw.Clone()
	return c
}

// Names returns the first and last name to store for f. Empty parts are
// derived from the display name: first word, then the remaining words.
func (f Fields) Names() (first, last string) {
	first, last = strings.TrimSpace(f.FirstName), strings.TrimSpace(f.LastName)
	words := strings.Fields(f.Name)
	if first == "" && len(words) > 0 {
		first = words[0]
	}
	if last == "" && len(words) > 1 {
		last = strings.Join(words[1:], " ")
	}
	return first, last
}

// HasName reports whether any of the name fields is non-blank.
func (f Fields) HasName() bool {
	return strings.TrimSpace(f.FirstName) != "" ||
		strings.TrimSpace(f.LastName) != "" ||
		strings.TrimSpace(f.Name) != ""
}

// NewRecord builds a fresh store record from submitted fields.
func (f Fields) NewRecord() Record {
	return f.ApplyTo(Record{})
}

// ApplyTo overlays f on a prior record. Names, phone, email, image and note
// replace the prior values wholesale. The id is kept and the explicit display
// name is cleared so it follows the new name parts.
func (f Fields) ApplyTo(prior Record) Record {
	r := prior.Clone()
	r.FirstName, r.LastName = f.Names()
	r.Name = ""
	r.PhoneNumbers = []PhoneNumber{{Label: LabelMobile, Number: strings.TrimSpace(f.Phone)}}
	r.Emails = nil
	if email := strings.TrimSpace(f.Email); email != "" {
		r.Emails = []Email{{Label: LabelHome, Address: email}}
	}
	r.ImageURI = f.PosterImage
	r.ImageAvailable = f.PosterImage != ""
	r.Note = f.Note
	return r
}
