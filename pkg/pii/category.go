package pii

import (
	"errors"
	"strings"
)

type Category string

const (
	CategoryPersonName   Category = "person_names"
	CategoryIDNumber     Category = "identification_numbers"
	CategoryPhoneNumber  Category = "phone_numbers"
	CategoryEmailAddress Category = "email_addresses"
	CategoryDate         Category = "dates"
	CategoryAddress      Category = "addresses"

	CategoryPhoto     Category = "photo"
	CategorySignature Category = "signature"
	CategoryLogo      Category = "logo"
)

var ErrInvalidCategory = errors.New("invalid category")

// TextCategories lists the categories found by pattern matching, in scan order.
var TextCategories = []Category{
	CategoryPersonName,
	CategoryIDNumber,
	CategoryPhoneNumber,
	CategoryEmailAddress,
	CategoryDate,
	CategoryAddress,
}

var ImageCategories = []Category{
	CategoryPhoto,
	CategorySignature,
	CategoryLogo,
}

func ParseCategory(val string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(val)))

	if !c.Valid() {
		return "", ErrInvalidCategory
	}

	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPersonName, CategoryIDNumber, CategoryPhoneNumber, CategoryEmailAddress, CategoryDate, CategoryAddress:
		return true

	case CategoryPhoto, CategorySignature, CategoryLogo:
		return true
	}

	return false
}

func (c Category) ContentType() ContentType {
	switch c {
	case CategoryPhoto, CategorySignature, CategoryLogo:
		return ContentTypeImage
	}

	return ContentTypeText
}

// Blurred reports whether regions of this category are blurred rather than filled.
func (c Category) Blurred() bool {
	return c.ContentType() == ContentTypeImage
}
