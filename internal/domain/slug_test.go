package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Iron House", "iron-house"},
		{"  CrossFit -- Edgewater!! ", "crossfit-edgewater"},
		{"O'Neil's Gym #2", "o-neil-s-gym-2"},
		{"already-a-slug", "already-a-slug"},
		{"Café Fit", "caf-fit"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("iron-house-2"))
	assert.False(t, IsSlug("Iron House"))
	assert.False(t, IsSlug("-iron"))
	assert.False(t, IsSlug(""))
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "Missing field: email", MissingField("email").Error())
	assert.Equal(t, "invalid field: zip", (&ValidationError{Field: "zip"}).Error())
	assert.True(t, IsValidationError(InvalidField("state", "Use 2-letter state code")))
	assert.False(t, IsValidationError(ErrUnauthorized))
}
