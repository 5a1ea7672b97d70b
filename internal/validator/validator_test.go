package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := New()

	assert.True(t, v.Valid(), "new validator should have no errors")

	v.Check(true, "ok", "must not appear")
	assert.True(t, v.Valid())

	v.Check(false, "field", "must be provided")
	assert.False(t, v.Valid())
	assert.Equal(t, "must be provided", v.Errors["field"])

	// The first error for a key wins.
	v.AddError("field", "another message")
	assert.Equal(t, "must be provided", v.Errors["field"])
}

func TestIn(t *testing.T) {
	assert.True(t, In("admin", "admin", "regular"))
	assert.False(t, In("root", "admin", "regular"))
	assert.False(t, In("admin"))
}

func TestMatchesEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"bob.smith+tag@sub.example.co.uk",
	}
	invalid := []string{
		"",
		"alice",
		"alice@",
		"@example.com",
		"alice example@example.com",
	}

	for _, email := range valid {
		assert.True(t, Matches(email, EmailRX), "expected %q to be valid", email)
	}
	for _, email := range invalid {
		assert.False(t, Matches(email, EmailRX), "expected %q to be invalid", email)
	}
}

func TestUnique(t *testing.T) {
	assert.True(t, Unique([]string{"a", "b", "c"}))
	assert.True(t, Unique([]string{}))
	assert.False(t, Unique([]string{"a", "b", "a"}))
}
