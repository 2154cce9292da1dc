package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeForm_OmitsNilValues(t *testing.T) {
	var missing *string
	caption := "hello"

	form := EncodeForm(map[string]any{
		"image_url":        "https://example.com/a.jpg",
		"caption":          &caption,
		"user_tags":        missing,
		"location":         nil,
		"is_carousel_item": true,
		"count":            3,
		"ratio":            1.5,
	})

	assert.Equal(t, "https://example.com/a.jpg", form.Get("image_url"))
	assert.Equal(t, "hello", form.Get("caption"))
	assert.Equal(t, "true", form.Get("is_carousel_item"))
	assert.Equal(t, "3", form.Get("count"))
	assert.Equal(t, "1.5", form.Get("ratio"))
	assert.False(t, form.Has("user_tags"), "nil pointer must be omitted")
	assert.False(t, form.Has("location"), "nil must be omitted")
	assert.Len(t, form, 5)
}

func TestEncodeForm_KeepsEmptyString(t *testing.T) {
	form := EncodeForm(map[string]any{"caption": ""})

	assert.True(t, form.Has("caption"), "an empty string is a defined value")
	assert.Equal(t, "caption=", form.Encode())
}

func TestEncodeForm_Empty(t *testing.T) {
	assert.Empty(t, EncodeForm(nil))
	assert.Equal(t, "", EncodeForm(map[string]any{"a": nil}).Encode())
}
