// Package forms holds the typed validators for user-submitted content.
// Validators produce field-level error messages; they never set the author or
// post references, which handlers inject from the session.
package forms

import (
	"image"
	"mime/multipart"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"inkwell/internal/utils"
)

// Validation messages shown next to the offending field.
const (
	TextRequiredMessage = "This field is required."
	InvalidImageMessage = "Upload a valid image. The file you uploaded was either corrupted or not an image."
)

// PostForm validates a new or edited post. Image is optional; when present it
// must actually decode as an image, an extension check alone is not enough.
type PostForm struct {
	Text    string
	GroupID *uint
	Image   *multipart.FileHeader

	Errors map[string]string
}

func NewPostForm(text, groupID string, image *multipart.FileHeader) *PostForm {
	form := &PostForm{
		Text:   text,
		Image:  image,
		Errors: map[string]string{},
	}
	if id := utils.StringToUint(groupID); id != 0 {
		form.GroupID = &id
	}
	return form
}

// Valid runs validation and reports the outcome. Errors is populated with a
// message per rejected field.
func (f *PostForm) Valid() bool {
	if f.Text == "" {
		f.Errors["text"] = TextRequiredMessage
	}
	if f.Image != nil && !decodable(f.Image) {
		f.Errors["image"] = InvalidImageMessage
	}
	return len(f.Errors) == 0
}

// GroupSelected reports whether the given group is the form's current choice.
// Used by the template to mark the selected option.
func (f *PostForm) GroupSelected(id uint) bool {
	return f.GroupID != nil && *f.GroupID == id
}

// decodable checks the payload is a real image by decoding its header.
func decodable(header *multipart.FileHeader) bool {
	file, err := header.Open()
	if err != nil {
		return false
	}
	defer file.Close()

	_, _, err = image.DecodeConfig(file)
	return err == nil
}

// CommentForm validates a reply to a post.
type CommentForm struct {
	Text string

	Errors map[string]string
}

func NewCommentForm(text string) *CommentForm {
	return &CommentForm{
		Text:   text,
		Errors: map[string]string{},
	}
}

func (f *CommentForm) Valid() bool {
	if f.Text == "" {
		f.Errors["text"] = TextRequiredMessage
	}
	return len(f.Errors) == 0
}
