package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"My Photo.JPG", "My_Photo.JPG"},
		{"  spaced   out .mp4 ", "spaced_out_.mp4"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\clip.mov`, "C_Users_me_clip.mov"},
		{"café.jpg", "cafe.jpg"},
		{"日本.png", "png"},
		{"a$b%c!.gif", "abc.gif"},
		{".hidden.png", "hidden.png"},
		{"__init__.mp4", "init__.mp4"},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
