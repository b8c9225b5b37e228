// Package media provides the clip model for the slideshow timeline and the
// ffmpeg/ffprobe adapters that decode, normalise and encode it.
package media

import (
	"path/filepath"
	"strings"
)

// MediaKind classifies an input file by its extension.
type MediaKind int

const (
	// KindUnsupported is any file whose extension is not on the allow-list.
	KindUnsupported MediaKind = iota
	// KindImage is a still frame held on screen for the clip duration.
	KindImage
	// KindVideo is a moving clip truncated to the clip duration.
	KindVideo
)

var extensionKinds = map[string]MediaKind{
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"gif":  KindImage,
	"mp4":  KindVideo,
	"avi":  KindVideo,
	"mov":  KindVideo,
	"mkv":  KindVideo,
}

// String returns the lowercase name of the kind.
func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}

// KindOf infers the media kind from the text after the last "." in filename,
// compared case-insensitively. Names without a "." are unsupported.
func KindOf(filename string) MediaKind {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return KindUnsupported
	}
	kind, ok := extensionKinds[strings.ToLower(filename[i+1:])]
	if !ok {
		return KindUnsupported
	}
	return kind
}

// IsAllowed reports whether filename has an accepted image or video extension.
func IsAllowed(filename string) bool {
	return KindOf(filename) != KindUnsupported
}

// MediaFile is an input file staged for a single render.
type MediaFile struct {
	Path string
	Kind MediaKind
}

// NewMediaFile classifies path by its extension.
func NewMediaFile(path string) MediaFile {
	return MediaFile{Path: path, Kind: KindOf(filepath.Base(path))}
}

// Name returns the base name of the file.
func (f MediaFile) Name() string {
	return filepath.Base(f.Path)
}
