package domain

// MaxUploadBytes is the default upper bound for an uploaded image.
const MaxUploadBytes = 5 << 20

// allowedImageTypes maps accepted MIME types to the file extension used
// when storing them.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExtension returns the stored extension for mime, or false when the
// type is not accepted.
func ImageExtension(mime string) (string, bool) {
	ext, ok := allowedImageTypes[mime]
	return ext, ok
}

// StoredFile describes an uploaded object.
type StoredFile struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
}
