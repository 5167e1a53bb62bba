// Package uploadpolicy validates image uploads before they are forwarded to
// the API. Headshots and posters share a single Policy.
package uploadpolicy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// DefaultMaxBytes is 2 MB.
const DefaultMaxBytes int64 = 2_000_000

var (
	ErrEmpty    = errors.New("no file selected")
	ErrTooLarge = errors.New("file is too large")
	ErrType     = errors.New("file type not allowed")
)

// Policy bounds an upload by size and content type. The zero value allows
// nothing; use Default.
type Policy struct {
	MaxBytes int64
	Allowed  []string
}

// Default returns the image policy: JPEG or PNG no larger than maxBytes.
// A non-positive maxBytes falls back to DefaultMaxBytes.
func Default(maxBytes int64) Policy {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Policy{
		MaxBytes: maxBytes,
		Allowed:  []string{"image/jpeg", "image/png"},
	}
}

// Upload is a validated file held in memory.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Reader returns a fresh reader over the upload's bytes.
func (u Upload) Reader() io.Reader {
	return bytes.NewReader(u.Data)
}

// Check validates size, the declared content type and the sniffed content
// type of head (the first bytes of the file). It returns the content type to
// forward.
func (p Policy) Check(size int64, declared string, head []byte) (string, error) {
	if size <= 0 {
		return "", ErrEmpty
	}
	if size > p.MaxBytes {
		return "", fmt.Errorf("%w: %s exceeds the %s limit", ErrTooLarge, HumanSize(size), HumanSize(p.MaxBytes))
	}

	mt := normalizeType(declared)
	if !p.allows(mt) {
		return "", fmt.Errorf("%w: %s (use %s)", ErrType, displayType(mt), p.allowedList())
	}

	sniffed := normalizeType(http.DetectContentType(head))
	if sniffed != mt {
		return "", fmt.Errorf("%w: content is %s, not %s", ErrType, displayType(sniffed), mt)
	}
	return mt, nil
}

// Open reads and validates a file from a parsed multipart form.
func (p Policy) Open(fh *multipart.FileHeader) (Upload, error) {
	if fh == nil || fh.Filename == "" {
		return Upload{}, ErrEmpty
	}
	if fh.Size > p.MaxBytes {
		return Upload{}, fmt.Errorf("%w: %s exceeds the %s limit", ErrTooLarge, HumanSize(fh.Size), HumanSize(p.MaxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, p.MaxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}

	declared := fh.Header.Get("Content-Type")
	if declared == "" {
		declared = mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename)))
	}
	ct, err := p.Check(int64(len(data)), declared, data)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Name: filepath.Base(fh.Filename), ContentType: ct, Data: data}, nil
}

// multipartSlack covers the multipart envelope around the file itself.
const multipartSlack = 1 << 20

// FromRequest parses a multipart request body bounded by the policy and
// validates the file posted in field.
func (p Policy) FromRequest(w http.ResponseWriter, r *http.Request, field string) (Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, p.MaxBytes+multipartSlack)
	if err := r.ParseMultipartForm(p.MaxBytes + multipartSlack); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return Upload{}, fmt.Errorf("%w: request exceeds %s", ErrTooLarge, HumanSize(p.MaxBytes))
		}
		return Upload{}, fmt.Errorf("parse upload: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return Upload{}, ErrEmpty
		}
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	f.Close()
	return p.Open(fh)
}

// Message turns an upload refusal into the tail of a banner, e.g.
// "Failed to upload poster: " + p.Message(err).
func (p Policy) Message(err error) string {
	switch {
	case errors.Is(err, ErrEmpty):
		return "choose an image to upload."
	case errors.Is(err, ErrTooLarge):
		return "the image must be no larger than " + HumanSize(p.MaxBytes) + "."
	case errors.Is(err, ErrType):
		return "only " + p.allowedList() + " images are accepted."
	default:
		return "the upload could not be read."
	}
}

// Describe summarizes the policy for form hints, e.g. "JPEG or PNG, up to 2 MB".
func (p Policy) Describe() string {
	return fmt.Sprintf("%s, up to %s", p.allowedList(), HumanSize(p.MaxBytes))
}

// Accept is the value for an <input type="file" accept="..."> attribute.
func (p Policy) Accept() string {
	return strings.Join(p.Allowed, ",")
}

func (p Policy) allows(mt string) bool {
	for _, a := range p.Allowed {
		if a == mt {
			return true
		}
	}
	return false
}

func (p Policy) allowedList() string {
	names := make([]string, 0, len(p.Allowed))
	for _, a := range p.Allowed {
		names = append(names, displayType(a))
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}

func normalizeType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	if mt == "image/jpg" || mt == "image/pjpeg" {
		return "image/jpeg"
	}
	return mt
}

func displayType(mt string) string {
	switch mt {
	case "":
		return "unknown type"
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	}
	return mt
}

// HumanSize formats n bytes in decimal units.
func HumanSize(n int64) string {
	switch {
	case n >= 1_000_000:
		mb := float64(n) / 1_000_000
		if mb == float64(int64(mb)) {
			return fmt.Sprintf("%d MB", int64(mb))
		}
		return fmt.Sprintf("%.1f MB", mb)
	case n >= 1_000:
		return fmt.Sprintf("%d KB", n/1_000)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
