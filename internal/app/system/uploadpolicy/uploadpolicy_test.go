package uploadpolicy_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/uploadpolicy"
)

var (
	pngHead  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHead = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func TestCheck(t *testing.T) {
	p := uploadpolicy.Default(1000)

	tests := []struct {
		name     string
		size     int64
		declared string
		head     []byte
		want     error
		wantType string
	}{
		{"png ok", 500, "image/png", pngHead, nil, "image/png"},
		{"jpeg ok", 1000, "image/jpeg", jpegHead, nil, "image/jpeg"},
		{"jpg alias", 10, "image/jpg", jpegHead, nil, "image/jpeg"},
		{"empty", 0, "image/png", pngHead, uploadpolicy.ErrEmpty, ""},
		{"too large", 1001, "image/png", pngHead, uploadpolicy.ErrTooLarge, ""},
		{"gif declared", 10, "image/gif", []byte("GIF89a"), uploadpolicy.ErrType, ""},
		{"pdf declared", 10, "application/pdf", []byte("%PDF-1.4"), uploadpolicy.ErrType, ""},
		{"png label on text", 10, "image/png", []byte("hello world"), uploadpolicy.ErrType, ""},
		{"jpeg label on png", 10, "image/jpeg", pngHead, uploadpolicy.ErrType, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ct, err := p.Check(tc.size, tc.declared, tc.head)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				assert.Empty(t, ct)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, ct)
		})
	}
}

func TestDefault_FallsBackToTwoMegabytes(t *testing.T) {
	p := uploadpolicy.Default(0)
	assert.Equal(t, uploadpolicy.DefaultMaxBytes, p.MaxBytes)
	assert.Equal(t, "JPEG or PNG, up to 2 MB", p.Describe())
	assert.Equal(t, "image/jpeg,image/png", p.Accept())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 bytes", uploadpolicy.HumanSize(512))
	assert.Equal(t, "150 KB", uploadpolicy.HumanSize(150_000))
	assert.Equal(t, "2 MB", uploadpolicy.HumanSize(2_000_000))
	assert.Equal(t, "2.5 MB", uploadpolicy.HumanSize(2_500_000))
}

func fileHeader(t *testing.T, field, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestOpen_ValidPNG(t *testing.T) {
	p := uploadpolicy.Default(0)
	data := append(append([]byte{}, pngHead...), make([]byte, 100)...)
	fh := fileHeader(t, "file", "me.png", "image/png", data)

	up, err := p.Open(fh)
	require.NoError(t, err)
	assert.Equal(t, "me.png", up.Name)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, data, up.Data)
}

func TestOpen_TypeFromExtensionWhenUndeclared(t *testing.T) {
	p := uploadpolicy.Default(0)
	fh := fileHeader(t, "poster", "poster.jpg", "", jpegHead)

	up, err := p.Open(fh)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", up.ContentType)
}

func TestOpen_TooLarge(t *testing.T) {
	p := uploadpolicy.Default(50)
	data := append(append([]byte{}, pngHead...), make([]byte, 100)...)
	fh := fileHeader(t, "file", "big.png", "image/png", data)

	_, err := p.Open(fh)
	assert.ErrorIs(t, err, uploadpolicy.ErrTooLarge)
}

func TestOpen_Nil(t *testing.T) {
	_, err := uploadpolicy.Default(0).Open(nil)
	assert.ErrorIs(t, err, uploadpolicy.ErrEmpty)
}

func multipartRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFromRequest_Valid(t *testing.T) {
	p := uploadpolicy.Default(0)
	data := append(append([]byte{}, jpegHead...), make([]byte, 64)...)
	req := multipartRequest(t, "poster", "tour.jpg", "image/jpeg", data)

	up, err := p.FromRequest(httptest.NewRecorder(), req, "poster")
	require.NoError(t, err)
	assert.Equal(t, "tour.jpg", up.Name)
	assert.Equal(t, "image/jpeg", up.ContentType)
}

func TestFromRequest_MissingFile(t *testing.T) {
	req := multipartRequest(t, "file", "", "", nil)

	_, err := uploadpolicy.Default(0).FromRequest(httptest.NewRecorder(), req, "file")
	assert.ErrorIs(t, err, uploadpolicy.ErrEmpty)
}

func TestFromRequest_WrongType(t *testing.T) {
	req := multipartRequest(t, "file", "notes.txt", "text/plain", []byte("hello there"))

	_, err := uploadpolicy.Default(0).FromRequest(httptest.NewRecorder(), req, "file")
	assert.ErrorIs(t, err, uploadpolicy.ErrType)
}

func TestMessage(t *testing.T) {
	p := uploadpolicy.Default(0)
	assert.Equal(t, "choose an image to upload.", p.Message(uploadpolicy.ErrEmpty))
	assert.Equal(t, "the image must be no larger than 2 MB.", p.Message(uploadpolicy.ErrTooLarge))
	assert.Equal(t, "only JPEG or PNG images are accepted.", p.Message(uploadpolicy.ErrType))
	assert.Equal(t, "the upload could not be read.", p.Message(errors.New("boom")))
}
