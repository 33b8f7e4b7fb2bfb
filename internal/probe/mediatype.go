package probe

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
)

// Sniff detects the content type of the file at path from its first bytes.
// An empty file is plain text.
func Sniff(fsys afero.Fs, path string) (*mimetype.MIME, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mimetype.DetectReader(f)
}

// IsText reports whether m is plain text or a format derived from it, such
// as JSON, CSV or source code.
func IsText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// MediaType strips parameters such as charset from a detected type
func MediaType(m *mimetype.MIME) string {
	t, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(t)
}

// ContentType sniffs the media type of a file, e.g. "application/pdf"
func (p *FSProbe) ContentType(ctx context.Context, path string) (string, error) {
	t, err := withDeadline(ctx, p.timeout, func() (string, error) {
		fi, err := p.fs.Stat(path)
		if err != nil {
			return "", err
		}
		if fi.Size() == 0 {
			return "text/plain", nil
		}
		m, err := Sniff(p.fs, path)
		if err != nil {
			return "", err
		}
		return MediaType(m), nil
	})
	if err != nil {
		return "", classify(path, err)
	}
	return t, nil
}
