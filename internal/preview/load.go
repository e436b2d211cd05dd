package preview

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/smartlib/libreg/internal/wizard"
)

// Load reads a file from disk into an Asset. The media type comes from the
// extension and falls back to content sniffing; it is not checked here, so
// non-images reach the stager and are rejected there.
func Load(path string, maxBytes int64) (wizard.Asset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return wizard.Asset{}, fmt.Errorf("no file given")
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	st, err := os.Stat(path)
	if err != nil {
		return wizard.Asset{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if st.IsDir() {
		return wizard.Asset{}, fmt.Errorf("%s is a directory", path)
	}
	if maxBytes > 0 && st.Size() > maxBytes {
		return wizard.Asset{}, fmt.Errorf("%s is %d bytes, limit is %d", filepath.Base(path), st.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return wizard.Asset{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return wizard.Asset{
		Name:      filepath.Base(path),
		MediaType: DetectMediaType(filepath.Base(path), data),
		Data:      data,
	}, nil
}

// DetectMediaType guesses a media type from name, then from content.
func DetectMediaType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		// Drop parameters such as "; charset=utf-8".
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return strings.TrimSpace(t)
	}
	if len(data) == 0 {
		return ""
	}
	t := http.DetectContentType(data)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}
