package resources

import (
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBodyStripsScriptsAndReturnsBodyOnly(t *testing.T) {
	html := []byte(`<html><head><title>t</title><style>.a{}</style></head>
<body><nav>menu</nav><script>alert(1)</script><p>hello world</p><footer>foot</footer></body></html>`)

	body, err := extractBody(html)
	require.NoError(t, err)
	assert.Contains(t, body, "hello world")
	assert.NotContains(t, body, "alert(1)")
	assert.NotContains(t, body, "menu")
	assert.NotContains(t, body, "foot")
}

func TestExtractBodyFallsBackToFullTextWithoutBodyTag(t *testing.T) {
	body, err := extractBody([]byte(`<p>just a fragment</p>`))
	require.NoError(t, err)
	assert.Contains(t, body, "just a fragment")
}

func TestFetchHTMLDecodesGzipContent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		gz.Write([]byte("<html><body><p>compressed</p></body></html>"))
	}))
	defer ts.Close()

	data, err := fetchHTML(ts.URL)
	require.NoError(t, err)
	assert.Contains(t, string(data), "compressed")
}

func TestFetchHTMLReturnsErrorOnNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := fetchHTML(ts.URL)
	assert.Error(t, err)
}

func TestWebResourceDescriptorAndURI(t *testing.T) {
	desc := WebResourceDescriptor("https://example.com")
	assert.Equal(t, "web://https://example.com", desc.URI)
	assert.Equal(t, WebResourceURI("https://example.com"), desc.URI)
}
