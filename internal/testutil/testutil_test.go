package testutil

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedServer_RecordsRequests(t *testing.T) {
	fs := NewFeedServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<Results/>"))
	}))

	resp, err := http.Get(fs.URL + "/feeds/search.php?show=Lost")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, "<Results/>", string(body))
	assert.Equal(t, []string{"/feeds/search.php?show=Lost"}, fs.Requests())
	assert.Equal(t, fs.URL, fs.Config().BaseURL)
}
