package deploy

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		codes []int
		want  Outcome
	}{
		{codes: []int{200, 201, 202, 204, 299}, want: Succeeded},
		{codes: []int{300, 301, 302, 304, 307, 308, 399}, want: Redirected},
		{codes: []int{400, 401, 403, 404, 409, 429, 499}, want: Rejected},
		{codes: []int{500, 502, 503, 599}, want: Rejected},
		{codes: []int{0, 100, 101, 199, 600, 999, -1}, want: Unexpected},
	}

	for _, tc := range testCases {
		for _, code := range tc.codes {
			assert.Equalf(t, tc.want, Classify(code), "Classify(%d)", code)
		}
	}
}

func TestClassify_Total(t *testing.T) {
	for code := 100; code < 600; code++ {
		o := Classify(code)
		if code >= 200 && code < 300 {
			assert.Equal(t, Succeeded, o)
			continue
		}
		assert.NotEqualf(t, Succeeded, o, "status %d must not be a success", code)
	}
}

func TestKuduURL(t *testing.T) {
	assert.Equal(t, "https://demo-bot.scm.azurewebsites.net/api/zip/site/wwwroot", KuduURL("Demo-Bot"))
}

func TestDefaultUsername(t *testing.T) {
	assert.Equal(t, "$demo-bot", DefaultUsername("demo-bot"))
	assert.Equal(t, "", DefaultUsername(""))
}

func TestErrors(t *testing.T) {
	var err error = &ArchiveError{Source: "site", Path: "site.zip", Err: fs.ErrPermission}
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Equal(t, "failed to archive site into site.zip: permission denied", err.Error())

	err = fmt.Errorf("publish: %w", &TransportError{URL: "https://example.scm.test", Err: errors.New("connection refused")})
	var te *TransportError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "https://example.scm.test", te.URL)

	err = &RejectionError{
		URL:      "https://example.scm.test",
		Outcome:  Rejected,
		Response: Response{StatusCode: 401},
	}
	assert.Equal(t, "deployment rejected by https://example.scm.test (401 Unauthorized)", err.Error())

	err = &RejectionError{
		URL:      "https://example.scm.test",
		Outcome:  Redirected,
		Response: Response{StatusCode: 302, Status: "302 Found", Body: "moved"},
	}
	assert.Equal(t, "deployment redirected by https://example.scm.test (302 Found): moved", err.Error())
}
