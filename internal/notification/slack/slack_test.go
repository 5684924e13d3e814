package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucelabs/zipdeploy/internal/config"
	"github.com/saucelabs/zipdeploy/internal/report"
)

func Test_shouldSendNotification(t *testing.T) {
	testCases := []struct {
		name     string
		token    string
		config   config.Slack
		passed   bool
		expected bool
	}{
		{
			name:     "empty token",
			token:    "",
			config:   config.Slack{Channels: []string{"test-channel"}, Send: config.WhenAlways},
			expected: false,
		},
		{
			name:     "empty slack channel",
			token:    "token",
			config:   config.Slack{Channels: []string{}, Send: config.WhenAlways},
			expected: false,
		},
		{
			name:     "send always",
			token:    "token",
			config:   config.Slack{Channels: []string{"test-channel"}, Send: config.WhenAlways},
			passed:   true,
			expected: true,
		},
		{
			name:     "send pass",
			token:    "token",
			config:   config.Slack{Channels: []string{"test-channel"}, Send: config.WhenPass},
			passed:   true,
			expected: true,
		},
		{
			name:     "send on fail",
			token:    "token",
			config:   config.Slack{Channels: []string{"test-channel"}, Send: config.WhenFail},
			passed:   false,
			expected: true,
		},
		{
			name:     "send on fail but passed",
			token:    "token",
			config:   config.Slack{Channels: []string{"test-channel"}, Send: config.WhenFail},
			passed:   true,
			expected: false,
		},
		{
			name:     "default",
			token:    "token",
			config:   config.Slack{Channels: []string{"test-channel"}},
			passed:   true,
			expected: false,
		},
	}

	for _, tc := range testCases {
		n := Notifier{Token: tc.token, Config: tc.config}
		got := n.shouldSendNotification(tc.passed)
		assert.Equalf(t, tc.expected, got, "test case name: %s", tc.name)
	}
}

type postedMessage struct {
	Channel     string
	Text        string
	Attachments string
	Auth        string
}

func newFakeSlack(t *testing.T) (*httptest.Server, func() []postedMessage) {
	var mu sync.Mutex
	var posted []postedMessage

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		require.NoError(t, r.ParseForm())

		mu.Lock()
		posted = append(posted, postedMessage{
			Channel:     r.PostForm.Get("channel"),
			Text:        r.PostForm.Get("text"),
			Attachments: r.PostForm.Get("attachments"),
			Auth:        r.Header.Get("Authorization") + r.PostForm.Get("token"),
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":      true,
			"channel": r.PostForm.Get("channel"),
			"ts":      "1234567890.000100",
		})
	}))

	return ts, func() []postedMessage {
		mu.Lock()
		defer mu.Unlock()
		return append([]postedMessage(nil), posted...)
	}
}

func TestNotifier_Notify(t *testing.T) {
	ts, posted := newFakeSlack(t)
	defer ts.Close()

	n := Notifier{
		Token:  "xoxb-test",
		Config: config.Slack{Channels: []string{"deployments", "alerts"}, Send: config.WhenFail},
		APIURL: ts.URL + "/",
	}

	r := report.Result{
		Name:     "demo-app",
		Source:   "/work/site",
		URL:      "https://demo-app.scm.azurewebsites.net/api/zip/site/wwwroot",
		Files:    2,
		Size:     2048,
		Outcome:  "rejected",
		Error:    "deployment rejected by the server (401 Unauthorized)",
		Duration: 1500 * time.Millisecond,
	}
	n.Notify(context.Background(), r)

	msgs := posted()
	require.Len(t, msgs, 2)
	assert.Equal(t, "deployments", msgs[0].Channel)
	assert.Equal(t, "alerts", msgs[1].Channel)
	assert.Equal(t, "Failed to publish demo-app", msgs[0].Text)
	assert.Contains(t, msgs[0].Auth, "xoxb-test")
	assert.Contains(t, msgs[0].Attachments, colorFailed)
	assert.Contains(t, msgs[0].Attachments, "401 Unauthorized")
	assert.Contains(t, msgs[0].Attachments, "2 kB")
}

func TestNotifier_Notify_ConditionNotMet(t *testing.T) {
	ts, posted := newFakeSlack(t)
	defer ts.Close()

	n := Notifier{
		Token:  "xoxb-test",
		Config: config.Slack{Channels: []string{"deployments"}, Send: config.WhenFail},
		APIURL: ts.URL + "/",
	}
	n.Notify(context.Background(), report.Result{Name: "demo-app", Passed: true})

	assert.Empty(t, posted())
}

func TestNotifier_Notify_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer ts.Close()

	n := Notifier{
		Token:  "xoxb-test",
		Config: config.Slack{Channels: []string{"nope"}, Send: config.WhenAlways},
		APIURL: ts.URL + "/",
	}

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), report.Result{Name: "demo-app", Passed: true})
	})
}
