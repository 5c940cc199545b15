package notify_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/notify"
)

type staticSettings domain.NotificationSettings

func (s staticSettings) NotificationSettings() domain.NotificationSettings {
	return domain.NotificationSettings(s)
}

func enabled(url string) domain.NotificationSettings {
	return domain.NotificationSettings{
		HighPriorityNotificationsEnabled: true,
		SlackWebhookURL:                  url,
		RiskScoreThresholdForCritical:    0.9,
	}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// ─── Classify ─────────────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	on := enabled("https://hooks.example.com/x")
	cases := []struct {
		name     string
		settings domain.NotificationSettings
		rec      domain.TransactionRecord
		want     string
	}{
		{"fraud verdict", on, domain.TransactionRecord{Status: domain.StatusFraud, EnsembleScore: 0.4}, notify.EventVerdictFraud},
		{"critical score", on, domain.TransactionRecord{Status: domain.StatusWarn, EnsembleScore: 0.9}, notify.EventHighRisk},
		{"cleared as safe", on, domain.TransactionRecord{Status: domain.StatusSafe, EnsembleScore: 0.98}, ""},
		{"below threshold", on, domain.TransactionRecord{Status: domain.StatusWarn, EnsembleScore: 0.7}, ""},
		{"disabled", domain.NotificationSettings{SlackWebhookURL: "https://x", RiskScoreThresholdForCritical: 0.9}, domain.TransactionRecord{Status: domain.StatusFraud}, ""},
		{"no url", enabled(""), domain.TransactionRecord{Status: domain.StatusFraud}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := notify.Classify(tc.settings, tc.rec); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

// ─── Delivery ─────────────────────────────────────────────────────────────────

func TestNotifyAsync_PostsSlackMessage(t *testing.T) {
	var mu sync.Mutex
	var gotEvent string
	var got notify.Message

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotEvent = r.Header.Get("X-TGuardian-Event")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := notify.New(staticSettings(enabled(srv.URL)), quiet())
	rec := domain.TransactionRecord{TransactionID: "TXN_9427", UserID: "USER_5617", Amount: 39.79, Location: "Sydney", Status: domain.StatusFraud, EnsembleScore: 0.97}
	if !n.NotifyAsync(rec) {
		t.Fatal("expected delivery to start")
	}
	n.Wait()

	mu.Lock()
	defer mu.Unlock()
	if gotEvent != notify.EventVerdictFraud {
		t.Errorf("expected event header %s, got %q", notify.EventVerdictFraud, gotEvent)
	}
	if !strings.Contains(got.Text, "TXN_9427") || !strings.Contains(got.Text, "$39.79") {
		t.Errorf("unexpected message text: %q", got.Text)
	}
}

func TestNotifyAsync_SkipsWhenNotQualified(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	n := notify.New(staticSettings(enabled(srv.URL)), quiet())
	if n.NotifyAsync(domain.TransactionRecord{Status: domain.StatusSafe, EnsembleScore: 0.2}) {
		t.Error("expected no delivery for a low-risk SAFE record")
	}
	n.Wait()
	if called {
		t.Error("webhook must not be called")
	}
}

func TestNotifyAsync_UnreachableEndpoint_DoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	n := notify.New(staticSettings(enabled(url)), quiet())
	n.NotifyAsync(domain.TransactionRecord{TransactionID: "TXN_1", Status: domain.StatusFraud})
	n.Wait()
}
