package store_test

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/mockdata"
	"tguardian/monitor-api/internal/store"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func newRec(id, status string, score float64) domain.TransactionRecord {
	return domain.TransactionRecord{
		TransactionID: id,
		UserID:        "USER_1",
		Status:        status,
		EnsembleScore: score,
		ModelScores:   map[string]float64{domain.ModelDNN: score},
	}
}

func sample() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		newRec("TXN_1", domain.StatusWarn, 0.6),
		newRec("TXN_2", domain.StatusFraud, 0.95),
		newRec("TXN_3", domain.StatusPass, 0.1),
	}
}

// ─── Reads ────────────────────────────────────────────────────────────────────

func TestAll_KeepsInsertionOrder(t *testing.T) {
	s := store.New(sample())
	got := s.All()
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"TXN_1", "TXN_2", "TXN_3"} {
		if got[i].TransactionID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].TransactionID)
		}
	}
}

func TestGet_Existing(t *testing.T) {
	s := store.New(sample())
	rec, ok := s.Get("TXN_2")
	if !ok {
		t.Fatal("expected to find TXN_2")
	}
	if rec.Status != domain.StatusFraud {
		t.Errorf("expected FRAUD, got %s", rec.Status)
	}
}

func TestGet_MissingID_ReturnsFalse(t *testing.T) {
	s := store.New(sample())
	if _, ok := s.Get("TXN_404"); ok {
		t.Error("expected ok=false for missing transaction")
	}
}

func TestReads_ReturnCopies(t *testing.T) {
	s := store.New(sample())

	all := s.All()
	all[0].Status = domain.StatusSafe
	all[0].ModelScores[domain.ModelDNN] = 0

	rec, _ := s.Get("TXN_1")
	if rec.Status != domain.StatusWarn {
		t.Errorf("mutating All() result leaked into store: status %s", rec.Status)
	}
	if rec.ModelScores[domain.ModelDNN] != 0.6 {
		t.Errorf("mutating All() result leaked into store: dnn %v", rec.ModelScores[domain.ModelDNN])
	}
}

func TestNew_CopiesInput(t *testing.T) {
	in := sample()
	s := store.New(in)
	in[0].Status = domain.StatusSafe
	if rec, _ := s.Get("TXN_1"); rec.Status != domain.StatusWarn {
		t.Errorf("store shares the input slice: status %s", rec.Status)
	}
}

func TestByStatus_FiltersInOrder(t *testing.T) {
	s := store.New(sample())
	got := s.ByStatus(domain.TransactionRecord.Flagged)
	if len(got) != 2 || got[0].TransactionID != "TXN_1" || got[1].TransactionID != "TXN_2" {
		t.Errorf("expected [TXN_1 TXN_2], got %v", ids(got))
	}
}

func TestSortedByScoreDesc(t *testing.T) {
	recs := append(sample(), newRec("TXN_4", domain.StatusWarn, 0.6))
	s := store.New(recs)
	got := ids(s.SortedByScoreDesc())
	want := []string{"TXN_2", "TXN_1", "TXN_4", "TXN_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// ─── UpdateStatus ─────────────────────────────────────────────────────────────

func TestUpdateStatus_ChangesOnlyThatStatus(t *testing.T) {
	data := mockdata.Build(mockdata.DefaultConfig())
	s := store.New(data)
	before := s.All()

	target := before[42].TransactionID
	rec, ok := s.UpdateStatus(target, domain.StatusSafe)
	if !ok {
		t.Fatalf("expected %s to be found", target)
	}
	if rec.Status != domain.StatusSafe {
		t.Errorf("returned record has status %s", rec.Status)
	}

	after := s.All()
	for i := range before {
		want := before[i]
		if want.TransactionID == target {
			want.Status = domain.StatusSafe
		}
		if !reflect.DeepEqual(want, after[i]) {
			t.Fatalf("record %s changed beyond its status:\nbefore %+v\nafter  %+v", after[i].TransactionID, want, after[i])
		}
	}
}

func TestUpdateStatus_SafeThenFraudQueryIsEmpty(t *testing.T) {
	s := store.New(sample())
	if _, ok := s.UpdateStatus("TXN_2", domain.StatusSafe); !ok {
		t.Fatal("expected TXN_2 to be found")
	}
	fraud := s.ByStatus(func(r domain.TransactionRecord) bool { return r.Status == domain.StatusFraud })
	if len(fraud) != 0 {
		t.Errorf("expected no FRAUD records, got %v", ids(fraud))
	}
}

func TestUpdateStatus_MissingID_ReportsNotFound(t *testing.T) {
	s := store.New(sample())
	before := s.All()
	if _, ok := s.UpdateStatus("TXN_404", domain.StatusSafe); ok {
		t.Error("expected ok=false for unknown id")
	}
	if !reflect.DeepEqual(before, s.All()) {
		t.Error("failed update must not change the dataset")
	}
}

func TestSetStatus_ReturnsPrevious(t *testing.T) {
	s := store.New(sample())
	prev, rec, err := s.SetStatus("TXN_1", domain.StatusFraud)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != domain.StatusWarn || rec.Status != domain.StatusFraud {
		t.Errorf("expected WARN → FRAUD, got %s → %s", prev, rec.Status)
	}
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	s := store.New(sample())
	if _, _, err := s.SetStatus("TXN_1", "MAYBE"); !errors.Is(err, store.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, _, err := s.SetStatus("TXN_404", domain.StatusSafe); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ─── AttachAnalysis ───────────────────────────────────────────────────────────

func TestAttachAnalysis_SetsOnlyAnalysis(t *testing.T) {
	s := store.New(sample())
	before, _ := s.Get("TXN_1")

	rec, err := s.AttachAnalysis("TXN_1", "looks like card testing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.LLMAnalysis == nil || *rec.LLMAnalysis != "looks like card testing" {
		t.Fatalf("analysis not attached: %v", rec.LLMAnalysis)
	}

	rec.LLMAnalysis = nil
	if !reflect.DeepEqual(before, rec) {
		t.Errorf("AttachAnalysis changed other fields:\nbefore %+v\nafter  %+v", before, rec)
	}
}

func TestAttachAnalysis_MissingID(t *testing.T) {
	s := store.New(sample())
	if _, err := s.AttachAnalysis("TXN_404", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ─── Settings ─────────────────────────────────────────────────────────────────

func TestSettings_DefaultsAndUpdate(t *testing.T) {
	s := store.New(nil)

	n := s.NotificationSettings()
	if n.AlertEmailAddress != "security@tma-innovation.com" || n.RiskScoreThresholdForCritical != 0.9 {
		t.Errorf("unexpected notification defaults: %+v", n)
	}

	n = s.UpdateNotificationSettings(func(ns *domain.NotificationSettings) {
		ns.ID = 99
		ns.SlackWebhookURL = "https://hooks.example.com/x"
	})
	if n.ID != 1 {
		t.Errorf("settings id must not change, got %d", n.ID)
	}
	if s.NotificationSettings().SlackWebhookURL != "https://hooks.example.com/x" {
		t.Error("expected slack url to be stored")
	}

	d := s.UpdateDetectionSettings(func(ds *domain.DetectionSettings) { ds.RiskScoreThreshold = 0.65 })
	if d.RiskScoreThreshold != 0.65 || d.DuplicateDetectionWindowHours != 24 {
		t.Errorf("unexpected detection settings: %+v", d)
	}
}

// ─── Concurrency (race detector) ─────────────────────────────────────────────

func TestStore_ConcurrentUpdates_NoRace(t *testing.T) {
	s := store.New(sample())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			status := domain.StatusSafe
			if n%2 == 0 {
				status = domain.StatusFraud
			}
			s.UpdateStatus("TXN_2", status)
			_, _ = s.AttachAnalysis("TXN_1", fmt.Sprintf("analysis %d", n))
		}(i)
		go func() {
			defer wg.Done()
			_ = s.All()
			_, _ = s.Get("TXN_2")
		}()
	}
	wg.Wait()

	rec, _ := s.Get("TXN_2")
	if rec.Status != domain.StatusSafe && rec.Status != domain.StatusFraud {
		t.Errorf("unexpected final status %s", rec.Status)
	}
}

func ids(recs []domain.TransactionRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.TransactionID
	}
	return out
}
