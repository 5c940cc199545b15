package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tguardian/monitor-api/internal/audit"
	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/logging"
)

var at = time.Date(2026, 10, 14, 8, 30, 0, 0, time.UTC)

func sampleEvent() domain.VerdictEvent {
	rec := domain.TransactionRecord{TransactionID: "TXN_2", Status: domain.StatusSafe, EnsembleScore: 0.95}
	return audit.StatusChanged(rec, domain.StatusFraud, domain.ActionApprove, "customer confirmed", audit.SourceVerdict, at)
}

// ─── Event builders ───────────────────────────────────────────────────────────

func TestStatusChanged_Fields(t *testing.T) {
	ev := sampleEvent()
	if _, err := uuid.Parse(ev.ID); err != nil {
		t.Errorf("expected uuid id, got %q", ev.ID)
	}
	if ev.Kind != domain.EventStatusChanged || ev.PreviousStatus != domain.StatusFraud || ev.NewStatus != domain.StatusSafe {
		t.Errorf("unexpected transition: %+v", ev)
	}
	if ev.Action != domain.ActionApprove || ev.Source != audit.SourceVerdict || !ev.OccurredAt.Equal(at) {
		t.Errorf("unexpected metadata: %+v", ev)
	}
}

func TestAnalysisAttached_Fields(t *testing.T) {
	ev := audit.AnalysisAttached(domain.TransactionRecord{TransactionID: "TXN_7", EnsembleScore: 0.6}, "why?", at)
	if ev.Kind != domain.EventAnalysisAttached || ev.Source != audit.SourceLLM || ev.TransactionID != "TXN_7" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.NewStatus != "" {
		t.Errorf("analysis events carry no status, got %q", ev.NewStatus)
	}
	if a, b := audit.AnalysisAttached(domain.TransactionRecord{}, "", at), audit.AnalysisAttached(domain.TransactionRecord{}, "", at); a.ID == b.ID {
		t.Error("event ids must be unique")
	}
}

// ─── LogSink ──────────────────────────────────────────────────────────────────

func TestLogSink_WritesToContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	if err := (audit.LogSink{}).Record(ctx, sampleEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"audit event", "transaction_id=TXN_2", "new_status=SAFE", "previous_status=FRAUD"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

// ─── MongoSink ────────────────────────────────────────────────────────────────

type mockDataStore struct {
	insertOneFunc func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

func (m *mockDataStore) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if m.insertOneFunc != nil {
		return m.insertOneFunc(ctx, document, opts...)
	}
	return &mongo.InsertOneResult{}, nil
}

type mockCollectionProvider struct {
	collectionFunc func(name string) audit.DataStore
}

func (m *mockCollectionProvider) Collection(name string) audit.DataStore {
	if m.collectionFunc != nil {
		return m.collectionFunc(name)
	}
	return &mockDataStore{}
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context, *readpref.ReadPref) error { return m.err }

func TestMongoSink_InsertsIntoEventsCollection(t *testing.T) {
	var gotCollection string
	var gotDoc interface{}
	provider := &mockCollectionProvider{
		collectionFunc: func(name string) audit.DataStore {
			gotCollection = name
			return &mockDataStore{
				insertOneFunc: func(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
					gotDoc = document
					return &mongo.InsertOneResult{InsertedID: "x"}, nil
				},
			}
		},
	}

	ev := sampleEvent()
	if err := audit.NewMongoSink(provider, nil).Record(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCollection != audit.EventsCollection {
		t.Errorf("expected collection %s, got %s", audit.EventsCollection, gotCollection)
	}
	doc, ok := gotDoc.(domain.VerdictEvent)
	if !ok {
		t.Fatalf("expected VerdictEvent document, got %T", gotDoc)
	}
	if doc.ID != ev.ID {
		t.Errorf("expected id %s, got %s", ev.ID, doc.ID)
	}
}

func TestMongoSink_InsertError_IsWrapped(t *testing.T) {
	boom := errors.New("write concern failed")
	provider := &mockCollectionProvider{
		collectionFunc: func(string) audit.DataStore {
			return &mockDataStore{
				insertOneFunc: func(context.Context, interface{}, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
					return nil, boom
				},
			}
		},
	}
	err := audit.NewMongoSink(provider, nil).Record(context.Background(), sampleEvent())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if !strings.Contains(err.Error(), "TXN_2") {
		t.Errorf("error should name the transaction: %v", err)
	}
}

func TestMongoSink_Ping(t *testing.T) {
	provider := &mockCollectionProvider{}
	if err := audit.NewMongoSink(provider, nil).Ping(context.Background()); err != nil {
		t.Errorf("nil pinger must succeed, got %v", err)
	}
	if err := audit.NewMongoSink(provider, mockPinger{}).Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := audit.NewMongoSink(provider, mockPinger{err: errors.New("no primary")}).Ping(context.Background()); err == nil {
		t.Error("expected ping failure")
	}
}

// ─── RedisSink ────────────────────────────────────────────────────────────────

type mockStreamClient struct {
	xaddFunc func(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	pingErr  error
}

func (m *mockStreamClient) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	if m.xaddFunc != nil {
		return m.xaddFunc(ctx, a)
	}
	return redis.NewStringResult("1-0", nil)
}

func (m *mockStreamClient) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.pingErr)
}

func TestRedisSink_AppendsToStream(t *testing.T) {
	var got *redis.XAddArgs
	client := &mockStreamClient{
		xaddFunc: func(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
			got = a
			return redis.NewStringResult("1700000000000-0", nil)
		},
	}

	ev := sampleEvent()
	if err := audit.NewRedisSink(client, "").Record(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("XAdd was not called")
	}
	if got.Stream != audit.DefaultStream || got.ID != "*" || !got.Approx {
		t.Errorf("unexpected args: %+v", got)
	}

	values, ok := got.Values.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map values, got %T", got.Values)
	}
	if values["transaction_id"] != "TXN_2" || values["kind"] != domain.EventStatusChanged {
		t.Errorf("unexpected values: %v", values)
	}
	var decoded domain.VerdictEvent
	if err := json.Unmarshal([]byte(values["payload"].(string)), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.ID != ev.ID || decoded.NewStatus != domain.StatusSafe {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestRedisSink_Errors(t *testing.T) {
	client := &mockStreamClient{
		xaddFunc: func(context.Context, *redis.XAddArgs) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("READONLY"))
		},
		pingErr: errors.New("connection refused"),
	}
	sink := audit.NewRedisSink(client, "custom")
	if err := sink.Record(context.Background(), sampleEvent()); err == nil || !strings.Contains(err.Error(), "custom") {
		t.Errorf("expected xadd error naming the stream, got %v", err)
	}
	if err := sink.Ping(context.Background()); err == nil {
		t.Error("expected ping failure")
	}
}

// ─── Tee ──────────────────────────────────────────────────────────────────────

type countingSink struct {
	name  string
	calls int
	err   error
}

func (c *countingSink) Name() string { return c.name }

func (c *countingSink) Ping(context.Context) error { return c.err }

func (c *countingSink) Record(context.Context, domain.VerdictEvent) error {
	c.calls++
	return c.err
}

func TestTee_FansOutAndJoinsErrors(t *testing.T) {
	ok := &countingSink{name: "log"}
	bad := &countingSink{name: "mongo", err: errors.New("down")}
	tee := audit.Tee{ok, bad}

	if tee.Name() != "log+mongo" {
		t.Errorf("unexpected name %q", tee.Name())
	}
	err := tee.Record(context.Background(), sampleEvent())
	if !errors.Is(err, bad.err) {
		t.Errorf("expected joined error, got %v", err)
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Errorf("expected one call each, got %d and %d", ok.calls, bad.calls)
	}
	if tee.Ping(context.Background()) == nil {
		t.Error("expected ping failure from the failing sink")
	}
	if (audit.Tee{}).Name() != "none" {
		t.Error("empty tee should be named none")
	}
}
