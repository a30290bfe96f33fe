package linebot

import (
	"context"
	"sync"
	"testing"

	"translate_bot/internal/linebot/models"
	"translate_bot/internal/linebot/settings"
	"translate_bot/internal/metrics"
)

type translateCall struct {
	text string
	from string
	to   string
}

type fakeTranslator struct {
	mu    sync.Mutex
	calls []translateCall
	fn    func(text, from, to string) (string, error)
}

func (f *fakeTranslator) Translate(_ context.Context, text, from, to string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, translateCall{text: text, from: from, to: to})
	f.mu.Unlock()

	if f.fn == nil {
		return "translated", nil
	}
	return f.fn(text, from, to)
}

func (f *fakeTranslator) Calls() []translateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]translateCall(nil), f.calls...)
}

type fakeReplier struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
}

func newFakeReplier() *fakeReplier {
	return &fakeReplier{replies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeReplier) Reply(_ context.Context, replyToken, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.errs[replyToken]; err != nil {
		return err
	}
	f.replies[replyToken] = text
	return nil
}

func (f *fakeReplier) Get(replyToken string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	text, ok := f.replies[replyToken]
	return text, ok
}

func (f *fakeReplier) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.replies)
}

type fakeRecorder struct {
	mu       sync.Mutex
	records  []*models.TranslationRecord
	err      error
	onCreate func(record *models.TranslationRecord)
}

func (f *fakeRecorder) Create(_ context.Context, record *models.TranslationRecord) error {
	if f.onCreate != nil {
		f.onCreate(record)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return f.err
}

func (f *fakeRecorder) Records() []*models.TranslationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.TranslationRecord(nil), f.records...)
}

type testDeps struct {
	dispatcher *Dispatcher
	translator *fakeTranslator
	replier    *fakeReplier
	recorder   *fakeRecorder
	store      *settings.Store
	metrics    *metrics.Metrics
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	deps := &testDeps{
		translator: &fakeTranslator{},
		replier:    newFakeReplier(),
		recorder:   &fakeRecorder{},
		store:      settings.NewStore(""),
	}
	deps.metrics = metrics.New(deps.store.Len)

	pool := NewWorkerPool(2, 4)
	t.Cleanup(pool.Shutdown)

	dispatcher, err := NewDispatcher(DispatcherConfig{
		Store:      deps.store,
		Translator: deps.translator,
		Replier:    deps.replier,
		Pool:       pool,
		Recorder:   deps.recorder,
		Metrics:    deps.metrics,
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	deps.dispatcher = dispatcher
	return deps
}

func groupText(token, groupID, text string) models.Event {
	return models.Event{
		ID:          "evt-" + token,
		Type:        models.EventTypeMessage,
		ReplyToken:  token,
		Source:      models.Source{Type: models.SourceTypeGroup, GroupID: groupID, UserID: "U-member"},
		MessageType: models.MessageTypeText,
		Text:        text,
	}
}

func userText(token, text string) models.Event {
	return models.Event{
		ID:          "evt-" + token,
		Type:        models.EventTypeMessage,
		ReplyToken:  token,
		Source:      models.Source{Type: models.SourceTypeUser, UserID: "U-private"},
		MessageType: models.MessageTypeText,
		Text:        text,
	}
}
