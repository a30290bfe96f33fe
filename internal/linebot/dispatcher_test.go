package linebot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"translate_bot/internal/linebot/command"
	"translate_bot/internal/linebot/models"
	"translate_bot/internal/linebot/settings"
)

func TestReplyJoinAlwaysWelcomes(t *testing.T) {
	deps := newTestDeps(t)

	sources := []models.Source{
		{Type: models.SourceTypeGroup, GroupID: "C1"},
		{Type: models.SourceTypeRoom, RoomID: "R1"},
		{Type: models.SourceTypeUser, UserID: "U1"},
	}
	for _, source := range sources {
		text, ok := deps.dispatcher.Reply(context.Background(), models.Event{Type: models.EventTypeJoin, Source: source})
		require.True(t, ok, "source=%s", source.Type)
		assert.Equal(t, WelcomeText(models.DefaultTranslatePrefix), text)
	}
	assert.Empty(t, deps.translator.Calls())
}

func TestReplyIgnoresNonTextAndOtherEvents(t *testing.T) {
	deps := newTestDeps(t)

	events := []models.Event{
		{Type: models.EventTypeOther},
		{Type: models.EventTypeMessage, MessageType: "sticker", Source: models.Source{Type: models.SourceTypeUser, UserID: "U1"}},
		{Type: models.EventTypeMessage, MessageType: "image", Source: models.Source{Type: models.SourceTypeGroup, GroupID: "C1"}},
	}
	for _, event := range events {
		_, ok := deps.dispatcher.Reply(context.Background(), event)
		assert.False(t, ok, "event=%+v", event)
	}
	assert.Empty(t, deps.translator.Calls())
	assert.Equal(t, 0, deps.store.Len())
}

func TestReplyPrivateHelp(t *testing.T) {
	deps := newTestDeps(t)

	for _, text := range []string{"/help", "說明"} {
		reply, ok := deps.dispatcher.Reply(context.Background(), userText("t", text))
		require.True(t, ok)
		assert.Equal(t, PrivateHelpText(models.DefaultTranslatePrefix), reply)
	}
	assert.Empty(t, deps.translator.Calls())
}

func TestReplyPrivateTranslatesFullText(t *testing.T) {
	deps := newTestDeps(t)
	deps.translator.fn = func(text, from, to string) (string, error) { return "xin chào", nil }

	reply, ok := deps.dispatcher.Reply(context.Background(), userText("t", "你好"))
	require.True(t, ok)
	assert.Equal(t, "🇻🇳 xin chào\n\n📝 你好", reply)
	assert.Equal(t, []translateCall{{text: "你好", from: "zh-TW", to: "vi"}}, deps.translator.Calls())
	assert.Equal(t, 0, deps.store.Len(), "private chats never create group settings")
}

func TestReplyPrivateSlashTextIsTranslated(t *testing.T) {
	deps := newTestDeps(t)

	_, ok := deps.dispatcher.Reply(context.Background(), userText("t", "/status"))
	require.True(t, ok)
	require.Len(t, deps.translator.Calls(), 1)
	assert.Equal(t, "/status", deps.translator.Calls()[0].text)
}

func TestReplyGroupPrefix(t *testing.T) {
	deps := newTestDeps(t)

	reply, ok := deps.dispatcher.Reply(context.Background(), groupText("t1", "C1", "@翻譯 hello"))
	require.True(t, ok)
	assert.Equal(t, "🇻🇳 translated\n\n📝 hello", reply)
	assert.Equal(t, []translateCall{{text: "hello", from: "auto", to: "vi"}}, deps.translator.Calls())
}

func TestReplyGroupPrefixEmptyRemainder(t *testing.T) {
	deps := newTestDeps(t)

	for _, text := range []string{"@翻譯", "@翻譯   "} {
		_, ok := deps.dispatcher.Reply(context.Background(), groupText("t", "C1", text))
		assert.False(t, ok, "text=%q", text)
	}
	assert.Empty(t, deps.translator.Calls())
	assert.Equal(t, 1, deps.store.Len(), "settings are materialized on first access")
}

func TestReplyGroupWithoutTriggerIsIgnored(t *testing.T) {
	deps := newTestDeps(t)

	_, ok := deps.dispatcher.Reply(context.Background(), groupText("t", "C1", "你好大家"))
	assert.False(t, ok)
	assert.Empty(t, deps.translator.Calls())
}

func TestReplyGroupAutoTranslate(t *testing.T) {
	deps := newTestDeps(t)
	deps.translator.fn = func(text, from, to string) (string, error) { return "你好", nil }

	reply, ok := deps.dispatcher.Reply(context.Background(), groupText("t1", "C1", "/AUTO ON"))
	require.True(t, ok)
	assert.Equal(t, "✅ 已開啟自動翻譯", reply)

	reply, ok = deps.dispatcher.Reply(context.Background(), groupText("t2", "C1", "xin chào"))
	require.True(t, ok)
	assert.Equal(t, "🇹🇼 你好\n\n📝 xin chào", reply)
	assert.Equal(t, []translateCall{{text: "xin chào", from: "vi", to: "zh-TW"}}, deps.translator.Calls())
}

func TestReplyGroupSilentMode(t *testing.T) {
	deps := newTestDeps(t)
	deps.translator.fn = func(text, from, to string) (string, error) { return "xin chào", nil }

	_, ok := deps.dispatcher.Reply(context.Background(), groupText("t1", "C1", "/silent on"))
	require.True(t, ok)

	reply, ok := deps.dispatcher.Reply(context.Background(), groupText("t2", "C1", "@翻譯 你好"))
	require.True(t, ok)
	assert.Equal(t, "🇻🇳 xin chào", reply)
}

func TestReplyGroupStatusAfterSilentOn(t *testing.T) {
	deps := newTestDeps(t)

	_, ok := deps.dispatcher.Reply(context.Background(), groupText("t1", "C1", "/silent on"))
	require.True(t, ok)

	reply, ok := deps.dispatcher.Reply(context.Background(), groupText("t2", "C1", "/status"))
	require.True(t, ok)
	assert.Equal(t, "📊 目前設定：\n自動翻譯：關閉 ❌\n靜音模式：開啟 ✅", reply)
}

func TestReplyGroupUnknownCommandNeverTranslates(t *testing.T) {
	deps := newTestDeps(t)
	deps.store.Get("C1").SetAutoTranslate(true)

	_, ok := deps.dispatcher.Reply(context.Background(), groupText("t", "C1", "/translate hello"))
	assert.False(t, ok)
	assert.Empty(t, deps.translator.Calls())
}

func TestReplyRoomSettingsAreSeparate(t *testing.T) {
	deps := newTestDeps(t)

	room := models.Event{
		Type:        models.EventTypeMessage,
		ReplyToken:  "t1",
		Source:      models.Source{Type: models.SourceTypeRoom, RoomID: "R1"},
		MessageType: models.MessageTypeText,
		Text:        command.AutoOn,
	}
	_, ok := deps.dispatcher.Reply(context.Background(), room)
	require.True(t, ok)

	assert.True(t, deps.store.Get("R1").AutoTranslate())
	assert.False(t, deps.store.Get("C1").AutoTranslate())
}

func TestReplyTranslationFailure(t *testing.T) {
	deps := newTestDeps(t)
	deps.translator.fn = func(text, from, to string) (string, error) {
		return "", errors.New("connection reset")
	}

	reply, ok := deps.dispatcher.Reply(context.Background(), userText("t", "hello"))
	require.True(t, ok)
	assert.Equal(t, TranslateFailedText, reply)
}

func TestReplyDoesNotSaveRecords(t *testing.T) {
	deps := newTestDeps(t)

	_, ok := deps.dispatcher.Reply(context.Background(), userText("t", "hello"))
	require.True(t, ok)
	assert.Empty(t, deps.recorder.Records())
}

func TestReplyIgnoresUnknownSource(t *testing.T) {
	deps := newTestDeps(t)

	event := models.Event{Type: models.EventTypeMessage, MessageType: models.MessageTypeText, Text: "@翻譯 hello"}
	_, ok := deps.dispatcher.Reply(context.Background(), event)
	assert.False(t, ok)
	assert.Empty(t, deps.translator.Calls())
	assert.Equal(t, 0, deps.store.Len())
}

func TestHandleRecordsTranslation(t *testing.T) {
	deps := newTestDeps(t)
	deps.recorder.err = errors.New("mongo down")
	deps.translator.fn = func(text, from, to string) (string, error) { return "謝謝", nil }

	require.NoError(t, deps.dispatcher.Handle(context.Background(), groupText("t", "C9", "@翻譯 cảm ơn")),
		"recording failures must not affect the reply")

	reply, ok := deps.replier.Get("t")
	require.True(t, ok)
	assert.Equal(t, "🇹🇼 謝謝\n\n📝 cảm ơn", reply)

	records := deps.recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "evt-t", records[0].EventID)
	assert.Equal(t, "C9", records[0].ConversationID)
	assert.Equal(t, models.SourceTypeGroup, records[0].SourceType)
	assert.Equal(t, "vi", records[0].From)
	assert.Equal(t, "zh-TW", records[0].To)
	assert.Equal(t, "謝謝", records[0].Translated)
	assert.True(t, records[0].Success)
}

func TestHandleRecordsFailedTranslation(t *testing.T) {
	deps := newTestDeps(t)
	deps.translator.fn = func(text, from, to string) (string, error) {
		return "", errors.New("connection reset")
	}

	require.NoError(t, deps.dispatcher.Handle(context.Background(), userText("t", "hello")))

	reply, ok := deps.replier.Get("t")
	require.True(t, ok)
	assert.Equal(t, TranslateFailedText, reply)

	records := deps.recorder.Records()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestHandleSavesRecordAfterReply(t *testing.T) {
	deps := newTestDeps(t)

	var repliedBeforeSave bool
	deps.recorder.onCreate = func(record *models.TranslationRecord) {
		_, repliedBeforeSave = deps.replier.Get("t")
	}

	require.NoError(t, deps.dispatcher.Handle(context.Background(), userText("t", "hello")))
	require.Len(t, deps.recorder.Records(), 1)
	assert.True(t, repliedBeforeSave, "the reply must be sent before the record is saved")
}

func TestHandleSavesRecordWhenReplyFails(t *testing.T) {
	deps := newTestDeps(t)
	deps.replier.errs["t"] = errors.New("Invalid reply token")

	require.Error(t, deps.dispatcher.Handle(context.Background(), userText("t", "hello")))
	assert.Len(t, deps.recorder.Records(), 1)
}

func TestWelcomeUsesConfiguredPrefix(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	t.Cleanup(pool.Shutdown)

	dispatcher, err := NewDispatcher(DispatcherConfig{
		Store:      settings.NewStore("!tr"),
		Translator: &fakeTranslator{},
		Replier:    newFakeReplier(),
		Pool:       pool,
	})
	require.NoError(t, err)

	welcome, ok := dispatcher.Reply(context.Background(), models.Event{Type: models.EventTypeJoin})
	require.True(t, ok)
	assert.Contains(t, welcome, "輸入「!tr 」來翻譯文字")
	assert.NotContains(t, welcome, "@翻譯")

	help, ok := dispatcher.Reply(context.Background(), userText("t", "/help"))
	require.True(t, ok)
	assert.Contains(t, help, "預設使用 !tr 觸發")

	translated, ok := dispatcher.Reply(context.Background(), groupText("g", "C1", "!tr hello"))
	require.True(t, ok)
	assert.Equal(t, "🇻🇳 translated\n\n📝 hello", translated)
}

func TestWelcomeTextDefaultPrefix(t *testing.T) {
	assert.Contains(t, WelcomeText(models.DefaultTranslatePrefix), "- 輸入「@翻譯 」來翻譯文字\n")
	assert.Contains(t, PrivateHelpText(models.DefaultTranslatePrefix), "- 預設使用 @翻譯 觸發\n")
}

func TestHandleSendsReply(t *testing.T) {
	deps := newTestDeps(t)

	require.NoError(t, deps.dispatcher.Handle(context.Background(), models.Event{Type: models.EventTypeJoin, ReplyToken: "join-token"}))

	text, ok := deps.replier.Get("join-token")
	require.True(t, ok)
	assert.Equal(t, WelcomeText(models.DefaultTranslatePrefix), text)
}

func TestHandleNoReplyDoesNotCallReplier(t *testing.T) {
	deps := newTestDeps(t)

	require.NoError(t, deps.dispatcher.Handle(context.Background(), groupText("t", "C1", "just chatting")))
	assert.Equal(t, 0, deps.replier.Count())
}

func TestHandleReplyError(t *testing.T) {
	deps := newTestDeps(t)
	deps.replier.errs["bad"] = errors.New("Invalid reply token")

	err := deps.dispatcher.Handle(context.Background(), models.Event{Type: models.EventTypeJoin, ReplyToken: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reply failed")
}

func TestHandleBatchIsolatesFailures(t *testing.T) {
	deps := newTestDeps(t)
	deps.replier.errs["bad"] = errors.New("Invalid reply token")
	deps.translator.fn = func(text, from, to string) (string, error) {
		if text == "boom" {
			panic("translator exploded")
		}
		return "ok", nil
	}

	events := []models.Event{
		{ID: "e1", Type: models.EventTypeJoin, ReplyToken: "join"},
		{ID: "e2", Type: models.EventTypeJoin, ReplyToken: "bad"},
		userText("private", "hello"),
		userText("panic", "boom"),
		groupText("ignored", "C1", "no trigger"),
	}

	err := deps.dispatcher.HandleBatch(context.Background(), events)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e2")
	assert.Contains(t, err.Error(), "translator exploded")

	text, ok := deps.replier.Get("join")
	require.True(t, ok)
	assert.Equal(t, WelcomeText(models.DefaultTranslatePrefix), text)

	text, ok = deps.replier.Get("private")
	require.True(t, ok)
	assert.Equal(t, "🇻🇳 ok\n\n📝 hello", text)

	_, ok = deps.replier.Get("ignored")
	assert.False(t, ok)
}

func TestHandleBatchSuccess(t *testing.T) {
	deps := newTestDeps(t)

	events := make([]models.Event, 0, 20)
	for i := 0; i < 20; i++ {
		events = append(events, models.Event{Type: models.EventTypeJoin, ReplyToken: string(rune('a' + i))})
	}

	require.NoError(t, deps.dispatcher.HandleBatch(context.Background(), events))
	assert.Equal(t, 20, deps.replier.Count())
	assert.NoError(t, deps.dispatcher.HandleBatch(context.Background(), nil))
}

func TestNewDispatcherValidatesDependencies(t *testing.T) {
	_, err := NewDispatcher(DispatcherConfig{})
	assert.Error(t, err)
}

func TestTextToTranslate(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		snap   models.SettingsSnapshot
		want   string
		wantOK bool
	}{
		{"prefix with space", "@翻譯 hello", models.SettingsSnapshot{TranslatePrefix: "@翻譯"}, "hello", true},
		{"prefix without space", "@翻譯hello", models.SettingsSnapshot{TranslatePrefix: "@翻譯"}, "hello", true},
		{"prefix only", "@翻譯", models.SettingsSnapshot{TranslatePrefix: "@翻譯"}, "", false},
		{"no prefix", "hello", models.SettingsSnapshot{TranslatePrefix: "@翻譯"}, "", false},
		{"auto keeps full text", "@翻譯 hello", models.SettingsSnapshot{AutoTranslate: true, TranslatePrefix: "@翻譯"}, "@翻譯 hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := textToTranslate(tt.text, tt.snap)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
