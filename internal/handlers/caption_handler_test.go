package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/mymmrac/telego"

	"textoimagen/internal/bot"
	"textoimagen/internal/storage"
)

type sentText struct {
	chatID int64
	text   string
}

type sentFile struct {
	chatID  int64
	path    string
	caption string
}

type fakeBot struct {
	bot.Bot

	mu      sync.Mutex
	texts   []sentText
	files   []sentFile
	sendErr error
}

func (b *fakeBot) SendText(_ context.Context, chatID int64, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.texts = append(b.texts, sentText{chatID, text})
	return nil
}

func (b *fakeBot) SendChatAction(context.Context, int64, string) error {
	return nil
}

func (b *fakeBot) SendFileAuto(_ context.Context, chatID int64, path, caption string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.files = append(b.files, sentFile{chatID, path, caption})
	return nil
}

type fakeFiles struct {
	downloaded []string
	cleaned    int
	removed    []string
	err        error
}

func (f *fakeFiles) DownloadToTemp(_ context.Context, fileID string) (string, func(), error) {
	if f.err != nil {
		return "", nil, f.err
	}
	f.downloaded = append(f.downloaded, fileID)
	return "temp/" + fileID + ".jpg", func() { f.cleaned++ }, nil
}

func (f *fakeFiles) Remove(path string) {
	f.removed = append(f.removed, path)
}

type fakeRenderer struct {
	captions []string
	err      error
	before   func()
}

func (r *fakeRenderer) Render(inputPath, caption string) (string, error) {
	if r.before != nil {
		r.before()
	}
	if r.err != nil {
		return "", r.err
	}
	r.captions = append(r.captions, caption)
	return "temp/edited-" + strings.TrimPrefix(inputPath, "temp/"), nil
}

type fixture struct {
	bot      *fakeBot
	files    *fakeFiles
	renderer *fakeRenderer
	store    *storage.RenderStateStore
	handler  *CaptionHandler
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		bot:      &fakeBot{},
		files:    &fakeFiles{},
		renderer: &fakeRenderer{},
		store:    storage.NewRenderStateStore(),
	}
	f.handler = NewCaptionHandler(f.renderer, f.bot, f.files, f.store, nil, opts)
	return f
}

func photoMessage(chatID int64, caption string) *telego.Message {
	return &telego.Message{
		Chat:    telego.Chat{ID: chatID},
		Caption: caption,
		Photo: []telego.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "large", Width: 1280},
		},
	}
}

func TestHandleUpdateRendersCaption(t *testing.T) {
	f := newFixture(Options{ReplyCaption: "@textoimagenbot"})

	f.handler.HandleUpdate(context.Background(), telego.Update{Message: photoMessage(7, "Hello world.")})

	if len(f.files.downloaded) != 1 || f.files.downloaded[0] != "large" {
		t.Errorf("downloaded = %v, want the largest photo", f.files.downloaded)
	}
	if len(f.renderer.captions) != 1 || f.renderer.captions[0] != "Hello world." {
		t.Errorf("rendered captions = %v", f.renderer.captions)
	}
	want := sentFile{7, "temp/edited-large.jpg", "@textoimagenbot"}
	if len(f.bot.files) != 1 || f.bot.files[0] != want {
		t.Errorf("sent files = %v, want %v", f.bot.files, want)
	}
	if f.files.cleaned != 1 {
		t.Errorf("download cleanup ran %d times, want 1", f.files.cleaned)
	}
	if len(f.files.removed) != 1 || f.files.removed[0] != "temp/edited-large.jpg" {
		t.Errorf("removed = %v", f.files.removed)
	}
	if len(f.bot.texts) != 0 {
		t.Errorf("unexpected texts: %v", f.bot.texts)
	}
	if f.store.IsProcessing(7) {
		t.Error("chat still marked as processing")
	}
}

func TestHandleUpdateRequirements(t *testing.T) {
	tests := []struct {
		name string
		msg  *telego.Message
	}{
		{"start command", &telego.Message{Chat: telego.Chat{ID: 1}, Text: "/start"}},
		{"help with bot name", &telego.Message{Chat: telego.Chat{ID: 1}, Text: "/help@textoimagenbot"}},
		{"text only", &telego.Message{Chat: telego.Chat{ID: 1}, Text: "hola"}},
		{"photo without caption", photoMessage(1, "")},
		{"blank caption", photoMessage(1, "   ")},
		{"non image document", &telego.Message{
			Chat:     telego.Chat{ID: 1},
			Caption:  "caption",
			Document: &telego.Document{FileID: "doc", MimeType: "application/pdf"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Options{})
			f.handler.HandleUpdate(context.Background(), telego.Update{Message: tt.msg})

			if len(f.bot.texts) != 1 || f.bot.texts[0].text != AnswerRequirement {
				t.Errorf("texts = %v, want requirement answer", f.bot.texts)
			}
			if len(f.files.downloaded) != 0 {
				t.Error("nothing should be downloaded")
			}
		})
	}
}

func TestHandleUpdateImageDocument(t *testing.T) {
	f := newFixture(Options{})
	msg := &telego.Message{
		Chat:     telego.Chat{ID: 3},
		Caption:  "from a file",
		Document: &telego.Document{FileID: "doc", MimeType: "image/png"},
	}

	f.handler.HandleUpdate(context.Background(), telego.Update{Message: msg})

	if len(f.files.downloaded) != 1 || f.files.downloaded[0] != "doc" {
		t.Errorf("downloaded = %v", f.files.downloaded)
	}
}

func TestHandleUpdateIgnoresNonMessages(t *testing.T) {
	f := newFixture(Options{})
	f.handler.HandleUpdate(context.Background(), telego.Update{})

	if len(f.bot.texts) != 0 || len(f.bot.files) != 0 {
		t.Error("expected no replies")
	}
}

func TestHandleUpdateRenderFailureNotifiesAdmin(t *testing.T) {
	f := newFixture(Options{AdminChatID: 99})
	f.renderer.err = errors.New("image read failed: decode temp/large.jpg: unknown format")

	f.handler.HandleUpdate(context.Background(), telego.Update{Message: photoMessage(7, "caption")})

	if len(f.bot.texts) != 2 {
		t.Fatalf("texts = %v, want user and admin notices", f.bot.texts)
	}
	if f.bot.texts[0] != (sentText{7, AnswerError}) {
		t.Errorf("user notice = %v", f.bot.texts[0])
	}
	admin := f.bot.texts[1]
	if admin.chatID != 99 || !strings.Contains(admin.text, "unknown format") {
		t.Errorf("admin notice = %v, want raw error", admin)
	}
	if f.files.cleaned != 1 {
		t.Error("downloaded file should be cleaned up after a failed render")
	}
	if f.store.IsProcessing(7) {
		t.Error("chat still marked as processing")
	}
}

func TestHandleUpdateFailureWithoutAdmin(t *testing.T) {
	f := newFixture(Options{})
	f.files.err = errors.New("network down")

	f.handler.HandleUpdate(context.Background(), telego.Update{Message: photoMessage(7, "caption")})

	if len(f.bot.texts) != 1 || f.bot.texts[0] != (sentText{7, AnswerError}) {
		t.Errorf("texts = %v, want only the user notice", f.bot.texts)
	}
}

func TestHandleUpdateSendFailureRemovesOutput(t *testing.T) {
	f := newFixture(Options{})
	f.bot.sendErr = errors.New("too big")

	f.handler.HandleUpdate(context.Background(), telego.Update{Message: photoMessage(7, "caption")})

	if len(f.files.removed) != 1 {
		t.Errorf("rendered file should be removed, removed = %v", f.files.removed)
	}
	if len(f.bot.texts) != 1 || f.bot.texts[0].text != AnswerError {
		t.Errorf("texts = %v", f.bot.texts)
	}
}

func TestHandleUpdateBusyChat(t *testing.T) {
	f := newFixture(Options{})
	f.renderer.before = func() {
		f.handler.HandleUpdate(context.Background(), telego.Update{Message: photoMessage(7, "second")})
	}

	f.handler.HandleUpdate(context.Background(), telego.Update{Message: photoMessage(7, "first")})

	if len(f.bot.texts) != 1 || f.bot.texts[0].text != AnswerBusy {
		t.Errorf("texts = %v, want busy notice", f.bot.texts)
	}
	if len(f.renderer.captions) != 1 || f.renderer.captions[0] != "first" {
		t.Errorf("rendered = %v, want only the first caption", f.renderer.captions)
	}
}
