package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	"go.uber.org/zap"

	"textoimagen/internal/bot"
	"textoimagen/internal/files"
	"textoimagen/internal/storage"
)

const (
	AnswerRequirement = "Debe enviar la imagen y el texto en el comentario."
	AnswerError       = "Ha ocurrido un error!"
	AnswerBusy        = "Espere, todavía estoy procesando su imagen anterior."

	actionUploadPhoto = "upload_photo"
)

var errNoImage = errors.New("message has no image")

type Renderer interface {
	Render(inputPath, caption string) (string, error)
}

// Options are the fixed parts of every reply.
type Options struct {
	ReplyCaption string
	AdminChatID  int64
}

type CaptionHandler struct {
	renderer    Renderer
	bot         bot.Bot
	fileManager files.FileManager
	stateStore  *storage.RenderStateStore
	logger      *zap.Logger
	opts        Options
}

func NewCaptionHandler(
	renderer Renderer,
	bot bot.Bot,
	fileManager files.FileManager,
	stateStore *storage.RenderStateStore,
	logger *zap.Logger,
	opts Options,
) *CaptionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptionHandler{
		renderer:    renderer,
		bot:         bot,
		fileManager: fileManager,
		stateStore:  stateStore,
		logger:      logger,
		opts:        opts,
	}
}

func (h *CaptionHandler) HandleUpdate(ctx context.Context, update telego.Update) {
	if update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	if isCommand(msg.Text, "/start", "/help") {
		h.reply(ctx, chatID, AnswerRequirement)
		return
	}

	if strings.TrimSpace(msg.Caption) == "" || !hasImage(msg) {
		h.reply(ctx, chatID, AnswerRequirement)
		return
	}

	if !h.stateStore.TryStart(chatID) {
		h.reply(ctx, chatID, AnswerBusy)
		return
	}

	err := h.process(ctx, msg)
	took := h.stateStore.Finish(chatID)
	if err != nil {
		h.fail(ctx, chatID, err)
		return
	}

	h.logger.Info("caption image sent",
		zap.Int64("chat_id", chatID),
		zap.Duration("took", took),
		zap.Int("active", h.stateStore.Active()),
	)
}

func (h *CaptionHandler) process(ctx context.Context, msg *telego.Message) error {
	chatID := msg.Chat.ID

	if err := h.bot.SendChatAction(ctx, chatID, actionUploadPhoto); err != nil {
		h.logger.Debug("chat action failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	fileID, err := extractFileID(msg)
	if err != nil {
		return err
	}

	localPath, cleanupTemp, err := h.fileManager.DownloadToTemp(ctx, fileID)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer cleanupTemp()

	resultPath, err := h.renderer.Render(localPath, msg.Caption)
	if err != nil {
		return fmt.Errorf("render error: %w", err)
	}
	defer h.fileManager.Remove(resultPath)

	if err := h.bot.SendFileAuto(ctx, chatID, resultPath, h.opts.ReplyCaption); err != nil {
		return fmt.Errorf("send error: %w", err)
	}
	return nil
}

// fail tells the requester something went wrong and forwards the raw error
// to the admin chat when one is configured.
func (h *CaptionHandler) fail(ctx context.Context, chatID int64, err error) {
	h.logger.Error("caption request failed", zap.Int64("chat_id", chatID), zap.Error(err))

	ctx = context.WithoutCancel(ctx)
	h.reply(ctx, chatID, AnswerError)

	if h.opts.AdminChatID != 0 && h.opts.AdminChatID != chatID {
		h.reply(ctx, h.opts.AdminChatID, fmt.Sprintf("Error in chat %d: %v", chatID, err))
	}
}

func (h *CaptionHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendText(ctx, chatID, text); err != nil {
		h.logger.Warn("failed to reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// extractFileID picks the largest photo size, or an image document.
func extractFileID(msg *telego.Message) (string, error) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, nil
	}
	if isImageDocument(msg.Document) {
		return msg.Document.FileID, nil
	}
	return "", errNoImage
}

func hasImage(msg *telego.Message) bool {
	return len(msg.Photo) > 0 || isImageDocument(msg.Document)
}

func isImageDocument(doc *telego.Document) bool {
	return doc != nil && strings.HasPrefix(doc.MimeType, "image/")
}

func isCommand(text string, commands ...string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	name, _, _ := strings.Cut(fields[0], "@")
	for _, c := range commands {
		if name == c {
			return true
		}
	}
	return false
}
