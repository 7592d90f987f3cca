package controller

import (
	"ai-support-chat-be/internal/config"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/pkg/serverutils"
	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/pkg/assistant/faq"

	"github.com/gofiber/fiber/v2"
)

type IStatusController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type statusController struct {
	cfg        *config.Config
	matcher    *faq.Matcher
	uowFactory unitofwork.RepositoryFactory
}

func NewStatusController(cfg *config.Config, matcher *faq.Matcher, uowFactory unitofwork.RepositoryFactory) IStatusController {
	return &statusController{
		cfg:        cfg,
		matcher:    matcher,
		uowFactory: uowFactory,
	}
}

func (c *statusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/status/v1")
	h.Get("", c.Show)
	h.Get("health", c.Health)
}

func (c *statusController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse[any]("API healthy", nil))
}

func (c *statusController) Show(ctx *fiber.Ctx) error {
	priorityEntries := 0
	if c.matcher != nil {
		priorityEntries = c.matcher.Len()
	}

	// Counts are best effort: a failing store must not take the
	// status endpoint down with it.
	var documentCount, chatTurnCount int64
	if c.uowFactory != nil {
		uow := c.uowFactory.NewUnitOfWork(ctx.UserContext())
		if n, err := uow.DocumentRepository().Count(ctx.UserContext()); err == nil {
			documentCount = n
		}
		if n, err := uow.ChatTurnRepository().Count(ctx.UserContext()); err == nil {
			chatTurnCount = n
		}
	}

	res := dto.StatusResponse{
		Status:           "ok",
		PriorityEntries:  priorityEntries,
		DocumentCount:    documentCount,
		ChatTurnCount:    chatTurnCount,
		HistoryBackend:   c.cfg.Rag.HistoryBackend,
		LLMProvider:      c.cfg.Ai.LLMProvider,
		EmbeddingBackend: c.cfg.Ai.EmbeddingProvider,
	}

	return ctx.JSON(serverutils.SuccessResponse("Service status", res))
}
