package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/internal/usecase"
	"github.com/smart-sa/smorti/pkg/logger"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Server exposes the chat engine over HTTP for the web widget.
type Server struct {
	app     *fiber.App
	uc      usecase.ChatUseCase
	catalog repository.ProductRepository
}

func NewServer(uc usecase.ChatUseCase, catalog repository.ProductRepository) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	s := &Server{app: app, uc: uc, catalog: catalog}

	app.Get("/healthz", s.health)
	app.Post("/chat", s.chat)
	return s
}

func (s *Server) chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid json body"})
	}
	if req.SessionID == "" {
		// A fresh widget visitor gets a new session on first contact.
		req.SessionID = uuid.NewString()
	}

	reply := s.uc.HandleMessage(c.Context(), req.SessionID, req.Message)
	return c.JSON(chatResponse{SessionID: req.SessionID, Reply: reply})
}

func (s *Server) health(c *fiber.Ctx) error {
	count, err := s.catalog.Count(c.Context())
	status := fiber.Map{"status": "ok", "products": count}
	if err != nil {
		status["status"] = "degraded"
		status["catalog_error"] = err.Error()
	}
	return c.JSON(status)
}

// Listen blocks serving requests until Shutdown.
func (s *Server) Listen(addr string) error {
	logger.Info().Str("addr", addr).Msg("http server started")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
