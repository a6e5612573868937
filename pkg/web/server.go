// Package web exposes the assistant over HTTP for the browser extension.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"github.com/dei-labs/voicebridge/pkg/agent"
	"github.com/dei-labs/voicebridge/pkg/form"
	"github.com/dei-labs/voicebridge/pkg/hub"
	"github.com/dei-labs/voicebridge/pkg/inference"
	"github.com/dei-labs/voicebridge/pkg/speech"
	"github.com/dei-labs/voicebridge/pkg/tools"
	"github.com/dei-labs/voicebridge/pkg/tts"
)

// Deps are the collaborators the server is built from. LLM and TTS may be
// nil when the matching API key is absent; the endpoints that need them
// then answer with a configuration error instead of crashing.
type Deps struct {
	LLM    inference.Provider
	TTS    tts.Provider
	Hub    *hub.Hub
	Speech *speech.Controller

	// AllowOrigins is passed to the CORS middleware. Empty means all.
	AllowOrigins string
}

// Server is the HTTP boundary of the assistant.
type Server struct {
	app    *fiber.App
	logger *slog.Logger

	llm      inference.Provider
	ttsv     tts.Provider
	hub      *hub.Hub
	speech   *speech.Controller
	router   *tools.Router
	dispatch *tools.Dispatcher
	forms    *form.Pipeline
	calc     *agent.Agent
}

// NewServer wires the handlers and middleware.
func NewServer(deps Deps) *Server {
	s := &Server{
		logger: slog.Default().With("component", "web"),
		llm:    deps.LLM,
		ttsv:   deps.TTS,
		hub:    deps.Hub,
		speech: deps.Speech,
	}
	if s.speech == nil {
		s.speech = speech.NewController()
	}

	var notifier tools.Notifier
	if deps.Hub != nil {
		notifier = deps.Hub
	}
	s.dispatch = tools.NewDispatcher(deps.LLM, notifier)
	s.router = tools.NewRouter(deps.LLM, s.dispatch)
	s.forms = form.NewPipeline(deps.LLM)
	s.calc = agent.New(deps.LLM)

	app := fiber.New(fiber.Config{
		AppName:               "voicebridge",
		DisableStartupMessage: true,
		BodyLimit:             16 * 1024 * 1024, // screenshots arrive base64-encoded
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: deps.AllowOrigins}))

	app.Post("/transcript", s.handleTranscript)
	app.Post("/summarize", s.handleSummarize)
	app.Post("/calculate", s.handleCalculate)
	app.Post("/execute-tool", s.handleExecuteTool)
	app.Get("/list-tools", s.handleListTools)
	app.Post("/explain", s.handleExplain)
	app.Post("/fill-form", s.handleFillForm)
	app.Post("/navigation-chrome", s.handleNavigation)
	app.Post("/text_to_speech", s.handleTextToSpeech)
	app.Post("/stop_audio", s.handleStopAudio)
	app.Get("/healthz", s.handleHealthz)
	app.Get("/debug-console", s.handleDebugConsole)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleWS))

	s.app = app
	return s
}

// Listen starts the server on addr. Blocks until shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handleWS hands the upgraded connection to the hub.
func (s *Server) handleWS(conn *websocket.Conn) {
	if s.hub == nil {
		conn.Close()
		return
	}
	client := hub.NewClient(s.hub, conn)
	client.Run()
}
