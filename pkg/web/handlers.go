package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dei-labs/voicebridge/internal/jsonx"
	"github.com/dei-labs/voicebridge/pkg/form"
	"github.com/dei-labs/voicebridge/pkg/inference"
	"github.com/dei-labs/voicebridge/pkg/tools"
)

// statusClientClosedRequest mirrors nginx's non-standard code for requests
// abandoned by the client.
const statusClientClosedRequest = 499

// NavigationCommand is one planned browser action.
type NavigationCommand struct {
	Type        string  `json:"type"`
	Target      string  `json:"target"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

func (s *Server) requireLLM(c *fiber.Ctx) error {
	if s.llm == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "configuration error: no LLM API key configured",
		})
	}
	return nil
}

func (s *Server) requireTTS(c *fiber.Ctx) error {
	if s.ttsv == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "configuration error: no TTS API key configured",
		})
	}
	return nil
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func upstreamError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// handleTranscript routes a spoken transcript to the best tool and runs it.
func (s *Server) handleTranscript(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		Transcript string `json:"transcript"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Transcript) == "" {
		return badRequest(c, "transcript is required")
	}

	selected, result, err := s.router.Route(c.UserContext(), req.Transcript)
	if err != nil {
		return upstreamError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "transcript processed",
		"selected_tool": selected,
		"result":        result,
	})
}

// handleSummarize runs a single concise-summary completion.
func (s *Server) handleSummarize(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	resp, err := s.llm.Chat(c.UserContext(), &inference.ChatRequest{
		Messages:    []inference.Message{inference.NewUserMessage(fmt.Sprintf(tools.SummaryPrompt, req.Text))},
		Temperature: 0,
		MaxTokens:   512,
	})
	if err != nil {
		return upstreamError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "text summarized",
		"summary": resp.Message.Content,
	})
}

// handleCalculate answers a math query via the tool-calling agent.
func (s *Server) handleCalculate(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		return badRequest(c, "query is required")
	}

	answer, err := s.calc.Calculate(c.UserContext(), req.Query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"result":  err.Error(),
			"success": false,
		})
	}

	return c.JSON(fiber.Map{
		"result":  answer,
		"success": true,
	})
}

// handleExecuteTool dispatches a named tool directly, bypassing routing.
func (s *Server) handleExecuteTool(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		Tool       string `json:"tool"`
		Transcript string `json:"transcript"`
	}
	if err := c.BodyParser(&req); err != nil || req.Tool == "" {
		return badRequest(c, "tool is required")
	}

	result := s.dispatch.Dispatch(c.UserContext(), req.Tool, req.Transcript)

	return c.JSON(fiber.Map{
		"message": "tool executed",
		"result":  result,
	})
}

// handleListTools dumps the static registry.
func (s *Server) handleListTools(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"tools": tools.Registry})
}

// handleExplain explains text or a screenshot. Image data may carry a
// data-URL prefix; the media type is sniffed from it, defaulting to PNG.
func (s *Server) handleExplain(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		Text      string `json:"text"`
		ImageData string `json:"image_data"`
	}
	if err := c.BodyParser(&req); err != nil || (req.Text == "" && req.ImageData == "") {
		return badRequest(c, "text or image_data is required")
	}

	var explanation string
	if req.ImageData != "" {
		mediaType, b64 := splitDataURL(req.ImageData)
		resp, err := s.llm.Vision(c.UserContext(), &inference.VisionRequest{
			ImageB64:  b64,
			MediaType: mediaType,
			Prompt:    tools.ExplainPrompt,
		})
		if err != nil {
			return upstreamError(c, err)
		}
		explanation = resp.Content
	} else {
		resp, err := s.llm.Chat(c.UserContext(), &inference.ChatRequest{
			Messages: []inference.Message{
				inference.NewSystemMessage(tools.ExplainPrompt),
				inference.NewUserMessage(req.Text),
			},
			Temperature: 0,
			MaxTokens:   512,
		})
		if err != nil {
			return upstreamError(c, err)
		}
		explanation = resp.Message.Content
	}

	return c.JSON(fiber.Map{
		"status":      "success",
		"explanation": explanation,
	})
}

// splitDataURL strips an optional data-URL prefix and sniffs the media
// type from it. Bare base64 defaults to PNG.
func splitDataURL(imageData string) (mediaType, b64 string) {
	mediaType = "image/png"
	b64 = imageData

	if !strings.HasPrefix(imageData, "data:") {
		return mediaType, b64
	}
	comma := strings.Index(imageData, ",")
	if comma < 0 {
		return mediaType, b64
	}

	header := imageData[len("data:"):comma]
	b64 = imageData[comma+1:]
	if semi := strings.Index(header, ";"); semi >= 0 {
		header = header[:semi]
	}
	if strings.HasPrefix(header, "image/") {
		mediaType = header
	}
	return mediaType, b64
}

// handleFillForm runs the two-stage form pipeline.
func (s *Server) handleFillForm(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		FormData []form.Field `json:"form_data"`
		UserData string       `json:"user_data"`
	}
	if err := c.BodyParser(&req); err != nil || len(req.FormData) == 0 {
		return badRequest(c, "form_data is required")
	}

	structured, err := s.forms.Structure(c.UserContext(), req.FormData)
	if err != nil {
		return upstreamError(c, err)
	}
	if len(structured) == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "form structuring failed",
		})
	}

	answers, err := s.forms.Answer(c.UserContext(), structured, req.UserData)
	if err != nil {
		return upstreamError(c, err)
	}
	if len(answers) == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "form answering failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":       "success",
		"form_answers": answers,
	})
}

// handleNavigation turns an instruction plus page HTML into browser commands.
func (s *Server) handleNavigation(c *fiber.Ctx) error {
	if err := s.requireLLM(c); err != nil {
		return err
	}

	var req struct {
		HTMLContent string `json:"html_content"`
		Transcript  string `json:"transcript"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Transcript) == "" {
		return badRequest(c, "transcript is required")
	}

	resp, err := s.llm.Chat(c.UserContext(), &inference.ChatRequest{
		Messages:    []inference.Message{inference.NewUserMessage(tools.NavigationPrompt(req.HTMLContent, req.Transcript))},
		Temperature: 0,
		MaxTokens:   1024,
	})
	if err != nil {
		return upstreamError(c, err)
	}

	raw := jsonx.ExtractObject(resp.Message.Content)
	var plan struct {
		Commands []NavigationCommand `json:"commands"`
	}
	if raw == "" || json.Unmarshal([]byte(raw), &plan) != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not parse navigation plan",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"commands": plan.Commands,
	})
}

// handleTextToSpeech synthesizes speech and streams back MP3 bytes. The
// response is either audio or a JSON error, never a mix.
func (s *Server) handleTextToSpeech(c *fiber.Ctx) error {
	if err := s.requireTTS(c); err != nil {
		return err
	}

	var req struct {
		Text  string `json:"text"`
		Voice string `json:"voice"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return badRequest(c, "text is required")
	}

	ctx, id, release := s.speech.Begin(c.UserContext())
	defer release()
	s.logger.Debug("synthesis started", "request_id", id, "chars", len(req.Text))

	result, err := s.ttsv.Synthesize(ctx, req.Text, req.Voice)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return c.Status(statusClientClosedRequest).JSON(fiber.Map{
				"error": "synthesis cancelled",
			})
		}
		return upstreamError(c, err)
	}

	c.Set(fiber.HeaderContentType, result.MIMEType)
	return c.Send(result.Audio)
}

// handleStopAudio cancels every in-flight synthesis and tells clients to
// stop playback.
func (s *Server) handleStopAudio(c *fiber.Ctx) error {
	stopped := s.speech.StopAll()
	if s.hub != nil {
		s.hub.AudioStopped("audio stopped")
	}
	s.logger.Info("stop audio", "cancelled", stopped)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "audio stopped",
	})
}

// handleHealthz reports liveness and which providers are configured.
func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "ok",
		"llm_configured": s.llm != nil,
		"tts_configured": s.ttsv != nil,
	})
}

// handleDebugConsole serves the manual test console.
func (s *Server) handleDebugConsole(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(debugConsoleHTML)
}
