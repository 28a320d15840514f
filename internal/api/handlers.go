package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/ppiankov/knowval/internal/model"
	"github.com/ppiankov/knowval/internal/store"
	"go.uber.org/zap"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) getKnowledge(c *fiber.Ctx) error {
	kb, err := s.store.Snapshot()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(kb)
}

func (s *Server) putKnowledge(c *fiber.Ctx) error {
	kb, err := model.DecodeKnowledgeBase(bodyName(c), c.Body())
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.store.SaveSnapshot(kb); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(kb)
}

func (s *Server) getReference(c *fiber.Ctx) error {
	p, err := s.store.Policy()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(p)
}

func (s *Server) putReference(c *fiber.Ctx) error {
	p, err := model.DecodeReferencePolicy(bodyName(c), c.Body())
	if err != nil {
		return s.fail(c, err)
	}
	if err := s.store.SavePolicy(p); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(p)
}

func (s *Server) validate(c *fiber.Ctx) error {
	report, err := s.validations.Run(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(report)
}

func (s *Server) validateText(c *fiber.Ctx) error {
	text, err := s.validations.ValidateText(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"report": text})
}

func (s *Server) validationReport(c *fiber.Ctx) error {
	report, err := s.validations.LatestReport(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(report)
}

func (s *Server) listExamples(c *fiber.Ctx) error {
	names, err := s.store.ListExamples()
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"examples": names})
}

func (s *Server) loadExample(c *fiber.Ctx) error {
	name := c.Query("name")
	kb, err := s.store.LoadExample(name)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status":      "loaded",
		"example":     name,
		"snapshot_id": kb.SnapshotID,
	})
}

func (s *Server) history(c *fiber.Ctx) error {
	runs, err := s.store.History(c.UserContext())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// bodyName picks the decoder from the request content type
func bodyName(c *fiber.Ctx) string {
	if strings.Contains(strings.ToLower(c.Get(fiber.HeaderContentType)), "yaml") {
		return "body.yaml"
	}
	return "body.json"
}

// fail maps an error to a status code and a {"error": ...} body
func (s *Server) fail(c *fiber.Ctx, err error) error {
	var inputErr *model.InputError

	switch {
	case errors.Is(err, store.ErrInvalidExampleName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, store.ErrExampleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.As(err, &inputErr):
		status := fiber.StatusUnprocessableEntity
		if inputErr.Field == "snapshot" || inputErr.Field == "policy" {
			// Body is not a decodable document at all
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": inputErr.Error(),
			"field": inputErr.Field,
		})

	default:
		s.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
