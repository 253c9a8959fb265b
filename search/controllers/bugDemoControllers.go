package controllers

import (
	"context"
	"errors"
	"time"

	"es-bug-demo/db/models"
	"es-bug-demo/search"
	"es-bug-demo/search/queries"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RecordFinder is the part of the record repository the handlers need.
type RecordFinder interface {
	Find(ctx context.Context, q queries.SearchQuery) ([]models.Record, error)
}

type BugDemoController struct {
	defaultRepo    RecordFinder
	workaroundRepo RecordFinder
	logger         *zap.Logger
	now            func() time.Time
}

// NewBugDemoController takes a repository on the plain client and one on the
// client carrying the status filter.
func NewBugDemoController(defaultRepo, workaroundRepo RecordFinder, logger *zap.Logger) *BugDemoController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BugDemoController{
		defaultRepo:    defaultRepo,
		workaroundRepo: workaroundRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// PingController confirms the service is up.
func (c *BugDemoController) PingController(ctx *fiber.Ctx) error {
	return ctx.SendString("Ping at " + c.now().UTC().Format(time.RFC3339Nano))
}

// BugExampleController runs the invalid wildcard query through the default
// client. Elasticsearch rejects it with a 400 that goes unnoticed, and the
// caller gets the mapper's null value error instead of the reason.
//
//	curl http://localhost:8080/bug/example
func (c *BugDemoController) BugExampleController(ctx *fiber.Ctx) error {
	return c.findRecords(ctx, c.defaultRepo, "default")
}

// WorkaroundController runs the same query through the filtered client, so
// the 400 surfaces with the engine's own message.
//
//	curl http://localhost:8080/bug/workaround
func (c *BugDemoController) WorkaroundController(ctx *fiber.Ctx) error {
	return c.findRecords(ctx, c.workaroundRepo, "workaround")
}

func (c *BugDemoController) findRecords(ctx *fiber.Ctx, repo RecordFinder, client string) error {
	records, err := repo.Find(ctx.UserContext(), queries.BugDemoQuery())
	if err != nil {
		if rejected, ok := search.AsQueryRejected(err); ok {
			c.logger.Error("Search rejected", zap.String("client", client), zap.String("detail", rejected.Describe()))
		} else {
			c.logger.Error("Search failed", zap.String("client", client), zap.Error(err))
		}
		return ctx.Status(statusFor(err)).JSON(errorBody(err))
	}
	return ctx.JSON(records)
}

func statusFor(err error) int {
	if errors.Is(err, search.ErrEngineUnavailable) {
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func errorBody(err error) fiber.Map {
	body := fiber.Map{"error": err.Error()}
	if rejected, ok := search.AsQueryRejected(err); ok {
		body["upstream_status"] = rejected.StatusCode
	}
	return body
}
