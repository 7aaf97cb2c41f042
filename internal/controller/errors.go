package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"statbot/internal/model"
)

// toHTTPError maps service errors to fiber errors. msg is used for
// server-side failures so internal details stay out of responses.
func toHTTPError(err error, msg string) error {
	var (
		unknownCommand *model.UnknownCommandError
		unknownMessage *model.UnknownMessageError
		transport      *model.TransportError
	)
	switch {
	case errors.As(err, &unknownCommand), errors.As(err, &unknownMessage):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case model.IsUserError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &transport):
		log.Printf("[ERROR] %s: %v", msg, err)
		return fiber.NewError(fiber.StatusBadGateway, msg)
	default:
		log.Printf("[ERROR] %s: %v", msg, err)
		return fiber.NewError(fiber.StatusInternalServerError, msg)
	}
}

func monthsAgoQuery(c *fiber.Ctx) (int, error) {
	months := c.QueryInt("months_ago", 0)
	if months < 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "months_ago must not be negative")
	}
	return months, nil
}
