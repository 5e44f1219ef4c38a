package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
)

func GetUserURN(c *fiber.Ctx) string {
	urn, _ := c.Locals("user_urn").(string)
	return urn
}

func postID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

func postErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidPost), errors.Is(err, service.ErrContentTooLong):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrPostNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
