package handlers

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// decodeBody reads a JSON body regardless of the declared content type.
// An empty or unparsable body leaves dst untouched and reports false.
func decodeBody(c *fiber.Ctx, dst any) bool {
	body := c.Body()
	if len(body) == 0 {
		return false
	}
	return json.Unmarshal(body, dst) == nil
}
