package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint answers with; the dashboard
// branches on Success and surfaces Message to the operator.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess answers 200 with the envelope.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return sendEnvelope(c, fiber.StatusOK, message, data)
}

// SendCreated answers 201 for resource-creating endpoints (submissions,
// cohorts, announcements, queued messages).
func SendCreated(c *fiber.Ctx, message string, data interface{}) error {
	return sendEnvelope(c, fiber.StatusCreated, message, data)
}

func sendEnvelope(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError answers with the envelope carrying only the failure message.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}
