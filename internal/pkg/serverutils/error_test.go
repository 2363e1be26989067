package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", NewNotFoundError("Training material not found"), 404, "Training material not found"},
		{"bad request", NewBadRequestError("Title is required"), 400, "Title is required"},
		{"fiber error", fiber.ErrUpgradeRequired, 426, "Upgrade Required"},
		{"internal error is masked", errors.New("pq: connection refused"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			raw, _ := io.ReadAll(resp.Body)
			var body BaseResponse[any]
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Title    string `validate:"required,max=10"`
		Category string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(&request{Title: "Benefits", Category: "HR"}))

	err := ValidateRequest(&request{Title: "A very long title indeed"})
	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))
	assert.Contains(t, err.Error(), "Title must be at most 10 characters")
	assert.Contains(t, err.Error(), "Category is required")
}
