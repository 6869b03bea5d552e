package server

import (
	"errors"

	"scribe/internal/models"
	"scribe/internal/pagination"
	"scribe/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// listInput copies the listing parameters out of the request. Fiber reuses
// the request buffers once the handler returns, and the values outlive it in
// exported span attributes.
func listInput(c *fiber.Ctx) service.ListPostsInput {
	return service.ListPostsInput{
		Query: utils.CopyString(c.Query("q")),
		Page:  utils.CopyString(c.Query("page")),
	}
}

// PageResponse is the JSON shape of every paginated post listing.
type PageResponse struct {
	Items        []models.Post `json:"items"`
	CurrentPage  int           `json:"current_page"`
	TotalPages   int           `json:"total_pages"`
	TotalItems   int           `json:"total_items"`
	PerPage      int           `json:"per_page"`
	HasNext      bool          `json:"has_next"`
	HasPrevious  bool          `json:"has_previous"`
	NextPage     *int          `json:"next_page"`
	PreviousPage *int          `json:"previous_page"`
	Query        string        `json:"query,omitempty"`
	Tag          *models.Tag   `json:"tag,omitempty"`
}

func newPageResponse(page pagination.Page[models.Post]) PageResponse {
	items := page.Items
	if items == nil {
		items = []models.Post{}
	}
	return PageResponse{
		Items:        items,
		CurrentPage:  page.Number,
		TotalPages:   page.TotalPages,
		TotalItems:   page.TotalItems,
		PerPage:      page.PerPage,
		HasNext:      page.HasNext(),
		HasPrevious:  page.HasPrevious(),
		NextPage:     page.NextPageNumber(),
		PreviousPage: page.PreviousPageNumber(),
	}
}
