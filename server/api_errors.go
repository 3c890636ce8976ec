package bloodlinkserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/bloodlink/bloodlink-api/internal/shared/errors"
)

// problems routes service errors through the per-context mappers; anything
// unmapped is logged and masked as a generic internal problem.
var problems = apierrors.NewChainedResponder("",
	orderProblem,
	donorProblem,
	campaignProblem,
	institutionProblem,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondServiceError translates a domain or application error into its
// RFC 7807 problem response.
func respondServiceError(c *gin.Context, err error) {
	problems.RespondError(c, err)
}

// respondError preserves the existing call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	switch status {
	case http.StatusBadRequest:
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
	case http.StatusNotFound:
		respondProblem(c, apierrors.ErrNotFound.WithDetail(err.Error()))
	case http.StatusUnauthorized:
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
	case http.StatusForbidden:
		respondProblem(c, apierrors.ErrForbidden.WithDetail(err.Error()))
	case http.StatusConflict:
		respondProblem(c, apierrors.ErrConflict.WithDetail(err.Error()))
	default:
		problems.RespondError(c, err)
	}
}
