package bloodlinkserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/bloodlink/bloodlink-api/internal/domains/auth/domain"
	authports "github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"
	apierrors "github.com/bloodlink/bloodlink-api/internal/shared/errors"
)

// AuthenticationHeader carries the opaque session token.
const AuthenticationHeader = "Authentication"

const actorContextKey = "bloodlink.actor"

// AuthMiddleware resolves the session token into an Actor stored in
// the gin context. Requests without a token pass through; handlers
// that need an identity reject them via mustActor.
func AuthMiddleware(sessions authports.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(AuthenticationHeader))
		if token == "" {
			c.Next()
			return
		}
		actor, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, authports.ErrSessionNotFound) {
				respondProblem(c, apierrors.ErrUnauthorized.WithDetail("session token is invalid or expired"))
				c.Abort()
				return
			}
			problems.RespondError(c, err)
			c.Abort()
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) (authdomain.Actor, bool) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return authdomain.Actor{}, false
	}
	actor, ok := value.(authdomain.Actor)
	return actor, ok
}

// mustActor rejects unauthenticated requests with a 401 problem.
func mustActor(c *gin.Context) (authdomain.Actor, bool) {
	actor, ok := actorFrom(c)
	if !ok {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication token is required"))
		return authdomain.Actor{}, false
	}
	return actor, true
}

// mustInstitution rejects callers that are not a hospital or blood bank.
func mustInstitution(c *gin.Context) (authdomain.Actor, bool) {
	actor, ok := mustActor(c)
	if !ok {
		return authdomain.Actor{}, false
	}
	if !actor.IsInstitution() {
		respondProblem(c, apierrors.ErrForbidden.WithDetail("only hospitals and blood banks may perform this action"))
		return authdomain.Actor{}, false
	}
	return actor, true
}

// mustDonor rejects callers that are not donors.
func mustDonor(c *gin.Context) (authdomain.Actor, bool) {
	actor, ok := mustActor(c)
	if !ok {
		return authdomain.Actor{}, false
	}
	if actor.Kind != authdomain.KindDonor {
		respondProblem(c, apierrors.ErrForbidden.WithDetail("only donors may perform this action"))
		return authdomain.Actor{}, false
	}
	return actor, true
}

func sessionToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(AuthenticationHeader))
}
