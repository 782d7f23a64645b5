package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/tictacgame-go/internal/api/apierr"
	"github.com/mcoot/tictacgame-go/internal/middleware"
)

// Recovery is the shared recovery middleware specialized to the API's
// JSON error envelope: a panic becomes an INTERNAL_ERROR response
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
}
