package handler

import (
	"net/http"

	"github.com/mcoot/tictacgame-go/internal/api/apierr"
)

// WriteError forwards to the shared apierr mapping so handlers don't
// import two error packages
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}
