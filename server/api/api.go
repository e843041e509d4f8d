package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dekarrin/ll1gen/internal/cache"
	"github.com/dekarrin/ll1gen/server/dao"
)

// Deps holds the dependencies shared by every endpoint handler.
type Deps struct {
	DB              dao.Store
	JWTSecret       []byte
	Cache           *cache.Cache
	MaxGrammarBytes int
}

// v must be a pointer to a type.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(bodyData, v); err != nil {
		return fmt.Errorf("malformed JSON in request")
	}

	return nil
}
