package helpers

import (
	"encoding/json"
	"net/http"

	"github.com/isometry/ask-relay/internal/models"
)

// ContentTypeJSON is the content type of every relay response.
const ContentTypeJSON = "application/json; charset=utf-8"

// JSONResponse marshals v into a models.Response carrying the JSON content type.
func JSONResponse(statusCode int, v any) models.Response {
	body, err := json.Marshal(v)
	if err != nil {
		statusCode = http.StatusInternalServerError
		body = []byte(`{"error":"server error"}`)
	}
	return models.Response{
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": ContentTypeJSON},
		StatusCode: statusCode,
	}
}

// RespondHTTP writes response to rw. A zero status code is treated as 200.
func RespondHTTP(response models.Response, rw http.ResponseWriter) {
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	if rw.Header().Get("Content-Type") == "" {
		rw.Header().Set("Content-Type", ContentTypeJSON)
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}
