package http

import (
	"mime"
	"net/http"

	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/httputil"
)

const jsonMediaType = "application/json"

// ContentTypeJSON rejects request bodies that declare a non-JSON content type.
// A missing header is accepted so curl-style clients keep working.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasBody(r) {
			if ct := r.Header.Get("Content-Type"); ct != "" {
				mt, _, err := mime.ParseMediaType(ct)
				if err != nil || mt != jsonMediaType {
					httputil.WriteAppError(w, r, apperrors.UnsupportedMediaType(jsonMediaType))
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return r.ContentLength > 0
}
