package middleware

import (
	"fmt"
	"net/http"

	"github.com/DhanaAnjana/DocuMind/internal/api"
)

// MaxBodyBytes bounds request bodies to DOCUMIND_MAX_UPLOAD_BYTES. Uploads
// that declare a larger Content-Length get 413 before any bytes reach the
// upload store; chunked bodies fail their read once the limit is crossed.
// A limit <= 0 disables the check.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds the %d byte limit", limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
