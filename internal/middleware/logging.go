package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"client": clientIP(r),
				"ua":     r.Header.Get("User-Agent"),
			}
			if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
				fields["route"] = route.GetName()
			}
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}
			log.WithFields(fields).Debug(" ====> request")
			next.ServeHTTP(w, r)
		})
	}
}
