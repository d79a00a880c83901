package handler

import (
	"fmt"
	"net/http"

	"github.com/Lawrence9908/ecommerce-backend-api/common"
)

// ErrorHandlingMiddleware adapts an AppError-returning handler to http.HandlerFunc.
// A panicking handler is answered with a 500 instead of dropping the connection.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				common.NewInternalError(fmt.Errorf("panic in %s %s: %v", r.Method, r.URL.Path, rec)).Send(w)
			}
		}()

		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
