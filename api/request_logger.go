// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"time"

	"github.com/planck-zk/planck/log"
)

// RequestLoggerHandler logs every request with its duration.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		handler.ServeHTTP(w, r)
		logger.Info("api request",
			"method", r.Method,
			"uri", r.URL.String(),
			"remote", r.RemoteAddr,
			"duration", time.Since(started),
		)
	})
}
