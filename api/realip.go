// Copyright (c) 2020 The Planck developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import "net/http"

// real client address headers, in trust order
const (
	cfConnectingIPHeader = "CF-Connecting-IP"
	realIPHeader         = "X-Real-IP"
)

// RealIPHandler rewrites RemoteAddr from proxy headers, so request logs show
// the originating client rather than the edge proxy.
func RealIPHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := r.Header.Get(cfConnectingIPHeader); ip != "" {
			r.RemoteAddr = ip
		} else if ip := r.Header.Get(realIPHeader); ip != "" {
			r.RemoteAddr = ip
		}
		handler.ServeHTTP(w, r)
	})
}
