/*
Package handler provides the HTTP handlers and routing setup for the msghub server.

This file contains the HandleWebSocket function, which is responsible for rate
limiting, upgrading the HTTP connection to WebSocket, assigning the session
identifier, and initiating the client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"msghub/internal/app/hub"
	"msghub/internal/pkg/errs"
	"msghub/internal/pkg/limiter"
	"msghub/internal/pkg/logx"
	"msghub/internal/pkg/randx"
	"msghub/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		sessionID := randx.SessionID()
		client := hub.NewClient(sessionID, conn, deps.Router)

		deps.Router.HandleOpen(client)

		go client.WritePump()

		logx.Info("WebSocket connection established", "session_id", sessionID)

		client.ReadPump()
	}
}
