/*
Package handler provides the HTTP handlers and routing setup for the msghub server.

This file contains the HandleSendMessage function backing the send-and-return
endpoint: it persists one message through the store and echoes the stored
record back to the caller. It does not broadcast.
*/
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"msghub/internal/app/hub"
	"msghub/internal/pkg/errs"
	"msghub/internal/pkg/logx"
	"msghub/internal/pkg/req"
	"msghub/internal/pkg/resp"
)

// MaxContentBytes is the maximum allowed size (in bytes) for message content.
const MaxContentBytes = 5000

// sendRequest is the expected body of a send request.
type sendRequest struct {
	Content string `json:"content"`
}

// sendResponse is the stored record echoed back to the caller.
type sendResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// HandleSendMessage creates an HTTP HandlerFunc that persists a message and
// returns the stored record.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body sendRequest
		if customErr := req.BindJSON(w, r, &body); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if strings.TrimSpace(body.Content) == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageEmpty))
			return
		}

		if len(body.Content) > MaxContentBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

		// Stored in the same envelope shape the hub persists for live chat.
		frame, err := json.Marshal(struct {
			Type    hub.FrameType `json:"type"`
			Content string        `json:"content"`
		}{
			Type:    hub.FrameMessage,
			Content: body.Content,
		})
		if err != nil {
			logx.Error(err, "Failed to build message frame for storage")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		stored, err := deps.Store.Save(r.Context(), frame)
		if err != nil {
			logx.Error(err, "Failed to persist message from send endpoint")
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageStoreFailed))
			return
		}

		resp.RespondSuccess(w, r, sendResponse{
			ID:        stored.ID,
			Content:   body.Content,
			CreatedAt: stored.CreatedAt,
		})
	}
}
