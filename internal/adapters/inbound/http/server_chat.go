package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mirahq/academy-crm/internal/usecases"
)

type sendChatTurnReq struct {
	Message     string  `json:"message"`
	Mode        string  `json:"mode"`
	ImageBase64 *string `json:"image_base64"`
}

// SendChatTurn runs one request/response assistant turn. Only one turn may be
// in flight at a time; concurrent requests get a 409.
func (api *AcademyServer) SendChatTurn(w http.ResponseWriter, r *http.Request) {
	var req sendChatTurnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	mode, err := toAssistantMode(req.Mode)
	if err != nil {
		respondError(w, toError(err))
		return
	}

	if !api.acquireTurn() {
		respondError(w, errorResp{Error: errorBody{
			Code:    errCode_Conflict,
			Message: "another assistant turn is already in progress",
		}})
		return
	}
	defer api.releaseTurn()

	var opts []usecases.SendTurnOption
	if req.ImageBase64 != nil {
		opts = append(opts, usecases.WithImage(*req.ImageBase64))
	}

	reply, err := api.SendTurnUseCase.Execute(r.Context(), req.Message, mode, opts...)
	if err != nil {
		api.Logger.Printf("Error executing assistant turn: %v", err)
		respondError(w, toError(err))
		return
	}

	respondJSON(w, http.StatusOK, toChatMessage(reply))
}

func (api *AcademyServer) acquireTurn() bool {
	api.turnInFlight.Lock()
	defer api.turnInFlight.Unlock()
	if api.turnBusy {
		return false
	}
	api.turnBusy = true
	return true
}

func (api *AcademyServer) releaseTurn() {
	api.turnInFlight.Lock()
	api.turnBusy = false
	api.turnInFlight.Unlock()
}

type conversationResp struct {
	Messages []chatMessageResp `json:"messages"`
	pagination
}

func (api *AcademyServer) ListConversationMessages(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	messages, hasMore, err := api.ListConversationUseCase.Query(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, toError(err))
		return
	}

	resp := conversationResp{Messages: []chatMessageResp{}, pagination: toPagination(page, hasMore)}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, toChatMessage(msg))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (api *AcademyServer) ClearConversationMessages(w http.ResponseWriter, r *http.Request) {
	err := api.ClearConversationUseCase.Execute(r.Context())
	if err != nil {
		respondError(w, toError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
