package http

import (
	"encoding/json"
	"net/http"
)

type errorCode string

const (
	errCode_BadRequest    errorCode = "BAD_REQUEST"
	errCode_NotFound      errorCode = "NOT_FOUND"
	errCode_Conflict      errorCode = "CONFLICT"
	errCode_Gateway       errorCode = "GATEWAY_ERROR"
	errCode_InternalError errorCode = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
	Cause   string    `json:"cause,omitempty"`
}

type errorResp struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, err errorResp) {
	statusCode := http.StatusInternalServerError
	switch err.Error.Code {
	case errCode_BadRequest:
		statusCode = http.StatusBadRequest
	case errCode_NotFound:
		statusCode = http.StatusNotFound
	case errCode_Conflict:
		statusCode = http.StatusConflict
	case errCode_Gateway:
		statusCode = http.StatusBadGateway
	}
	respondJSON(w, statusCode, err)
}

func respondBadRequest(w http.ResponseWriter, message string) {
	respondError(w, errorResp{Error: errorBody{
		Code:    errCode_BadRequest,
		Message: message,
	}})
}
