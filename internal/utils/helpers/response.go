package helpers

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Data     interface{}       `json:"data,omitempty"`
	Error    string            `json:"error,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, Response{Data: data})
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	write(w, status, Response{Error: errMsg})
}

// FieldErrors — ошибки валидации формы по полям.
func FieldErrors(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusBadRequest, Response{Error: "validation failed", Fields: fields})
}

// ErrorRedirect — ошибка с подсказкой клиенту, куда перейти дальше.
func ErrorRedirect(w http.ResponseWriter, status int, errMsg, redirect string) {
	write(w, status, Response{Error: errMsg, Redirect: redirect})
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
