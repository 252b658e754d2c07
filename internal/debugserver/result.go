package debugserver

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// errorBody is the JSON shape of any non-2xx response.
type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// result is a pending HTTP response: a status and a body that write
// marshals to JSON.
type result struct {
	status int
	body   interface{}
}

func ok(body interface{}) result { return result{status: http.StatusOK, body: body} }

func errResult(status int, format string, a ...interface{}) result {
	return result{status: status, body: errorBody{Error: fmt.Sprintf(format, a...), Status: status}}
}

func badRequest(format string, a ...interface{}) result {
	return errResult(http.StatusBadRequest, format, a...)
}

func unauthorized(format string, a ...interface{}) result {
	return errResult(http.StatusUnauthorized, format, a...)
}

func internalServerError(format string, a ...interface{}) result {
	return errResult(http.StatusInternalServerError, format, a...)
}

// write marshals r.body as JSON and writes the response, panicking only
// if the body itself is unmarshalable (a programmer error, since every
// body type here is a plain struct or map).
func (r result) write(w http.ResponseWriter) {
	data, err := json.Marshal(r.body)
	if err != nil {
		panic(fmt.Sprintf("debugserver: could not marshal response: %s", err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.status)
	w.Write(data)
}
