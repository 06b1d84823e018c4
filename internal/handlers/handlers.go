package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

func sendJSONOrLog(w http.ResponseWriter, status int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		Log.WithError(err).WithField("response", v).Error("unable to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		Log.WithError(err).Warn("unable to send response")
	}
}

func sendErrorOrLog(w http.ResponseWriter, status int, err error) {
	sendJSONOrLog(w, status, wrapError(err))
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
