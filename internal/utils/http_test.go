package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := models.UserResponse{Data: models.UserData{User: models.User{ID: "u-1", Username: "alice", Role: models.RoleViewer}}}

	n, err := WriteJSON(w, data, http.StatusOK)

	require.NoError(t, err)
	assert.NotZero(t, n)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got models.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.Data.User.Username)
}

func TestWriteJSON_ErrorBody(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, models.ErrorResponse{
		Error:  "validation failed",
		Fields: map[string]string{"email": "already taken"},
	}, http.StatusBadRequest)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"email":"already taken"}}`, w.Body.String())
}

func TestWriteJSON_EmptyData(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, models.EmptyResponse{}, http.StatusOK)

	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{}}`, w.Body.String())
}

func TestWriteJSON_InvalidData(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
