package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsKeyAndDecodesEnvelope(t *testing.T) {
	var gotKey, gotPath string
	var gotBody RoundRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		code, body := NewSuccessResponse("Round recorded successfully", SessionState{
			ID:     "abc",
			Page:   "trial",
			Prompt: "Bom dia",
			Rounds: []Round{{Round: 1, ModelText: "Boa noite", UserTranscription: "boa noite"}},
		}).AsGinResponse()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer server.Close()

	state, err := NewClient(server.URL, "secret").SubmitRound(context.Background(), "abc", "boa noite")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "/api/sessions/abc/rounds", gotPath)
	assert.Equal(t, "boa noite", gotBody.Transcription)
	assert.Equal(t, "Bom dia", state.Prompt)
	require.Len(t, state.Rounds, 1)
	assert.Equal(t, "Boa noite", state.Rounds[0].ModelText)
}

func TestClientErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-KEY"))

		code, body := NewErrorResponse(http.StatusBadGateway, "Failed to submit session", assert.AnError).AsGinResponse()
		w.WriteHeader(code)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").Finalize(context.Background(), "abc")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, "Failed to submit session", apiErr.Message)
	assert.Equal(t, assert.AnError.Error(), apiErr.Detail)
	assert.Contains(t, err.Error(), "502 Failed to submit session")
}

func TestClientErrorWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").Health(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Code)
	assert.Contains(t, apiErr.Message, "upstream down")
}

func TestClientStartSessionRequiresID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, body := NewSuccessResponse("Session started successfully", SessionState{}).AsGinResponse()
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").StartSession(context.Background(), &Intake{})
	assert.EqualError(t, err, "no id returned")
}

func TestNewErrorResponse(t *testing.T) {
	res := NewErrorResponse(http.StatusNotFound, "Session not found", assert.AnError)
	assert.Equal(t, assert.AnError.Error(), res.Error)

	res = NewErrorResponse(http.StatusBadRequest, "bad limit", nil)
	assert.Nil(t, res.Error)

	code, _ := res.AsGinResponse()
	assert.Equal(t, http.StatusBadRequest, code)
}
