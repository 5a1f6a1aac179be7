package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMailer_Send(t *testing.T) {
	var got outgoingEmail
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer mail-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "mail-key", "noreply@sportsmeet.app", time.Second)
	err := m.Send(context.Background(), Email{To: []string{"ada@example.com"}, Subject: "Kickoff moved", Text: "Now 11:00"})

	require.NoError(t, err)
	assert.Equal(t, "noreply@sportsmeet.app", got.From)
	assert.Equal(t, []string{"ada@example.com"}, got.To)
	assert.Equal(t, "Now 11:00", got.Text)
}

func TestHTTPMailer_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "domain not verified", http.StatusForbidden)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "mail-key", "noreply@sportsmeet.app", time.Second)
	err := m.Send(context.Background(), Email{To: []string{"ada@example.com"}, Subject: "s", HTML: "<p>x</p>"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "domain not verified")
}

func TestHTTPMailer_Rejects(t *testing.T) {
	m := NewHTTPMailer("", "", "", time.Second)
	assert.ErrorIs(t, m.Send(context.Background(), Email{}), ErrEmailDisabled)

	m = NewHTTPMailer("https://example.invalid", "key", "from@example.com", time.Second)
	err := m.Send(context.Background(), Email{To: []string{"ada@example.com"}, Subject: "no body"})
	assert.ErrorIs(t, err, models.ErrValidation)
}
