package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swasthya-bot/server/internal/agent/bot"
	"github.com/swasthya-bot/server/internal/agent/broadcast"
	errx "github.com/swasthya-bot/server/internal/core/error"
	"github.com/swasthya-bot/server/internal/transport/twilio"
)

type echoReplier struct{ got []bot.Inbound }

func (e *echoReplier) Reply(_ context.Context, in bot.Inbound) string {
	e.got = append(e.got, in)
	return "You said " + in.Body
}

type fakeBroadcaster struct {
	messages []string
	err      error
}

func (f *fakeBroadcaster) Send(_ context.Context, message string) (broadcast.Report, error) {
	if f.err != nil {
		return broadcast.Report{}, f.err
	}
	f.messages = append(f.messages, message)
	return broadcast.Report{ID: "b-1", Total: 2, Sent: 2}, nil
}

func postForm(t *testing.T, h http.Handler, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	h := NewRouter(Config{}, &echoReplier{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestWebhook(t *testing.T) {
	replier := &echoReplier{}
	h := NewRouter(Config{}, replier, nil)

	rec := postForm(t, h, url.Values{"From": {"whatsapp:+919876543210"}, "Body": {"vaccine"}, "Language": {"hi"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, twilio.ContentType, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "<Message>You said vaccine</Message>")
	require.Equal(t, []bot.Inbound{{Sender: "whatsapp:+919876543210", Body: "vaccine", Language: "hi"}}, replier.got)

	// no sender still gets an answer
	rec = postForm(t, h, url.Values{"Body": {"first aid"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<Message>You said first aid</Message>")
	require.Len(t, replier.got, 2)
	require.Empty(t, replier.got[1].Sender)
}

func TestWebhook_Signature(t *testing.T) {
	replier := &echoReplier{}
	h := NewRouter(Config{Validator: twilio.NewValidator("secret", "https://bot.example.org")}, replier, nil)

	rec := postForm(t, h, url.Values{"From": {"whatsapp:+1"}, "Body": {"hi"}}, map[string]string{twilio.SignatureHeader: "forged"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, replier.got)
}

func TestBroadcast(t *testing.T) {
	b := &fakeBroadcaster{}
	h := NewRouter(Config{BroadcastToken: "s3cret"}, &echoReplier{}, b)

	send := func(body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/broadcast", strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusUnauthorized, send(`{"message":"x"}`, "").Code)
	require.Equal(t, http.StatusUnauthorized, send(`{"message":"x"}`, "wrong").Code)
	require.Equal(t, http.StatusBadRequest, send(`{"message":`, "s3cret").Code)

	rec := send(`{"message":"Heatwave advisory: drink water."}`, "s3cret")
	require.Equal(t, http.StatusOK, rec.Code)
	var report broadcast.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, 2, report.Sent)
	require.Equal(t, []string{"Heatwave advisory: drink water."}, b.messages)

	b.err = errx.Missing("no subscribers found")
	rec = send(`{"message":"x"}`, "s3cret")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"no subscribers found"}`, rec.Body.String())
}

func TestBroadcast_NotMounted(t *testing.T) {
	h := NewRouter(Config{}, &echoReplier{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/broadcast", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
