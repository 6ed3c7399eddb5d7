package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"vahan-rc-bot/internal/scraper"
	"vahan-rc-bot/internal/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

const registryPage = `<html><body>
  <div class="col"><span>Owner Name</span><p>RAVI KUMAR</p></div>
  <div class="col"><span>Registered RTO</span><p>PUNE</p></div>
</body></html>`

// registry records the request paths it serves
type registry struct {
	mu    sync.Mutex
	paths []string
}

func (r *registry) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.paths = append(r.paths, req.URL.EscapedPath())
	r.mu.Unlock()
	w.Write([]byte(registryPage))
}

func TestTextLookupRequestsNormalizedPlate(t *testing.T) {
	reg := &registry{}
	server := httptest.NewServer(reg)
	defer server.Close()

	client := scraper.New(scraper.Options{
		BaseURL:   server.URL,
		Timeout:   2 * time.Second,
		UserAgent: func() string { return "test-agent/1.0" },
	})
	api := &fakeAPI{}
	b := New(api, services.NewLookupService(client), nil, Config{})

	b.HandleUpdate(context.Background(), textUpdate(" mh12ab1234 "))

	require.Equal(t, []string{"/rc-search/MH12AB1234"}, reg.paths)

	sent := api.Sent()
	require.Len(t, sent, 2)
	edit, ok := sent[1].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	require.Contains(t, edit.Text, "`MH12AB1234`")
	require.Contains(t, edit.Text, "• *Owner Name:* RAVI KUMAR")
	require.Contains(t, edit.Text, "• *Registered RTO:* PUNE")
}
