package scraper

import (
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// instrument debug-logs every exchange with the registry.
func instrument(client *resty.Client) {
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		ctx := res.Request.Context()
		if !slog.Default().Enabled(ctx, slog.LevelDebug) {
			return nil
		}
		url := ""
		if res.Request.RawRequest != nil {
			url = res.Request.RawRequest.URL.String()
		}
		slog.DebugContext(
			ctx, "registry response",
			"method", res.Request.Method,
			"url", url,
			"status", res.StatusCode(),
			"duration", res.Time(),
			"bytes", len(res.Body()),
		)
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		slog.WarnContext(req.Context(), "registry request failed", "url", req.URL, "err", err)
	})
}
