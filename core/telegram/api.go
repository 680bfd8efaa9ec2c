package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiCallTimeout = 5 * time.Second

// registerWebhook points Telegram at the publicly reachable update URL.
func registerWebhook(token, publicURL string) error {
	if strings.TrimSpace(publicURL) == "" {
		return fmt.Errorf("empty webhook url")
	}
	return callBotAPI(token, "setWebhook", url.Values{"url": {publicURL}})
}

// deleteWebhook removes a previously registered webhook so long polling can
// take over, or so a stopping bot leaves no stale registration behind.
func deleteWebhook(token string, dropPending bool) error {
	vals := url.Values{"drop_pending_updates": {"false"}}
	if dropPending {
		vals.Set("drop_pending_updates", "true")
	}
	return callBotAPI(token, "deleteWebhook", vals)
}

func callBotAPI(token, method string, vals url.Values) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("empty token")
	}
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/%s", token, method)

	ctx, cancel := context.WithTimeout(context.Background(), apiCallTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(vals.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s status: %s", method, resp.Status)
	}
	return nil
}
