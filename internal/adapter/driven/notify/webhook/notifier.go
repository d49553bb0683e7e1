// Package webhook delivers call invites to an external dispatch endpoint,
// typically a push-notification relay for recipients without an open
// connection.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/peerline/peerline/internal/core/domain"
)

type Notifier struct {
	url    string
	client *http.Client
}

func NewNotifier(url string, timeout time.Duration) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type invitePayload struct {
	Recipient  string `json:"recipient"`
	RoomID     string `json:"room_id"`
	CallerName string `json:"caller_name"`
}

func (n *Notifier) Notify(ctx context.Context, recipient domain.UserID, invite domain.CallInvite) error {
	body, err := json.Marshal(invitePayload{
		Recipient:  recipient.String(),
		RoomID:     invite.RoomID.String(),
		CallerName: invite.CallerName,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
