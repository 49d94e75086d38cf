package payments

import (
	"encoding/json"
	"time"
)

// TopicPaymentNotification carries acknowledged webhook notifications for
// asynchronous reconciliation.
const TopicPaymentNotification = "payment.notification"

// NotificationEvent is the queued form of an acknowledged webhook call.
// It only points at a payment to re-query; the approval fact always comes
// from the provider lookup, never from the pushed payload.
type NotificationEvent struct {
	PaymentID  string    `json:"paymentId"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Notification is the defensively decoded webhook input. Anything that is
// not a payment pointer is ignored.
type Notification struct {
	Topic     string
	PaymentID string
}

// IsPayment reports whether the notification points at a payment.
func (n Notification) IsPayment() bool {
	return n.Topic == "payment" && n.PaymentID != ""
}

type notificationBody struct {
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// DecodeNotification assembles a Notification from the webhook's query
// parameters and raw body. The provider varies where it puts the topic
// and payment id across notification versions, so every known location is
// checked; malformed bodies are ignored rather than rejected.
func DecodeNotification(topic, typ, queryID, dataID string, body []byte) Notification {
	n := Notification{Topic: firstNonEmpty(topic, typ)}

	n.PaymentID = firstNonEmpty(queryID, dataID)
	if n.PaymentID == "" && len(body) > 0 {
		var decoded notificationBody
		if err := json.Unmarshal(body, &decoded); err == nil {
			n.PaymentID = decoded.Data.ID.String()
		}
	}

	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
