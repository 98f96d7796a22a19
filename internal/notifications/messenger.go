package notifications

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

const shareBaseURL = "https://wa.me/"

// OutboundMessage is the text handed to a vendor's contact channel.
type OutboundMessage struct {
	VendorID string
	Phone    string
	Text     string
}

// Messenger hands a message to an external delivery facility.
type Messenger interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

var errNoPhone = errors.New("vendor has no usable phone number")

// LogMessenger records the message and its share link. Delivery happens
// outside the service when an operator opens the link.
type LogMessenger struct {
	logg        *logger.Logger
	countryCode string
}

func NewLogMessenger(logg *logger.Logger, countryCode string) *LogMessenger {
	return &LogMessenger{logg: logg, countryCode: countryCode}
}

func (m *LogMessenger) Send(ctx context.Context, msg OutboundMessage) error {
	link, err := ShareLink(msg.Phone, m.countryCode, msg.Text)
	if err != nil {
		return err
	}
	ctx = m.logg.WithFields(ctx, map[string]any{
		"vendor_id":  msg.VendorID,
		"share_link": link,
	})
	m.logg.Info(ctx, "vendor message prepared")
	return nil
}

// ShareLink builds a click-to-chat link. Ten digit local numbers get the
// country code prepended.
func ShareLink(phone, countryCode, text string) (string, error) {
	digits := digitsOnly(phone)
	if digits == "" {
		return "", errNoPhone
	}
	if len(digits) == 10 && countryCode != "" {
		digits = digitsOnly(countryCode) + digits
	}
	return shareBaseURL + digits + "?text=" + url.QueryEscape(text), nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
