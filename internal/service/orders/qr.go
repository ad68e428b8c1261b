package orders

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/khanape/khana-cli/internal/domain"
)

const (
	upiPayee     = "khanape@upi"
	upiPayeeName = "Khana"
	qrSize       = 256
)

// WritePaymentQR renders a UPI payment QR for the order into a PNG at
// path.
func WritePaymentQR(order domain.Order, path string) error {
	if err := qrcode.WriteFile(paymentURI(order), qrcode.Medium, qrSize, path); err != nil {
		return fmt.Errorf("write payment qr: %w", err)
	}
	return nil
}

// paymentURI builds the upi:// deep link encoding the payee and amount.
func paymentURI(order domain.Order) string {
	params := url.Values{}
	params.Set("pa", upiPayee)
	params.Set("pn", upiPayeeName)
	params.Set("am", fmt.Sprintf("%d.00", order.Total))
	params.Set("cu", "INR")
	params.Set("tn", "Order "+order.Number)
	return "upi://pay?" + params.Encode()
}
