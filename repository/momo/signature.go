package momo

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/tienvum1/Rentzy--sub001/config"
)

// The gateway signs a canonical query string with a protocol-fixed field
// order, not an alphabetical or caller-chosen one. Field order here is
// bit-exact; changing it breaks verification against the provider.

func rawCreateSignature(cfg config.Momo, req CreateRequest) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		cfg.AccessKey, req.Amount, req.ExtraData, cfg.IpnURL, req.OrderID,
		req.OrderInfo, cfg.PartnerCode, cfg.RedirectURL, req.RequestID, req.RequestType,
	)
}

func rawCallbackSignature(accessKey string, p IPNPayload) string {
	return fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%d&resultCode=%d&transId=%d",
		accessKey, p.Amount, p.ExtraData, p.Message, p.OrderID, p.OrderInfo,
		p.OrderType, p.PartnerCode, p.PayType, p.RequestID, p.ResponseTime,
		p.ResultCode, p.TransID,
	)
}

func sign(raw, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(raw, secret, got string) bool {
	want := sign(raw, secret)
	return hmac.Equal([]byte(want), []byte(got))
}
