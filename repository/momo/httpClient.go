package momo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tienvum1/Rentzy--sub001/config"
	"github.com/tienvum1/Rentzy--sub001/util/httpx"
)

// ErrSignatureMismatch is returned by VerifyCallback; callers must treat it
// as an authenticity failure, never as a transient error.
var ErrSignatureMismatch = errors.New("momo: callback signature mismatch")

type httpRepo struct {
	cfg    config.Momo
	client *http.Client
}

// NewHTTP builds the gateway client. Credentials come in through cfg; there
// is no package-level provider state.
func NewHTTP(cfg config.Momo) Repo {
	return &httpRepo{cfg: cfg, client: httpx.Client()}
}

func (r *httpRepo) CreatePayment(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	body := map[string]any{
		"partnerCode": r.cfg.PartnerCode,
		"requestId":   req.RequestID,
		"amount":      strconv.FormatInt(req.Amount, 10),
		"orderId":     req.OrderID,
		"orderInfo":   req.OrderInfo,
		"redirectUrl": r.cfg.RedirectURL,
		"ipnUrl":      r.cfg.IpnURL,
		"extraData":   req.ExtraData,
		"requestType": req.RequestType,
		"lang":        "vi",
		"signature":   sign(rawCreateSignature(r.cfg, req), r.cfg.SecretKey),
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		// Timeouts included: the caller leaves its ledger entry PENDING and
		// waits for the IPN or a reconciliation poll.
		return nil, fmt.Errorf("momo create payment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("momo create payment failed: %s", resp.Status)
	}

	var out struct {
		PayURL     string `json:"payUrl"`
		ResultCode int    `json:"resultCode"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ResultCode != ResultCodeSuccess {
		return nil, fmt.Errorf("momo create payment rejected: %d %s", out.ResultCode, out.Message)
	}
	if out.PayURL == "" {
		return nil, errors.New("momo: empty pay url")
	}
	return &CreateResponse{PayURL: out.PayURL, ResultCode: out.ResultCode, Message: out.Message}, nil
}

func (r *httpRepo) VerifyCallback(p IPNPayload) error {
	if !verify(rawCallbackSignature(r.cfg.AccessKey, p), r.cfg.SecretKey, p.Signature) {
		return ErrSignatureMismatch
	}
	return nil
}
