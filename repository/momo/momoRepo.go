package momo

import "context"

// CreateRequest is one outbound payment-creation call. Amount travels as a
// decimal string on the wire; correlation ids are supplied by the caller so
// retries can reuse an existing ledger entry.
type CreateRequest struct {
	RequestID   string
	OrderID     string
	OrderInfo   string
	ExtraData   string
	RequestType string
	Amount      int64
}

type CreateResponse struct {
	PayURL     string
	ResultCode int
	Message    string
}

// IPNPayload is the callback body the gateway posts to the IPN URL, and the
// query-parameter set of the synchronous redirect. Both carry the same
// signed field set.
type IPNPayload struct {
	PartnerCode  string `json:"partnerCode" query:"partnerCode"`
	OrderID      string `json:"orderId" query:"orderId"`
	RequestID    string `json:"requestId" query:"requestId"`
	Amount       int64  `json:"amount" query:"amount"`
	OrderInfo    string `json:"orderInfo" query:"orderInfo"`
	OrderType    string `json:"orderType" query:"orderType"`
	TransID      int64  `json:"transId" query:"transId"`
	ResultCode   int    `json:"resultCode" query:"resultCode"`
	Message      string `json:"message" query:"message"`
	PayType      string `json:"payType" query:"payType"`
	ResponseTime int64  `json:"responseTime" query:"responseTime"`
	ExtraData    string `json:"extraData" query:"extraData"`
	Signature    string `json:"signature" query:"signature"`
}

// ResultCodeSuccess is the gateway's success code on both the create
// response and the callback.
const ResultCodeSuccess = 0

type Repo interface {
	// CreatePayment sends a signed creation request. The HTTP call is
	// bounded by the context deadline; a timeout is an unknown outcome, not
	// a failure.
	CreatePayment(ctx context.Context, req CreateRequest) (*CreateResponse, error)
	// VerifyCallback recomputes the callback signature and rejects on
	// mismatch. Mandatory on the IPN and the redirect path alike.
	VerifyCallback(p IPNPayload) error
}
