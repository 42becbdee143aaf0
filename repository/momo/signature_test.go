package momo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tienvum1/Rentzy--sub001/config"
)

var testCfg = config.Momo{
	PartnerCode: "MOMO",
	AccessKey:   "F8BBA842ECF85",
	SecretKey:   "K951B6PE1waDMi640xX08PD3vg6EkVlz",
	RedirectURL: "https://example.com/return",
	IpnURL:      "https://example.com/ipn",
}

var testPayload = IPNPayload{
	PartnerCode:  "MOMO",
	OrderID:      "12-req-1-deposit",
	RequestID:    "req-1",
	Amount:       50000,
	OrderInfo:    "pay with MoMo",
	OrderType:    "momo_wallet",
	TransID:      4088878653,
	ResultCode:   0,
	Message:      "Successful.",
	PayType:      "qr",
	ResponseTime: 1700000000000,
	ExtraData:    "",
}

func TestRawCreateSignature_FieldOrder(t *testing.T) {
	raw := rawCreateSignature(testCfg, CreateRequest{
		RequestID:   "req-1",
		OrderID:     "12-req-1-deposit",
		OrderInfo:   "pay with MoMo",
		ExtraData:   "",
		RequestType: "captureWallet",
		Amount:      50000,
	})
	want := "accessKey=F8BBA842ECF85&amount=50000&extraData=&ipnUrl=https://example.com/ipn" +
		"&orderId=12-req-1-deposit&orderInfo=pay with MoMo&partnerCode=MOMO" +
		"&redirectUrl=https://example.com/return&requestId=req-1&requestType=captureWallet"
	require.Equal(t, want, raw)
}

func TestSign_KnownVectors(t *testing.T) {
	createRaw := rawCreateSignature(testCfg, CreateRequest{
		RequestID:   "req-1",
		OrderID:     "12-req-1-deposit",
		OrderInfo:   "pay with MoMo",
		RequestType: "captureWallet",
		Amount:      50000,
	})
	require.Equal(t,
		"c360f5d8f5323543c1d39fadb599896f0ed4adc5aa55108a7a1b1456d91e7611",
		sign(createRaw, testCfg.SecretKey))

	ipnRaw := rawCallbackSignature(testCfg.AccessKey, testPayload)
	require.Equal(t,
		"6ea2b9280113e1b46500b73c8634d7b0cc0240d8eb3a0266feff2e63761820f7",
		sign(ipnRaw, testCfg.SecretKey))
}

func TestVerifyCallback(t *testing.T) {
	r := NewHTTP(testCfg)

	good := testPayload
	good.Signature = "6ea2b9280113e1b46500b73c8634d7b0cc0240d8eb3a0266feff2e63761820f7"
	require.NoError(t, r.VerifyCallback(good))

	// Any tampered field invalidates the signature.
	tampered := good
	tampered.Amount = 60000
	require.ErrorIs(t, r.VerifyCallback(tampered), ErrSignatureMismatch)

	forged := good
	forged.Signature = "0000000000000000000000000000000000000000000000000000000000000000"
	require.ErrorIs(t, r.VerifyCallback(forged), ErrSignatureMismatch)
}

func TestOrderID_RoundTrip(t *testing.T) {
	id := BuildOrderID(42, "0b6ad431-51ff-47c5-9c09-bd6a4539d012", "deposit")
	require.Equal(t, "42-0b6ad431-51ff-47c5-9c09-bd6a4539d012-deposit", id)

	got, err := ParseOrderID(id)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)

	noSuffix := BuildOrderID(7, "req", "")
	require.Equal(t, "7-req", noSuffix)
	got, err = ParseOrderID(noSuffix)
	require.NoError(t, err)
	require.Equal(t, int64(7), got)

	_, err = ParseOrderID("garbage")
	require.Error(t, err)
}
