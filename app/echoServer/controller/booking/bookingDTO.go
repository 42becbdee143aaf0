package booking

import "time"

type ReserveReq struct {
	VehicleID      int64     `json:"vehicle_id" validate:"required,gt=0"`
	StartAt        time.Time `json:"start_at" validate:"required"`
	EndAt          time.Time `json:"end_at" validate:"required"`
	DiscountAmount int64     `json:"discount_amount" validate:"gte=0"`
}

type CancelReq struct {
	Reason string `json:"reason" validate:"required"`
}

type InitiatePaymentReq struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Method string `json:"method" validate:"required,oneof=WALLET GATEWAY"`
	Kind   string `json:"kind" validate:"required,oneof=DEPOSIT RENTAL"`
}
