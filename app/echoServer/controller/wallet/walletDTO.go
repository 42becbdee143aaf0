package wallet

type AmountReq struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type ReviewReq struct {
	Approve bool `json:"approve"`
}
