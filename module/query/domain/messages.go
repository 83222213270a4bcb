package domain

import "errors"

// ZeroAmount is how the webhook formats a zero currency value.
const ZeroAmount = "0,00 ₺"

const (
	MsgPlateRequired = "Plaka numarası gereklidir"
	MsgQueryFailed   = "Sorgu sırasında bir hata oluştu"
	MsgConnection    = "Bağlantı hatası. Lütfen tekrar deneyin."
	MsgDefaultError  = "Bir hata oluştu"
	MsgRateLimited   = "Çok fazla sorgu. Lütfen biraz sonra tekrar deneyin."
	MsgNoDebt        = "Borcunuz bulunmamaktadır"
)

var (
	ErrPlateRequired = errors.New("plate required")
	ErrUpstream      = errors.New("upstream query failed")
)
