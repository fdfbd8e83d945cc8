package voucher

import "errors"

var (
	ErrNilVoucher = errors.New("voucher: nil voucher")
)
